package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("api: not found")
	// ErrUnauthorized indicates a missing or rejected API token.
	ErrUnauthorized = errors.New("api: unauthorized")
)

// ValidationError is a 4xx response whose detail is keyed by field name.
type ValidationError struct {
	Status int
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := e.FieldNames()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return fmt.Sprintf("api: validation failed (%d): %s", e.Status, strings.Join(parts, "; "))
}

// FieldNames returns the field keys in sorted order.
func (e *ValidationError) FieldNames() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StatusError is any other non-2xx response.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: unexpected status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// Is lets errors.Is match the sentinel for 401/403 and 404 responses.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// decodeError turns a non-2xx body into a ValidationError or StatusError.
// Validation detail is accepted as {"detail": {field: [msgs]}}; a bare
// {field: [msgs]} body on 400 is treated the same way.
func decodeError(status int, body []byte) error {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Detail) > 0 {
		if fields, ok := parseFieldErrors(env.Detail); ok && status >= 400 && status < 500 {
			return &ValidationError{Status: status, Fields: fields}
		}
		var msg string
		if err := json.Unmarshal(env.Detail, &msg); err == nil {
			return &StatusError{Status: status, Detail: msg}
		}
		return &StatusError{Status: status, Detail: string(env.Detail)}
	}

	if status == http.StatusBadRequest {
		if fields, ok := parseFieldErrors(body); ok {
			return &ValidationError{Status: status, Fields: fields}
		}
	}
	return &StatusError{Status: status}
}

// parseFieldErrors reads an object whose values are a message or a list of
// messages. Nested objects are flattened into "parent.child" keys.
func parseFieldErrors(raw json.RawMessage) (map[string][]string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || len(obj) == 0 {
		return nil, false
	}

	fields := make(map[string][]string, len(obj))
	for key, val := range obj {
		var list []string
		if err := json.Unmarshal(val, &list); err == nil {
			fields[key] = list
			continue
		}
		var one string
		if err := json.Unmarshal(val, &one); err == nil {
			fields[key] = []string{one}
			continue
		}
		if nested, ok := parseFieldErrors(val); ok {
			for nk, nv := range nested {
				fields[key+"."+nk] = nv
			}
			continue
		}
		return nil, false
	}
	return fields, true
}
