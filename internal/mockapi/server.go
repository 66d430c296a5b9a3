// Package mockapi serves an in-memory budgeting API that follows the same
// list/create/update/delete conventions as the real backend.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/resources"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Config controls the mock server.
type Config struct {
	Addr            string
	Prefix          string // path the resources are mounted under, e.g. "/api"
	Token           string // when set, requests need "Authorization: Bearer <token>"
	Seed            bool
	DefaultPageSize int
	MaxPageSize     int
}

// Server holds one table per resource.
type Server struct {
	cfg    Config
	tables map[string]*table
}

// New returns a server with defaults applied. Seeded data is loaded when
// cfg.Seed is set.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8000"
	}
	cfg.Prefix = strings.TrimRight(cfg.Prefix, "/")
	if cfg.Prefix != "" && !strings.HasPrefix(cfg.Prefix, "/") {
		cfg.Prefix = "/" + cfg.Prefix
	}
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = 10
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = 100
	}

	s := &Server{cfg: cfg, tables: make(map[string]*table)}
	for _, res := range resources.All {
		s.tables[res.Endpoint] = newTable(res)
	}
	if cfg.Seed {
		s.seed()
	}
	return s
}

// Insert adds a row to the table behind endpoint and returns it with its
// assigned id.
func (s *Server) Insert(endpoint string, fields map[string]any) (model.Row, error) {
	t, ok := s.tables[endpoint]
	if !ok {
		return nil, fmt.Errorf("mockapi: unknown endpoint %q", endpoint)
	}
	row := t.insert(fields)
	s.link(t, row)
	return row, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		if s.cfg.Prefix != "" {
			r.Route(s.cfg.Prefix, s.mountResources)
			return
		}
		s.mountResources(r)
	})
	return r
}

func (s *Server) mountResources(r chi.Router) {
	for endpoint := range s.tables {
		t := s.tables[endpoint]
		r.Route("/"+endpoint, func(r chi.Router) {
			r.Get("/", s.handleList(t))
			r.Post("/", s.handleCreate(t))
			r.Get("/{id}/", s.handleGet(t))
			r.Patch("/{id}/", s.handleUpdate(t))
			r.Delete("/{id}/", s.handleDelete(t))
		})
	}
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info().Str("component", "mockapi").Str("addr", s.cfg.Addr).Msg("mock API listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("mockapi http server: %w", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("component", "mockapi").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleList(t *table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := s.parseListQuery(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, t.list(q))
	}
}

func (s *Server) parseListQuery(r *http.Request) (listQuery, error) {
	params := r.URL.Query()
	q := listQuery{pageSize: s.cfg.DefaultPageSize, filters: map[string]string{}}

	if v := params.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, fmt.Errorf("invalid page %q", v)
		}
		q.page = n
	}
	if v := params.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, fmt.Errorf("invalid page_size %q", v)
		}
		q.pageSize = min(n, s.cfg.MaxPageSize)
	}
	q.ordering = params.Get("ordering")

	for key, vals := range params {
		switch key {
		case "page", "page_size", "ordering":
			continue
		}
		if len(vals) > 0 && vals[len(vals)-1] != "" {
			q.filters[key] = vals[len(vals)-1]
		}
	}
	return q, nil
}

func (s *Server) handleGet(t *table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, ok := t.get(chi.URLParam(r, "id"))
		if !ok {
			writeNotFound(w)
			return
		}
		writeJSON(w, http.StatusOK, row)
	}
}

func (s *Server) handleCreate(t *table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := decodeBody(w, r)
		if !ok {
			return
		}
		if detail := missingRequired(t.res.Columns, fields, false); len(detail) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": detail})
			return
		}
		delete(fields, model.IDField)
		delete(fields, model.NewField)
		row := t.insert(fields)
		writeJSON(w, http.StatusCreated, s.link(t, row))
	}
}

func (s *Server) handleUpdate(t *table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := decodeBody(w, r)
		if !ok {
			return
		}
		if detail := missingRequired(t.res.Columns, fields, true); len(detail) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": detail})
			return
		}
		delete(fields, model.NewField)
		row, found := t.patch(chi.URLParam(r, "id"), fields)
		if !found {
			writeNotFound(w)
			return
		}
		writeJSON(w, http.StatusOK, s.link(t, row))
	}
}

func (s *Server) handleDelete(t *table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !t.remove(chi.URLParam(r, "id")) {
			writeNotFound(w)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"detail": map[string][]string{"non_field_errors": {"Invalid data. Expected a dictionary."}},
		})
		return nil, false
	}
	return fields, true
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
