package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgie-app/budgie/internal/mockapi"

	"github.com/spf13/cobra"
)

var (
	flagMockAddr   string
	flagMockPrefix string
	flagMockToken  string
	flagMockEmpty  bool
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve an in-memory budgeting API for offline use",
	Long: "Serve an in-memory budgeting API with sample data. Point budgie at it with\n" +
		"--api-url http://127.0.0.1:8000/api. Data is lost when the server stops.",
	RunE: runMock,
}

func init() {
	mockCmd.Flags().StringVar(&flagMockAddr, "addr", "127.0.0.1:8000", "HTTP listen address")
	mockCmd.Flags().StringVar(&flagMockPrefix, "prefix", "/api", "Path prefix for resource routes")
	mockCmd.Flags().StringVar(&flagMockToken, "token", "", "Require this bearer token")
	mockCmd.Flags().BoolVar(&flagMockEmpty, "empty", false, "Start without sample data")
	rootCmd.AddCommand(mockCmd)
}

func runMock(_ *cobra.Command, _ []string) error {
	srv := mockapi.New(mockapi.Config{
		Addr:   flagMockAddr,
		Prefix: flagMockPrefix,
		Token:  flagMockToken,
		Seed:   !flagMockEmpty,
	})

	fmt.Printf("  budgie mock API on http://%s%s\n", flagMockAddr, flagMockPrefix)
	fmt.Println("  Stop with Ctrl+C")

	ctx, cancel := signalContext()
	defer cancel()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
