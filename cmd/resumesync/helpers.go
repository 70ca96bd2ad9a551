package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-sync/internal/clock"
	"github.com/jonathan/resume-sync/internal/config"
	"github.com/jonathan/resume-sync/internal/identity"
	"github.com/jonathan/resume-sync/internal/remote"
	"github.com/jonathan/resume-sync/internal/schemas"
	"github.com/jonathan/resume-sync/internal/types"
)

// readResumeFile loads and schema-validates a resume document from
// disk.
func readResumeFile(path string) (types.ResumeDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.ResumeDocument{}, fmt.Errorf("failed to read resume file %s: %w", path, err)
	}
	if err := schemas.ValidateResume(raw); err != nil {
		return types.ResumeDocument{}, err
	}
	var doc types.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("failed to parse resume JSON: %w", err)
	}
	return doc, nil
}

// newRemoteClient connects to the configured Postgres store and wraps
// it in a sync client for the configured user.
func newRemoteClient(ctx context.Context, cfg config.Config) (*remote.Client, *remote.PostgresStore, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL not set (set DATABASE_URL or use a config file)")
	}

	store, err := remote.NewPostgresStore(ctx, cfg.DatabaseURL, newLogger(cfg))
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	var ids identity.Provider
	switch {
	case cfg.JWTToken != "":
		ids = identity.NewTokenProvider(cfg.JWTSecret, cfg.JWTToken)
	case cfg.UserID != "":
		ids = identity.Static{UserID: cfg.UserID}
	default:
		store.Close()
		return nil, nil, fmt.Errorf("no user configured (set RESUME_USER_ID or a JWT token)")
	}

	client := remote.NewClient(store, ids, clock.System{}, newLogger(cfg))
	return client, store, nil
}

// fetchList picks the right read for the list command's flags.
func fetchList(ctx context.Context, client *remote.Client, search string, limit int) ([]types.ResumeListItem, error) {
	if search != "" {
		return client.Search(ctx, search)
	}
	if limit > 0 {
		return client.ListRecent(ctx, limit)
	}
	return client.List(ctx)
}
