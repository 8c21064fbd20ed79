package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridbook/gridbook/internal/config"
	"github.com/gridbook/gridbook/internal/reputation"
	"github.com/gridbook/gridbook/internal/service"
	"github.com/gridbook/gridbook/internal/storage"
)

// openStore opens and migrates the reputation database. Edit commands treat
// a failure as fatal; the watch loop degrades instead (see openStoreOrNil).
func openStore(ctx context.Context, settings config.Settings) (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(settings.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open reputation database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate reputation database: %w", err)
	}
	return store, nil
}

// openStoreOrNil opens the database but degrades to nil on failure, which
// puts the tracker into memory-only mode. Tagging keeps working for the
// session; nothing is saved.
func openStoreOrNil(ctx context.Context, settings config.Settings) *storage.SQLiteStore {
	store, err := openStore(ctx, settings)
	if err != nil {
		slog.Warn("Persistence disabled, reputations will not be saved", "error", err)
		return nil
	}
	return store
}

// newTracker builds a tracker over the (possibly nil) store and loads the
// persisted map. A failed load logs and continues empty, per the startup
// policy: a corrupt history must not block a session.
func newTracker(ctx context.Context, store *storage.SQLiteStore, settings config.Settings) *reputation.Tracker {
	var backing service.Storage
	if store != nil {
		backing = store
	}

	tr := reputation.NewTracker(backing, reputation.Options{
		FlushDebounce:   settings.FlushDebounce,
		LastSeen:        settings.LastSeen,
		MaxWriteRetries: settings.MaxWriteRetries,
	})
	if err := tr.Load(ctx); err != nil {
		slog.Warn("Could not load existing reputations, continuing empty", "error", err)
	}
	return tr
}
