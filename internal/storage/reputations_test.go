package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridbook/gridbook/internal/common"
	"github.com/gridbook/gridbook/internal/model"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	// Running migrations again must be a no-op, not an error.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestSQLiteStore_UpsertRoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	rep := &model.Reputation{
		CustomerID:     443211,
		UserName:       "Ana Castillo",
		BehaviorFlags:  model.BehaviorCleanDriver | model.BehaviorGoodRacer,
		TrustLevel:     model.TrustTrusted,
		Notes:          "Great battle at Spa",
		EncounterCount: 3,
		LastSeen:       "2026-04-12",
		LastUpdated:    time.Unix(1760000000, 0),
		TrustScore:     0.5,
	}
	if err := store.Upsert(ctx, rep); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	got, ok := loaded[rep.CustomerID]
	if !ok {
		t.Fatalf("customer %d not loaded", rep.CustomerID)
	}

	if got.UserName != rep.UserName {
		t.Errorf("UserName = %q, want %q", got.UserName, rep.UserName)
	}
	if got.BehaviorFlags != rep.BehaviorFlags {
		t.Errorf("BehaviorFlags = %d, want %d", got.BehaviorFlags, rep.BehaviorFlags)
	}
	if got.Notes != rep.Notes {
		t.Errorf("Notes = %q, want %q", got.Notes, rep.Notes)
	}
	if got.EncounterCount != rep.EncounterCount {
		t.Errorf("EncounterCount = %d, want %d", got.EncounterCount, rep.EncounterCount)
	}
	if got.LastSeen != rep.LastSeen {
		t.Errorf("LastSeen = %q, want %q", got.LastSeen, rep.LastSeen)
	}
	if !got.LastUpdated.Equal(rep.LastUpdated) {
		t.Errorf("LastUpdated = %v, want %v", got.LastUpdated, rep.LastUpdated)
	}
	if got.TrustScore != rep.TrustScore {
		t.Errorf("TrustScore = %v, want %v", got.TrustScore, rep.TrustScore)
	}
	// Trust level is recomputed on load; with an unchanged rule it must
	// match what was stored.
	if got.TrustLevel != rep.TrustLevel {
		t.Errorf("TrustLevel = %v, want %v", got.TrustLevel, rep.TrustLevel)
	}
}

func TestSQLiteStore_UpsertReplacesRow(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	rep := model.NewReputation(777, "First Name")
	if err := store.Upsert(ctx, rep); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	rep.UserName = "Updated Name"
	rep.AddBehavior(model.BehaviorRammer)
	rep.Notes = "turned me around twice"
	if err := store.Upsert(ctx, rep); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(loaded))
	}
	got := loaded[777]
	if got.UserName != "Updated Name" {
		t.Errorf("UserName = %q, want updated value", got.UserName)
	}
	if !got.HasBehavior(model.BehaviorRammer) {
		t.Error("rammer flag lost on update")
	}
}

func TestSQLiteStore_LoadRecomputesTrustLevel(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	// Write a row whose stored trust level contradicts its flags, as if an
	// older scoring rule had produced it.
	rep := &model.Reputation{
		CustomerID:    9001,
		UserName:      "Stale Level",
		BehaviorFlags: model.BehaviorRammer,
		TrustLevel:    model.TrustTrusted,
		LastUpdated:   time.Now(),
		TrustScore:    0.5,
	}
	if err := store.Upsert(ctx, rep); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := loaded[9001].TrustLevel; got != model.TrustAvoid {
		t.Errorf("loaded trust level = %v, want recomputed Avoid", got)
	}
}

func TestSQLiteStore_Get(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, 1); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Get on empty store = %v, want ErrNotFound", err)
	}

	rep := model.NewReputation(555, "Somebody")
	rep.AddBehavior(model.BehaviorBlocking)
	if err := store.Upsert(ctx, rep); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := store.Get(ctx, 555)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserName != "Somebody" || got.TrustLevel != model.TrustCaution {
		t.Errorf("Get returned %+v", got)
	}
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore(""); err == nil {
		t.Error("expected error for empty path")
	}
}
