// Package reputation implements the reconciliation core: merging session
// observations into durable per-driver reputation records and scheduling
// debounced write-back of local edits.
package reputation

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/gridbook/gridbook/internal/config"
	"github.com/gridbook/gridbook/internal/model"
	"github.com/gridbook/gridbook/internal/service"
)

// Options tunes the tracker's write-back behavior.
type Options struct {
	// FlushDebounce is the minimum interval between two non-forced flushes.
	FlushDebounce time.Duration
	// LastSeen controls whether the last-seen date is stamped once or
	// refreshed on every encounter.
	LastSeen config.LastSeenPolicy
	// MaxWriteRetries caps how many flush cycles a failing record stays in
	// the dirty set before it is dropped with a warning.
	MaxWriteRetries int
}

func (o Options) withDefaults() Options {
	if o.FlushDebounce <= 0 {
		o.FlushDebounce = config.DefaultFlushDebounce
	}
	if o.LastSeen == "" {
		o.LastSeen = config.LastSeenSetOnce
	}
	if o.MaxWriteRetries <= 0 {
		o.MaxWriteRetries = config.DefaultMaxWriteRetries
	}
	return o
}

// Tracker owns the in-memory reputation map, the current tick's observation
// list, and the dirty set. Every method is called from the application's one
// update loop, so no locking is needed.
//
// Tracker is the ReputationSource handed to UI-facing layers.
type Tracker struct {
	store       service.Storage
	now         func() time.Time
	reps        map[int]*model.Reputation
	dirty       map[int]int // customer id -> failed write attempts
	seenSession map[int]bool
	obs         []model.DriverObservation
	lastFlush   time.Time
	opts        Options
}

// NewTracker creates a tracker writing through the given store. A nil store
// disables persistence: the tracker keeps serving from memory and every
// write path becomes a no-op, which is the degraded mode used when the
// database cannot be opened.
func NewTracker(store service.Storage, opts Options) *Tracker {
	return &Tracker{
		store:       store,
		now:         time.Now,
		reps:        make(map[int]*model.Reputation),
		dirty:       make(map[int]int),
		seenSession: make(map[int]bool),
		opts:        opts.withDefaults(),
	}
}

// Load replaces the in-memory map with the store's contents. Must run before
// the first Reconcile or GetOrCreate of a process; on failure the caller's
// policy is to log and continue with the empty map.
func (t *Tracker) Load(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	reps, err := t.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	t.reps = reps
	t.lastFlush = t.now()
	slog.Info("Loaded reputations", "count", len(reps))
	return nil
}

// GetOrCreate returns the record for a customer id, creating a fresh neutral
// one on first encounter. An existing record is returned as-is; repeat
// encounters do not overwrite the stored name (see Reconcile for the
// every-encounter policy).
func (t *Tracker) GetOrCreate(customerID int, userName string) *model.Reputation {
	if rep, ok := t.reps[customerID]; ok {
		return rep
	}
	rep := model.NewReputation(customerID, userName)
	rep.LastUpdated = t.now()
	t.reps[customerID] = rep
	return rep
}

// BeginSession resets per-session encounter tracking. Call when a new
// session is joined.
func (t *Tracker) BeginSession() {
	t.seenSession = make(map[int]bool)
}

// Reconcile merges one tick's observations into the reputation map. Every
// observed identity is guaranteed a record afterwards; the first time an
// identity appears in the current session its encounter count is bumped and
// the record queued for write-back. Tag and note edits never originate here.
func (t *Tracker) Reconcile(observations []model.DriverObservation) {
	t.obs = observations

	for _, o := range observations {
		if !o.IsValid {
			continue
		}
		rep := t.GetOrCreate(o.CustomerID, o.UserName)

		if t.seenSession[o.CustomerID] {
			continue
		}
		t.seenSession[o.CustomerID] = true

		rep.EncounterCount++
		if t.opts.LastSeen == config.LastSeenEveryEncounter {
			rep.UserName = o.UserName
			rep.LastSeen = t.today()
		}
		t.MarkDirty(o.CustomerID)
	}
}

// AddBehavior sets a tag on a driver, getting-or-creating the record first,
// and queues the change.
func (t *Tracker) AddBehavior(customerID int, userName string, b model.Behavior) *model.Reputation {
	rep := t.GetOrCreate(customerID, userName)
	rep.AddBehavior(b)
	rep.LastUpdated = t.now()
	t.MarkDirty(customerID)
	return rep
}

// RemoveBehavior clears a tag on a driver and queues the change.
func (t *Tracker) RemoveBehavior(customerID int, userName string, b model.Behavior) *model.Reputation {
	rep := t.GetOrCreate(customerID, userName)
	rep.RemoveBehavior(b)
	rep.LastUpdated = t.now()
	t.MarkDirty(customerID)
	return rep
}

// SetNotes replaces a driver's free-text note and queues the change.
func (t *Tracker) SetNotes(customerID int, userName, notes string) *model.Reputation {
	rep := t.GetOrCreate(customerID, userName)
	rep.Notes = notes
	rep.LastUpdated = t.now()
	t.MarkDirty(customerID)
	return rep
}

// MarkDirty queues a record for the next flush. Idempotent and cheap enough
// for every keystroke. A no-op when persistence is disabled.
func (t *Tracker) MarkDirty(customerID int) {
	if t.store == nil {
		return
	}
	if _, ok := t.dirty[customerID]; !ok {
		t.dirty[customerID] = 0
	}
}

// Flush writes queued records to the store. Without force it no-ops inside
// the debounce window, batching rapid edits into one write pass. Records
// whose upsert fails stay queued for the next cycle until MaxWriteRetries is
// reached, then are dropped with a warning so a permanently broken store
// cannot grow the set forever. Returns the number of records written.
func (t *Tracker) Flush(ctx context.Context, force bool) int {
	if t.store == nil || len(t.dirty) == 0 {
		return 0
	}

	now := t.now()
	if !force && now.Sub(t.lastFlush) < t.opts.FlushDebounce {
		return 0
	}

	flushed := 0
	for id, attempts := range t.dirty {
		rep, ok := t.reps[id]
		if !ok {
			delete(t.dirty, id)
			continue
		}

		rep.LastUpdated = now
		if rep.LastSeen == "" || t.opts.LastSeen == config.LastSeenEveryEncounter {
			rep.LastSeen = t.today()
		}

		if err := t.store.Upsert(ctx, rep); err != nil {
			attempts++
			if attempts >= t.opts.MaxWriteRetries {
				delete(t.dirty, id)
				slog.Warn("Dropping reputation after repeated write failures",
					"customer_id", id, "attempts", attempts, "error", err)
			} else {
				t.dirty[id] = attempts
				slog.Warn("Failed to save reputation, will retry",
					"customer_id", id, "attempt", attempts, "error", err)
			}
			continue
		}

		delete(t.dirty, id)
		flushed++
	}

	t.lastFlush = now
	if flushed > 0 {
		slog.Debug("Flushed reputations", "count", flushed)
	}
	return flushed
}

// DirtyCount reports how many records are queued for write-back.
func (t *Tracker) DirtyCount() int {
	return len(t.dirty)
}

// Reputations returns every known record, sorted by driver name then id for
// stable display.
func (t *Tracker) Reputations() []*model.Reputation {
	out := make([]*model.Reputation, 0, len(t.reps))
	for _, rep := range t.reps {
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

// Lookup returns the record for a customer id without creating one.
func (t *Tracker) Lookup(customerID int) (*model.Reputation, bool) {
	rep, ok := t.reps[customerID]
	return rep, ok
}

// Observations returns the current tick's observation list.
func (t *Tracker) Observations() []model.DriverObservation {
	return t.obs
}

func (t *Tracker) today() string {
	return t.now().Format("2006-01-02")
}
