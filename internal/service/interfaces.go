// Package service defines the interfaces wiring the reconciliation core to
// its storage and to UI-facing consumers.
package service

import (
	"context"

	"github.com/gridbook/gridbook/internal/model"
)

// Storage is the contract the reconciler needs from the persistence layer.
type Storage interface {
	// Migrate brings the schema to the current version. Safe to call on
	// every startup.
	Migrate(ctx context.Context) error
	// LoadAll reads every stored reputation into a map keyed by customer id,
	// recomputing each record's trust level from its flags.
	LoadAll(ctx context.Context) (map[int]*model.Reputation, error)
	// Upsert writes one record, inserting or replacing by customer id.
	Upsert(ctx context.Context, rep *model.Reputation) error
	Close() error
}

// ReputationSource is the contract exposed to UI-facing layers: get-or-create
// plus dirty marking for edit paths, and read-only views of the live
// observation list and the full reputation map.
type ReputationSource interface {
	GetOrCreate(customerID int, userName string) *model.Reputation
	MarkDirty(customerID int)
	Reputations() []*model.Reputation
	Observations() []model.DriverObservation
}
