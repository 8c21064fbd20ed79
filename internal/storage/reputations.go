package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gridbook/gridbook/internal/common"
	"github.com/gridbook/gridbook/internal/model"
)

// LoadAll reads every stored reputation into a map keyed by customer id.
//
// The stored trust_level column is deliberately ignored in favor of
// recomputing it from behavior_flags, so records written under an older
// scoring rule heal themselves on load.
func (s *SQLiteStore) LoadAll(ctx context.Context) (map[int]*model.Reputation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, user_name, behavior_flags, notes,
		       encounter_count, last_seen, last_updated, trust_score
		FROM driver_reputation
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reputations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int]*model.Reputation)
	for rows.Next() {
		var (
			rep         model.Reputation
			userName    sql.NullString
			notes       sql.NullString
			lastSeen    sql.NullString
			lastUpdated sql.NullInt64
		)
		if err := rows.Scan(
			&rep.CustomerID,
			&userName,
			&rep.BehaviorFlags,
			&notes,
			&rep.EncounterCount,
			&lastSeen,
			&lastUpdated,
			&rep.TrustScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reputation: %w", err)
		}

		rep.UserName = userName.String
		rep.Notes = notes.String
		rep.LastSeen = lastSeen.String
		if lastUpdated.Valid {
			rep.LastUpdated = time.Unix(lastUpdated.Int64, 0)
		}
		rep.TrustLevel = model.ComputeTrustLevel(rep.BehaviorFlags)

		out[rep.CustomerID] = &rep
	}

	return out, rows.Err()
}

// Upsert writes one reputation record, inserting or replacing every mutable
// column by customer id. The write is a single statement, so the row reflects
// either the old state or the new one, never a mix.
func (s *SQLiteStore) Upsert(ctx context.Context, rep *model.Reputation) error {
	if rep == nil {
		return fmt.Errorf("reputation cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO driver_reputation
			(customer_id, user_name, behavior_flags, trust_level, notes,
			 encounter_count, last_seen, last_updated, trust_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(customer_id) DO UPDATE SET
			user_name = excluded.user_name,
			behavior_flags = excluded.behavior_flags,
			trust_level = excluded.trust_level,
			notes = excluded.notes,
			encounter_count = excluded.encounter_count,
			last_seen = excluded.last_seen,
			last_updated = excluded.last_updated,
			trust_score = excluded.trust_score
	`,
		rep.CustomerID,
		rep.UserName,
		int64(rep.BehaviorFlags),
		int(rep.TrustLevel),
		rep.Notes,
		rep.EncounterCount,
		rep.LastSeen,
		rep.LastUpdated.Unix(),
		rep.TrustScore,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reputation %d: %w", rep.CustomerID, err)
	}

	return nil
}

// Get reads a single reputation by customer id, mostly for CLI inspection.
// Returns common.ErrNotFound when the driver has never been recorded.
func (s *SQLiteStore) Get(ctx context.Context, customerID int) (*model.Reputation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		rep         model.Reputation
		userName    sql.NullString
		notes       sql.NullString
		lastSeen    sql.NullString
		lastUpdated sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT customer_id, user_name, behavior_flags, notes,
		       encounter_count, last_seen, last_updated, trust_score
		FROM driver_reputation
		WHERE customer_id = ?
	`, customerID).Scan(
		&rep.CustomerID,
		&userName,
		&rep.BehaviorFlags,
		&notes,
		&rep.EncounterCount,
		&lastSeen,
		&lastUpdated,
		&rep.TrustScore,
	)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reputation %d: %w", customerID, err)
	}

	rep.UserName = userName.String
	rep.Notes = notes.String
	rep.LastSeen = lastSeen.String
	if lastUpdated.Valid {
		rep.LastUpdated = time.Unix(lastUpdated.Int64, 0)
	}
	rep.TrustLevel = model.ComputeTrustLevel(rep.BehaviorFlags)

	return &rep, nil
}
