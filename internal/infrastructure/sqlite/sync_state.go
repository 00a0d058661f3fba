package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PushRecord tells when a profile was last sent to a backend.
type PushRecord struct {
	ProfileID int64
	PushedAt  time.Time
	Address   string
}

// SyncState records backend pushes per profile.
type SyncState struct {
	db *sql.DB
}

// SyncState returns the push bookkeeping store.
func (db *DB) SyncState() *SyncState {
	return &SyncState{db: db.conn}
}

// RecordPush marks every profile in ids as pushed to address at t.
func (s *SyncState) RecordPush(ctx context.Context, ids []int64, address string, t time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sync_state (profile_id, pushed_at, address) VALUES (?, ?, ?)
			 ON CONFLICT(profile_id) DO UPDATE SET pushed_at = excluded.pushed_at, address = excluded.address`,
			id, t.UnixMilli(), address,
		)
		if err != nil {
			return fmt.Errorf("failed to record push for profile %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit push records: %w", err)
	}
	return nil
}

// LastPush returns the last push of a profile, or false if it was never pushed.
func (s *SyncState) LastPush(ctx context.Context, id int64) (PushRecord, bool, error) {
	var pushedAt int64
	var address string
	err := s.db.QueryRowContext(ctx,
		`SELECT pushed_at, address FROM sync_state WHERE profile_id = ?`, id,
	).Scan(&pushedAt, &address)
	if errors.Is(err, sql.ErrNoRows) {
		return PushRecord{}, false, nil
	}
	if err != nil {
		return PushRecord{}, false, fmt.Errorf("failed to read push record: %w", err)
	}
	return PushRecord{ProfileID: id, PushedAt: time.UnixMilli(pushedAt), Address: address}, true, nil
}
