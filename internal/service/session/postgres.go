package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
)

// PostgresStore persists sessions as a jsonb document plus a version column
// used for the optimistic write check. The caller owns the sql.DB lifecycle.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the sessions table if it does not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS diagnostic_sessions (
            id         TEXT PRIMARY KEY,
            state      JSONB NOT NULL,
            version    BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`)
	if err != nil {
		return fmt.Errorf("migrating diagnostic_sessions: %w", err)
	}
	return nil
}

// Create inserts the session at version 1.
func (s *PostgresStore) Create(ctx context.Context, sess *model.DiagnosticSession) error {
	sess.Version = 1
	state, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diagnostic_sessions (id, state, version) VALUES ($1, $2, $3)`,
		sess.ID, state, sess.Version,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// Get loads and decodes the session document.
func (s *PostgresStore) Get(ctx context.Context, id string) (*model.DiagnosticSession, error) {
	var state []byte
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT state, version FROM diagnostic_sessions WHERE id = $1`, id,
	).Scan(&state, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var sess model.DiagnosticSession
	if err := json.Unmarshal(state, &sess); err != nil {
		return nil, fmt.Errorf("decoding session state: %w", err)
	}
	sess.Version = version
	return &sess, nil
}

// Put updates the row iff the version column still matches; a zero row count
// distinguishes a lost race from a missing session.
func (s *PostgresStore) Put(ctx context.Context, sess *model.DiagnosticSession) error {
	next := sess.Version + 1
	stored := sess.Clone()
	stored.Version = next

	state, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE diagnostic_sessions
         SET state = $1, version = $2, updated_at = NOW()
         WHERE id = $3 AND version = $4`,
		state, next, sess.ID, sess.Version,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking session update: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM diagnostic_sessions WHERE id = $1)`, sess.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("checking session existence: %w", err)
		}
		if !exists {
			return ErrSessionNotFound
		}
		return ErrVersionConflict
	}

	sess.Version = next
	return nil
}
