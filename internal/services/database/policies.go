package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrEmptyISOCode is returned when a fact document has no ISO code.
var ErrEmptyISOCode = errors.New("iso_code cannot be empty")

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS country_policy_facts (
		iso_code   CHAR(2) PRIMARY KEY,
		facts      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PolicyFact is one stored policy-fact document.
type PolicyFact struct {
	ISOCode   string
	Facts     json.RawMessage
	UpdatedAt time.Time
}

// PolicyRepository stores raw policy facts keyed by ISO code.
type PolicyRepository struct {
	db *DB
}

// NewPolicyRepository creates a new policy repository.
func NewPolicyRepository(db *DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// EnsureSchema creates the facts table if it does not exist.
func (r *PolicyRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create policy facts table: %w", err)
	}
	return nil
}

// UpsertFacts replaces the stored documents for the given countries in one transaction.
func (r *PolicyRepository) UpsertFacts(ctx context.Context, facts []PolicyFact) (int, error) {
	query := `
		INSERT INTO country_policy_facts (iso_code, facts, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (iso_code) DO UPDATE
		SET facts = EXCLUDED.facts, updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	written := 0

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, f := range facts {
			iso := strings.ToUpper(strings.TrimSpace(f.ISOCode))
			if iso == "" {
				return ErrEmptyISOCode
			}
			if _, err := tx.Exec(ctx, query, iso, []byte(f.Facts), now); err != nil {
				return fmt.Errorf("failed to upsert facts for %s: %w", iso, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

// ListFacts returns every stored document ordered by ISO code.
func (r *PolicyRepository) ListFacts(ctx context.Context) ([]json.RawMessage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT facts FROM country_policy_facts ORDER BY iso_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query policy facts: %w", err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan policy facts: %w", err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate policy facts: %w", err)
	}

	return docs, nil
}

// LastUpdated returns the most recent update time across all documents.
func (r *PolicyRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT MAX(updated_at) FROM country_policy_facts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query last update: %w", err)
	}
	defer rows.Close()

	var ts *time.Time
	if rows.Next() {
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan last update: %w", err)
		}
	}
	return ts, rows.Err()
}
