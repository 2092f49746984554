package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.VectorSource = (*VectorStore)(nil)
	_ driven.VectorWriter = (*VectorStore)(nil)
)

// VectorStore serves pre-computed document embeddings from the
// document_vectors table. Lookups go straight to the database, so
// Refresh has nothing to discard.
type VectorStore struct {
	db *DB
}

// NewVectorStore creates a new VectorStore
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// GetVector returns the vector stored for id.
// Returns domain.ErrNotFound when the id is unknown.
func (s *VectorStore) GetVector(ctx context.Context, id string) ([]float32, error) {
	query := `SELECT vector FROM document_vectors WHERE id = $1`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vector %s: %w", id, err)
	}

	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, fmt.Errorf("corrupt vector for %s: %w", id, err)
	}
	if len(vector) == 0 {
		return nil, domain.ErrNotFound
	}
	return vector, nil
}

// Refresh is a no-op; the store holds no memoized state
func (s *VectorStore) Refresh(_ context.Context) error {
	return nil
}

// Name identifies the source for logging
func (s *VectorStore) Name() string {
	return "postgres"
}

// Save creates or updates one document vector
func (s *VectorStore) Save(ctx context.Context, id, model string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal vector: %w", err)
	}

	query := `
		INSERT INTO document_vectors (id, model, dimensions, vector, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			model = EXCLUDED.model,
			dimensions = EXCLUDED.dimensions,
			vector = EXCLUDED.vector,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query, id, model, len(vector), data, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save vector %s: %w", id, err)
	}
	return nil
}

// SaveBatch saves multiple document vectors in a transaction
func (s *VectorStore) SaveBatch(ctx context.Context, model string, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO document_vectors (id, model, dimensions, vector, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				model = EXCLUDED.model,
				dimensions = EXCLUDED.dimensions,
				vector = EXCLUDED.vector,
				updated_at = EXCLUDED.updated_at
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		now := time.Now()
		for id, vector := range vectors {
			data, err := json.Marshal(vector)
			if err != nil {
				return fmt.Errorf("failed to marshal vector %s: %w", id, err)
			}
			if _, err := stmt.ExecContext(ctx, id, model, len(vector), data, now); err != nil {
				return fmt.Errorf("failed to save vector %s: %w", id, err)
			}
		}
		return nil
	})
}

// Delete removes one document vector
func (s *VectorStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM document_vectors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vector %s: %w", id, err)
	}
	return nil
}
