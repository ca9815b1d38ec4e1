package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studiplan/degree-progress-api/internal/models"
)

// snapshotID keys the single tracked program. The tracker is single-user;
// the snapshot document carries the program name internally.
const snapshotID = "default"

// ProgramRepository persists the program snapshot as a JSON document,
// preserving the external snapshot contract byte-compatibly.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs the repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// Load reads the snapshot document. It returns (nil, nil) when no
// snapshot has been saved yet; missing data is not an error.
func (r *ProgramRepository) Load(ctx context.Context) (*models.Program, error) {
	const query = `SELECT document FROM program_snapshots WHERE id = $1`
	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, snapshotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load program snapshot: %w", err)
	}
	program := &models.Program{}
	if err := json.Unmarshal(raw, program); err != nil {
		return nil, fmt.Errorf("decode program snapshot: %w", err)
	}
	return program, nil
}

// Save upserts the snapshot document.
func (r *ProgramRepository) Save(ctx context.Context, program *models.Program) error {
	raw, err := json.Marshal(program)
	if err != nil {
		return fmt.Errorf("encode program snapshot: %w", err)
	}
	const query = `INSERT INTO program_snapshots (id, document, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (id)
DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, snapshotID, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("save program snapshot: %w", err)
	}
	return nil
}
