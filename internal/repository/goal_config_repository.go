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

const goalConfigID = "default"

// GoalConfigRepository persists the goal configuration document.
type GoalConfigRepository struct {
	db *sqlx.DB
}

// NewGoalConfigRepository constructs the repository.
func NewGoalConfigRepository(db *sqlx.DB) *GoalConfigRepository {
	return &GoalConfigRepository{db: db}
}

// Load reads the configuration document. It returns (nil, nil) when none
// has been saved yet; the caller substitutes the defaults.
func (r *GoalConfigRepository) Load(ctx context.Context) (*models.GoalConfigDocument, error) {
	const query = `SELECT document FROM goal_configs WHERE id = $1`
	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, goalConfigID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load goal config: %w", err)
	}
	doc := &models.GoalConfigDocument{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode goal config: %w", err)
	}
	return doc, nil
}

// Save upserts the configuration document.
func (r *GoalConfigRepository) Save(ctx context.Context, doc *models.GoalConfigDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode goal config: %w", err)
	}
	const query = `INSERT INTO goal_configs (id, document, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (id)
DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, goalConfigID, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("save goal config: %w", err)
	}
	return nil
}
