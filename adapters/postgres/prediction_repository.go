package postgres

import (
	"context"
	"database/sql"
	"errors"

	"careerpath/domain/core"
	"careerpath/models"
	"careerpath/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const defaultListLimit = 50

// PredictionRepositoryImpl implements PredictionRepository for PostgreSQL
type PredictionRepositoryImpl struct {
	db *sqlx.DB
}

// NewPredictionRepository creates a new PostgreSQL prediction repository
func NewPredictionRepository(db *sqlx.DB) ports.PredictionRepository {
	return &PredictionRepositoryImpl{db: db}
}

// Save records one prediction
func (r *PredictionRepositoryImpl) Save(ctx context.Context, p *models.Prediction) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO predictions (
			id, session_id, label, model_version, answers, encoded, notice_count, created_at
		) VALUES (
			:id, :session_id, :label, :model_version, :answers, :encoded, :notice_count, :created_at
		)
	`, p)
	return err
}

// ListRecent returns the newest predictions first
func (r *PredictionRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*models.Prediction, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var predictions []*models.Prediction
	err := r.db.SelectContext(ctx, &predictions, `
		SELECT id, session_id, label, model_version, answers, encoded, notice_count, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	return predictions, err
}

// GetByID retrieves a single prediction
func (r *PredictionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	var p models.Prediction
	err := r.db.GetContext(ctx, &p, `
		SELECT id, session_id, label, model_version, answers, encoded, notice_count, created_at
		FROM predictions
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrPredictionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
