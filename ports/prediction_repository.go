package ports

import (
	"context"

	"careerpath/models"

	"github.com/google/uuid"
)

// PredictionRepository stores the prediction history
type PredictionRepository interface {
	// Save records one prediction
	Save(ctx context.Context, p *models.Prediction) error

	// ListRecent returns the newest predictions first, at most limit
	ListRecent(ctx context.Context, limit int) ([]*models.Prediction, error)

	// GetByID retrieves a single prediction
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
}
