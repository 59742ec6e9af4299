package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"careerpath/domain/core"
	"careerpath/domain/dataset"
	"careerpath/internal"
	"careerpath/internal/errors"
	"careerpath/internal/normalize"
	"careerpath/internal/predict"
	"careerpath/internal/selection"
	"careerpath/models"
	"careerpath/ports"

	"github.com/google/uuid"
)

// Input is one FeatureSet entry of a prediction: the raw answer and what the model saw
type Input struct {
	Feature string  `json:"feature"`
	Answer  string  `json:"answer"`
	Encoded float64 `json:"encoded"`
}

// Result is the outcome of one completed questionnaire
type Result struct {
	ID            core.PredictionID           `json:"id"`
	SessionID     core.SessionID              `json:"session_id,omitempty"`
	Label         string                      `json:"label"`
	Notices       []normalize.Notice          `json:"notices,omitempty"`
	Importances   []predict.FeatureImportance `json:"importances"`
	Inputs        []Input                     `json:"inputs"`
	Row           normalize.EncodedRow        `json:"row"`
	Probabilities map[string]float64          `json:"probabilities,omitempty"`
	ModelVersion  string                      `json:"model_version"`
	CreatedAt     time.Time                   `json:"created_at"`
}

// Service publishes the current Artifacts and serves predictions from them
type Service struct {
	current atomic.Pointer[Artifacts]
	history ports.PredictionRepository
	logger  *internal.Logger
}

// Option configures a Service
type Option func(*Service)

// WithHistory records every successful prediction in repo
func WithHistory(repo ports.PredictionRepository) Option {
	return func(s *Service) { s.history = repo }
}

func NewService(logger *internal.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	s := &Service{logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Train builds artifacts for ds and publishes them only if the whole build succeeds
func (s *Service) Train(ds *dataset.Dataset, cfg selection.Config) (*Artifacts, error) {
	a, err := Build(ds, cfg, s.logger)
	if err != nil {
		return nil, errors.DatasetError("training failed", err)
	}
	s.Publish(a)
	return a, nil
}

// Publish swaps in a fully built artifact set
func (s *Service) Publish(a *Artifacts) {
	s.current.Store(a)
}

// Artifacts returns the published artifacts or a NOT_READY error
func (s *Service) Artifacts() (*Artifacts, error) {
	a := s.current.Load()
	if a == nil {
		return nil, errors.NotReady(core.ErrNotReady)
	}
	return a, nil
}

func (s *Service) Ready() bool { return s.current.Load() != nil }

func (s *Service) HistoryEnabled() bool { return s.history != nil }

// Predict scores a completed response
func (s *Service) Predict(ctx context.Context, resp normalize.UserResponse) (*Result, error) {
	return s.predict(ctx, "", resp)
}

// PredictSession scores a response and tags the result with its session
func (s *Service) PredictSession(ctx context.Context, id core.SessionID, resp normalize.UserResponse) (*Result, error) {
	return s.predict(ctx, id, resp)
}

func (s *Service) predict(ctx context.Context, sessionID core.SessionID, resp normalize.UserResponse) (*Result, error) {
	a, err := s.Artifacts()
	if err != nil {
		return nil, err
	}

	row, notices, err := a.Normalizer.Normalize(resp)
	if err != nil {
		return nil, classify(err)
	}
	for _, n := range notices {
		s.logger.Warn("[Predict] %s", n)
	}

	label, err := a.Predictor.Predict(row)
	if err != nil {
		s.logger.Error("[Predict] %v", err)
		return nil, classify(err)
	}

	features := a.Features()
	inputs := make([]Input, len(features))
	for i, f := range features {
		inputs[i] = Input{Feature: f, Answer: resp[f].String(), Encoded: row[i]}
		s.logger.Debug("[Predict] %s = %s -> %g", f, normalize.Describe(resp[f]), row[i])
	}

	probs, err := a.Predictor.Probabilities(row)
	if err != nil {
		s.logger.Debug("[Predict] Probabilities unavailable: %v", err)
	}

	result := &Result{
		ID:            core.NewPredictionID(),
		SessionID:     sessionID,
		Label:         label,
		Notices:       notices,
		Importances:   a.Predictor.Importances(),
		Inputs:        inputs,
		Row:           row,
		Probabilities: probs,
		ModelVersion:  a.Version.Short(),
		CreatedAt:     time.Now().UTC(),
	}
	s.logger.Info("[Predict] %s -> %s (%d notices)", result.ID, label, len(notices))

	s.record(ctx, result)
	return result, nil
}

// record stores result in the history; failures are logged and never returned
func (s *Service) record(ctx context.Context, r *Result) {
	if s.history == nil {
		return
	}
	p, err := toModel(r)
	if err != nil {
		s.logger.Warn("[History] Skipping prediction %s: %v", r.ID, err)
		return
	}
	if err := s.history.Save(ctx, p); err != nil {
		s.logger.Warn("[History] Failed to record prediction %s: %v", r.ID, err)
	}
}

// History lists recent predictions; it is NOT_FOUND when persistence is disabled
func (s *Service) History(ctx context.Context, limit int) ([]*models.Prediction, error) {
	if s.history == nil {
		return nil, errors.NotFound("prediction history")
	}
	list, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to list predictions", err)
	}
	return list, nil
}

// Prediction fetches one recorded prediction by id
func (s *Service) Prediction(ctx context.Context, id string) (*models.Prediction, error) {
	if s.history == nil {
		return nil, errors.NotFound("prediction history")
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("invalid prediction id %q", id))
	}
	p, err := s.history.GetByID(ctx, uid)
	if stderrors.Is(err, core.ErrPredictionNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load prediction", err)
	}
	return p, nil
}

func toModel(r *Result) (*models.Prediction, error) {
	id, err := uuid.Parse(r.ID.String())
	if err != nil {
		return nil, err
	}
	p := &models.Prediction{
		ID:           id,
		Label:        r.Label,
		ModelVersion: r.ModelVersion,
		Answers:      make(models.JSONBMap, len(r.Inputs)),
		Encoded:      make(models.JSONBMap, len(r.Inputs)),
		NoticeCount:  len(r.Notices),
		CreatedAt:    r.CreatedAt,
	}
	if r.SessionID != "" {
		if sid, err := uuid.Parse(r.SessionID.String()); err == nil {
			p.SessionID = &sid
		}
	}
	for _, in := range r.Inputs {
		p.Answers[in.Feature] = in.Answer
		p.Encoded[in.Feature] = in.Encoded
	}
	return p, nil
}

// classify maps core failures onto AppError codes
func classify(err error) error {
	var incomplete *normalize.IncompleteInputError
	switch {
	case stderrors.As(err, &incomplete):
		return errors.IncompleteInput(incomplete.Missing, err)
	case stderrors.Is(err, core.ErrModelInvocation):
		return errors.ModelInvocation(err)
	case core.IsInputError(err), stderrors.Is(err, core.ErrUnknownColumn):
		return errors.WithCode(errors.CodeInvalidInput, err)
	default:
		return errors.Wrap(err, "prediction failed")
	}
}
