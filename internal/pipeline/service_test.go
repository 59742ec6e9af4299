package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"careerpath/domain/core"
	"careerpath/domain/dataset"
	"careerpath/internal/errors"
	"careerpath/internal/normalize"
	"careerpath/internal/selection"
	"careerpath/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) Save(ctx context.Context, p *models.Prediction) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockHistory) ListRecent(ctx context.Context, limit int) ([]*models.Prediction, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]*models.Prediction)
	return list, args.Error(1)
}

func (m *mockHistory) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Prediction)
	return p, args.Error(1)
}

// careerData: Interest decides the career, Communication_Skills and GPA are noise
func careerData(t *testing.T) *dataset.Dataset {
	t.Helper()
	careers := map[string]string{
		"Technology": "Software Engineer",
		"Arts":       "Graphic Designer",
		"Business":   "Manager",
	}
	interests := []string{"Technology", "Arts", "Business"}
	levels := []string{"Low", "Medium", "High"}

	headers := []string{"Interest", "GPA", "Communication_Skills", "Predicted_Career_Field"}
	var records [][]string
	for i := 0; i < 60; i++ {
		interest := interests[i%3]
		records = append(records, []string{
			interest,
			fmt.Sprintf("%.1f", 2.0+float64(i%20)/10),
			levels[(i/3)%3],
			careers[interest],
		})
	}
	ds, err := dataset.FromRecords(headers, records, "Predicted_Career_Field")
	require.NoError(t, err)
	return ds
}

func answers() normalize.UserResponse {
	return normalize.UserResponse{
		"Interest":             normalize.CategoricalAnswer{Value: "Arts"},
		"GPA":                  normalize.NumericAnswer{Value: 3.1},
		"Communication_Skills": normalize.LevelAnswer{Token: "High"},
	}
}

func trainedService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	s := NewService(nil, opts...)
	_, err := s.Train(careerData(t), selection.DefaultConfig())
	require.NoError(t, err)
	return s
}

func TestService_NotReadyBeforeTraining(t *testing.T) {
	s := NewService(nil)
	assert.False(t, s.Ready())

	_, err := s.Predict(context.Background(), answers())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, core.ErrNotReady))
	assert.Equal(t, errors.CodeNotReady, errors.GetCode(err))
}

func TestService_Predict(t *testing.T) {
	s := trainedService(t)
	require.True(t, s.Ready())

	res, err := s.Predict(context.Background(), answers())
	require.NoError(t, err)

	assert.Equal(t, "Graphic Designer", res.Label)
	assert.Empty(t, res.Notices)
	assert.Len(t, res.Inputs, 3)
	assert.Len(t, res.Row, 3)
	assert.Equal(t, "Interest", res.Importances[0].Feature)
	assert.NotEmpty(t, res.ID)
	assert.NotEmpty(t, res.ModelVersion)
}

func TestService_ClampsFeatureCount(t *testing.T) {
	s := trainedService(t)
	a, err := s.Artifacts()
	require.NoError(t, err)

	assert.Len(t, a.Features(), 3)
	assert.True(t, a.Model.Clamped)
	assert.Equal(t, 12, a.Model.TestRows)
}

func TestService_UnseenValueProceeds(t *testing.T) {
	s := trainedService(t)
	resp := answers()
	resp["Interest"] = normalize.CategoricalAnswer{Value: "Music"}

	res, err := s.Predict(context.Background(), resp)
	require.NoError(t, err)
	require.Len(t, res.Notices, 1)
	assert.Equal(t, "Interest", res.Notices[0].Feature)
	assert.NotEmpty(t, res.Label)
}

func TestService_IncompleteInput(t *testing.T) {
	s := trainedService(t)
	resp := answers()
	delete(resp, "GPA")

	_, err := s.Predict(context.Background(), resp)
	require.Error(t, err)
	assert.Equal(t, errors.CodeIncompleteInput, errors.GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrIncompleteInput))

	// the artifacts are untouched by the failed request
	res, err := s.Predict(context.Background(), answers())
	require.NoError(t, err)
	assert.Equal(t, "Graphic Designer", res.Label)
}

func TestService_InvalidLevel(t *testing.T) {
	s := trainedService(t)
	resp := answers()
	resp["Communication_Skills"] = normalize.LevelAnswer{Token: "Extreme"}

	_, err := s.Predict(context.Background(), resp)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestService_RecordsHistoryBestEffort(t *testing.T) {
	repo := &mockHistory{}
	repo.On("Save", mock.Anything, mock.MatchedBy(func(p *models.Prediction) bool {
		return p.Label == "Graphic Designer" && p.SessionID != nil && p.Answers["Interest"] == "Arts"
	})).Return(stderrors.New("connection refused")).Once()

	s := trainedService(t, WithHistory(repo))
	sid := core.NewSessionID()

	res, err := s.PredictSession(context.Background(), sid, answers())
	require.NoError(t, err)
	assert.Equal(t, sid, res.SessionID)
	repo.AssertExpectations(t)
}

func TestService_History(t *testing.T) {
	_, err := NewService(nil).History(context.Background(), 10)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	repo := &mockHistory{}
	want := []*models.Prediction{{ID: uuid.New(), Label: "Manager"}}
	repo.On("ListRecent", mock.Anything, 10).Return(want, nil)

	got, err := NewService(nil, WithHistory(repo)).History(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Prediction(t *testing.T) {
	_, err := NewService(nil).Prediction(context.Background(), uuid.NewString())
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	repo := &mockHistory{}
	s := NewService(nil, WithHistory(repo))

	_, err = s.Prediction(context.Background(), "not-a-uuid")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	known := &models.Prediction{ID: uuid.New(), Label: "Manager"}
	missing := uuid.New()
	broken := uuid.New()
	repo.On("GetByID", mock.Anything, known.ID).Return(known, nil)
	repo.On("GetByID", mock.Anything, missing).Return(nil, core.ErrPredictionNotFound)
	repo.On("GetByID", mock.Anything, broken).Return(nil, stderrors.New("connection reset"))

	got, err := s.Prediction(context.Background(), known.ID.String())
	require.NoError(t, err)
	assert.Same(t, known, got)

	_, err = s.Prediction(context.Background(), missing.String())
	assert.True(t, stderrors.Is(err, core.ErrPredictionNotFound))

	_, err = s.Prediction(context.Background(), broken.String())
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
	repo.AssertExpectations(t)
}

func TestService_TrainFailureKeepsPreviousArtifacts(t *testing.T) {
	s := trainedService(t)
	before, err := s.Artifacts()
	require.NoError(t, err)

	empty, err := dataset.New([]dataset.Column{{Name: "Predicted_Career_Field", Kind: dataset.KindCategorical}}, nil, "Predicted_Career_Field")
	require.NoError(t, err)
	_, err = s.Train(empty, selection.DefaultConfig())
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatasetError, errors.GetCode(err))

	after, err := s.Artifacts()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestService_ConcurrentPredictions(t *testing.T) {
	s := trainedService(t)

	var wg sync.WaitGroup
	labels := make([]string, 32)
	for i := range labels {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.Predict(context.Background(), answers())
			if err == nil {
				labels[i] = res.Label
			}
		}(i)
	}
	wg.Wait()

	for _, l := range labels {
		assert.Equal(t, "Graphic Designer", l)
	}
}

func TestBuild_DeterministicVersion(t *testing.T) {
	a, err := Build(careerData(t), selection.DefaultConfig(), nil)
	require.NoError(t, err)
	b, err := Build(careerData(t), selection.DefaultConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, a.Version, b.Version)
	assert.Equal(t, a.Features(), b.Features())
}
