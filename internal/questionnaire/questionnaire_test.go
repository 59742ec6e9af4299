package questionnaire

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"careerpath/domain/core"
	"careerpath/internal/normalize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBank(t *testing.T) *Bank {
	t.Helper()
	b, err := DefaultBank()
	require.NoError(t, err)
	return b
}

func TestDefaultBank(t *testing.T) {
	b := testBank(t)

	assert.True(t, b.HasQuestions("Interest"))
	assert.Len(t, b.Questions["Work_Style"], 5)
	assert.False(t, b.HasQuestions("GPA"))

	gpa, ok := b.Input("GPA")
	require.True(t, ok)
	assert.Equal(t, InputNumeric, gpa.Kind)
	assert.Equal(t, 4.0, gpa.Max)
	assert.Equal(t, 3.0, gpa.Default)

	degree, ok := b.Input("Highest_Degree")
	require.True(t, ok)
	assert.Equal(t, []string{"Diploma", "Bachelors", "Masters", "PhD"}, degree.Options)

	assert.Contains(t, b.Features(), "Public_Speaking_Experience")

	total := 0
	for _, qs := range b.Questions {
		total += len(qs)
	}
	assert.Len(t, b.Questions, 35)
	assert.Equal(t, 143, total)
}

func TestParseBank_Validation(t *testing.T) {
	bad := []string{
		`{"questions": {"A": [{"text": "", "options": [{"label": "x", "value": "x"}]}]}}`,
		`{"questions": {"A": [{"text": "q?", "options": []}]}}`,
		`{"inputs": {"B": {"kind": "numeric", "min": 5, "max": 1}}}`,
		`{"inputs": {"B": {"kind": "select"}}}`,
		`{"inputs": {"B": {"kind": "slider"}}}`,
		`not json`,
	}
	for _, data := range bad {
		_, err := ParseBank([]byte(data))
		assert.Error(t, err, data)
	}
}

func TestLoadBank_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"questions": {"Interest": [{"text": "Pick one", "options": [{"label": "Tech", "value": "Technology"}]}]}
	}`), 0o644))

	b, err := LoadBank(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Interest"}, b.Features())

	_, err = LoadBank(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSession_QuestionChoiceIsStable(t *testing.T) {
	m := NewManager(testBank(t), time.Hour, nil)
	s := m.Start([]string{"Work_Style", "Strengths", "Communication_Skills"})

	first, err := s.Question("Work_Style")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := s.Question("Work_Style")
		require.NoError(t, err)
		assert.Equal(t, first.Text, again.Text)
	}

	prompts := s.Prompts()
	require.Len(t, prompts, 3)
	assert.Equal(t, first.Text, prompts[0].Text)
	assert.Equal(t, PromptQuestion, prompts[0].Kind)
}

func TestSession_SameIDSameQuestions(t *testing.T) {
	bank := testBank(t)
	id := core.NewSessionID()
	features := []string{"Work_Style", "Strengths", "Adaptability", "Openness"}
	now := time.Now()

	a := newSession(id, features, bank, now)
	b := newSession(id, features, bank, now)
	for _, f := range features {
		pa, _ := a.Question(f)
		pb, _ := b.Question(f)
		assert.Equal(t, pa.Text, pb.Text, f)
	}
}

func TestSession_Answers(t *testing.T) {
	m := NewManager(testBank(t), time.Hour, nil)
	s := m.Start([]string{"Communication_Skills", "GPA", "Highest_Degree", "Mystery_Feature"})

	p, err := s.Question("Communication_Skills")
	require.NoError(t, err)
	require.NotEmpty(t, p.Options)
	a, err := s.AnswerOption("Communication_Skills", 0)
	require.NoError(t, err)
	_, isLevel := a.(normalize.LevelAnswer)
	assert.True(t, isLevel)

	_, err = s.AnswerOption("Communication_Skills", 99)
	assert.True(t, errors.Is(err, core.ErrInvalidAnswer))

	assert.True(t, errors.Is(s.AnswerValue("GPA", normalize.NumericAnswer{Value: 4.5}), core.ErrInvalidAnswer))
	require.NoError(t, s.AnswerValue("GPA", normalize.NumericAnswer{Value: 3.7}))

	_, err = s.AnswerOption("GPA", 0)
	assert.True(t, errors.Is(err, core.ErrInvalidAnswer))

	deg, err := s.AnswerOption("Highest_Degree", 2)
	require.NoError(t, err)
	assert.Equal(t, normalize.CategoricalAnswer{Value: "Masters"}, deg)

	fallback, err := s.Question("Mystery_Feature")
	require.NoError(t, err)
	assert.Equal(t, PromptFallback, fallback.Kind)

	_, err = s.Question("Not_In_Set")
	assert.True(t, errors.Is(err, core.ErrNoQuestion))

	resp := s.Response()
	assert.Len(t, resp, 4)
	assert.Equal(t, normalize.LevelAnswer{Token: normalize.Medium}, resp["Mystery_Feature"])
	assert.Equal(t, normalize.NumericAnswer{Value: 3.7}, resp["GPA"])
	assert.Equal(t, []string{"Communication_Skills", "GPA", "Highest_Degree"}, s.Answered())
}

func TestSession_Reset(t *testing.T) {
	m := NewManager(testBank(t), time.Hour, nil)
	s := m.Start([]string{"GPA"})
	require.NoError(t, s.AnswerValue("GPA", normalize.NumericAnswer{Value: 2}))

	s.Reset()
	assert.Empty(t, s.Answered())
	assert.Empty(t, s.Response())
}

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(testBank(t), time.Minute, nil)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	idle := m.Start([]string{"GPA"})
	active := m.Start([]string{"GPA"})
	assert.Equal(t, 2, m.Len())

	clock = clock.Add(50 * time.Second)
	_, err := m.Get(active.ID())
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep(clock.Add(30*time.Second)))
	_, err = m.Get(idle.ID())
	assert.True(t, errors.Is(err, core.ErrSessionNotFound))

	require.NoError(t, m.End(active.ID()))
	assert.True(t, errors.Is(m.End(active.ID()), core.ErrSessionNotFound))
	assert.Zero(t, m.Len())
}
