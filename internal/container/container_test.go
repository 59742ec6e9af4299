package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"careerpath/internal/config"
	"careerpath/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("GPA,Interest,Leadership_Skills,Predicted_Career_Field\n")
	careers := map[string]string{"Technology": "Software Engineer", "Arts": "Graphic Designer", "Business": "Accountant"}
	interests := []string{"Technology", "Arts", "Business"}
	levels := []string{"Low", "Medium", "High"}
	for i := 0; i < 30; i++ {
		interest := interests[i%3]
		fmt.Fprintf(&b, "%.1f,%s,%s,%s\n", 2.0+float64(i%10)/5, interest, levels[(i/3)%3], careers[interest])
	}
	path := filepath.Join(t.TempDir(), "careers.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testConfig(file string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{File: file, Sheet: config.DefaultSheet, TargetColumn: config.DefaultTargetColumn},
		Model: config.ModelConfig{
			FeatureCount: config.DefaultFeatureCount,
			TestRatio:    config.DefaultTestRatio,
			Seed:         config.DefaultSeed,
		},
		Session: config.SessionConfig{TTL: time.Hour},
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestContainer_Init(t *testing.T) {
	c, err := New(testConfig(writeCSV(t)), nil)
	require.NoError(t, err)
	require.NoError(t, c.Init())

	assert.True(t, c.Service.Ready())
	assert.False(t, c.Service.HistoryEnabled())
	require.NotNil(t, c.Sessions)
	assert.True(t, c.Bank.HasQuestions("Leadership_Skills"))

	a, err := c.Service.Artifacts()
	require.NoError(t, err)
	assert.Len(t, a.Features(), 3)

	require.NoError(t, c.Shutdown(context.Background()))
}

func TestContainer_TrainingConfig(t *testing.T) {
	cfg := testConfig("unused.csv")
	cfg.Model.FeatureCount = 12
	cfg.Model.MaxDepth = 4
	cfg.Model.Criterion = "entropy"
	c, err := New(cfg, nil)
	require.NoError(t, err)

	tc := c.TrainingConfig()
	assert.Equal(t, 12, tc.FeatureCount)
	assert.Equal(t, 4, tc.MaxDepth)
	assert.Equal(t, int64(42), tc.Seed)
	assert.Equal(t, 1, tc.MinSamplesLeaf)
	assert.Equal(t, tree.Entropy, tc.Criterion)

	cfg.Model.Criterion = ""
	assert.Equal(t, tree.Gini, c.TrainingConfig().Criterion)
}

func TestContainer_InitMissingDataset(t *testing.T) {
	c, err := New(testConfig(filepath.Join(t.TempDir(), "missing.csv")), nil)
	require.NoError(t, err)
	assert.Error(t, c.Init())
	assert.Nil(t, c.Sessions)
}

func TestContainer_BadQuestionBank(t *testing.T) {
	cfg := testConfig(writeCSV(t))
	cfg.Data.QuestionBankFile = filepath.Join(t.TempDir(), "nope.json")
	c, err := New(cfg, nil)
	require.NoError(t, err)
	err = c.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load question bank")
}
