package normalize

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"careerpath/domain/core"
	"careerpath/domain/dataset"
	"careerpath/internal/encoding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *encoding.Registry {
	t.Helper()
	headers := []string{"Interest", "GPA", "Communication_Skills", "Predicted_Career_Field"}
	records := [][]string{
		{"Technology", "3.6", "High", "Software Engineer"},
		{"Arts", "3.1", "Low", "Graphic Designer"},
		{"Business", "3.0", "Medium", "Manager"},
	}
	ds, err := dataset.FromRecords(headers, records, "Predicted_Career_Field")
	require.NoError(t, err)
	reg, err := encoding.NewRegistry(ds, encoding.BuildVocabulary(ds))
	require.NoError(t, err)
	return reg
}

func fullResponse() UserResponse {
	return UserResponse{
		"Interest":             CategoricalAnswer{Value: "Arts"},
		"GPA":                  NumericAnswer{Value: 3.4},
		"Communication_Skills": LevelAnswer{Token: "High"},
	}
}

var features = []string{"GPA", "Interest", "Communication_Skills"}

func TestNormalize_FeatureSetOrder(t *testing.T) {
	reg := testRegistry(t)
	n := New(features, reg)

	row, notices, err := n.Normalize(fullResponse())
	require.NoError(t, err)
	assert.Empty(t, notices)

	arts, err := reg.Encode("Interest", "Arts")
	require.NoError(t, err)
	assert.Equal(t, EncodedRow{3.4, float64(arts), 2}, row)
}

// A missing FeatureSet answer refuses the row.
func TestNormalize_IncompleteInput(t *testing.T) {
	n := New(features, testRegistry(t))
	resp := fullResponse()
	delete(resp, "Interest")

	row, notices, err := n.Normalize(resp)
	assert.Nil(t, row)
	assert.Nil(t, notices)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrIncompleteInput))

	var incomplete *IncompleteInputError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"Interest"}, incomplete.Missing)
	assert.Contains(t, err.Error(), "please answer all questions")
}

func TestNormalize_NilAnswerCountsAsMissing(t *testing.T) {
	n := New(features, testRegistry(t))
	resp := fullResponse()
	resp["GPA"] = nil
	assert.Equal(t, []string{"GPA"}, n.Missing(resp))
}

// Level tokens share one scale across features.
func TestNormalize_LevelScaleIsGlobal(t *testing.T) {
	reg := testRegistry(t)
	n := New([]string{"Communication_Skills", "GPA", "Interest"}, reg)

	for token, want := range map[string]float64{"Low": 0, "Medium": 1, "High": 2} {
		resp := UserResponse{
			"Communication_Skills": LevelAnswer{Token: token},
			"GPA":                  LevelAnswer{Token: token},
			"Interest":             LevelAnswer{Token: token},
		}
		row, _, err := n.Normalize(resp)
		require.NoError(t, err)
		assert.Equal(t, EncodedRow{want, want, want}, row, token)
	}
}

func TestNormalize_UnknownLevelIsInvalid(t *testing.T) {
	n := New(features, testRegistry(t))
	resp := fullResponse()
	resp["Communication_Skills"] = LevelAnswer{Token: "Extreme"}

	_, _, err := n.Normalize(resp)
	assert.True(t, errors.Is(err, core.ErrInvalidAnswer))
}

func TestNormalize_UnseenValueDefaultsWithOneNotice(t *testing.T) {
	n := New(features, testRegistry(t))
	resp := fullResponse()
	resp["Interest"] = CategoricalAnswer{Value: "Music"}

	for i := 0; i < 3; i++ {
		row, notices, err := n.Normalize(resp)
		require.NoError(t, err)
		assert.Equal(t, float64(DefaultOrdinal), row[1])
		require.Len(t, notices, 1)
		assert.Equal(t, Notice{Feature: "Interest", Value: "Music"}, notices[0])
	}
}

func TestNormalize_StringOnNumericColumn(t *testing.T) {
	n := New(features, testRegistry(t))

	resp := fullResponse()
	resp["GPA"] = CategoricalAnswer{Value: " 3.9 "}
	row, notices, err := n.Normalize(resp)
	require.NoError(t, err)
	assert.Empty(t, notices)
	assert.Equal(t, 3.9, row[0])

	for _, v := range []string{"excellent", "NaN", "Inf", "-Infinity"} {
		resp["GPA"] = CategoricalAnswer{Value: v}
		row, notices, err = n.Normalize(resp)
		require.NoError(t, err, v)
		assert.Equal(t, 0.0, row[0], v)
		require.Len(t, notices, 1, v)
		assert.Equal(t, Notice{Feature: "GPA", Value: v}, notices[0])
	}
}

func TestNormalize_RejectsNonFiniteNumbers(t *testing.T) {
	n := New(features, testRegistry(t))

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		resp := fullResponse()
		resp["GPA"] = NumericAnswer{Value: v}
		row, _, err := n.Normalize(resp)
		require.Error(t, err)
		assert.True(t, core.IsInputError(err))
		assert.Nil(t, row)
	}
}

func TestNormalize_OrderInvariance(t *testing.T) {
	n := New(features, testRegistry(t))

	first, _, err := n.Normalize(fullResponse())
	require.NoError(t, err)

	// rebuild the map in a different insertion order, plus an extra answer
	resp := UserResponse{}
	resp["Communication_Skills"] = LevelAnswer{Token: "High"}
	resp["Unused_Feature"] = NumericAnswer{Value: 99}
	resp["GPA"] = NumericAnswer{Value: 3.4}
	resp["Interest"] = CategoricalAnswer{Value: "Arts"}

	for i := 0; i < 10; i++ {
		row, _, err := n.Normalize(resp)
		require.NoError(t, err)
		assert.Equal(t, first, row)
	}
}

func TestFromToken(t *testing.T) {
	assert.Equal(t, LevelAnswer{Token: "High"}, FromToken("high"))
	assert.Equal(t, CategoricalAnswer{Value: "Analytical"}, FromToken("Analytical"))
	assert.True(t, IsLevel(" Medium "))
	assert.False(t, IsLevel("Yes"))
}

func TestDecodeResponse(t *testing.T) {
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(`{
		"GPA": 3.5,
		"Interest": "Technology",
		"Communication_Skills": {"level": "Low"},
		"Public_Speaking_Experience": "Medium"
	}`), &raw))

	resp, err := DecodeResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, NumericAnswer{Value: 3.5}, resp["GPA"])
	assert.Equal(t, CategoricalAnswer{Value: "Technology"}, resp["Interest"])
	assert.Equal(t, LevelAnswer{Token: "Low"}, resp["Communication_Skills"])
	assert.Equal(t, LevelAnswer{Token: "Medium"}, resp["Public_Speaking_Experience"])

	for _, bad := range []string{`null`, `{"lvl": "High"}`, `{"level": "Huge"}`, `[1]`, `true`} {
		_, err := DecodeAnswer("x", json.RawMessage(bad))
		assert.True(t, errors.Is(err, core.ErrInvalidAnswer), bad)
	}
}

func TestEncodeAnswer_RoundTrip(t *testing.T) {
	for _, a := range []Answer{NumericAnswer{Value: 2}, CategoricalAnswer{Value: "Arts"}, LevelAnswer{Token: "High"}} {
		b, err := json.Marshal(EncodeAnswer(a))
		require.NoError(t, err)
		got, err := DecodeAnswer("f", b)
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "number(3.5)", Describe(NumericAnswer{Value: 3.5}))
	assert.Equal(t, `category("Arts")`, Describe(CategoricalAnswer{Value: "Arts"}))
	assert.Equal(t, "level(High)", Describe(LevelAnswer{Token: "High"}))
	assert.Equal(t, "<nil>", Describe(nil))
}
