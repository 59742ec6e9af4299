package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// Answer is one raw questionnaire answer. The set of implementations is
// closed: NumericAnswer, CategoricalAnswer and LevelAnswer.
type Answer interface {
	answer()
	String() string
}

// NumericAnswer comes from a direct numeric input
type NumericAnswer struct {
	Value float64
}

// CategoricalAnswer is a free categorical value such as "Technology"
type CategoricalAnswer struct {
	Value string
}

// LevelAnswer is an ordinal level token such as "High"
type LevelAnswer struct {
	Token string
}

func (NumericAnswer) answer()     {}
func (CategoricalAnswer) answer() {}
func (LevelAnswer) answer()       {}

func (a NumericAnswer) String() string     { return strconv.FormatFloat(a.Value, 'f', -1, 64) }
func (a CategoricalAnswer) String() string { return a.Value }
func (a LevelAnswer) String() string       { return a.Token }

// Level tokens of the shared ordinal scale
const (
	Low    = "Low"
	Medium = "Medium"
	High   = "High"
)

// levelScale is shared by every ordinal-style feature regardless of column
var levelScale = map[string]float64{
	Low:    0,
	Medium: 1,
	High:   2,
}

// Levels lists the scale tokens in ascending order
func Levels() []string { return []string{Low, Medium, High} }

// LevelValue returns the scale value of token. Matching ignores case and
// surrounding space.
func LevelValue(token string) (float64, bool) {
	canon, ok := canonicalLevel(token)
	if !ok {
		return 0, false
	}
	return levelScale[canon], true
}

// IsLevel reports whether token belongs to the scale
func IsLevel(token string) bool {
	_, ok := canonicalLevel(token)
	return ok
}

func canonicalLevel(token string) (string, bool) {
	t := strings.TrimSpace(token)
	for _, l := range Levels() {
		if strings.EqualFold(t, l) {
			return l, true
		}
	}
	return "", false
}

// FromToken resolves a question option token: scale tokens become a
// LevelAnswer, anything else a CategoricalAnswer.
func FromToken(token string) Answer {
	if canon, ok := canonicalLevel(token); ok {
		return LevelAnswer{Token: canon}
	}
	return CategoricalAnswer{Value: token}
}

// Describe renders an answer with its variant for the prediction debug log
func Describe(a Answer) string {
	switch v := a.(type) {
	case NumericAnswer:
		return fmt.Sprintf("number(%s)", v)
	case CategoricalAnswer:
		return fmt.Sprintf("category(%q)", v.Value)
	case LevelAnswer:
		return fmt.Sprintf("level(%s)", v.Token)
	default:
		return "<nil>"
	}
}
