package questionnaire

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

//go:embed bank.json
var embeddedBank []byte

// Option is one answer choice; Value is the token recorded as the answer
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Question is one phrasing for a feature
type Question struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// InputKind is the widget used for features without bank questions
type InputKind string

const (
	InputNumeric InputKind = "numeric"
	InputSelect  InputKind = "select"
)

// InputSpec describes a direct numeric or select input
type InputSpec struct {
	Kind    InputKind `json:"kind"`
	Prompt  string    `json:"prompt"`
	Min     float64   `json:"min,omitempty"`
	Max     float64   `json:"max,omitempty"`
	Default float64   `json:"default,omitempty"`
	Step    float64   `json:"step,omitempty"`
	Options []string  `json:"options,omitempty"`
}

// Bank maps features to their alternative questions and input specs
type Bank struct {
	Questions map[string][]Question `json:"questions"`
	Inputs    map[string]InputSpec  `json:"inputs"`
}

// DefaultBank parses the embedded question bank
func DefaultBank() (*Bank, error) {
	return ParseBank(embeddedBank)
}

// LoadBank reads a bank from path, or the embedded one when path is empty
func LoadBank(path string) (*Bank, error) {
	if path == "" {
		return DefaultBank()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return ParseBank(data)
}

func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks that every question and input can actually be answered
func (b *Bank) Validate() error {
	for feature, qs := range b.Questions {
		for i, q := range qs {
			if q.Text == "" {
				return fmt.Errorf("question bank: %s question %d has no text", feature, i)
			}
			if len(q.Options) == 0 {
				return fmt.Errorf("question bank: %s question %d has no options", feature, i)
			}
		}
	}
	for feature, in := range b.Inputs {
		switch in.Kind {
		case InputNumeric:
			if in.Min > in.Max || in.Default < in.Min || in.Default > in.Max {
				return fmt.Errorf("question bank: %s has inconsistent range [%v, %v] default %v", feature, in.Min, in.Max, in.Default)
			}
		case InputSelect:
			if len(in.Options) == 0 {
				return fmt.Errorf("question bank: %s select input has no options", feature)
			}
		default:
			return fmt.Errorf("question bank: %s has unknown input kind %q", feature, in.Kind)
		}
	}
	return nil
}

// Features lists every feature with questions or an input spec, sorted
func (b *Bank) Features() []string {
	seen := make(map[string]bool)
	for f := range b.Questions {
		seen[f] = true
	}
	for f := range b.Inputs {
		seen[f] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (b *Bank) HasQuestions(feature string) bool {
	return len(b.Questions[feature]) > 0
}

func (b *Bank) Input(feature string) (InputSpec, bool) {
	in, ok := b.Inputs[feature]
	return in, ok
}
