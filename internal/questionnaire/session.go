package questionnaire

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"careerpath/domain/core"
	"careerpath/internal/normalize"
	"careerpath/internal/pipeline"
)

// PromptKind tells a client how to render a feature
type PromptKind string

const (
	PromptQuestion PromptKind = "question"
	PromptNumeric  PromptKind = "numeric"
	PromptSelect   PromptKind = "select"
	// PromptFallback features have no question and are answered with Medium
	PromptFallback PromptKind = "fallback"
)

// Prompt is what a session asks for one feature
type Prompt struct {
	Feature string     `json:"feature"`
	Kind    PromptKind `json:"kind"`
	Text    string     `json:"text"`
	Options []string   `json:"options,omitempty"`
	Input   *InputSpec `json:"input,omitempty"`

	question *Question
}

// Session is one subject working through the questionnaire. The question
// picked for a feature stays fixed until Reset.
type Session struct {
	mu sync.Mutex

	id       core.SessionID
	features []string
	bank     *Bank
	rnd      *rand.Rand

	prompts map[string]Prompt
	answers normalize.UserResponse
	result  *pipeline.Result

	createdAt  time.Time
	lastActive time.Time
}

func newSession(id core.SessionID, features []string, bank *Bank, now time.Time) *Session {
	return &Session{
		id:         id,
		features:   append([]string(nil), features...),
		bank:       bank,
		rnd:        rand.New(rand.NewSource(id.Seed())),
		prompts:    make(map[string]Prompt),
		answers:    make(normalize.UserResponse),
		createdAt:  now,
		lastActive: now,
	}
}

func (s *Session) ID() core.SessionID { return s.id }

func (s *Session) Features() []string { return append([]string(nil), s.features...) }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

// Question returns the prompt for feature, picking a question on first use
func (s *Session) Question(feature string) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt(feature)
}

// Prompts returns one prompt per feature in FeatureSet order
func (s *Session) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Prompt, 0, len(s.features))
	for _, f := range s.features {
		p, _ := s.prompt(f)
		out = append(out, p)
	}
	return out
}

func (s *Session) prompt(feature string) (Prompt, error) {
	if p, ok := s.prompts[feature]; ok {
		return p, nil
	}
	if !s.hasFeature(feature) {
		return Prompt{}, fmt.Errorf("%w: %s is not in the feature set", core.ErrNoQuestion, feature)
	}

	p := Prompt{Feature: feature}
	if qs := s.bank.Questions[feature]; len(qs) > 0 {
		q := qs[s.rnd.Intn(len(qs))]
		p.Kind = PromptQuestion
		p.Text = q.Text
		p.question = &q
		for _, o := range q.Options {
			p.Options = append(p.Options, o.Label)
		}
	} else if in, ok := s.bank.Input(feature); ok {
		p.Kind = PromptNumeric
		if in.Kind == InputSelect {
			p.Kind = PromptSelect
			p.Options = append([]string(nil), in.Options...)
		}
		p.Text = in.Prompt
		p.Input = &in
	} else {
		p.Kind = PromptFallback
		p.Text = fmt.Sprintf("No question available for feature: %s", feature)
	}
	s.prompts[feature] = p
	return p, nil
}

func (s *Session) hasFeature(feature string) bool {
	for _, f := range s.features {
		if f == feature {
			return true
		}
	}
	return false
}

// AnswerOption records the option at index for a question or select prompt
func (s *Session) AnswerOption(feature string, index int) (normalize.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.prompt(feature)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Options) {
		return nil, core.NewInvalidAnswerError(feature, fmt.Sprintf("option %d out of range [0, %d)", index, len(p.Options)))
	}

	var a normalize.Answer
	switch p.Kind {
	case PromptQuestion:
		a = normalize.FromToken(p.question.Options[index].Value)
	case PromptSelect:
		a = normalize.CategoricalAnswer{Value: p.Options[index]}
	default:
		return nil, core.NewInvalidAnswerError(feature, fmt.Sprintf("%s prompt takes a value, not an option", p.Kind))
	}
	s.answers[feature] = a
	s.result = nil
	return a, nil
}

// AnswerValue records a direct answer. Numeric inputs are range-checked.
func (s *Session) AnswerValue(feature string, a normalize.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.prompt(feature)
	if err != nil {
		return err
	}
	if a == nil {
		return core.NewInvalidAnswerError(feature, "empty answer")
	}
	if n, ok := a.(normalize.NumericAnswer); ok && p.Kind == PromptNumeric {
		if n.Value < p.Input.Min || n.Value > p.Input.Max {
			return core.NewInvalidAnswerError(feature, fmt.Sprintf("%v outside [%v, %v]", n.Value, p.Input.Min, p.Input.Max))
		}
	}
	s.answers[feature] = a
	s.result = nil
	return nil
}

// Answered lists the features with a recorded answer, in FeatureSet order
func (s *Session) Answered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, f := range s.features {
		if _, ok := s.answers[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Response builds the UserResponse. Fallback features without an answer
// are filled with the Medium level.
func (s *Session) Response() normalize.UserResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := make(normalize.UserResponse, len(s.features))
	for _, f := range s.features {
		if a, ok := s.answers[f]; ok {
			resp[f] = a
			continue
		}
		if p, _ := s.prompt(f); p.Kind == PromptFallback {
			resp[f] = normalize.LevelAnswer{Token: normalize.Medium}
		}
	}
	return resp
}

// Reset drops answers and question picks; the next reads pick again
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = make(map[string]Prompt)
	s.answers = make(normalize.UserResponse)
	s.result = nil
}

func (s *Session) SetResult(r *pipeline.Result) {
	s.mu.Lock()
	s.result = r
	s.mu.Unlock()
}

// Result is the last prediction, nil after any answer change
func (s *Session) Result() *pipeline.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}
