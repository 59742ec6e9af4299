package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"careerpath/domain/core"
)

// DecodeAnswer reads one JSON answer: a number, a string, or {"level": "High"}.
// Strings that are scale tokens become LevelAnswer.
func DecodeAnswer(feature string, raw json.RawMessage) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, core.NewInvalidAnswerError(feature, "empty answer")
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, core.NewInvalidAnswerError(feature, err.Error())
		}
		return FromToken(s), nil
	case '{':
		var obj struct {
			Level *string `json:"level"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil || obj.Level == nil {
			return nil, core.NewInvalidAnswerError(feature, `object answers must be {"level": "..."}`)
		}
		if !IsLevel(*obj.Level) {
			return nil, core.NewInvalidAnswerError(feature, fmt.Sprintf("unknown level %q", *obj.Level))
		}
		return FromToken(*obj.Level), nil
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, core.NewInvalidAnswerError(feature, "expected a number, string or level object")
		}
		return NumericAnswer{Value: f}, nil
	}
}

// DecodeResponse decodes every entry of a JSON answers object
func DecodeResponse(raw map[string]json.RawMessage) (UserResponse, error) {
	resp := make(UserResponse, len(raw))
	for feature, msg := range raw {
		a, err := DecodeAnswer(feature, msg)
		if err != nil {
			return nil, err
		}
		resp[feature] = a
	}
	return resp, nil
}

// EncodeAnswer is the inverse of DecodeAnswer
func EncodeAnswer(a Answer) any {
	switch v := a.(type) {
	case NumericAnswer:
		return v.Value
	case CategoricalAnswer:
		return v.Value
	case LevelAnswer:
		return map[string]string{"level": v.Token}
	default:
		return nil
	}
}
