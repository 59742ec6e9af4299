package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPrediction_Validate(t *testing.T) {
	valid := func() Prediction {
		return Prediction{
			ID:           uuid.New(),
			Label:        "Software Engineer",
			ModelVersion: "3f2a9c1b7d10",
			CreatedAt:    time.Now(),
		}
	}

	tests := []struct {
		name        string
		mutate      func(p *Prediction)
		expectError bool
	}{
		{name: "Valid prediction", mutate: func(p *Prediction) {}, expectError: false},
		{name: "Invalid - missing id", mutate: func(p *Prediction) { p.ID = uuid.Nil }, expectError: true},
		{name: "Invalid - empty label", mutate: func(p *Prediction) { p.Label = "" }, expectError: true},
		{name: "Invalid - missing model version", mutate: func(p *Prediction) { p.ModelVersion = "" }, expectError: true},
		{name: "Invalid - negative notices", mutate: func(p *Prediction) { p.NoticeCount = -1 }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			err := p.Validate()
			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestJSONBMap_ValueScan(t *testing.T) {
	in := JSONBMap{"GPA": 3.5, "Interest": "Arts"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out JSONBMap
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if out["Interest"] != "Arts" || out["GPA"] != 3.5 {
		t.Errorf("unexpected round trip result: %v", out)
	}

	if _, ok := v.([]byte); !ok {
		t.Errorf("expected []byte value, got %T", v)
	}

	if err := out.Scan(nil); err != nil || len(out) != 0 {
		t.Errorf("Scan(nil) should yield an empty map, got %v (%v)", out, err)
	}
	if err := out.Scan("{bad"); err == nil {
		t.Errorf("expected error for malformed JSON")
	}

	var nilMap JSONBMap
	if stored, _ := nilMap.Value(); stored != nil {
		t.Errorf("nil map should be stored as NULL")
	}
}
