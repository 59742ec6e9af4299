package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JSONBMap is a custom type for PostgreSQL JSONB columns that maps to map[string]interface{}
type JSONBMap map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONBMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONBMap) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	}
	if len(raw) == 0 {
		*j = make(JSONBMap)
		return nil
	}

	result := make(JSONBMap)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*j = result
	return nil
}

// Prediction is one recorded questionnaire outcome. Answers holds the raw
// answers by feature, Encoded the model input values, and NoticeCount the
// number of unseen values that were mapped to the default ordinal.
type Prediction struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	SessionID    *uuid.UUID `json:"session_id,omitempty" db:"session_id"`
	Label        string     `json:"label" db:"label"`
	ModelVersion string     `json:"model_version" db:"model_version"`
	Answers      JSONBMap   `json:"answers" db:"answers"`
	Encoded      JSONBMap   `json:"encoded" db:"encoded"`
	NoticeCount  int        `json:"notice_count" db:"notice_count"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Validate checks the fields the history table requires
func (p *Prediction) Validate() error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("prediction id is required")
	}
	if p.Label == "" {
		return fmt.Errorf("prediction label is required")
	}
	if p.ModelVersion == "" {
		return fmt.Errorf("model version is required")
	}
	if p.NoticeCount < 0 {
		return fmt.Errorf("notice count cannot be negative")
	}
	return nil
}
