package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex characters, enough to tell model versions apart in logs
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ModelVersion identifies a trained model by the ordered feature set it consumes
type ModelVersion Hash

// ComputeModelVersion hashes the ordered feature names and the seed's textual form.
// Order matters: the same features in another order are a different model input layout.
func ComputeModelVersion(features []string, seed string) ModelVersion {
	var b strings.Builder
	for _, f := range features {
		b.WriteString(f)
		b.WriteByte(0)
	}
	b.WriteString(seed)
	return ModelVersion(NewHash([]byte(b.String())))
}

func (v ModelVersion) String() string { return Hash(v).String() }
func (v ModelVersion) Short() string  { return Hash(v).Short() }
