package expression

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned for frames that carry neither a label nor scores.
var ErrEmptyMessage = errors.New("expression: message has no label or scores")

// Message is a single classifier result sent by a client.
type Message struct {
	Label       string             `json:"label,omitempty"`
	Expressions map[string]float64 `json:"expressions,omitempty"`
}

// Decode parses a client frame and returns its normalised label.
// An explicit label wins over a score map.
func Decode(payload []byte) (string, error) {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return "", fmt.Errorf("expression: invalid message: %w", err)
	}

	if m.Label != "" {
		return Normalize(m.Label), nil
	}
	if label, _, ok := Dominant(m.Expressions); ok {
		return Normalize(label), nil
	}
	return "", ErrEmptyMessage
}
