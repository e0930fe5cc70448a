package amqp

import (
	"encoding/json"
	"time"

	"spendy/internal/core"
)

// IconJobMessage asks the worker to render a persona icon for an archived
// snapshot. The worker skips categories it already has an icon for.
type IconJobMessage struct {
	SnapshotID string        `json:"snapshotId"`
	Category   core.Category `json:"category"`
	Prompt     string        `json:"prompt"`
	Timestamp  time.Time     `json:"timestamp"`
}

// NewIconJobMessage creates an icon job for the given snapshot and persona
func NewIconJobMessage(snapshotID string, category core.Category, prompt string) *IconJobMessage {
	return &IconJobMessage{
		SnapshotID: snapshotID,
		Category:   category,
		Prompt:     prompt,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *IconJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// IconJobMessageFromJSON creates a message from JSON bytes
func IconJobMessageFromJSON(data []byte) (*IconJobMessage, error) {
	var msg IconJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
