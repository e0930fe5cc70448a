package amqp

import (
	"testing"
	"time"

	"spendy/internal/core"
)

func TestNewIconJobMessage(t *testing.T) {
	msg := NewIconJobMessage("1757000000000", core.CategoryFood, "A delicious meal on a warm plate")

	if msg.SnapshotID != "1757000000000" {
		t.Errorf("SnapshotID = %v, want 1757000000000", msg.SnapshotID)
	}
	if msg.Category != core.CategoryFood {
		t.Errorf("Category = %v, want %v", msg.Category, core.CategoryFood)
	}
	if msg.Prompt == "" {
		t.Error("Prompt should not be empty")
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestIconJobMessage_JSON(t *testing.T) {
	timestamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &IconJobMessage{
		SnapshotID: "1757000000000",
		Category:   core.CategoryShopping,
		Prompt:     "Shopping bags in pastel colors",
		Timestamp:  timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := IconJobMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("IconJobMessageFromJSON() error = %v", err)
	}

	if parsedMsg.SnapshotID != msg.SnapshotID {
		t.Errorf("Parsed SnapshotID = %v, want %v", parsedMsg.SnapshotID, msg.SnapshotID)
	}
	if parsedMsg.Category != msg.Category {
		t.Errorf("Parsed Category = %v, want %v", parsedMsg.Category, msg.Category)
	}
	if parsedMsg.Prompt != msg.Prompt {
		t.Errorf("Parsed Prompt = %v, want %v", parsedMsg.Prompt, msg.Prompt)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestIconJobMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"snapshotId": 12345, "category": []}`)

	if _, err := IconJobMessageFromJSON(invalidJSON); err == nil {
		t.Error("IconJobMessageFromJSON() should fail with invalid JSON")
	}
}
