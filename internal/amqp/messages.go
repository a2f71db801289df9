package amqp

import (
	"encoding/json"
	"time"

	"expensetracker/internal/core"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// LedgerEventMessage signals that one user's ledger changed. It carries
// only identifiers; consumers fetch whatever rows they need from the
// store themselves.
type LedgerEventMessage struct {
	Action    string    `json:"action"`
	Kind      core.Kind `json:"kind"`
	EntryID   int64     `json:"entry_id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(action string, kind core.Kind, entryID, userID int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		Action:    action,
		Kind:      kind,
		EntryID:   entryID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
