package amqp

import (
	"encoding/json"
	"time"
)

// RefreshRequestMessage asks the worker to rebuild the runway projection.
// Scope identifies whose ledger to refresh (the spreadsheet ID for the
// sheets backend); Reason is free text for the logs.
type RefreshRequestMessage struct {
	Scope       string    `json:"scope"`
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewRefreshRequestMessage creates a refresh request stamped with now.
func NewRefreshRequestMessage(scope, reason string) *RefreshRequestMessage {
	return &RefreshRequestMessage{
		Scope:       scope,
		Reason:      reason,
		RequestedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RefreshRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RefreshRequestMessageFromJSON creates a message from JSON bytes.
func RefreshRequestMessageFromJSON(data []byte) (*RefreshRequestMessage, error) {
	var msg RefreshRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
