package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidMessage marks a delivery that can never be processed.
var ErrInvalidMessage = errors.New("invalid invalidation message")

// DatasetInvalidateMessage asks consumers to drop their memoized dataset.
// All drops every memoized version, not only the current one.
type DatasetInvalidateMessage struct {
	ID        string    `json:"id"`
	Source    string    `json:"source,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	All       bool      `json:"all,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDatasetInvalidateMessage creates a message with a fresh id.
func NewDatasetInvalidateMessage(source, reason string, all bool) *DatasetInvalidateMessage {
	return &DatasetInvalidateMessage{
		ID:        uuid.NewString(),
		Source:    source,
		Reason:    reason,
		All:       all,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetInvalidateMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetInvalidateMessageFromJSON decodes a delivery body. A body without
// an id or timestamp is rejected.
func DatasetInvalidateMessageFromJSON(data []byte) (*DatasetInvalidateMessage, error) {
	var msg DatasetInvalidateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.Join(ErrInvalidMessage, err)
	}
	if msg.ID == "" || msg.Timestamp.IsZero() {
		return nil, ErrInvalidMessage
	}
	return &msg, nil
}
