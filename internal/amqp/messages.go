package amqp

import (
	"encoding/json"
	"time"

	"expenses/internal/core"
	"expenses/internal/store"
)

// ExpenseSnapshotMessage carries the whole expense list at one store
// revision. Revisions restart with every server process, so Source
// identifies the publishing process and revisions only compare within it.
type ExpenseSnapshotMessage struct {
	Source    string         `json:"source,omitempty"`
	Revision  uint64         `json:"revision"`
	Expenses  []core.Expense `json:"expenses"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewExpenseSnapshotMessage wraps a store snapshot.
func NewExpenseSnapshotMessage(snap store.Snapshot) *ExpenseSnapshotMessage {
	expenses := snap.Expenses
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return &ExpenseSnapshotMessage{
		Revision:  snap.Revision,
		Expenses:  expenses,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseSnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseSnapshotMessageFromJSON creates a message from JSON bytes
func ExpenseSnapshotMessageFromJSON(data []byte) (*ExpenseSnapshotMessage, error) {
	var msg ExpenseSnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
