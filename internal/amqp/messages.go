package amqp

import (
	"encoding/json"
	"time"
)

// TransactionsRecordedMessage announces that one user action committed new
// transactions. It carries ids only; consumers read the rows from the ledger.
type TransactionsRecordedMessage struct {
	IDs       []int64   `json:"ids"`
	Business  bool      `json:"business"`
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionsRecordedMessage(ids []int64, business bool, revision int64) *TransactionsRecordedMessage {
	return &TransactionsRecordedMessage{
		IDs:       append([]int64(nil), ids...),
		Business:  business,
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionsRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionsRecordedFromJSON creates a message from JSON bytes
func TransactionsRecordedFromJSON(data []byte) (*TransactionsRecordedMessage, error) {
	var msg TransactionsRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
