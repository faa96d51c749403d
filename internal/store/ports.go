package store

import "context"

// Keys under which the ledger and the category registry are persisted.
const (
	KeyTransactions = "transactions_v2"
	KeyCategories   = "finance_categories"
)

// KeyValue is the persistence port. Values are whole JSON documents; every
// save overwrites the previous value for the key.
type KeyValue interface {
	// Load returns the stored value and true, or nil and false when the key has never been saved.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, value []byte) error
}
