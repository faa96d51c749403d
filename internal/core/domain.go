package core

import (
	"math"
	"strings"
	"time"
)

// Fixed accounts, in display order.
const (
	GoPay    Account = "GoPay"
	BRI      Account = "BRI"
	SeaBank  Account = "SeaBank"
	Bibit    Account = "Bibit"
	BankJago Account = "Bank Jago"
	DANA     Account = "DANA"
	Cash     Account = "Cash"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// BusinessCategory tags transactions that belong to the business side of the ledger.
const BusinessCategory = "Bisnis"

// DateLayout is the ISO calendar date format used for Transaction.Date.
const DateLayout = "2006-01-02"

type (
	// Account names a money-holding bucket. Any string may be stored on a
	// transaction; only the fixed accounts take part in balances.
	Account string

	// Kind is the direction of a money movement.
	Kind string

	Transaction struct {
		ID       int64   `json:"id"`
		Account  Account `json:"account"`
		Kind     Kind    `json:"kind"`
		Amount   float64 `json:"amount"`
		Note     string  `json:"note"`
		Category string  `json:"category"`
		Date     string  `json:"date"`
		IsSplit  bool    `json:"isSplit,omitempty"`
	}
)

var accounts = []Account{GoPay, BRI, SeaBank, Bibit, BankJago, DANA, Cash}

// Accounts returns the fixed account list in display order.
func Accounts() []Account {
	return append([]Account(nil), accounts...)
}

// Known reports whether a is one of the fixed accounts.
func (a Account) Known() bool {
	for _, known := range accounts {
		if a == known {
			return true
		}
	}
	return false
}

func (a Account) String() string {
	return string(a)
}

// Valid reports whether k is income or expense.
func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// Sign returns +1 for income and -1 for expense.
func (k Kind) Sign() float64 {
	if k == Expense {
		return -1
	}
	return 1
}

// Signed returns the amount with the direction of Kind applied.
func (t Transaction) Signed() float64 {
	return t.Kind.Sign() * t.Amount
}

// IsBusiness reports whether the transaction carries the business tag.
func (t Transaction) IsBusiness() bool {
	return t.Category == BusinessCategory
}

// ParsedDate returns the calendar date, or false when Date is not a valid ISO date.
func (t Transaction) ParsedDate() (time.Time, bool) {
	return ParseDate(t.Date)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Validate checks the stored shape of a transaction. Account is not checked:
// unknown accounts are accepted and ignored by aggregation.
func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return &ValidationError{Field: "kind", Reason: "must be income or expense"}
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return &ValidationError{Field: "amount", Reason: "must be a finite number"}
	}
	if t.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if strings.TrimSpace(t.Note) == "" {
		return &ValidationError{Field: "note", Reason: "must not be empty"}
	}
	if strings.TrimSpace(t.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if strings.TrimSpace(t.Date) == "" {
		return &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	return nil
}
