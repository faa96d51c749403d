// Package summary derives account balances, pockets and totals from the
// full, unfiltered ledger. Every function here is pure.
package summary

import (
	"strings"

	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

// Keywords that tag a Cash transaction into a pocket.
const (
	SavingsKeyword       = "tabungan"
	DiscretionaryKeyword = "foya"
)

type (
	// Balances maps each fixed account to its signed total.
	Balances map[core.Account]float64

	// Pockets are the three derived aggregates.
	Pockets struct {
		Savings       float64 `json:"savings"`
		Capital       float64 `json:"capital"`
		Discretionary float64 `json:"discretionary"`
	}

	// Totals summarizes a set of transactions for a report.
	Totals struct {
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Net     float64 `json:"net"`
	}

	// AccountBalance is one entry of Balances in display order.
	AccountBalance struct {
		Account core.Account `json:"account"`
		Balance float64      `json:"balance"`
	}
)

// ComputeBalances folds every transaction on a fixed account into that
// account's balance. Transactions on other accounts are ignored.
func ComputeBalances(txs []core.Transaction) Balances {
	sums := make(map[core.Account]decimal.Decimal, len(core.Accounts()))
	for _, a := range core.Accounts() {
		sums[a] = decimal.Zero
	}
	for _, t := range txs {
		sum, ok := sums[t.Account]
		if !ok {
			continue
		}
		sums[t.Account] = sum.Add(signed(t))
	}

	out := make(Balances, len(sums))
	for a, sum := range sums {
		out[a] = sum.InexactFloat64()
	}
	return out
}

// Ordered returns the balances in the fixed display order.
func (b Balances) Ordered() []AccountBalance {
	out := make([]AccountBalance, 0, len(core.Accounts()))
	for _, a := range core.Accounts() {
		out = append(out, AccountBalance{Account: a, Balance: b[a]})
	}
	return out
}

// ComputePockets combines account balances with keyword-tagged cash entries.
func ComputePockets(txs []core.Transaction, b Balances) Pockets {
	savings := decimal.NewFromFloat(b[core.SeaBank]).
		Add(decimal.NewFromFloat(b[core.Bibit])).
		Add(cashMatching(txs, SavingsKeyword))
	discretionary := decimal.NewFromFloat(b[core.DANA]).
		Add(cashMatching(txs, DiscretionaryKeyword))

	return Pockets{
		Savings:       savings.InexactFloat64(),
		Capital:       b[core.BankJago],
		Discretionary: discretionary.InexactFloat64(),
	}
}

// cashMatching is the signed sum of Cash transactions whose note contains keyword, ignoring case.
func cashMatching(txs []core.Transaction, keyword string) decimal.Decimal {
	keyword = strings.ToLower(keyword)
	sum := decimal.Zero
	for _, t := range txs {
		if t.Account != core.Cash || !strings.Contains(strings.ToLower(t.Note), keyword) {
			continue
		}
		sum = sum.Add(signed(t))
	}
	return sum
}

// ComputeTotals sums income and expense over txs regardless of account.
func ComputeTotals(txs []core.Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Kind {
		case core.Income:
			income = income.Add(decimal.NewFromFloat(t.Amount))
		case core.Expense:
			expense = expense.Add(decimal.NewFromFloat(t.Amount))
		}
	}
	return Totals{
		Income:  income.InexactFloat64(),
		Expense: expense.InexactFloat64(),
		Net:     income.Sub(expense).InexactFloat64(),
	}
}

func signed(t core.Transaction) decimal.Decimal {
	d := decimal.NewFromFloat(t.Amount)
	if t.Kind == core.Expense {
		return d.Neg()
	}
	return d
}
