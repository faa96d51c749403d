package ledger

import (
	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

// Share of a business income moved out of the business account.
var (
	SavingsRate       = decimal.RequireFromString("0.30")
	DiscretionaryRate = decimal.RequireFromString("0.20")
)

// IsBusinessIncome reports whether a transaction triggers the split.
func IsBusinessIncome(t core.Transaction) bool {
	return t.Kind == core.Income && t.IsBusiness()
}

// Split derives the four auxiliary records for a business income. The
// business account gives up the savings and discretionary shares, which land
// in SeaBank and DANA; the remaining half stays in Bank Jago as capital.
// Ids are left zero for the caller to assign.
func Split(base core.Transaction) []core.Transaction {
	amount := decimal.NewFromFloat(base.Amount)
	savings := amount.Mul(SavingsRate).InexactFloat64()
	discretionary := amount.Mul(DiscretionaryRate).InexactFloat64()

	savingsNote := "Split Savings from: " + base.Note
	discretionaryNote := "Split Discretionary from: " + base.Note

	leg := func(account core.Account, kind core.Kind, amount float64, note string) core.Transaction {
		return core.Transaction{
			Account:  account,
			Kind:     kind,
			Amount:   amount,
			Note:     note,
			Category: core.BusinessCategory,
			Date:     base.Date,
			IsSplit:  true,
		}
	}

	return []core.Transaction{
		leg(core.BankJago, core.Expense, savings, savingsNote),
		leg(core.BankJago, core.Expense, discretionary, discretionaryNote),
		leg(core.SeaBank, core.Income, savings, savingsNote),
		leg(core.DANA, core.Income, discretionary, discretionaryNote),
	}
}
