// Package filter narrows the ledger for display. It never changes the ledger
// and has no effect on balances or pockets.
package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"dompet/internal/core"
)

const (
	Personal Mode = "personal"
	Business Mode = "business"
)

// All is the query value meaning "no restriction" for month and year.
const All = "all"

type (
	// Mode partitions transactions into personal and business ones.
	Mode string

	// Criteria selects transactions for the history view. Zero Month or Year means all.
	Criteria struct {
		Month int  `json:"month"`
		Year  int  `json:"year"`
		Mode  Mode `json:"mode"`
	}
)

var monthNames = [...]string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// ParseMonth accepts "all", "" or 1-12.
func ParseMonth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return 0, nil
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, &core.ValidationError{Field: "month", Reason: fmt.Sprintf("%q is not all or 1-12", s)}
	}
	return m, nil
}

// ParseYear accepts "all", "" or a four digit year.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return 0, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || len(s) != 4 || y < 1000 {
		return 0, &core.ValidationError{Field: "year", Reason: fmt.Sprintf("%q is not all or a 4-digit year", s)}
	}
	return y, nil
}

// ParseMode accepts "personal" or "business"; empty defaults to personal.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Personal:
		return Personal, nil
	case Business:
		return Business, nil
	default:
		return "", &core.ValidationError{Field: "mode", Reason: fmt.Sprintf("%q is not personal or business", s)}
	}
}

// Parse builds Criteria from the three raw query values.
func Parse(month, year, mode string) (Criteria, error) {
	var c Criteria
	var err error
	if c.Month, err = ParseMonth(month); err != nil {
		return Criteria{}, err
	}
	if c.Year, err = ParseYear(year); err != nil {
		return Criteria{}, err
	}
	if c.Mode, err = ParseMode(mode); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

// Matches reports whether t passes the month, year and mode filters.
// A transaction whose date does not parse only matches when month and year are both all.
func (c Criteria) Matches(t core.Transaction) bool {
	if c.Month != 0 || c.Year != 0 {
		d, ok := t.ParsedDate()
		if !ok {
			return false
		}
		if c.Month != 0 && int(d.Month()) != c.Month {
			return false
		}
		if c.Year != 0 && d.Year() != c.Year {
			return false
		}
	}
	if c.Mode == Business {
		return t.IsBusiness()
	}
	return !t.IsBusiness()
}

// Apply returns the matching transactions, newest date first and, within a
// day, most recently entered first. txs is not modified.
func Apply(txs []core.Transaction, c Criteria) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	SortForDisplay(out)
	return out
}

// SortForDisplay orders by date descending, then id descending. ISO dates
// compare correctly as strings.
func SortForDisplay(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Date != txs[j].Date {
			return txs[i].Date > txs[j].Date
		}
		return txs[i].ID > txs[j].ID
	})
}

// Years lists the distinct years present in txs, newest first, always
// including the year of now.
func Years(txs []core.Transaction, now time.Time) []int {
	seen := map[int]bool{now.Year(): true}
	for _, t := range txs {
		if d, ok := t.ParsedDate(); ok {
			seen[d.Year()] = true
		}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// MonthName returns the English month name for 1-12 and "All Months" otherwise.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return "All Months"
	}
	return monthNames[m-1]
}

// Label is a human-readable description used in report titles.
func (c Criteria) Label() string {
	year := "All Years"
	if c.Year != 0 {
		year = strconv.Itoa(c.Year)
	}
	return MonthName(c.Month) + " " + year
}

// Key identifies the criteria in caches.
func (c Criteria) Key() string {
	return fmt.Sprintf("%d-%d-%s", c.Year, c.Month, c.Mode)
}
