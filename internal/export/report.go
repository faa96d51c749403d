package export

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"dompet/internal/core"
	"dompet/internal/filter"
	"dompet/internal/summary"
)

type (
	// ReportRow is one printed line. The category column is not printed.
	ReportRow struct {
		Date    string       `json:"date"`
		Note    string       `json:"note"`
		Account core.Account `json:"account"`
		Kind    core.Kind    `json:"kind"`
		Amount  float64      `json:"amount"`
	}

	// Report is the print-oriented view of a filtered history.
	Report struct {
		Title       string          `json:"title"`
		Criteria    filter.Criteria `json:"criteria"`
		Totals      summary.Totals  `json:"totals"`
		Rows        []ReportRow     `json:"rows"`
		GeneratedAt time.Time       `json:"generatedAt"`
	}
)

// BuildReport summarizes an already filtered and sorted history.
func BuildReport(filtered []core.Transaction, c filter.Criteria, now time.Time) Report {
	rows := make([]ReportRow, 0, len(filtered))
	for _, t := range filtered {
		rows = append(rows, ReportRow{
			Date:    t.Date,
			Note:    t.Note,
			Account: t.Account,
			Kind:    t.Kind,
			Amount:  t.Amount,
		})
	}
	return Report{
		Title:       "Financial Report - " + c.Label(),
		Criteria:    c,
		Totals:      summary.ComputeTotals(filtered),
		Rows:        rows,
		GeneratedAt: now,
	}
}

// DisplayDate renders an ISO date as dd/mm/yyyy, or returns it unchanged when it does not parse.
func DisplayDate(s string) string {
	d, ok := core.ParseDate(s)
	if !ok {
		return s
	}
	return d.Format("02/01/2006")
}

// WriteReportText renders the report as aligned plain text.
func WriteReportText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n\n", r.Title)
	fmt.Fprintf(tw, "Total Income:\t%s\n", core.FormatRupiah(r.Totals.Income))
	fmt.Fprintf(tw, "Total Expense:\t%s\n", core.FormatRupiah(r.Totals.Expense))
	fmt.Fprintf(tw, "Net Cash Flow:\t%s\n\n", core.FormatRupiah(r.Totals.Net))

	if len(r.Rows) == 0 {
		fmt.Fprintln(tw, "No transactions for this filter.")
		return tw.Flush()
	}

	fmt.Fprintln(tw, "Date\tNote\tAccount\tAmount\t")
	for _, row := range r.Rows {
		sign := "+"
		if row.Kind == core.Expense {
			sign = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t\n", DisplayDate(row.Date), row.Note, row.Account, sign, core.FormatRupiah(row.Amount))
	}
	return tw.Flush()
}
