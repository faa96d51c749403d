// Package export renders the ledger for the outside world: the flat CSV
// file, spreadsheet rows and the printable report.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"dompet/internal/core"
)

// Header is the fixed first row of the flat-file export.
var Header = []string{"ID", "Date", "Note", "Category", "Account", "Kind", "Amount"}

// Filename returns the export file name for the given export time.
func Filename(now time.Time) string {
	return fmt.Sprintf("transaction-finance_%s.csv", now.Format(core.DateLayout))
}

// Rows converts transactions to unquoted cells, header first.
func Rows(txs []core.Transaction) [][]string {
	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, append([]string(nil), Header...))
	for _, t := range txs {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Date,
			t.Note,
			t.Category,
			string(t.Account),
			string(t.Kind),
			core.FormatAmount(t.Amount),
		})
	}
	return rows
}

// WriteCSV writes the whole ledger, one row per transaction. The note is
// always quoted with embedded quotes doubled; other cells are quoted only
// when they contain a separator, a quote or a line break.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	bw := bufio.NewWriter(w)
	rows := Rows(txs)
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			if i > 0 && j == 2 {
				cells[j] = quote(cell)
				continue
			}
			cells[j] = quoteIfNeeded(cell)
		}
		if _, err := bw.WriteString(strings.Join(cells, ",")); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
		if i < len(rows)-1 {
			if err := bw.WriteByte('\n'); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

// ParseCSV reads a file produced by WriteCSV back into transactions. The
// split flag is not part of the export and is always false.
func ParseCSV(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty export")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range Header {
		if head[i] != h {
			return nil, fmt.Errorf("unexpected header column %d: %q", i+1, head[i])
		}
	}

	var out []core.Transaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id %q: %w", line, rec[0], err)
		}
		amount, err := strconv.ParseFloat(rec[6], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, rec[6], err)
		}
		out = append(out, core.Transaction{
			ID:       id,
			Date:     rec[1],
			Note:     rec[2],
			Category: rec[3],
			Account:  core.Account(rec[4]),
			Kind:     core.Kind(rec[5]),
			Amount:   amount,
		})
	}
}
