package sheets

import (
	"context"
)

// Ports for outbound spreadsheet adapters.
type (
	// LedgerMirror keeps a spreadsheet copy of the flat-file export.
	LedgerMirror interface {
		// Replace overwrites the mirrored sheet with rows, header first.
		Replace(ctx context.Context, rows [][]string) error
	}

	// LedgerReader reads the mirrored rows back, header first.
	LedgerReader interface {
		Rows(ctx context.Context) ([][]string, error)
	}
)
