package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/milad/energyreport/internal/domain"
)

// ReadingSource streams energy readings.
type ReadingSource interface {
	// Scan calls visit for every valid reading, in source order, and invalid
	// for every row that could not be parsed. Rows with too few fields are
	// counted but reported to neither callback.
	// A non-nil error means the scan could not complete (source unreadable,
	// cancelled, or visit failed).
	Scan(ctx context.Context, visit func(domain.Reading) error, invalid func(*RowError)) (domain.ScanStats, error)
}

// RowError describes a data row that was skipped because it could not be parsed.
type RowError struct {
	Row    int // 1-based, header included
	Fields []string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d [%s]: %v", e.Row, strings.Join(e.Fields, ";"), e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
