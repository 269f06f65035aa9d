package csvrepo

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/milad/energyreport/internal/domain"
	"github.com/milad/energyreport/internal/repo"
)

const (
	// dateLayout accepts one or two digit day and month, e.g. 5.3.2024 or
	// 05.03.2024, and a space-padded day such as " 5.03.2024".
	dateLayout = "_2.1.2006"
	separator  = ';'
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidConsumption = errors.New("invalid consumption")
)

// ScanReadingsCSV streams readings from r.
//
// The input is semicolon separated UTF-8, optionally prefixed with a byte
// order mark. "\n", "\r\n" and a lone "\r" all end a line; blank lines are
// ignored and never count as the header. The first row is a header and is
// discarded without being inspected. Each data row needs a date (DD.MM.YYYY) in field 0 and a
// consumption value in field 1; a comma is accepted as decimal separator.
//
// Rows with fewer than two fields are skipped silently. Rows whose date or
// consumption cannot be parsed are passed to invalid and skipped.
// The returned error is non-nil only if reading r fails, ctx is done, or
// visit returns an error.
func ScanReadingsCSV(
	ctx context.Context,
	r io.Reader,
	visit func(domain.Reading) error,
	invalid func(*repo.RowError),
) (domain.ScanStats, error) {
	var stats domain.ScanStats

	dec := transform.Chain(unicode.BOMOverride(unicode.UTF8.NewDecoder()), lineEndings{})
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.Comma = separator
	cr.FieldsPerRecord = -1 // be permissive; validate ourselves
	cr.LazyQuotes = true

	rowNum := 1 // header
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return stats, nil
		}
		var pe *csv.ParseError
		if !errors.As(err, &pe) {
			return stats, fmt.Errorf("read header: %w", err)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		row, err := cr.Read()
		if err == io.EOF {
			return stats, nil
		}
		rowNum++
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return stats, fmt.Errorf("row %d: read: %w", rowNum, err)
			}
			stats.Rows++
			stats.Invalid++
			report(invalid, &repo.RowError{Row: rowNum, Fields: row, Err: err})
			continue
		}
		stats.Rows++

		if len(row) < 2 {
			stats.Short++
			continue
		}

		reading, err := parseRow(row)
		if err != nil {
			stats.Invalid++
			report(invalid, &repo.RowError{Row: rowNum, Fields: row, Err: err})
			continue
		}

		stats.Valid++
		if err := visit(reading); err != nil {
			return stats, fmt.Errorf("row %d: %w", rowNum, err)
		}
	}
}

func parseRow(row []string) (domain.Reading, error) {
	d, err := time.ParseInLocation(dateLayout, row[0], time.UTC)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, row[0], err)
	}

	f, err := parseConsumption(row[1])
	if err != nil {
		return domain.Reading{}, err
	}

	return domain.Reading{Date: d, Consumption: f}, nil
}

// parseConsumption parses a decimal number that may use ',' as separator.
// Negative values are accepted as-is.
func parseConsumption(s string) (float64, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidConsumption, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w %q: not a finite number", ErrInvalidConsumption, s)
	}
	return f, nil
}

func report(invalid func(*repo.RowError), e *repo.RowError) {
	if invalid != nil {
		invalid(e)
	}
}
