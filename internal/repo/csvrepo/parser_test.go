package csvrepo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/milad/energyreport/internal/domain"
	"github.com/milad/energyreport/internal/repo"
)

type collector struct {
	readings []domain.Reading
	invalid  []*repo.RowError
}

func (c *collector) visit(r domain.Reading) error {
	c.readings = append(c.readings, r)
	return nil
}

func (c *collector) onInvalid(e *repo.RowError) {
	c.invalid = append(c.invalid, e)
}

func scan(t *testing.T, input string) (*collector, domain.ScanStats) {
	t.Helper()
	c := &collector{}
	stats, err := ScanReadingsCSV(context.Background(), strings.NewReader(input), c.visit, c.onInvalid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c, stats
}

func TestScanReadingsCSV_OK(t *testing.T) {
	t.Parallel()

	c, stats := scan(t, strings.TrimSpace(`
Datum;Verbrauch
01.01.2024;10,0
02.01.2024;20.5
`))

	if got, want := len(c.readings), 2; got != want {
		t.Fatalf("len(readings)=%d want %d", got, want)
	}
	if got, want := c.readings[0].Date, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("date[0]=%v want %v", got, want)
	}
	if got, want := c.readings[0].Consumption, 10.0; got != want {
		t.Fatalf("consumption[0]=%v want %v", got, want)
	}
	if got, want := c.readings[1].Consumption, 20.5; got != want {
		t.Fatalf("consumption[1]=%v want %v", got, want)
	}
	if got, want := stats, (domain.ScanStats{Rows: 2, Valid: 2}); got != want {
		t.Fatalf("stats=%+v want %+v", got, want)
	}
}

func TestScanReadingsCSV_CommaAndDotAreEquivalent(t *testing.T) {
	t.Parallel()

	c, _ := scan(t, "header\n05.03.2024;12,5\n06.03.2024;12.5\n")
	if got, want := len(c.readings), 2; got != want {
		t.Fatalf("len(readings)=%d want %d", got, want)
	}
	if c.readings[0].Consumption != c.readings[1].Consumption {
		t.Fatalf("12,5 parsed as %v, 12.5 parsed as %v", c.readings[0].Consumption, c.readings[1].Consumption)
	}
}

func TestScanReadingsCSV_StripsByteOrderMark(t *testing.T) {
	t.Parallel()

	c, stats := scan(t, "\ufeff\"Datum\";\"Verbrauch\"\n01.02.2024;3\n")
	if got, want := stats, (domain.ScanStats{Rows: 1, Valid: 1}); got != want {
		t.Fatalf("stats=%+v want %+v", got, want)
	}
	if got, want := c.readings[0].Date.Month(), time.February; got != want {
		t.Fatalf("month=%v want %v", got, want)
	}
}

func TestScanReadingsCSV_HeaderIsNotValidated(t *testing.T) {
	t.Parallel()

	// The first row is dropped even when it looks like data.
	c, stats := scan(t, "01.01.2024;99\n02.01.2024;1\n")
	if got, want := stats.Rows, 1; got != want {
		t.Fatalf("rows=%d want %d", got, want)
	}
	if got, want := c.readings[0].Consumption, 1.0; got != want {
		t.Fatalf("consumption=%v want %v", got, want)
	}
}

func TestScanReadingsCSV_SkipsShortRowsSilently(t *testing.T) {
	t.Parallel()

	c, stats := scan(t, "header\n01.01.2024\n02.01.2024;4\n;\n")
	if got, want := len(c.invalid), 1; got != want {
		// ";" has two (empty) fields, so it is an invalid row, not a short one.
		t.Fatalf("len(invalid)=%d want %d", got, want)
	}
	if got, want := stats, (domain.ScanStats{Rows: 3, Valid: 1, Short: 1, Invalid: 1}); got != want {
		t.Fatalf("stats=%+v want %+v", got, want)
	}
}

func TestScanReadingsCSV_ReportsInvalidRowsOnce(t *testing.T) {
	t.Parallel()

	c, stats := scan(t, strings.TrimSpace(`
Datum;Verbrauch
01.01.2024;10
2024-01-02;11
03.01.2024;abc
32.01.2024;1
04.01.2024;NaN
05.01.2024;7
`))

	if got, want := len(c.readings), 2; got != want {
		t.Fatalf("len(readings)=%d want %d", got, want)
	}
	if got, want := len(c.invalid), 4; got != want {
		t.Fatalf("len(invalid)=%d want %d", got, want)
	}
	if got, want := c.invalid[0].Row, 3; got != want {
		t.Fatalf("invalid[0].Row=%d want %d", got, want)
	}
	if !errors.Is(c.invalid[0], ErrInvalidDate) {
		t.Fatalf("invalid[0]=%v want ErrInvalidDate", c.invalid[0])
	}
	if !errors.Is(c.invalid[1], ErrInvalidConsumption) {
		t.Fatalf("invalid[1]=%v want ErrInvalidConsumption", c.invalid[1])
	}
	if got, want := strings.Join(c.invalid[1].Fields, ";"), "03.01.2024;abc"; got != want {
		t.Fatalf("invalid[1].Fields=%q want %q", got, want)
	}
	if got, want := stats.Invalid, 4; got != want {
		t.Fatalf("stats.Invalid=%d want %d", got, want)
	}
}

func TestScanReadingsCSV_AcceptsNegativeConsumption(t *testing.T) {
	t.Parallel()

	c, _ := scan(t, "header\n01.01.2024;-2,5\n")
	if got, want := c.readings[0].Consumption, -2.5; got != want {
		t.Fatalf("consumption=%v want %v", got, want)
	}
}

func TestScanReadingsCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	c, stats := scan(t, "")
	if len(c.readings) != 0 || stats.Rows != 0 {
		t.Fatalf("expected nothing, got readings=%v stats=%+v", c.readings, stats)
	}
}

func TestScanReadingsCSV_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanReadingsCSV(ctx, strings.NewReader("header\n01.01.2024;1\n"), func(domain.Reading) error { return nil }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
}

func TestScanReadingsCSV_PropagatesVisitError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := ScanReadingsCSV(context.Background(), strings.NewReader("header\n01.01.2024;1\n"), func(domain.Reading) error { return boom }, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v want %v", err, boom)
	}
}

func TestScanReadingsCSV_CarriageReturnLineEndings(t *testing.T) {
	t.Parallel()

	c, stats := scan(t, "Datum;Verbrauch\r01.01.2024;10\r02.01.2024;20\r")
	if got, want := stats, (domain.ScanStats{Rows: 2, Valid: 2}); got != want {
		t.Fatalf("stats=%+v want %+v", got, want)
	}
	if got, want := c.readings[0].Consumption+c.readings[1].Consumption, 30.0; got != want {
		t.Fatalf("total=%v want %v", got, want)
	}
}

func TestScanReadingsCSV_MixedLineEndings(t *testing.T) {
	t.Parallel()

	_, stats := scan(t, "Datum;Verbrauch\r\n01.01.2024;10\r02.01.2024;20\n03.01.2024;5\r\n")
	if got, want := stats, (domain.ScanStats{Rows: 3, Valid: 3}); got != want {
		t.Fatalf("stats=%+v want %+v", got, want)
	}
}

func TestScanReadingsCSV_SpacePaddedDay(t *testing.T) {
	t.Parallel()

	c, stats := scan(t, "h\n 5.01.2024;10\n15.01.2024;20\n")
	if got, want := stats, (domain.ScanStats{Rows: 2, Valid: 2}); got != want {
		t.Fatalf("stats=%+v want %+v", got, want)
	}
	if got, want := c.readings[0].Date, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("date=%v want %v", got, want)
	}
}

func TestScanReadingsCSV_LeadingBlankLineIsNotTheHeader(t *testing.T) {
	t.Parallel()

	// Blank lines are skipped before the header is taken, so the real
	// header is dropped and no diagnostic is raised for it.
	c, stats := scan(t, "\nDatum;Verbrauch\n01.01.2024;10\n")
	if got, want := stats, (domain.ScanStats{Rows: 1, Valid: 1}); got != want {
		t.Fatalf("stats=%+v want %+v", got, want)
	}
	if got := len(c.invalid); got != 0 {
		t.Fatalf("len(invalid)=%d want 0", got)
	}
}

func TestScanReadingsCSV_InvalidUTF8IsARowError(t *testing.T) {
	t.Parallel()

	c, stats := scan(t, "h\n\xff1.01.2024;1\n01.01.2024;2\n")
	if got, want := stats, (domain.ScanStats{Rows: 2, Valid: 1, Invalid: 1}); got != want {
		t.Fatalf("stats=%+v want %+v", got, want)
	}
	if !errors.Is(c.invalid[0], ErrInvalidDate) {
		t.Fatalf("invalid[0]=%v want ErrInvalidDate", c.invalid[0])
	}
}
