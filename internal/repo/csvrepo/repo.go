package csvrepo

import (
	"context"
	"fmt"
	"os"

	"github.com/milad/energyreport/internal/domain"
	"github.com/milad/energyreport/internal/repo"
)

var _ repo.ReadingSource = (*Source)(nil)

// Source streams readings from a CSV file on disk. The file is opened on
// every Scan and closed before Scan returns.
type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Path() string { return s.path }

func (s *Source) Scan(ctx context.Context, visit func(domain.Reading) error, invalid func(*repo.RowError)) (domain.ScanStats, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return domain.ScanStats{}, fmt.Errorf("open csv %q: %w", s.path, err)
	}
	defer f.Close()

	stats, err := ScanReadingsCSV(ctx, f, visit, invalid)
	if err != nil {
		return stats, fmt.Errorf("scan csv %q: %w", s.path, err)
	}
	return stats, nil
}
