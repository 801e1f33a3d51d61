package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eshaffer321/subscription-auditor/internal/domain/identity"
)

// minOccurrences is how many times a description must be charged at the
// same amount before it counts as recurring.
const minOccurrences = 2

// StatementCSVSource detects recurring charges in a bank-statement CSV
// export with a date,description,amount header row. Expenses may appear
// as negative amounts depending on the bank; they are normalized to
// positive costs.
type StatementCSVSource struct {
	path   string
	logger *slog.Logger
}

// NewStatementCSVSource creates a CSV-backed statement source.
func NewStatementCSVSource(path string, logger *slog.Logger) *StatementCSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatementCSVSource{path: path, logger: logger}
}

// Compile-time check that StatementCSVSource implements StatementSource
var _ StatementSource = (*StatementCSVSource)(nil)

type statementRow struct {
	date        time.Time
	description string
	amount      float64
}

// FindRecurringCharges parses the statement and groups rows by normalized
// description and cent amount. Groups charged at least twice are reported
// as recurring, each with its most recent charge date.
func (s *StatementCSVSource) FindRecurringCharges(ctx context.Context) ([]StatementCharge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.parse()
	if err != nil {
		return nil, err
	}

	type group struct {
		name   string
		cost   float64
		latest time.Time
		count  int
	}

	groups := make(map[string]*group)
	for _, row := range rows {
		cost := math.Abs(row.amount)
		// Key on identity plus cent amount so a price change starts a new
		// group instead of polluting an existing one.
		key := fmt.Sprintf("%s|%d", identity.Normalize(row.description), int64(math.Round(cost*100)))

		g, ok := groups[key]
		if !ok {
			g = &group{name: row.description, cost: cost}
			groups[key] = g
		}
		g.count++
		if row.date.After(g.latest) {
			g.latest = row.date
			g.name = row.description
		}
	}

	var charges []StatementCharge
	for _, g := range groups {
		if g.count < minOccurrences {
			continue
		}
		charges = append(charges, StatementCharge{
			Name:        g.name,
			Cost:        g.cost,
			LastCharged: g.latest,
		})
	}

	// Map iteration order is random; keep connector output deterministic.
	sort.Slice(charges, func(i, j int) bool { return charges[i].Name < charges[j].Name })

	s.logger.Debug("Detected recurring charges",
		"path", s.path,
		"rows", len(rows),
		"recurring", len(charges),
	)

	return charges, nil
}

// parse reads the CSV and converts rows, skipping the header line.
func (s *StatementCSVSource) parse() ([]statementRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 3

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement %s: %w", s.path, err)
	}

	var rows []statementRow
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[0], "date") {
			continue
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("statement %s line %d: bad date %q: %w", s.path, i+1, rec[0], err)
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("statement %s line %d: bad amount %q: %w", s.path, i+1, rec[2], err)
		}

		rows = append(rows, statementRow{
			date:        date,
			description: strings.TrimSpace(rec[1]),
			amount:      amount,
		})
	}

	return rows, nil
}
