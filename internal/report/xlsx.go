package report

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
)

// WriteXLSX writes the audit table plus a summary sheet as a workbook and
// returns the path written.
func (w *Writer) WriteXLSX(subs []subscription.Subscription) (string, error) {
	path := filepath.Join(w.outputDir, fmt.Sprintf("subscription_audit_%s.xlsx", w.now().Format("20060102_150405")))

	f := excelize.NewFile()
	defer f.Close()

	const auditSheet = "Audit"
	if err := f.SetSheetName("Sheet1", auditSheet); err != nil {
		return "", err
	}

	for col, header := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(auditSheet, cell, header); err != nil {
			return "", err
		}
	}

	for i, s := range subs {
		for col, value := range row(s) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(auditSheet, cell, value); err != nil {
				return "", err
			}
		}
	}

	if err := w.addSummarySheet(f, Summarize(subs)); err != nil {
		return "", err
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	w.logger.Debug("Workbook written", "path", path)

	return path, nil
}

func (w *Writer) addSummarySheet(f *excelize.File, summary Summary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Total Subscriptions", summary.TotalSubscriptions},
		{"Total Monthly Cost", summary.TotalMonthlyCost},
		{"Total Annual Cost", summary.TotalMonthlyCost * 12},
		{"Refund Opportunities", summary.RefundOpportunities},
		{"Potential Refund Amount", summary.PotentialRefundAmount},
	}

	categories := make([]string, 0, len(summary.SpendByCategory))
	for cat := range summary.SpendByCategory {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)
	for _, cat := range categories {
		rows = append(rows, []any{"Spend: " + cat, summary.SpendByCategory[subscription.Category(cat)]})
	}

	for i, pair := range rows {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), pair[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), pair[1]); err != nil {
			return err
		}
	}

	return nil
}
