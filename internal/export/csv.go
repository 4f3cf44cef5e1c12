// Package export produces the downloadable artifacts: transaction and
// summary CSVs, a multi-section PDF report, and an optional spreadsheet
// append. All exporters validate their input up front and fail with an
// *ExportError before emitting anything.
package export

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Soham2411/flowtrack/internal/core"
)

// CSVResult is a finished CSV document plus the metadata the UI reports.
type CSVResult struct {
	Text        string
	Filename    string
	RecordCount int
}

var transactionHeader = []string{"Date", "Description", "Category", "Type", "Amount", "Created At"}

// TransactionsCSV renders the transactions inside rng (zero rng means all)
// as comma-separated text with a header row. Amounts are "$X.XX"; the
// filename embeds the range or the literals "all"/"time" when unbounded.
func TransactionsCSV(txs []core.Transaction, rng core.DateRange) (CSVResult, error) {
	filtered := core.Filter(txs, "all", rng)
	if err := validate(filtered); err != nil {
		return CSVResult{}, err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write(transactionHeader)
	for _, tx := range filtered {
		w.Write([]string{
			tx.Date.Format("1/2/2006"),
			tx.Description,
			tx.CategoryName,
			tx.Type.Title(),
			dollars(tx.Amount),
			tx.CreatedAt.Format("1/2/2006, 3:04:05 PM"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return CSVResult{}, &ExportError{Reason: "write csv", Err: err}
	}

	return CSVResult{
		Text:        sb.String(),
		Filename:    rangeFilename("flowtrack_transactions", rng),
		RecordCount: len(filtered),
	}, nil
}

// SummaryCSV renders the dashboard summary as a metric/value table: the
// four headline numbers, a generation timestamp, then one total per
// category ("$0.00" for categories without a precomputed total).
func SummaryCSV(summary core.Summary, categories []core.CategorySlice, now time.Time) (CSVResult, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write([]string{"Metric", "Value"})
	w.Write([]string{"Total Income", dollars(summary.TotalIncome)})
	w.Write([]string{"Total Expenses", dollars(summary.TotalExpenses)})
	w.Write([]string{"Current Balance", dollars(summary.Balance)})
	w.Write([]string{"Transaction Count", fmt.Sprint(summary.TransactionCount)})
	w.Write([]string{"Report Generated", now.Format("1/2/2006, 3:04:05 PM")})
	for _, cat := range categories {
		w.Write([]string{cat.Name + " Total", dollars(cat.Value)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return CSVResult{}, &ExportError{Reason: "write csv", Err: err}
	}

	return CSVResult{
		Text:     sb.String(),
		Filename: fmt.Sprintf("flowtrack_summary_%s.csv", now.Format("2006-01-02")),
	}, nil
}

func validate(txs []core.Transaction) error {
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return &ExportError{
				Reason: fmt.Sprintf("transaction %d is malformed", i+1),
				Err:    err,
			}
		}
	}
	return nil
}

func dollars(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func rangeFilename(prefix string, rng core.DateRange) string {
	start, end := "all", "time"
	if !rng.Start.IsZero() {
		start = rng.Start.Format("2006-01-02")
	}
	if !rng.End.IsZero() {
		end = rng.End.Format("2006-01-02")
	}
	return fmt.Sprintf("%s_%s_to_%s.csv", prefix, start, end)
}
