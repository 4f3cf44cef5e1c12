package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Soham2411/flowtrack/internal/core"
	applog "github.com/Soham2411/flowtrack/internal/log"
)

// ReportResult is a finished PDF document.
type ReportResult struct {
	Bytes    []byte
	Filename string
}

// ReportBuilder assembles the multi-section PDF report. The chart renderer
// is an injected port; a nil renderer or failed snapshot drops that chart
// from the report instead of failing it.
type ReportBuilder struct {
	renderer ChartRenderer
	log      *applog.Logger
}

func NewReportBuilder(renderer ChartRenderer, logger *applog.Logger) *ReportBuilder {
	return &ReportBuilder{
		renderer: renderer,
		log:      logger.WithComponent("export"),
	}
}

// Build renders the report: title header, summary metrics, chart
// snapshots, and a transaction table for the filtered range.
func (b *ReportBuilder) Build(ctx context.Context, txs []core.Transaction, summary core.Summary, categories []core.CategorySlice, rng core.DateRange, now time.Time) (ReportResult, error) {
	filtered := core.Filter(txs, "all", rng)
	if err := validate(filtered); err != nil {
		return ReportResult{}, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "FlowTrack Financial Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+now.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	if !rng.IsZero() {
		pdf.CellFormat(0, 6, rangeCaption(rng), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	b.writeSummary(pdf, summary, categories)
	b.writeCharts(ctx, pdf)
	b.writeTable(pdf, filtered)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return ReportResult{}, &ExportError{Reason: "render pdf", Err: err}
	}
	return ReportResult{
		Bytes:    buf.Bytes(),
		Filename: fmt.Sprintf("flowtrack_report_%s.pdf", now.Format("2006-01-02")),
	}, nil
}

func (b *ReportBuilder) writeSummary(pdf *gofpdf.Fpdf, summary core.Summary, categories []core.CategorySlice) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)

	rows := [][2]string{
		{"Total Income", dollars(summary.TotalIncome)},
		{"Total Expenses", dollars(summary.TotalExpenses)},
		{"Current Balance", dollars(summary.Balance)},
		{"Transaction Count", fmt.Sprint(summary.TransactionCount)},
	}
	for _, cat := range categories {
		rows = append(rows, [2]string{cat.Name + " Total", dollars(cat.Value)})
	}
	for _, row := range rows {
		pdf.CellFormat(60, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (b *ReportBuilder) writeCharts(ctx context.Context, pdf *gofpdf.Fpdf) {
	if b.renderer == nil {
		return
	}
	charts := []struct {
		id    ChartID
		title string
	}{
		{ChartExpensePie, "Expense Breakdown"},
		{ChartIncomeExpenseBar, "Income vs Expenses"},
		{ChartTrendLine, "Monthly Trends"},
	}
	for _, c := range charts {
		png, err := b.renderer.Snapshot(ctx, c.id)
		if err != nil {
			b.log.Warn("chart snapshot unavailable, skipping", "chart", string(c.id), "error", err)
			continue
		}
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, c.title, "", 1, "L", false, 0, "")

		name := string(c.id)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(name, 15, pdf.GetY(), 180, 0, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(6)
	}
}

func (b *ReportBuilder) writeTable(pdf *gofpdf.Fpdf, txs []core.Transaction) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Transactions", "", 1, "L", false, 0, "")

	widths := []float64{25, 65, 40, 25, 30}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Date", "Description", "Category", "Type", "Amount"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, tx := range txs {
		pdf.CellFormat(widths[0], 6, tx.Date.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, clip(tx.Description, 42), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, clip(tx.CategoryName, 24), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, tx.Type.Title(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, dollars(tx.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	if len(txs) == 0 {
		pdf.CellFormat(0, 6, "No transactions in the selected range", "1", 1, "C", false, 0, "")
	}
}

func rangeCaption(rng core.DateRange) string {
	start, end := "beginning", "today"
	if !rng.Start.IsZero() {
		start = rng.Start.Format("Jan 2, 2006")
	}
	if !rng.End.IsZero() {
		end = rng.End.Format("Jan 2, 2006")
	}
	return fmt.Sprintf("Period: %s to %s", start, end)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
