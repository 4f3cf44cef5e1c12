// Package charts draws the three dashboard charts as PNG snapshots for the
// PDF report. It implements the export.ChartRenderer port so report
// assembly never depends on a drawing library directly.
package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Soham2411/flowtrack/internal/core"
	"github.com/Soham2411/flowtrack/internal/export"
)

var (
	ErrNoExpenseData = errors.New("no expense data to chart")
	ErrNotEnoughData = errors.New("not enough monthly data to chart")

	incomeColor  = drawing.Color{R: 0x27, G: 0xae, B: 0x60, A: 255}
	expenseColor = drawing.Color{R: 0xe7, G: 0x4c, B: 0x3c, A: 255}
	balanceColor = drawing.Color{R: 0x34, G: 0x98, B: 0xdb, A: 255}
)

// Renderer derives all chart data once from the transactions it is built
// with; snapshots are then pure drawing.
type Renderer struct {
	breakdown []core.CategorySlice
	totals    core.Totals
	series    []core.MonthPoint
}

var _ export.ChartRenderer = (*Renderer)(nil)

func NewRenderer(txs []core.Transaction) *Renderer {
	return &Renderer{
		breakdown: core.CategoryBreakdown(txs),
		totals:    core.TotalsByType(txs),
		series:    core.MonthlySeries(txs),
	}
}

func (r *Renderer) Snapshot(ctx context.Context, id export.ChartID) ([]byte, error) {
	switch id {
	case export.ChartExpensePie:
		return r.pie()
	case export.ChartIncomeExpenseBar:
		return r.bar()
	case export.ChartTrendLine:
		return r.line()
	default:
		return nil, fmt.Errorf("unknown chart %q", id)
	}
}

func (r *Renderer) pie() ([]byte, error) {
	if len(r.breakdown) == 0 {
		return nil, ErrNoExpenseData
	}
	values := make([]chart.Value, 0, len(r.breakdown))
	for _, slice := range r.breakdown {
		values = append(values, chart.Value{
			Value: slice.Value.InexactFloat64(),
			Label: slice.Name,
			Style: chart.Style{FillColor: colorFromHex(slice.Color)},
		})
	}
	pie := chart.PieChart{Width: 800, Height: 500, Values: values}
	return render(pie.Render)
}

func (r *Renderer) bar() ([]byte, error) {
	bars := chart.BarChart{
		Width:    800,
		Height:   500,
		BarWidth: 120,
		Bars: []chart.Value{
			{Value: r.totals.Income.InexactFloat64(), Label: "Income", Style: chart.Style{FillColor: incomeColor, StrokeColor: incomeColor}},
			{Value: r.totals.Expenses.InexactFloat64(), Label: "Expenses", Style: chart.Style{FillColor: expenseColor, StrokeColor: expenseColor}},
		},
	}
	return render(bars.Render)
}

func (r *Renderer) line() ([]byte, error) {
	if len(r.series) < 2 {
		return nil, ErrNotEnoughData
	}
	xs := make([]time.Time, len(r.series))
	income := make([]float64, len(r.series))
	expenses := make([]float64, len(r.series))
	balance := make([]float64, len(r.series))
	for i, p := range r.series {
		month, err := time.Parse("2006-01", p.Month)
		if err != nil {
			return nil, fmt.Errorf("parse month key %q: %w", p.Month, err)
		}
		xs[i] = month
		income[i] = p.Income.InexactFloat64()
		expenses[i] = p.Expenses.InexactFloat64()
		balance[i] = p.Balance.InexactFloat64()
	}

	line := chart.Chart{
		Width:  800,
		Height: 500,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Income", XValues: xs, YValues: income, Style: chart.Style{StrokeColor: incomeColor, StrokeWidth: 3}},
			chart.TimeSeries{Name: "Expenses", XValues: xs, YValues: expenses, Style: chart.Style{StrokeColor: expenseColor, StrokeWidth: 3}},
			chart.TimeSeries{Name: "Balance", XValues: xs, YValues: balance, Style: chart.Style{StrokeColor: balanceColor, StrokeWidth: 3}},
		},
	}
	line.Elements = []chart.Renderable{chart.Legend(&line)}
	return render(line.Render)
}

func render(fn func(chart.RendererProvider, io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func colorFromHex(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return expenseColor
	}
	return drawing.ColorFromHex(hex)
}
