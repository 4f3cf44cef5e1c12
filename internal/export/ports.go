package export

import "context"

// ChartID names one of the three dashboard chart regions a report embeds.
type ChartID string

const (
	ChartExpensePie       ChartID = "expense-pie-chart"
	ChartIncomeExpenseBar ChartID = "income-expense-bar-chart"
	ChartTrendLine        ChartID = "trend-line-chart"
)

// ChartRenderer is the outbound port for chart snapshots. The report
// builder asks it for PNG bytes per chart; a renderer error makes the
// report skip that chart rather than fail.
type ChartRenderer interface {
	Snapshot(ctx context.Context, chart ChartID) ([]byte, error)
}
