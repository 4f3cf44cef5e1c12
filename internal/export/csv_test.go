package export

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Soham2411/flowtrack/internal/core"
)

func exportFixtures() []core.Transaction {
	return []core.Transaction{
		{
			ID:            1,
			Amount:        decimal.RequireFromString("100.00"),
			Type:          core.Income,
			Description:   "January pay",
			CategoryName:  "Salary",
			CategoryColor: "#27ae60",
			Date:          core.NewDate(2024, 1, 15),
			CreatedAt:     time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:            2,
			Amount:        decimal.RequireFromString("40.50"),
			Type:          core.Expense,
			Description:   `groceries, "weekly" run`,
			CategoryName:  "Food",
			CategoryColor: "#e74c3c",
			Date:          core.NewDate(2024, 1, 20),
			CreatedAt:     time.Date(2024, 1, 20, 18, 30, 0, 0, time.UTC),
		},
		{
			ID:            3,
			Amount:        decimal.RequireFromString("20.00"),
			Type:          core.Expense,
			Description:   "lunch",
			CategoryName:  "Food",
			CategoryColor: "#e74c3c",
			Date:          core.NewDate(2024, 2, 1),
			CreatedAt:     time.Date(2024, 2, 1, 13, 0, 0, 0, time.UTC),
		},
	}
}

func TestTransactionsCSV_RoundTrip(t *testing.T) {
	txs := exportFixtures()
	res, err := TransactionsCSV(txs, core.DateRange{})
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(res.Text)).ReadAll()
	require.NoError(t, err, "produced CSV must parse back")
	require.Len(t, rows, res.RecordCount+1, "header plus one row per record")
	assert.Equal(t, 3, res.RecordCount)
	assert.Equal(t, transactionHeader, rows[0])

	// Each row's amount matches the source to two decimals.
	for i, tx := range txs {
		assert.Equal(t, "$"+tx.Amount.StringFixed(2), rows[i+1][4])
	}
	// Embedded comma and quotes survive quoting.
	assert.Equal(t, `groceries, "weekly" run`, rows[2][1])
	assert.Equal(t, "Expense", rows[2][3])
	assert.Equal(t, "1/20/2024", rows[2][0])
}

func TestTransactionsCSV_DateRangeAndFilename(t *testing.T) {
	rng := core.DateRange{Start: core.NewDate(2024, 1, 1), End: core.NewDate(2024, 1, 31)}
	res, err := TransactionsCSV(exportFixtures(), rng)
	require.NoError(t, err)

	assert.Equal(t, 2, res.RecordCount)
	assert.Equal(t, "flowtrack_transactions_2024-01-01_to_2024-01-31.csv", res.Filename)
}

func TestTransactionsCSV_UnboundedFilename(t *testing.T) {
	res, err := TransactionsCSV(exportFixtures(), core.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "flowtrack_transactions_all_to_time.csv", res.Filename)
}

func TestTransactionsCSV_MalformedInput(t *testing.T) {
	txs := exportFixtures()
	txs[1].CategoryName = ""

	_, err := TransactionsCSV(txs, core.DateRange{})
	require.Error(t, err)
	var ee *ExportError
	require.ErrorAs(t, err, &ee)
	assert.True(t, errors.Is(err, core.ErrEmptyCategory))
}

func TestTransactionsCSV_Empty(t *testing.T) {
	res, err := TransactionsCSV(nil, core.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.RecordCount)

	rows, err := csv.NewReader(strings.NewReader(res.Text)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestSummaryCSV(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	summary := core.Summary{
		TotalIncome:      decimal.NewFromInt(100),
		TotalExpenses:    decimal.RequireFromString("60.50"),
		Balance:          decimal.RequireFromString("39.50"),
		TransactionCount: 3,
	}
	cats := []core.CategorySlice{
		{Name: "Food", Value: decimal.RequireFromString("60.50")},
		{Name: "Transport", Value: decimal.Zero},
	}

	res, err := SummaryCSV(summary, cats, now)
	require.NoError(t, err)
	assert.Equal(t, "flowtrack_summary_2024-03-01.csv", res.Filename)

	rows, err := csv.NewReader(strings.NewReader(res.Text)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"Total Income", "$100.00"}, rows[1])
	assert.Equal(t, []string{"Total Expenses", "$60.50"}, rows[2])
	assert.Equal(t, []string{"Current Balance", "$39.50"}, rows[3])
	assert.Equal(t, []string{"Transaction Count", "3"}, rows[4])
	assert.Equal(t, []string{"Food Total", "$60.50"}, rows[6])
	assert.Equal(t, []string{"Transport Total", "$0.00"}, rows[7])
}
