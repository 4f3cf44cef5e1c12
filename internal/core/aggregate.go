// Package core holds the FlowTrack domain model and the pure aggregation
// functions that turn a flat transaction list into chart- and summary-ready
// data. Everything here is deterministic and free of side effects: results
// depend only on the arguments, so the functions are safe to call from any
// goroutine.
package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// CategorySlice is one wedge of the expense breakdown.
	CategorySlice struct {
		Name  string
		Value decimal.Decimal
		Color string
	}

	// MonthPoint is one point of the monthly trend series.
	MonthPoint struct {
		Month    string // "YYYY-MM" grouping key
		Income   decimal.Decimal
		Expenses decimal.Decimal
		Balance  decimal.Decimal
		Label    string // "Jan 2006"
	}

	Totals struct {
		Income   decimal.Decimal
		Expenses decimal.Decimal
	}

	// Summary backs the dashboard cards and the summary export.
	Summary struct {
		TotalIncome      decimal.Decimal
		TotalExpenses    decimal.Decimal
		Balance          decimal.Decimal
		TransactionCount int
	}
)

// CategoryBreakdown sums expense amounts grouped by category name. Slices
// appear in order of first occurrence, and the first transaction seen for a
// category supplies its color. Categories without expense transactions are
// absent; no expenses at all yields an empty slice.
func CategoryBreakdown(txs []Transaction) []CategorySlice {
	var out []CategorySlice
	index := make(map[string]int)
	for _, tx := range txs {
		if tx.Type != Expense {
			continue
		}
		if i, ok := index[tx.CategoryName]; ok {
			out[i].Value = out[i].Value.Add(tx.Amount)
			continue
		}
		index[tx.CategoryName] = len(out)
		out = append(out, CategorySlice{
			Name:  tx.CategoryName,
			Value: tx.Amount,
			Color: tx.CategoryColor,
		})
	}
	return out
}

// MonthlySeries groups transactions by calendar year-month and accumulates
// income and expense sums per month. Output is sorted ascending by month
// key; lexicographic order is chronological for "YYYY-MM".
func MonthlySeries(txs []Transaction) []MonthPoint {
	buckets := make(map[string]*MonthPoint)
	for _, tx := range txs {
		key := tx.Date.MonthKey()
		p, ok := buckets[key]
		if !ok {
			p = &MonthPoint{
				Month:    key,
				Income:   decimal.Zero,
				Expenses: decimal.Zero,
				Label:    tx.Date.Format("Jan 2006"),
			}
			buckets[key] = p
		}
		switch tx.Type {
		case Income:
			p.Income = p.Income.Add(tx.Amount)
		case Expense:
			p.Expenses = p.Expenses.Add(tx.Amount)
		}
	}

	out := make([]MonthPoint, 0, len(buckets))
	for _, p := range buckets {
		p.Balance = p.Income.Sub(p.Expenses)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TotalsByType sums amounts partitioned by transaction type in a single
// pass. Transactions whose type is neither income nor expense are ignored;
// the API decode layer rejects such records, so counting them as expenses
// here would only hide a malformed payload.
func TotalsByType(txs []Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			t.Income = t.Income.Add(tx.Amount)
		case Expense:
			t.Expenses = t.Expenses.Add(tx.Amount)
		}
	}
	return t
}

// Filter returns the transactions matching both the category filter and the
// date range. A category of "" or "all" passes everything through, as does
// a zero range. Filtering an already-filtered result with the same
// parameters returns the same set.
func Filter(txs []Transaction, category string, rng DateRange) []Transaction {
	all := category == "" || strings.EqualFold(category, "all")
	if all && rng.IsZero() {
		return txs
	}
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !all && tx.CategoryName != category {
			continue
		}
		if !rng.Contains(tx.Date) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Summarize builds the dashboard summary over the given (already filtered)
// transactions.
func Summarize(txs []Transaction) Summary {
	t := TotalsByType(txs)
	return Summary{
		TotalIncome:      t.Income,
		TotalExpenses:    t.Expenses,
		Balance:          t.Income.Sub(t.Expenses),
		TransactionCount: len(txs),
	}
}
