package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Soham2411/flowtrack/internal/api"
	"github.com/Soham2411/flowtrack/internal/core"
	"github.com/Soham2411/flowtrack/internal/export"
	"github.com/Soham2411/flowtrack/internal/export/charts"
)

// requestTimeout bounds every command-issued network call. Requests are
// not cancelable from the UI beyond this.
const requestTimeout = 30 * time.Second

func (m Model) restoreCmd() tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return restoredMsg{state: mgr.Restore(ctx)}
	}
}

// fetchDataCmd loads categories and transactions concurrently. Either
// failure fails the whole load and leaves prior state untouched.
func (m Model) fetchDataCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			cats []core.Category
			txs  []core.Transaction
		)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			cats, err = backend.Categories(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			txs, err = backend.Transactions(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return errMsg{err: err}
		}
		return dataMsg{categories: cats, transactions: txs}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return authDoneMsg{err: mgr.Login(ctx, username, password)}
	}
}

func (m Model) registerCmd(username, email, password, confirm string) tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return authDoneMsg{err: mgr.Register(ctx, username, email, password, confirm)}
	}
}

func (m Model) createTransactionCmd(nt api.NewTransaction) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := backend.CreateTransaction(ctx, nt)
		return mutationDoneMsg{action: "transaction created", err: err}
	}
}

func (m Model) createCategoryCmd(nc api.NewCategory) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := backend.CreateCategory(ctx, nc)
		return mutationDoneMsg{action: "category created", err: err}
	}
}

func (m Model) deleteTransactionCmd(id int64) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := backend.DeleteTransaction(ctx, id)
		return mutationDoneMsg{action: "transaction deleted", err: err}
	}
}

func (m Model) exportCSVCmd() tea.Cmd {
	txs, rng, dir := m.visible(), m.dateRange, m.exportDir
	return func() tea.Msg {
		res, err := export.TransactionsCSV(txs, rng)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, res.Filename)
		if err := os.WriteFile(path, []byte(res.Text), 0644); err != nil {
			return exportDoneMsg{err: fmt.Errorf("write %s: %w", path, err)}
		}
		return exportDoneMsg{filename: res.Filename, records: res.RecordCount}
	}
}

func (m Model) exportSummaryCmd() tea.Cmd {
	txs, dir := m.visible(), m.exportDir
	return func() tea.Msg {
		summary := core.Summarize(txs)
		res, err := export.SummaryCSV(summary, core.CategoryBreakdown(txs), time.Now())
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, res.Filename)
		if err := os.WriteFile(path, []byte(res.Text), 0644); err != nil {
			return exportDoneMsg{err: fmt.Errorf("write %s: %w", path, err)}
		}
		return exportDoneMsg{filename: res.Filename, records: summary.TransactionCount}
	}
}

func (m Model) exportReportCmd() tea.Cmd {
	txs, rng, dir, logger := m.visible(), m.dateRange, m.exportDir, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		builder := export.NewReportBuilder(charts.NewRenderer(txs), logger)
		res, err := builder.Build(ctx, txs, core.Summarize(txs), core.CategoryBreakdown(txs), rng, time.Now())
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, res.Filename)
		if err := os.WriteFile(path, res.Bytes, 0644); err != nil {
			return exportDoneMsg{err: fmt.Errorf("write %s: %w", path, err)}
		}
		return exportDoneMsg{filename: res.Filename, records: len(txs)}
	}
}

func (m Model) exportSheetsCmd() tea.Cmd {
	txs, target := m.visible(), m.sheets
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		n, err := target.Append(ctx, txs)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{filename: "Google Sheets", records: n}
	}
}
