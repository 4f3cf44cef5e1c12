// Package ui is the terminal dashboard: a Bubble Tea model orchestrating
// authentication, data loading, filtering, record creation/deletion, and
// exports. Network work runs in commands; their results come back as
// messages and the last write wins on model state.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/Soham2411/flowtrack/internal/api"
	"github.com/Soham2411/flowtrack/internal/core"
	applog "github.com/Soham2411/flowtrack/internal/log"
	"github.com/Soham2411/flowtrack/internal/session"
)

type screen int

const (
	screenRestoring screen = iota
	screenLogin
	screenRegister
	screenDashboard
	screenNewTransaction
	screenNewCategory
	screenDateRange
)

// Backend is the slice of the remote client the dashboard needs.
type Backend interface {
	Categories(ctx context.Context) ([]core.Category, error)
	Transactions(ctx context.Context) ([]core.Transaction, error)
	CreateCategory(ctx context.Context, nc api.NewCategory) (core.Category, error)
	CreateTransaction(ctx context.Context, nt api.NewTransaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// Auth is the session lifecycle as the dashboard sees it.
type Auth interface {
	Restore(ctx context.Context) session.State
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, email, password, confirm string) error
	Logout(ctx context.Context)
	Username() string
}

// SheetsTarget is the optional spreadsheet export destination.
type SheetsTarget interface {
	Append(ctx context.Context, txs []core.Transaction) (int, error)
}

type Model struct {
	backend   Backend
	session   Auth
	sheets    SheetsTarget
	log       *applog.Logger
	exportDir string

	screen screen
	form   *form

	categories   []core.Category
	transactions []core.Transaction

	// selectedCategory and dateRange are the single source of truth for
	// every derived view; "" selects all categories.
	selectedCategory string
	dateRange        core.DateRange
	cursor           int

	loading     bool
	isExporting bool
	status      string
	statusErr   bool

	width  int
	height int
}

// New builds the dashboard model. sheets may be nil; the action is then
// not offered.
func New(backend Backend, auth Auth, sheets SheetsTarget, logger *applog.Logger, exportDir string) Model {
	return Model{
		backend:   backend,
		session:   auth,
		sheets:    sheets,
		log:       logger.WithComponent("ui"),
		exportDir: exportDir,
		screen:    screenRestoring,
	}
}

func (m Model) Init() tea.Cmd {
	return m.restoreCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case restoredMsg:
		if msg.state == session.Authenticated {
			m.screen = screenDashboard
			m.loading = true
			return m, m.fetchDataCmd()
		}
		m.screen = screenLogin
		m.form = loginForm()
		return m, nil

	case authDoneMsg:
		if msg.err != nil {
			m.form.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.screen = screenDashboard
		m.form = nil
		m.loading = true
		m.setStatus("Welcome, "+m.session.Username(), false)
		return m, m.fetchDataCmd()

	case dataMsg:
		m.loading = false
		m.categories = msg.categories
		m.transactions = msg.transactions
		m.cursor = clamp(m.cursor, len(m.visible()))
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.setStatus(userMessage(msg.err), true)
			return m, nil
		}
		m.setStatus(msg.action, false)
		m.loading = true
		return m, m.fetchDataCmd()

	case exportDoneMsg:
		m.isExporting = false
		if msg.err != nil {
			m.setStatus(userMessage(msg.err), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported %d records to %s", msg.records, msg.filename), false)
		return m, nil

	case errMsg:
		m.loading = false
		m.setStatus(userMessage(msg.err), true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenRegister:
		return m.updateRegister(msg)
	case screenDashboard:
		return m.updateDashboard(msg)
	case screenNewTransaction, screenNewCategory, screenDateRange:
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.screen = screenRegister
		m.form = registerForm()
		return m, nil
	case "enter":
		if !m.form.onLast() {
			m.form.next()
			return m, nil
		}
		username, password := m.form.value("username"), m.form.value("password")
		if username == "" || password == "" {
			m.form.errMsg = "Username and password are required"
			return m, nil
		}
		m.form.errMsg = ""
		return m, m.loginCmd(username, password)
	}
	m.editForm(msg)
	return m, nil
}

func (m Model) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+l", "esc":
		m.screen = screenLogin
		m.form = loginForm()
		return m, nil
	case "enter":
		if !m.form.onLast() {
			m.form.next()
			return m, nil
		}
		v := m.form.values()
		if v["username"] == "" || v["email"] == "" || v["password"] == "" {
			m.form.errMsg = "Username, email and password are required"
			return m, nil
		}
		m.form.errMsg = ""
		return m, m.registerCmd(v["username"], v["email"], v["password"], v["confirm"])
	}
	m.editForm(msg)
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor = clamp(m.cursor+1, len(m.visible()))
		return m, nil
	case "k", "up":
		m.cursor = clamp(m.cursor-1, len(m.visible()))
		return m, nil
	case "h", "left":
		m.cycleCategory(-1)
		return m, nil
	case "l", "right":
		m.cycleCategory(1)
		return m, nil
	case "r":
		m.loading = true
		return m, m.fetchDataCmd()
	case "n":
		m.screen = screenNewTransaction
		m.form = transactionForm()
		return m, nil
	case "c":
		m.screen = screenNewCategory
		m.form = categoryForm()
		return m, nil
	case "d":
		m.screen = screenDateRange
		m.form = dateRangeForm(m.dateRange)
		return m, nil
	case "x", "delete":
		visible := m.visible()
		if m.cursor < 0 || m.cursor >= len(visible) {
			return m, nil
		}
		return m, m.deleteTransactionCmd(visible[m.cursor].ID)
	case "e":
		return m.startExport(m.exportCSVCmd())
	case "s":
		return m.startExport(m.exportSummaryCmd())
	case "p":
		return m.startExport(m.exportReportCmd())
	case "g":
		if m.sheets == nil {
			m.setStatus("Google Sheets export is not configured", true)
			return m, nil
		}
		return m.startExport(m.exportSheetsCmd())
	case "o":
		return m, m.logoutCmd()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenDashboard
		m.form = nil
		return m, nil
	case "enter":
		if !m.form.onLast() {
			m.form.next()
			return m, nil
		}
		return m.submitForm()
	}
	m.editForm(msg)
	return m, nil
}

// editForm applies field navigation and text editing shared by every
// screen that shows a form.
func (m *Model) editForm(msg tea.KeyMsg) {
	if m.form == nil {
		return
	}
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.form.next()
	case tea.KeyShiftTab, tea.KeyUp:
		m.form.prev()
	case tea.KeyBackspace:
		m.form.backspace()
	case tea.KeyRunes, tea.KeySpace:
		if msg.Type == tea.KeySpace {
			m.form.insert([]rune{' '})
			return
		}
		m.form.insert(msg.Runes)
	}
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenNewTransaction:
		nt, err := m.buildTransaction(m.form.values())
		if err != nil {
			m.form.errMsg = err.Error()
			return m, nil
		}
		m.screen = screenDashboard
		m.form = nil
		return m, m.createTransactionCmd(nt)

	case screenNewCategory:
		v := m.form.values()
		if v["name"] == "" {
			m.form.errMsg = "Name is required"
			return m, nil
		}
		typ, err := core.ParseTxType(v["type"])
		if err != nil {
			m.form.errMsg = "Type must be income or expense"
			return m, nil
		}
		m.screen = screenDashboard
		m.form = nil
		return m, m.createCategoryCmd(api.NewCategory{
			Name:        v["name"],
			Description: v["description"],
			Type:        typ,
		})

	case screenDateRange:
		rng, err := buildDateRange(m.form.values())
		if err != nil {
			m.form.errMsg = err.Error()
			return m, nil
		}
		m.dateRange = rng
		m.cursor = 0
		m.screen = screenDashboard
		m.form = nil
		return m, nil
	}
	return m, nil
}

func (m Model) buildTransaction(v map[string]string) (api.NewTransaction, error) {
	amount, err := decimal.NewFromString(v["amount"])
	if err != nil || !amount.IsPositive() {
		return api.NewTransaction{}, fmt.Errorf("amount must be a positive number")
	}
	if v["description"] == "" {
		return api.NewTransaction{}, fmt.Errorf("description is required")
	}
	typ, err := core.ParseTxType(v["type"])
	if err != nil {
		return api.NewTransaction{}, fmt.Errorf("type must be income or expense")
	}
	cat, ok := m.categoryByName(v["category"])
	if !ok {
		return api.NewTransaction{}, fmt.Errorf("unknown category %q", v["category"])
	}
	date, err := core.ParseDate(v["date"])
	if err != nil {
		return api.NewTransaction{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	return api.NewTransaction{
		Amount:      amount.StringFixed(2),
		Description: v["description"],
		Type:        typ,
		Category:    cat.ID,
		Date:        date,
	}, nil
}

func buildDateRange(v map[string]string) (core.DateRange, error) {
	var rng core.DateRange
	if s := v["start"]; s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			return core.DateRange{}, fmt.Errorf("start date must be YYYY-MM-DD")
		}
		rng.Start = d
	}
	if s := v["end"]; s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			return core.DateRange{}, fmt.Errorf("end date must be YYYY-MM-DD")
		}
		rng.End = d
	}
	if !rng.Start.IsZero() && !rng.End.IsZero() && rng.End.Before(rng.Start.Time) {
		return core.DateRange{}, fmt.Errorf("end date is before start date")
	}
	return rng, nil
}

func (m Model) logoutCmd() tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		mgr.Logout(ctx)
		return restoredMsg{state: session.Anonymous}
	}
}

func (m Model) startExport(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.isExporting {
		m.setStatus("An export is already running", true)
		return m, nil
	}
	m.isExporting = true
	m.setStatus("Exporting...", false)
	return m, cmd
}

// visible derives the transaction list every view and export operates on.
func (m Model) visible() []core.Transaction {
	return core.Filter(m.transactions, m.selectedCategory, m.dateRange)
}

// categoryOptions returns the filter cycle: all, then each category name
// in server order.
func (m Model) categoryOptions() []string {
	out := make([]string, 0, len(m.categories)+1)
	out = append(out, "")
	for _, c := range m.categories {
		out = append(out, c.Name)
	}
	return out
}

func (m *Model) cycleCategory(delta int) {
	options := m.categoryOptions()
	idx := 0
	for i, name := range options {
		if strings.EqualFold(name, m.selectedCategory) {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(options)) % len(options)
	m.selectedCategory = options[idx]
	m.cursor = 0
}

func (m Model) categoryByName(name string) (core.Category, bool) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return core.Category{}, false
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// userMessage converts any error into the single line shown on the status
// bar; typed errors already carry a readable message.
func userMessage(err error) string {
	var ae *api.AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

func clamp(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	return cursor
}

func loginForm() *form {
	return newForm("Sign in to FlowTrack",
		field{key: "username", label: "Username"},
		field{key: "password", label: "Password", masked: true},
	)
}

func registerForm() *form {
	return newForm("Create a FlowTrack account",
		field{key: "username", label: "Username"},
		field{key: "email", label: "Email"},
		field{key: "password", label: "Password", masked: true},
		field{key: "confirm", label: "Confirm password", masked: true},
	)
}

func transactionForm() *form {
	return newForm("New transaction",
		field{key: "amount", label: "Amount"},
		field{key: "description", label: "Description"},
		field{key: "type", label: "Type (income/expense)", value: "expense"},
		field{key: "category", label: "Category"},
		field{key: "date", label: "Date (YYYY-MM-DD)", value: time.Now().Format("2006-01-02")},
	)
}

func categoryForm() *form {
	return newForm("New category",
		field{key: "name", label: "Name"},
		field{key: "description", label: "Description"},
		field{key: "type", label: "Type (income/expense)", value: "expense"},
	)
}

func dateRangeForm(current core.DateRange) *form {
	start, end := "", ""
	if !current.Start.IsZero() {
		start = current.Start.Format("2006-01-02")
	}
	if !current.End.IsZero() {
		end = current.End.Format("2006-01-02")
	}
	return newForm("Filter by date range (blank = unbounded)",
		field{key: "start", label: "Start (YYYY-MM-DD)", value: start},
		field{key: "end", label: "End (YYYY-MM-DD)", value: end},
	)
}
