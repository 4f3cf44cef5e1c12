package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Soham2411/flowtrack/internal/core"
)

func (m Model) View() string {
	switch m.screen {
	case screenRestoring:
		return "\n  Restoring session...\n"
	case screenLogin, screenRegister,
		screenNewTransaction, screenNewCategory, screenDateRange:
		return m.viewForm()
	case screenDashboard:
		return m.viewDashboard()
	}
	return ""
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render(m.form.title) + "\n\n")
	for i, fld := range m.form.fields {
		value := fld.value
		if fld.masked {
			value = strings.Repeat("•", len([]rune(fld.value)))
		}
		line := labelStyle.Render(fld.label) + " " + value
		if i == m.form.cursor {
			line = labelStyle.Render(fld.label) + " " + focusedInputStyle.Render(value+"▌")
		}
		b.WriteString("  " + line + "\n")
	}
	if m.form.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.form.errMsg) + "\n")
	}
	b.WriteString("\n  " + dimStyle.Render(m.formHelp()) + "\n")
	return b.String()
}

func (m Model) formHelp() string {
	switch m.screen {
	case screenLogin:
		return "enter submit  tab next field  ctrl+r register  ctrl+c quit"
	case screenRegister:
		return "enter submit  tab next field  esc back to login  ctrl+c quit"
	default:
		return "enter submit  tab next field  esc cancel"
	}
}

func (m Model) viewDashboard() string {
	visible := m.visible()
	summary := core.Summarize(visible)

	var b strings.Builder
	header := titleStyle.Render("FlowTrack") + dimStyle.Render("  "+m.session.Username())
	if m.loading {
		header += dimStyle.Render("  loading...")
	}
	b.WriteString("\n  " + header + "\n\n")

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render("Income\n"+incomeStyle.Render("$"+summary.TotalIncome.StringFixed(2))),
		cardStyle.Render("Expenses\n"+expenseStyle.Render("$"+summary.TotalExpenses.StringFixed(2))),
		cardStyle.Render("Balance\n"+balanceStyle.Render("$"+summary.Balance.StringFixed(2))),
		cardStyle.Render(fmt.Sprintf("Records\n%d", summary.TransactionCount)),
	)
	b.WriteString(indent(cards, 2) + "\n\n")

	b.WriteString("  " + dimStyle.Render("Filter: ") + m.filterCaption() + "\n\n")

	if len(visible) == 0 {
		b.WriteString("  " + dimStyle.Render("No transactions in the current view.") + "\n")
	}
	for i, tx := range visible {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		amount := "$" + tx.Amount.StringFixed(2)
		if tx.Type == core.Expense {
			amount = expenseStyle.Render("-" + amount)
		} else {
			amount = incomeStyle.Render("+" + amount)
		}
		b.WriteString(fmt.Sprintf("  %s%s  %-24s  %-14s  %s\n",
			prefix,
			tx.Date.Format("2006-01-02"),
			truncate(tx.Description, 24),
			truncate(tx.CategoryName, 14),
			amount,
		))
	}

	b.WriteString("\n  " + dimStyle.Render(m.dashboardHelp()) + "\n")
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString("  " + style.Render(m.status) + "\n")
	}
	return b.String()
}

func (m Model) filterCaption() string {
	category := m.selectedCategory
	if category == "" {
		category = "all categories"
	}
	rng := "all time"
	if !m.dateRange.IsZero() {
		start, end := "...", "..."
		if !m.dateRange.Start.IsZero() {
			start = m.dateRange.Start.Format("2006-01-02")
		}
		if !m.dateRange.End.IsZero() {
			end = m.dateRange.End.Format("2006-01-02")
		}
		rng = start + " to " + end
	}
	return category + ", " + rng
}

func (m Model) dashboardHelp() string {
	help := "j/k move  h/l category  d dates  n new  c new category  x delete  r refresh  e csv  s summary  p pdf"
	if m.sheets != nil {
		help += "  g sheets"
	}
	return help + "  o logout  q quit"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
