package ui

import (
	"github.com/Soham2411/flowtrack/internal/core"
	"github.com/Soham2411/flowtrack/internal/session"
)

// dataMsg carries the result of the concurrent categories+transactions
// fetch. The whole dataset is replaced wholesale; last write wins.
type dataMsg struct {
	categories   []core.Category
	transactions []core.Transaction
}

// authDoneMsg reports the outcome of a login or register attempt.
type authDoneMsg struct {
	err error
}

// restoredMsg reports the session state after startup restore.
type restoredMsg struct {
	state session.State
}

// mutationDoneMsg reports a create or delete. Success triggers a full
// re-fetch; there are no optimistic updates.
type mutationDoneMsg struct {
	action string
	err    error
}

// exportDoneMsg reports an export attempt and releases the re-entrancy
// gate.
type exportDoneMsg struct {
	filename string
	records  int
	err      error
}

// errMsg is any failure that should land on the status line.
type errMsg struct {
	err error
}
