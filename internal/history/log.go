// Package history keeps the in-process record of computed budgets.
package history

import (
	"sync"
	"time"

	"budgeter/internal/core"
)

// Entry is one computed budget. Entries are never mutated once appended.
type Entry struct {
	Sequence   int               `json:"sequence"`
	CreatedAt  time.Time         `json:"created_at"`
	Paycheck   core.Money        `json:"paycheck"`
	Categories core.Categories   `json:"categories"`
	Result     core.BudgetResult `json:"result"`
}

// Log is an append-only, unbounded sequence of entries that lives for the
// lifetime of the process. It is safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append stores the entry at the end of the log, stamping its sequence
// number and creation time, and returns the stored copy.
func (l *Log) Append(paycheck core.Money, cats core.Categories, result core.BudgetResult) Entry {
	e := Entry{
		Paycheck:   paycheck,
		Categories: append(core.Categories(nil), cats...),
		Result: core.BudgetResult{
			Allocations: append([]core.Allocation(nil), result.Allocations...),
			Remaining:   result.Remaining,
		},
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	e.Sequence = len(l.entries) + 1
	e.CreatedAt = l.now().UTC()
	l.entries = append(l.entries, e)
	return e
}

// List returns every entry in arrival order. The returned slice is a copy.
func (l *Log) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append(make([]Entry, 0, len(l.entries)), l.entries...)
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
