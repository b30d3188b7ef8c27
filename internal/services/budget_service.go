// Package services orchestrates budget computation, the history log and
// event publishing.
package services

import (
	"context"
	"fmt"
	"time"

	"budgeter/internal/core"
	"budgeter/internal/history"
	"budgeter/internal/log"
)

const publishTimeout = 5 * time.Second

// EventPublisher announces computed budgets. Publishing is best effort.
type EventPublisher interface {
	PublishBudgetComputed(ctx context.Context, e history.Entry) error
}

// BudgetService computes budgets and records every successful result.
type BudgetService struct {
	entries   *history.Log
	publisher EventPublisher
}

// NewBudgetService wires the history log and an optional publisher.
func NewBudgetService(entries *history.Log, publisher EventPublisher) *BudgetService {
	if entries == nil {
		entries = history.NewLog()
	}
	return &BudgetService{entries: entries, publisher: publisher}
}

// Compute allocates the request, appends it to the history log and publishes
// a budget event. Failed computations are not recorded.
func (s *BudgetService) Compute(ctx context.Context, req core.BudgetRequest) (core.BudgetResult, error) {
	result, err := core.Allocate(req)
	if err != nil {
		return core.BudgetResult{}, fmt.Errorf("allocate budget: %w", err)
	}

	entry := s.entries.Append(req.Paycheck, req.Categories, result)
	logger := log.FromContext(ctx)
	logger.LogBudgetComputed(ctx, entry.Sequence, req.Paycheck.String(), len(req.Categories), result.Remaining.String())

	if err := s.publish(ctx, entry); err != nil {
		// the budget is already recorded
		logger.With(log.FieldSequence, entry.Sequence).
			LogError(ctx, "Failed to publish budget event", err, log.OpCompute, log.ErrorTypeUnavailable)
	}
	return result, nil
}

func (s *BudgetService) publish(ctx context.Context, e history.Entry) error {
	if s.publisher == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return s.publisher.PublishBudgetComputed(ctx, e)
}

// History returns every recorded computation in insertion order.
func (s *BudgetService) History() []history.Entry {
	return s.entries.List()
}

// HistorySize is reported by the readiness endpoint.
func (s *BudgetService) HistorySize() int {
	return s.entries.Len()
}
