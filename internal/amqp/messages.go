package amqp

import (
	"encoding/json"
	"time"

	"budgeter/internal/core"
	"budgeter/internal/history"
)

// BudgetComputedMessage announces a budget that was computed and recorded in
// the history log.
type BudgetComputedMessage struct {
	Sequence   int               `json:"sequence"`
	Paycheck   core.Money        `json:"paycheck"`
	Remaining  core.Money        `json:"remaining"`
	Categories core.Categories   `json:"categories"`
	Result     core.BudgetResult `json:"result"`
	Timestamp  time.Time         `json:"timestamp"`
}

func NewBudgetComputedMessage(e history.Entry) *BudgetComputedMessage {
	return &BudgetComputedMessage{
		Sequence:   e.Sequence,
		Paycheck:   e.Paycheck,
		Remaining:  e.Result.Remaining,
		Categories: e.Categories,
		Result:     e.Result,
		Timestamp:  e.CreatedAt,
	}
}

func (m *BudgetComputedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetComputedMessageFromJSON(data []byte) (*BudgetComputedMessage, error) {
	var msg BudgetComputedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
