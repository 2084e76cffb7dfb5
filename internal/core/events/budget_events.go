package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeBudgetCreated = "budget.created"
	EventTypeBudgetUpdated = "budget.updated"
	EventTypeBudgetDeleted = "budget.deleted"
)

// BudgetTypes lists every budget lifecycle event, for subscribers that want
// all of them.
var BudgetTypes = []string{EventTypeBudgetCreated, EventTypeBudgetUpdated, EventTypeBudgetDeleted}

// IsBudgetType reports whether t names a budget lifecycle event.
func IsBudgetType(t string) bool {
	for _, bt := range BudgetTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// BudgetEvent records one committed budget mutation. Amount is the decimal
// string with two places, so subscribers never see float rounding.
type BudgetEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	BudgetID  string    `json:"budget_id"`
	CompanyID string    `json:"company_id"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	ActorID   string    `json:"actor_id"`
}

func NewBudgetEvent(eventType, budgetID, companyID, category, amount, actorID string) *BudgetEvent {
	return &BudgetEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		BudgetID:  budgetID,
		CompanyID: companyID,
		Category:  category,
		Amount:    amount,
		ActorID:   actorID,
	}
}

func (e *BudgetEvent) EventType() string     { return e.Type }
func (e *BudgetEvent) EventID() string       { return e.ID }
func (e *BudgetEvent) OccurredAt() time.Time { return e.Timestamp }
func (e *BudgetEvent) Company() string       { return e.CompanyID }
