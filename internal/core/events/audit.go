package events

import (
	"context"
	"log/slog"
)

// SubscribeAudit writes every budget lifecycle event to logger.
func SubscribeAudit(bus *EventBus, logger *slog.Logger) {
	handler := func(ctx context.Context, event Event) error {
		attrs := []any{
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"company_id", event.Company(),
			"occurred_at", event.OccurredAt(),
		}
		if be, ok := event.(*BudgetEvent); ok {
			attrs = append(attrs,
				"budget_id", be.BudgetID,
				"category", be.Category,
				"amount", be.Amount,
				"actor_id", be.ActorID)
		}
		logger.InfoContext(ctx, "audit", attrs...)
		return nil
	}

	for _, t := range BudgetTypes {
		bus.Subscribe(t, handler)
	}
}
