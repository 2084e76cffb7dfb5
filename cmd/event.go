package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-dashboard/internal/core/events"
	"github.com/frahmantamala/expense-dashboard/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the budget event bus: publish sample events through the audit subscriber`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a sample budget event",
	Long:      `Publish a budget lifecycle event to an in-process bus with the audit subscriber attached`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: events.BudgetTypes,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var (
	eventCompanyID string
	eventCategory  string
	eventAmount    string
)

func publishTestEvent(ctx context.Context, eventType string) error {
	if !events.IsBudgetType(eventType) {
		return fmt.Errorf("unknown event type %q, expected one of %v", eventType, events.BudgetTypes)
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	events.SubscribeAudit(bus, lg.With("component", "audit"))

	evt := events.NewBudgetEvent(eventType, "cli-sample", eventCompanyID, eventCategory, eventAmount, "cli")
	lg.Info("publishing test event", "event_type", eventType, "event_id", evt.EventID())

	if ctx == nil {
		ctx = context.Background()
	}
	if err := bus.PublishSync(ctx, evt); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventCompanyID, "company", "acme-logistics", "Company id carried by the event")
	publishEventCmd.Flags().StringVar(&eventCategory, "category", "rent", "Budget category carried by the event")
	publishEventCmd.Flags().StringVar(&eventAmount, "amount", "1000000", "Budget amount carried by the event")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
