package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurante/internal/config"
	"github.com/iliyamo/restaurante/internal/queue"
)

// NewConsumeEventsCommand creates the consume-events command.
func NewConsumeEventsCommand(rootOpts *RootOptions) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "consume-events",
		Short: "Append domain events from the broker to the event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rootOpts.logger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sink := &queue.EventLog{Path: cfg.EventsLog}
			log.Info("consuming events", "broker", cfg.EventsBroker, "log", cfg.EventsLog)
			switch cfg.EventsBroker {
			case "amqp":
				return queue.ConsumeAMQP(ctx, cfg.AMQPURL, cfg.EventsQueue, sink, log)
			case "kafka":
				return queue.ConsumeKafka(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, group, sink, log)
			default:
				return fmt.Errorf("consume-events needs EVENTS_BROKER=amqp or kafka, got %q", cfg.EventsBroker)
			}
		},
	}
	cmd.Flags().StringVar(&group, "group", "restaurante-event-log", "kafka consumer group")
	return cmd
}
