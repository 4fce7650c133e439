package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

var eventsBinding string

// storefront events: print domain events as they are published.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail domain events from RabbitMQ",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.RabbitMQURL == "" {
			return errors.New("RABBITMQ_URL is not set")
		}

		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "waiting for %q events on %s, press CTRL+C to exit\n", eventsBinding, cfg.RabbitMQExchange)
		return client.Consume(ctx, eventsBinding, func(msg amqp.Delivery) error {
			_, err := fmt.Fprintf(out, "%s %s %s\n", msg.Timestamp.Format("15:04:05"), msg.RoutingKey, msg.Body)
			return err
		})
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsBinding, "binding", "#", "routing key pattern, e.g. order.*")
}
