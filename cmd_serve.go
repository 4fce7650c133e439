package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/payments"
	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"
	"storefront/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// storefront serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The server keeps running without a database; data routes answer 503.
	store, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open database", err)
	} else {
		defer store.Close(context.Background())
		if err := store.Migrate(ctx); err != nil {
			log.Error(ctx, "failed to prepare database indexes", err)
		}
	}

	deps := app.Dependencies{
		Store:     store,
		Metrics:   metrics.New(),
		Logger:    log,
		AccessLog: os.Stdout,
	}
	deps.Gateway = newPaymentGateway(ctx, cfg, log)
	if publisher, closeFn := newEventPublisher(ctx, cfg, log); publisher != nil {
		deps.Publisher = publisher
		defer closeFn()
	}

	application := app.New(cfg, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Listen(cfg.Addr())
	}()
	log.Info(log.WithField(ctx, "addr", cfg.Addr()), "server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down server")
	if err := application.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error(context.Background(), "error during shutdown", err)
		return err
	}
	log.Info(context.Background(), "server gracefully stopped")
	return nil
}

func newPaymentGateway(ctx context.Context, cfg *config.Config, log *logger.Logger) services.PaymentGateway {
	if cfg.StripeSecretKey == "" {
		log.Warn(ctx, "STRIPE_SECRET_KEY not set, payment intents are disabled", nil)
		return nil
	}
	gateway, err := payments.NewStripeGateway(cfg.StripeSecretKey, nil)
	if err != nil {
		log.Error(ctx, "failed to configure stripe", err)
		return nil
	}
	return gateway
}

// newEventPublisher connects to RabbitMQ when RABBITMQ_URL is set. Events are
// optional, so a broker failure only disables them.
func newEventPublisher(ctx context.Context, cfg *config.Config, log *logger.Logger) (services.EventPublisher, func()) {
	if cfg.RabbitMQURL == "" {
		return nil, func() {}
	}
	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
	if err != nil {
		log.Error(ctx, "failed to connect to RabbitMQ, events disabled", err)
		return nil, func() {}
	}
	log.Info(log.WithField(ctx, "exchange", cfg.RabbitMQExchange), "publishing domain events")
	return client, func() {
		if err := client.Close(); err != nil {
			log.Error(context.Background(), "failed to close RabbitMQ client", err)
		}
	}
}
