package main

import (
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:          "storefront",
	Short:        "Storefront e-commerce API",
	Long:         "Storefront serves the shop's REST API: accounts, orders, catalog, contact messages and payment intents.",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(eventsCmd)
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
		Output:      os.Stdout,
	})
}
