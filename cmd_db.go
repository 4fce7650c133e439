package main

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/spf13/cobra"
)

// storefront migrate: create tables or indexes, then exit.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and unique indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		store, err := database.Open(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", store.Driver)
		return nil
	},
}
