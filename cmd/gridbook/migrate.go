package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridbook/gridbook/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long:  `Apply pending schema migrations. Runs implicitly before every command; this just reports the result.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Database %s at schema version %d\n", store.Path(), version)
			return nil
		},
	}
}
