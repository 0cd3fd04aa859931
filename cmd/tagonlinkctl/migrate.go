package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tagonlink/tagonlink/internal/database"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, v)
			defer cancel()

			db, _, err := connect(ctx, v)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := database.Migrate(ctx, db.DB); err != nil {
				return err
			}
			version, err := database.Version(ctx, db.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations complete, schema version %d\n", version)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, v)
			defer cancel()

			db, _, err := connect(ctx, v)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := database.Rollback(ctx, db.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, v)
			defer cancel()

			db, _, err := connect(ctx, v)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return database.Status(ctx, db.DB, cmd.OutOrStdout())
		},
	})

	return cmd
}
