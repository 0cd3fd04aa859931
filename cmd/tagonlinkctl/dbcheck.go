package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tagonlink/tagonlink/internal/dbcheck"
)

func newDBCheckCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "dbcheck",
		Short: "Test the database connection and report on the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, v)
			defer cancel()

			db, dsn, err := connect(ctx, v)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "connection established")

			if _, err := dbcheck.Run(ctx, db, dsn, out); err != nil {
				return err
			}
			return nil
		},
	}
}
