// Command tagonlinkctl runs operational tasks against the TAGONLINK
// database: schema migrations and a connection diagnostic.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tagonlink/tagonlink/internal/config"
	"github.com/tagonlink/tagonlink/internal/database"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigName("tagonlinkctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	rootCmd := &cobra.Command{
		Use:           "tagonlinkctl",
		Short:         "Operate the TAGONLINK database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The config file is optional.
			if err := v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return fmt.Errorf("read config: %w", err)
				}
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("database-url", "", "PostgreSQL connection URL (env DATABASE_URL)")
	flags.Duration("timeout", 30*time.Second, "overall deadline for the command")
	_ = v.BindPFlags(flags)

	rootCmd.AddCommand(newMigrateCmd(v))
	rootCmd.AddCommand(newDBCheckCmd(v))

	return rootCmd
}

// connect opens the database named by --database-url or DATABASE_URL.
// Errors never carry the password.
func connect(ctx context.Context, v *viper.Viper) (*sqlx.DB, string, error) {
	dsn := v.GetString("database-url")
	if dsn == "" {
		return nil, "", fmt.Errorf("DATABASE_URL is required (flag --database-url or environment)")
	}

	db, err := database.Open(ctx, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("connect to %s: %s", config.RedactURL(dsn), config.SanitizeError(err, dsn))
	}
	return db, dsn, nil
}

// commandContext bounds a command by --timeout.
func commandContext(cmd *cobra.Command, v *viper.Viper) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), v.GetDuration("timeout"))
}
