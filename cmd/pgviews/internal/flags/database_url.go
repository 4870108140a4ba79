package flags

import (
	"fmt"

	"github.com/go-nacelle/pgviews"
	"github.com/jackc/pgconn"
	"github.com/spf13/cobra"
)

// RegisterDatabaseURLFlag registers --url. An empty flag falls back to defaultURL and
// then to a URL assembled from the PG* environment variables.
func RegisterDatabaseURLFlag(cmd *cobra.Command, databaseURL *string, defaultURL string) {
	if defaultURL == "" {
		defaultURL = pgviews.BuildDatabaseURL()
	}

	cmd.PersistentFlags().StringVarP(
		databaseURL,
		"url", "u",
		"",
		fmt.Sprintf("The database connection URL (default %s)", describeDatabaseURL(defaultURL)),
	)

	registerPreRun(cmd, func(cmd *cobra.Command, args []string) error {
		if *databaseURL == "" {
			*databaseURL = defaultURL
		}

		if _, err := pgconn.ParseConfig(*databaseURL); err != nil {
			return fmt.Errorf("invalid database URL: %w", err)
		}

		return nil
	})
}

// describeDatabaseURL renders a connection string without its password.
func describeDatabaseURL(databaseURL string) string {
	cfg, err := pgconn.ParseConfig(databaseURL)
	if err != nil {
		return "<invalid>"
	}

	return fmt.Sprintf("postgres://%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
}
