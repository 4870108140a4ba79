package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/go-nacelle/log/v2"
	"github.com/go-nacelle/pgviews"
	"github.com/go-nacelle/pgviews/cmd/pgviews/internal/database"
	"github.com/go-nacelle/pgviews/cmd/pgviews/internal/flags"
	"github.com/go-nacelle/pgviews/cmd/pgviews/internal/render"
	"github.com/spf13/cobra"
)

func ListCommand(logger log.Logger, cfg pgviews.Config) *cobra.Command {
	var (
		opts = database.ReaderOptions{
			Concurrency:   cfg.ResolveConcurrency,
			LogSQLQueries: cfg.LogSQLQueries,
		}
		format string
		order  string
		watch  bool
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List views with the definition of their latest version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			reader, err := database.CreateViewReader(opts, logger)
			if err != nil {
				return err
			}

			list := func(ctx context.Context) (string, error) {
				views, err := reader.All(ctx)
				if err != nil {
					return "", err
				}

				return render.Views(views, format, order)
			}

			if watch {
				return watchDefinitions(ctx, opts.DefinitionsDirectory, logger, list)
			}

			out, err := list(ctx)
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	flags.RegisterDatabaseURLFlag(listCmd, &opts.DatabaseURL, cfg.DatabaseURL)
	flags.RegisterDefinitionsDirectoryFlag(listCmd, &opts.DefinitionsDirectory, cfg.DefinitionsDir)
	listCmd.Flags().StringSliceVarP(&opts.SearchPath, "schema", "s", nil, "Schemas to search instead of the connection's search_path (repeatable)")
	listCmd.Flags().IntVar(&opts.Concurrency, "concurrency", opts.Concurrency, "Number of view definitions to resolve in parallel")
	listCmd.Flags().StringVarP(&format, "format", "f", render.FormatJSON, fmt.Sprintf("Output format (%s)", strings.Join(render.Formats, ", ")))
	listCmd.Flags().StringVar(&order, "sort", render.OrderCatalog, fmt.Sprintf("Output order (%s)", strings.Join(render.Orders, ", ")))
	listCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Print again whenever the definitions directory changes")
	return listCmd
}
