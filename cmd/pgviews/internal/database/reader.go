package database

import (
	"github.com/go-nacelle/log/v2"
	"github.com/go-nacelle/pgviews"
)

type ReaderOptions struct {
	DatabaseURL          string
	DefinitionsDirectory string
	SearchPath           []string
	Concurrency          int
	LogSQLQueries        bool
}

func Dial(databaseURL string, logger log.Logger, logSQLQueries bool) (pgviews.DB, error) {
	queryLogger := logger
	if !logSQLQueries {
		queryLogger = log.NewNilLogger()
	}

	return pgviews.Dial(databaseURL, queryLogger)
}

func CreateViewReader(opts ReaderOptions, logger log.Logger) (*pgviews.ViewReader, error) {
	if opts.DefinitionsDirectory == "" {
		panic("definitions directory is not set by called command")
	}

	db, err := Dial(opts.DatabaseURL, logger, opts.LogSQLQueries)
	if err != nil {
		return nil, err
	}

	catalog := pgviews.NewCatalog(db, pgviews.WithSearchPath(opts.SearchPath...))
	resolver := pgviews.NewResolver(pgviews.NewFilesystemDefinitionStore(opts.DefinitionsDirectory))

	return pgviews.NewViewReader(
		catalog,
		resolver,
		pgviews.WithLogger(logger),
		pgviews.WithConcurrency(opts.Concurrency),
	), nil
}
