package pgviews

// Config is loaded through go-nacelle/config by the command line tool.
type Config struct {
	DatabaseURL        string `env:"database_url"`
	DefinitionsDir     string `env:"definitions_dir" default:"db/views"`
	ResolveConcurrency int    `env:"resolve_concurrency" default:"1"`
	LogSQLQueries      bool   `env:"log_sql_queries" default:"false"`
}
