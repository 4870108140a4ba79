package logging

import (
	"github.com/go-nacelle/config/v3"
	"github.com/go-nacelle/log/v2"
	"github.com/go-nacelle/pgviews"
)

const envPrefix = "PGVIEWS"

func CreateLogger() (log.Logger, error) {
	c := &log.Config{}
	if err := load(c); err != nil {
		return nil, err
	}

	return log.InitLogger(c)
}

// LoadConfig reads PGVIEWS_* environment variables. Command line flags take
// precedence over the values returned here.
func LoadConfig() (pgviews.Config, error) {
	c := pgviews.Config{}
	if err := load(&c); err != nil {
		return pgviews.Config{}, err
	}

	return c, nil
}

func load(target any) error {
	cfg := config.NewConfig(config.NewEnvSourcer(envPrefix))
	if err := cfg.Init(); err != nil {
		return err
	}

	return cfg.Load(target)
}
