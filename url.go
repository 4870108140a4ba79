package pgviews

import (
	"fmt"
	"net/url"
	"os"
)

// BuildDatabaseURL assembles a connection URL from the standard libpq environment
// variables, tagging the session with the application name.
func BuildDatabaseURL() string {
	env := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}

		return fallback
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", env("PGHOST", "localhost"), env("PGPORT", "5432")),
		User:   url.UserPassword(env("PGUSER", ""), env("PGPASSWORD", "")),
		Path:   env("PGDATABASE", ""),
		RawQuery: url.Values{
			"sslmode":          []string{env("PGSSLMODE", "disable")},
			"application_name": []string{"pgviews"},
		}.Encode(),
	}

	return u.String()
}
