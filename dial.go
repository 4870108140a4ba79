package pgviews

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-nacelle/nacelle/v2"
	_ "github.com/lib/pq"
)

const MaxPingAttempts = 15

// Dial opens a connection pool and waits for the server to accept connections.
func Dial(url string, logger nacelle.Logger) (DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for attempts := 0; ; attempts++ {
		err := db.Ping()
		if err == nil {
			break
		}

		if attempts >= MaxPingAttempts {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database within timeout: %w", err)
		}

		logger.Error("Failed to ping database, will retry in 2s (%s)", err.Error())
		<-time.After(time.Second * 2)
	}

	return newLoggingDB(db, logger), nil
}
