package pgviews

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"testing"

	"github.com/go-nacelle/log/v2"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a throwaway database cloned from $TEMPLATEDB and drops it when
// the test finishes.
func NewTestDB(t testing.TB) DB {
	return NewTestDBWithLogger(t, log.NewNilLogger())
}

func NewTestDBWithLogger(t testing.TB, logger log.Logger) DB {
	t.Helper()

	id := make([]byte, 8)
	_, err := rand.Read(id)
	require.NoError(t, err)

	var (
		testDatabaseName           = fmt.Sprintf("pgviews-test-%s", hex.EncodeToString(id))
		quotedTestDatabaseName     = pq.QuoteIdentifier(testDatabaseName)
		quotedTemplateDatabaseName = pq.QuoteIdentifier(os.Getenv("TEMPLATEDB"))

		// NOTE: Must interpolate identifiers here as placeholders aren't valid in this position.
		createDatabaseQuery       = queryf("CREATE DATABASE %s TEMPLATE %s", quotedTestDatabaseName, quotedTemplateDatabaseName)
		dropDatabaseQuery         = queryf("DROP DATABASE %s", quotedTestDatabaseName)
		terminateConnectionsQuery = Query("SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = {:name}", Args{"name": testDatabaseName})
	)

	baseURL := BuildDatabaseURL()
	parsedURL, err := url.Parse(baseURL)
	require.NoError(t, err)

	testDBURL := parsedURL.ResolveReference(&url.URL{
		Path:     "/" + testDatabaseName,
		RawQuery: parsedURL.RawQuery,
	})

	rawDB, err := sql.Open("postgres", baseURL)
	require.NoError(t, err)
	controlDB := newLoggingDB(rawDB, log.NewNilLogger())

	require.NoError(t, controlDB.Exec(context.Background(), createDatabaseQuery))

	testDB, err := sql.Open("postgres", testDBURL.String())
	require.NoError(t, err)

	t.Cleanup(func() {
		defer rawDB.Close()

		require.NoError(t, testDB.Close())
		require.NoError(t, controlDB.Exec(context.Background(), terminateConnectionsQuery))
		require.NoError(t, controlDB.Exec(context.Background(), dropDatabaseQuery))
	})

	return newLoggingDB(testDB, logger)
}
