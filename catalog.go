package pgviews

import (
	"context"
	"fmt"
	"strings"
)

type ViewKind string

const (
	ViewKindOrdinary     ViewKind = "v"
	ViewKindMaterialized ViewKind = "m"
)

var ErrUnknownViewKind = fmt.Errorf("unknown view kind")

func ParseViewKind(code string) (ViewKind, error) {
	switch kind := ViewKind(code); kind {
	case ViewKindOrdinary, ViewKindMaterialized:
		return kind, nil
	}

	return "", fmt.Errorf("%w %q", ErrUnknownViewKind, code)
}

func (k ViewKind) String() string {
	if k == ViewKindMaterialized {
		return "materialized view"
	}

	return "view"
}

// ViewRow is a view as the catalog reports it. LiveDefinition is the server's
// rendering of the view body and is informational only.
type ViewRow struct {
	Name           string
	Namespace      string
	Kind           ViewKind
	LiveDefinition string
}

// Catalog yields the application views visible to a connection.
type Catalog interface {
	ViewRows(ctx context.Context) ([]ViewRow, error)
}

type catalog struct {
	db         DB
	quoter     IdentifierQuoter
	searchPath []string
}

type (
	catalogOptions struct {
		quoter     IdentifierQuoter
		searchPath []string
	}

	// CatalogConfigFunc is a function used to configure a catalog.
	CatalogConfigFunc func(*catalogOptions)
)

// WithSearchPath scopes discovery to the given schemas. The catalog query then runs
// in a transaction with a transaction-local search_path. When the catalog is built on
// an open transaction, that transaction is used and keeps the search_path until it ends.
func WithSearchPath(schemas ...string) CatalogConfigFunc {
	return func(o *catalogOptions) { o.searchPath = schemas }
}

// WithCatalogIdentifierQuoter sets the quoter used for search path schemas.
func WithCatalogIdentifierQuoter(quoter IdentifierQuoter) CatalogConfigFunc {
	return func(o *catalogOptions) { o.quoter = quoter }
}

func NewCatalog(db DB, configs ...CatalogConfigFunc) Catalog {
	options := &catalogOptions{quoter: PostgresIdentifierQuoter}
	for _, f := range configs {
		f(options)
	}

	return &catalog{
		db:         db,
		quoter:     options.quoter,
		searchPath: options.searchPath,
	}
}

var scanViewRows = NewSliceScanner(func(s Scanner) (r ViewRow, _ error) {
	var kind string
	if err := s.Scan(&r.Name, &r.LiveDefinition, &kind, &r.Namespace); err != nil {
		return ViewRow{}, err
	}

	parsedKind, err := ParseViewKind(kind)
	if err != nil {
		return ViewRow{}, err
	}
	r.Kind = parsedKind

	return r, nil
})

// Extensions may install views of their own; those sharing the extension's name are
// skipped. Only schemas on the effective search path are considered, and implicitly
// searched schemas such as pg_catalog are not.
var viewRowsQuery = RawQuery(`
	SELECT
		c.relname AS viewname,
		pg_get_viewdef(c.oid) AS definition,
		c.relkind AS kind,
		n.nspname AS namespace
	FROM pg_catalog.pg_class c
	LEFT JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
	WHERE
		c.relkind IN ('m', 'v') AND
		c.relname NOT IN (SELECT extname FROM pg_catalog.pg_extension) AND
		n.nspname = ANY (current_schemas(false))
	ORDER BY c.oid
`)

func (c *catalog) ViewRows(ctx context.Context) (rows []ViewRow, err error) {
	if len(c.searchPath) == 0 {
		return scanViewRows(c.db.Query(ctx, viewRowsQuery))
	}

	setSearchPath, err := c.setSearchPathQuery()
	if err != nil {
		return nil, err
	}

	query := func(tx DB) error {
		if err := tx.Exec(ctx, setSearchPath); err != nil {
			return err
		}

		rows, err = scanViewRows(tx.Query(ctx, viewRowsQuery))
		return err
	}

	if c.db.IsInTransaction() {
		// The override stays in effect until the caller's transaction ends.
		err = query(c.db)
		return rows, err
	}

	err = c.db.WithTransaction(ctx, query)
	return rows, err
}

func (c *catalog) setSearchPathQuery() (Q, error) {
	schemas := make([]string, 0, len(c.searchPath))
	for _, schema := range c.searchPath {
		if err := validateIdentifier(schema); err != nil {
			return Q{}, err
		}

		// search_path entries are always quoted so case is preserved verbatim.
		schemas = append(schemas, c.quoter.QuoteIdentifier(schema))
	}

	// NOTE: Must interpolate identifiers here as placeholders aren't valid in this position.
	return queryf("SET LOCAL search_path TO %s", strings.Join(schemas, ", ")), nil
}

// CurrentSchemas returns the schemas discovery would consider for db, in search order.
func CurrentSchemas(ctx context.Context, db DB) ([]string, error) {
	return ScanStrings(db.Query(ctx, RawQuery(`SELECT unnest(current_schemas(false))`)))
}
