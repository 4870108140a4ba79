package pgviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-nacelle/log/v2"
	"github.com/go-nacelle/nacelle/v2"
	"golang.org/x/sync/errgroup"
)

// View is a discovered view paired with the SQL of its current versioned definition.
type View struct {
	QualifiedName string `json:"name" yaml:"name"`
	Definition    string `json:"definition" yaml:"definition"`
	Materialized  bool   `json:"materialized" yaml:"materialized"`
}

// Statement renders the view as a CREATE statement. Nothing is executed.
func (v View) Statement() string {
	kind := "VIEW"
	if v.Materialized {
		kind = "MATERIALIZED VIEW"
	}

	body := strings.TrimSuffix(strings.TrimSpace(stripIndent(v.Definition)), ";")

	// A trailing line comment would swallow the terminator.
	terminator := ";"
	if lines := strings.Split(body, "\n"); strings.Contains(lines[len(lines)-1], "--") {
		terminator = "\n;"
	}

	return fmt.Sprintf("CREATE %s %s AS\n%s%s", kind, v.QualifiedName, body, terminator)
}

type ViewReader struct {
	catalog          Catalog
	resolver         *Resolver
	quoter           IdentifierQuoter
	logger           nacelle.Logger
	concurrency      int
	defaultNamespace string
}

func NewViewReader(catalog Catalog, resolver *Resolver, configs ...ConfigFunc) *ViewReader {
	options := getOptions(configs)

	return &ViewReader{
		catalog:          catalog,
		resolver:         resolver,
		quoter:           options.quoter,
		logger:           options.logger,
		concurrency:      options.concurrency,
		defaultNamespace: options.defaultNamespace,
	}
}

// All returns every application view visible to the catalog, in catalog (creation)
// order. Either every view is returned or an error is; a failure on any single view
// fails the whole call.
func (r *ViewReader) All(ctx context.Context) ([]View, error) {
	rows, err := r.catalog.ViewRows(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]View, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, row := range rows {
		i, row := i, row

		g.Go(func() (err error) {
			views[i], err = r.assemble(ctx, row)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return views, nil
}

func (r *ViewReader) assemble(ctx context.Context, row ViewRow) (View, error) {
	if err := ctx.Err(); err != nil {
		return View{}, err
	}

	qualifiedName, err := qualify(r.quoter, r.defaultNamespace, row.Namespace, row.Name)
	if err != nil {
		return View{}, err
	}

	definition, err := r.resolver.Resolve(ctx, row.Name)
	if err != nil {
		return View{}, fmt.Errorf("failed to resolve definition of %s: %w", qualifiedName, err)
	}

	r.logger.DebugWithFields(log.LogFields{
		"view":     qualifiedName,
		"kind":     row.Kind.String(),
		"version":  definition.Version,
		"filename": definition.Filename,
	}, "view definition resolved")

	return View{
		QualifiedName: qualifiedName,
		Definition:    definition.SQL,
		Materialized:  row.Kind == ViewKindMaterialized,
	}, nil
}

// stripIndent removes the indentation common to every non-blank line.
func stripIndent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")

	min := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if indent := len(line) - len(strings.TrimLeft(line, " ")); min < 0 || indent < min {
			min = indent
		}
	}

	for i, line := range lines {
		if len(line) >= min && min > 0 {
			lines[i] = line[min:]
		} else if strings.TrimSpace(line) == "" {
			lines[i] = ""
		}
	}

	return strings.Join(lines, "\n")
}
