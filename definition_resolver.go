package pgviews

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// VersionedDefinition is the authoritative SQL source for the current version of a view.
type VersionedDefinition struct {
	ViewName string
	Version  int
	Filename string
	SQL      string
}

// DefinitionLoader produces the SQL body of a resolved definition. SQL is empty on input.
type DefinitionLoader interface {
	Load(ctx context.Context, definition VersionedDefinition) (string, error)
}

type DefinitionLoaderFunc func(ctx context.Context, definition VersionedDefinition) (string, error)

func (f DefinitionLoaderFunc) Load(ctx context.Context, definition VersionedDefinition) (string, error) {
	return f(ctx, definition)
}

var (
	ErrDefinitionNotFound = fmt.Errorf("view definition not found")
	ErrEmptyDefinition    = fmt.Errorf("view definition is empty")
)

type Resolver struct {
	store  DefinitionStore
	loader DefinitionLoader
}

type (
	resolverOptions struct {
		loader DefinitionLoader
	}

	// ResolverConfigFunc is a function used to configure a resolver.
	ResolverConfigFunc func(*resolverOptions)
)

// WithDefinitionLoader replaces the default loader, which reads the resolved file from
// the definition store.
func WithDefinitionLoader(loader DefinitionLoader) ResolverConfigFunc {
	return func(o *resolverOptions) { o.loader = loader }
}

func NewResolver(store DefinitionStore, configs ...ResolverConfigFunc) *Resolver {
	options := &resolverOptions{}
	for _, f := range configs {
		f(options)
	}

	r := &Resolver{store: store, loader: options.loader}
	if r.loader == nil {
		r.loader = DefinitionLoaderFunc(r.readDefinition)
	}

	return r
}

// DefinitionFilename is the canonical filename for a view version. Versions are padded
// to two digits; resolution accepts any number of digits.
func DefinitionFilename(viewName string, version int) string {
	return fmt.Sprintf("%s_v%02d.sql", viewName, version)
}

var anyVersionPattern = regexp.MustCompile(`^(.+)_v\d+\.sql$`)

func versionPattern(viewName string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(viewName) + `_v(\d+)\.sql$`)
}

// LatestVersion returns the highest version among the files named exactly
// `<viewName>_v<digits>.sql`, along with the file that declares it. When no file
// matches, the version is 1 and the filename is the canonical one for that version.
func (r *Resolver) LatestVersion(viewName string) (version int, filename string, _ error) {
	filenames, err := r.store.Filenames()
	if err != nil {
		return 0, "", err
	}

	pattern := versionPattern(viewName)
	for _, name := range filenames {
		matches := pattern.FindStringSubmatch(name)
		if matches == nil {
			continue
		}

		v, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, "", fmt.Errorf("invalid version in %q: %w", name, err)
		}

		// Break ties deterministically (v2 and v02 are the same version).
		if v > version || (v == version && name < filename) {
			version, filename = v, name
		}
	}

	if version == 0 {
		return 1, DefinitionFilename(viewName, 1), nil
	}

	return version, filename, nil
}

// ViewNames returns the distinct view names that have at least one versioned
// definition file in the store, sorted.
func (r *Resolver) ViewNames() ([]string, error) {
	filenames, err := r.store.Filenames()
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, name := range filenames {
		if matches := anyVersionPattern.FindStringSubmatch(name); matches != nil {
			seen[matches[1]] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Resolve determines the current version of viewName and loads its SQL body.
func (r *Resolver) Resolve(ctx context.Context, viewName string) (VersionedDefinition, error) {
	version, filename, err := r.LatestVersion(viewName)
	if err != nil {
		return VersionedDefinition{}, err
	}

	definition := VersionedDefinition{
		ViewName: viewName,
		Version:  version,
		Filename: filename,
	}

	sql, err := r.loader.Load(ctx, definition)
	if err != nil {
		return VersionedDefinition{}, err
	}
	if strings.TrimSpace(sql) == "" {
		return VersionedDefinition{}, fmt.Errorf("%w: define view query in %s before migrating", ErrEmptyDefinition, filename)
	}

	definition.SQL = sql
	return definition, nil
}

func (r *Resolver) readDefinition(_ context.Context, definition VersionedDefinition) (string, error) {
	contents, err := r.store.ReadFile(definition.Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s (version %d of %q) does not exist in %q", ErrDefinitionNotFound, definition.Filename, definition.Version, definition.ViewName, r.store.Name())
		}

		return "", err
	}

	return string(contents), nil
}
