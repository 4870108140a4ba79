package pgviews

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestVersion(t *testing.T) {
	store := newTestDefinitionStore(
		"foo_v1.sql",
		"foo_v3.sql",
		"foo_v2.sql",
		"foobar_v5.sql",
		"orders_view_v7.sql",
		"orders_v2.sql",
		"orders_v2.sql.bak",
		"old_orders_v9.sql",
		"a.b_v4.sql",
		"README.md",
	)
	resolver := NewResolver(store)

	for _, testCase := range []struct {
		name             string
		view             string
		expectedVersion  int
		expectedFilename string
	}{
		{"maximum", "foo", 3, "foo_v3.sql"},
		{"anchored suffix", "orders", 2, "orders_v2.sql"},
		{"anchored prefix", "orders_view", 7, "orders_view_v7.sql"},
		{"no match", "bar", 1, "bar_v01.sql"},
		{"prefix is not a match", "fo", 1, "fo_v01.sql"},
		{"regexp metacharacters", "a.b", 4, "a.b_v4.sql"},
		{"regexp metacharacters do not match", "a_b", 1, "a_b_v01.sql"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			version, filename, err := resolver.LatestVersion(testCase.view)
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedVersion, version)
			assert.Equal(t, testCase.expectedFilename, filename)
		})
	}
}

func TestLatestVersionPrefixedFileIsIgnored(t *testing.T) {
	version, _, err := NewResolver(newTestDefinitionStore("foobar_v5.sql")).LatestVersion("foo")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestLatestVersionZeroPadded(t *testing.T) {
	resolver := NewResolver(newTestDefinitionStore("users_v01.sql", "users_v09.sql", "users_v10.sql"))

	version, filename, err := resolver.LatestVersion("users")
	require.NoError(t, err)
	assert.Equal(t, 10, version)
	assert.Equal(t, "users_v10.sql", filename)
}

func TestLatestVersionIgnoresDirectories(t *testing.T) {
	store := NewFSDefinitionStore("test", fstest.MapFS{
		"users_v4.sql/nested.sql": &fstest.MapFile{Data: []byte("SELECT 1")},
		"users_v2.sql":            &fstest.MapFile{Data: []byte("SELECT 2")},
	})

	version, _, err := NewResolver(store).LatestVersion("users")
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestLatestVersionUnreadableDirectory(t *testing.T) {
	resolver := NewResolver(NewFilesystemDefinitionStore(t.TempDir() + "/missing"))

	_, _, err := resolver.LatestVersion("users")
	assert.ErrorIs(t, err, ErrDirectoryUnreadable)
}

func TestResolve(t *testing.T) {
	t.Run("loads the latest file", func(t *testing.T) {
		store := NewFSDefinitionStore("test", fstest.MapFS{
			"active_users_v1.sql": &fstest.MapFile{Data: []byte("SELECT * FROM users")},
			"active_users_v2.sql": &fstest.MapFile{Data: []byte("SELECT * FROM users WHERE active")},
		})

		definition, err := NewResolver(store).Resolve(context.Background(), "active_users")
		require.NoError(t, err)
		assert.Equal(t, VersionedDefinition{
			ViewName: "active_users",
			Version:  2,
			Filename: "active_users_v2.sql",
			SQL:      "SELECT * FROM users WHERE active",
		}, definition)
	})

	t.Run("missing definition", func(t *testing.T) {
		_, err := NewResolver(newTestDefinitionStore()).Resolve(context.Background(), "bar")
		assert.ErrorIs(t, err, ErrDefinitionNotFound)
		assert.ErrorContains(t, err, "bar_v01.sql")
	})

	t.Run("empty definition", func(t *testing.T) {
		store := NewFSDefinitionStore("test", fstest.MapFS{
			"bar_v3.sql": &fstest.MapFile{Data: []byte("  \n")},
		})

		_, err := NewResolver(store).Resolve(context.Background(), "bar")
		assert.ErrorIs(t, err, ErrEmptyDefinition)
		assert.ErrorContains(t, err, "define view query in bar_v3.sql before migrating")
	})

	t.Run("custom loader", func(t *testing.T) {
		var loaded VersionedDefinition
		loader := DefinitionLoaderFunc(func(_ context.Context, d VersionedDefinition) (string, error) {
			loaded = d
			return "SELECT 'template'", nil
		})

		definition, err := NewResolver(newTestDefinitionStore(), WithDefinitionLoader(loader)).Resolve(context.Background(), "bar")
		require.NoError(t, err)
		assert.Equal(t, VersionedDefinition{ViewName: "bar", Version: 1, Filename: "bar_v01.sql"}, loaded)
		assert.Equal(t, 1, definition.Version)
		assert.Equal(t, "SELECT 'template'", definition.SQL)
	})

	t.Run("loader error", func(t *testing.T) {
		loaderErr := errors.New("boom")
		loader := DefinitionLoaderFunc(func(context.Context, VersionedDefinition) (string, error) {
			return "", loaderErr
		})

		_, err := NewResolver(newTestDefinitionStore("bar_v1.sql"), WithDefinitionLoader(loader)).Resolve(context.Background(), "bar")
		assert.ErrorIs(t, err, loaderErr)
	})

	t.Run("name reaching into a subdirectory", func(t *testing.T) {
		store := NewFSDefinitionStore("test", fstest.MapFS{
			"sub/x_v01.sql": &fstest.MapFile{Data: []byte("SELECT 1")},
		})

		_, err := NewResolver(store).Resolve(context.Background(), "sub/x")
		assert.ErrorIs(t, err, ErrDefinitionNotFound)
	})

	t.Run("unreadable directory", func(t *testing.T) {
		_, err := NewResolver(NewFilesystemDefinitionStore(t.TempDir()+"/missing")).Resolve(context.Background(), "bar")
		assert.ErrorIs(t, err, ErrDirectoryUnreadable)
	})
}

func TestDefinitionFilename(t *testing.T) {
	assert.Equal(t, "users_v01.sql", DefinitionFilename("users", 1))
	assert.Equal(t, "users_v12.sql", DefinitionFilename("users", 12))
	assert.Equal(t, "users_v123.sql", DefinitionFilename("users", 123))
}

//
//
//

func newTestDefinitionStore(filenames ...string) DefinitionStore {
	files := fstest.MapFS{}
	for _, filename := range filenames {
		files[filename] = &fstest.MapFile{Data: []byte("SELECT 1 -- " + filename)}
	}

	return NewFSDefinitionStore("test", files)
}

func TestViewNames(t *testing.T) {
	names, err := NewResolver(newTestDefinitionStore(
		"users_v1.sql",
		"users_v2.sql",
		"orders_view_v1.sql",
		"notes.sql",
		"_v1.sql",
		"README.md",
	)).ViewNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"orders_view", "users"}, names)

	_, err = NewResolver(NewFilesystemDefinitionStore(t.TempDir() + "/missing")).ViewNames()
	assert.ErrorIs(t, err, ErrDirectoryUnreadable)
}
