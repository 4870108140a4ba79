package pgviews

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefinitionStore is a flat directory of versioned view definition files.
type DefinitionStore interface {
	// Name identifies the store in error messages.
	Name() string

	// Filenames lists the regular files in the store. A store that cannot be
	// listed returns an error wrapping ErrDirectoryUnreadable.
	Filenames() ([]string, error)

	ReadFile(filename string) ([]byte, error)
}

var ErrDirectoryUnreadable = fmt.Errorf("view definition directory is unreadable")

type fsDefinitionStore struct {
	name string
	dir  string
	fs   fs.FS
}

// NewFilesystemDefinitionStore reads definitions from dirname on local disk.
func NewFilesystemDefinitionStore(dirname string) DefinitionStore {
	return NewFSDefinitionStore(dirname, os.DirFS(dirname))
}

// NewEmbedDefinitionStore reads definitions from dirname within an embedded filesystem.
func NewEmbedDefinitionStore(fs embed.FS, dirname string) DefinitionStore {
	return &fsDefinitionStore{name: "<embed>/" + dirname, dir: dirname, fs: fs}
}

func NewFSDefinitionStore(name string, fs fs.FS) DefinitionStore {
	return &fsDefinitionStore{name: name, dir: ".", fs: fs}
}

func (s *fsDefinitionStore) Name() string {
	return s.name
}

func (s *fsDefinitionStore) Filenames() ([]string, error) {
	entries, err := fs.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q does not exist", ErrDirectoryUnreadable, s.name)
		}

		return nil, fmt.Errorf("%w: %q: %w", ErrDirectoryUnreadable, s.name, err)
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			filenames = append(filenames, entry.Name())
		}
	}

	return filenames, nil
}

// ReadFile reads a file at the top level of the store. Names that would reach into a
// subdirectory are reported as not existing.
func (s *fsDefinitionStore) ReadFile(filename string) ([]byte, error) {
	if strings.ContainsAny(filename, `/\`) {
		return nil, &fs.PathError{Op: "read", Path: filename, Err: fs.ErrNotExist}
	}

	if s.dir != "." {
		filename = s.dir + "/" + filename
	}

	return fs.ReadFile(s.fs, filename)
}
