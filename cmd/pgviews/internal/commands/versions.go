package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/go-nacelle/log/v2"
	"github.com/go-nacelle/pgviews"
	"github.com/go-nacelle/pgviews/cmd/pgviews/internal/flags"
	"github.com/spf13/cobra"
)

func VersionsCommand(logger log.Logger, cfg pgviews.Config) *cobra.Command {
	var (
		definitionsDirectory string
	)

	versionsCmd := &cobra.Command{
		Use:   "versions [view name...]",
		Short: "Display the latest definition version of each view without connecting to the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return versions(os.Stdout, definitionsDirectory, args)
		},
	}

	flags.RegisterDefinitionsDirectoryFlag(versionsCmd, &definitionsDirectory, cfg.DefinitionsDir)
	flags.RegisterNoColorFlag(versionsCmd)
	return versionsCmd
}

func versions(w io.Writer, definitionsDirectory string, viewNames []string) error {
	resolver := pgviews.NewResolver(pgviews.NewFilesystemDefinitionStore(definitionsDirectory))

	if len(viewNames) == 0 {
		names, err := resolver.ViewNames()
		if err != nil {
			return err
		}

		viewNames = names
	}

	maxNameLen := 0
	for _, name := range viewNames {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	var missing []string
	for _, name := range viewNames {
		version, filename, err := resolver.LatestVersion(name)
		if err != nil {
			return err
		}

		exists := true
		if _, err := os.Stat(filepath.Join(definitionsDirectory, filename)); errors.Is(err, os.ErrNotExist) {
			exists = false
			missing = append(missing, name)
		}

		c, status := versionStatus(exists)
		c.Fprintf(w,
			"%s  v%02d  %s\t%s\n",
			name+strings.Repeat(" ", maxNameLen-len(name)),
			version,
			filename,
			status,
		)
	}

	if len(missing) > 0 {
		return fmt.Errorf("no definition file for %s", strings.Join(missing, ", "))
	}

	return nil
}

func versionStatus(exists bool) (*color.Color, string) {
	if !exists {
		return color.New(color.FgRed), "missing"
	}

	return color.New(color.FgGreen), "ok"
}
