package flags

import "github.com/spf13/cobra"

func RegisterDefinitionsDirectoryFlag(cmd *cobra.Command, definitionsDirectory *string, defaultDirectory string) {
	cmd.PersistentFlags().StringVarP(
		definitionsDirectory,
		"dir", "d",
		defaultDirectory,
		"The directory holding versioned view definitions (<name>_v<version>.sql)",
	)
}
