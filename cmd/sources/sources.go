// Package sources implements the command-line interface for managing
// catalog source definitions.
package sources

import (
	"github.com/spf13/cobra"
)

// NewSourcesCommand creates a new sources command.
func NewSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage catalog sources",
		Long:  `Manage the catalog source definitions the harvester works from`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Add subcommands
	cmd.AddCommand(
		NewListCommand(),
		NewValidateCommand(),
		NewInitCommand(),
	)

	return cmd
}
