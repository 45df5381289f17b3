// Package sources implements the command-line interface for managing
// catalog sources. This file contains the implementation of the list
// command that displays all configured sources in a formatted table.
package sources

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/formharvest/cmd/common"
	"github.com/jonesrussell/formharvest/internal/logger"
	"github.com/jonesrussell/formharvest/internal/source"
)

// TableRenderer handles the display of source data in a table format
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new TableRenderer instance
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{
		logger: log,
	}
}

// RenderTable formats and displays the sources in a table format
func (r *TableRenderer) RenderTable(sources []source.Source) error {
	// Initialize table writer with stdout as output
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	// Add table headers
	t.AppendHeader(table.Row{"Name", "URL", "Max Pages", "Filter", "Page Delay", "Download Dir"})

	// Process each source
	for i := range sources {
		src := &sources[i]
		t.AppendRow(table.Row{
			src.Name,
			src.URL,
			src.MaxPages,
			src.FilterRelevant,
			src.PageDelay,
			src.DownloadDir,
		})
	}

	// Render the table
	t.Render()
	return nil
}

// Lister handles listing sources
type Lister struct {
	sources  []source.Source
	logger   logger.Interface
	renderer *TableRenderer
}

// NewLister creates a new Lister instance
func NewLister(sources []source.Source, log logger.Interface, renderer *TableRenderer) *Lister {
	return &Lister{
		sources:  sources,
		logger:   log,
		renderer: renderer,
	}
}

// Start begins the list operation
func (l *Lister) Start(ctx context.Context) error {
	l.logger.Info("Listing sources")

	return l.renderer.RenderTable(l.sources)
}

// NewListCommand creates a new list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configured sources",
		Long:  `List all catalog sources configured in the system.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get dependencies
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			sources, err := common.ResolveSources(deps.Config)
			if err != nil {
				if errors.Is(err, source.ErrNoSources) {
					deps.Logger.Info("No sources found in configuration. Please add sources to your sources file.")
					return nil
				}
				return fmt.Errorf("failed to load sources: %w", err)
			}

			renderer := NewTableRenderer(deps.Logger)
			lister := NewLister(sources, deps.Logger, renderer)

			// Execute the list command
			return lister.Start(cmd.Context())
		},
	}

	return cmd
}
