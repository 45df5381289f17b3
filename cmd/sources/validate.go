// Package sources provides the sources command implementation.
package sources

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/formharvest/cmd/common"
	"github.com/jonesrussell/formharvest/internal/source"
)

var validateFile string

// NewValidateCommand creates a new validate subcommand for sources.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate source definitions",
		Long: `Checks every entry in a sources file and reports which ones the
harvester would accept.

Example:
  # Validate the configured sources file
  formharvest sources validate

  # Validate a specific file
  formharvest sources validate -f ./sources.yml`,
		RunE: runValidate,
	}

	cmd.Flags().StringVarP(&validateFile, "file", "f", "",
		"Sources file to validate (default: the configured one)")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	// Get dependencies
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to get dependencies: %w", err)
	}

	path := validateFile
	if path == "" {
		path = deps.Config.GetHarvesterConfig().SourcesFile
	}
	if path == "" {
		deps.Logger.Info("No sources file configured, nothing to validate. The built-in source is always available.")
		return nil
	}

	loader, err := source.NewLoader(path)
	if err != nil {
		return fmt.Errorf("failed to create source loader: %w", err)
	}

	reports, err := loader.ValidateSources()
	if err != nil {
		if errors.Is(err, source.ErrNoSources) {
			deps.Logger.Info("No sources found in configuration. Please add sources to your sources file.",
				"path", path)
			return nil
		}
		return fmt.Errorf("failed to validate sources: %w", err)
	}

	renderReports(os.Stdout, path, reports)

	invalid := 0
	for _, report := range reports {
		if report.Err != nil {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d sources failed validation", invalid, len(reports))
	}

	fmt.Fprintf(os.Stderr, "✅ All %d source(s) are valid\n", len(reports))
	return nil
}

// renderReports prints one row per source entry with its validation state.
func renderReports(out io.Writer, path string, reports []source.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Sources in %s", path)
	t.AppendHeader(table.Row{"Name", "Status", "Problem"})

	for _, report := range reports {
		status := "ok"
		problem := ""
		if report.Err != nil {
			status = "invalid"
			problem = report.Err.Error()
		}
		t.AppendRow(table.Row{report.Name, status, problem})
	}

	t.Render()
}
