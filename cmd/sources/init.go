// Package sources provides the sources command implementation.
package sources

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/formharvest/internal/source"
)

var initOutputFile string

// starterSource mirrors the Source fields a sources file usually sets,
// with the delays as strings so the generated YAML reads naturally.
type starterSource struct {
	Name          string `yaml:"name"`
	URL           string `yaml:"url"`
	MaxPages      int    `yaml:"max_pages"`
	PageDelay     string `yaml:"page_delay"`
	DownloadDelay string `yaml:"download_delay"`
	DownloadDir   string `yaml:"download_dir"`
}

// starterFile is the document written by the init command.
type starterFile struct {
	Sources []starterSource `yaml:"sources"`
}

// NewInitCommand creates a new init subcommand for sources.
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter sources file",
		Long: `Writes a sources file seeded with the built-in catalog source so it
can be copied and adjusted.

Example:
  formharvest sources init -o sources.yml`,
		RunE: runInit,
	}

	cmd.Flags().StringVarP(&initOutputFile, "output", "o", "sources.yml", "Output file path")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initOutputFile); err == nil {
		return fmt.Errorf("refusing to overwrite existing file: %s", initOutputFile)
	}

	if err := prepareOutputDirectory(initOutputFile); err != nil {
		return err
	}

	def := source.Default()
	starter := starterFile{
		Sources: []starterSource{{
			Name:          def.Name,
			URL:           def.URL,
			MaxPages:      def.MaxPages,
			PageDelay:     def.PageDelay.String(),
			DownloadDelay: def.DownloadDelay.String(),
			DownloadDir:   def.DownloadDir,
		}},
	}

	content, err := yaml.Marshal(&starter)
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}

	if err := os.WriteFile(initOutputFile, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", initOutputFile, err)
	}

	fmt.Fprintf(os.Stderr, "✅ Wrote starter sources file: %s\n", initOutputFile)
	return nil
}

// prepareOutputDirectory ensures the output directory exists if needed.
func prepareOutputDirectory(path string) error {
	outputDir := filepath.Dir(path)
	if outputDir == "." || outputDir == "" {
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	fmt.Fprintf(os.Stderr, "📁 Created directory: %s\n", outputDir)
	return nil
}
