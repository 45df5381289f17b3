// Package harvest implements the harvest command for walking a forms
// catalog and downloading its artifacts.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/formharvest/cmd/common"
	"github.com/jonesrussell/formharvest/internal/catalog"
	"github.com/jonesrussell/formharvest/internal/crawler"
	"github.com/jonesrussell/formharvest/internal/download"
	"github.com/jonesrussell/formharvest/internal/logger"
	"github.com/jonesrussell/formharvest/internal/metadata"
	"github.com/jonesrussell/formharvest/internal/source"
)

// sampleSize is how many accepted records the run summary prints.
const sampleSize = 10

// harvestOptions holds the flag and argument values for one invocation.
type harvestOptions struct {
	sourceName string
	maxPages   int
	all        bool
}

// Command returns the harvest command for use in the root command.
func Command() *cobra.Command {
	var opts harvestOptions

	cmd := &cobra.Command{
		Use:   "harvest [source]",
		Short: "Harvest a forms catalog",
		Long: `This command walks a paginated forms catalog, keeps the relevant
listings, downloads their PDF artifacts, and writes a metadata CSV.

With no argument the configured source is harvested; with no configuration
at all the built-in IRS catalog source is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get dependencies
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			if len(args) > 0 {
				opts.sourceName = args[0]
			}

			return runHarvest(cmd, deps, opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxPages, "max-pages", 0,
		"Override the max_pages setting from source configuration (0 means use source default)")
	cmd.Flags().BoolVar(&opts.all, "all", false,
		"Harvest every catalog row instead of only the relevant ones")

	return cmd
}

// runHarvest resolves the source, runs the harvest, and prints the
// run summary.
func runHarvest(cmd *cobra.Command, deps cmdcommon.CommandDeps, opts harvestOptions) error {
	src, err := cmdcommon.ResolveSource(deps.Config, opts.sourceName)
	if err != nil {
		if errors.Is(err, source.ErrNoSources) {
			deps.Logger.Info("No sources found in configuration. Please add sources to your sources file.")
			deps.Logger.Info("You can use the 'sources list' command to view configured sources.")
			return nil
		}
		return fmt.Errorf("failed to resolve source: %w", err)
	}

	if opts.maxPages > 0 {
		deps.Logger.Info("Overriding source max_pages with flag value", "max_pages", opts.maxPages)
		src.MaxPages = opts.maxPages
	}
	if opts.all {
		src.FilterRelevant = false
	}

	log := deps.Logger.With("harvest_id", uuid.NewString(), "source", src.Name)

	writer := metadata.NewWriter(src.MetadataFile, log)
	logPreviousRun(writer, log)

	harvester, err := buildHarvester(cmd.Context(), src, writer, log)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := harvester.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}
	elapsed := time.Since(start)

	renderSummary(cmd.OutOrStdout(), src, result, elapsed)
	renderSample(cmd.OutOrStdout(), result.Records)

	return nil
}

// buildHarvester wires the page session, artifact downloader, and
// metadata writer into a Harvester for the given source.
func buildHarvester(
	ctx context.Context,
	src *source.Source,
	writer *metadata.Writer,
	log logger.Interface,
) (*crawler.Harvester, error) {
	session, err := crawler.NewSession(ctx, src, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create page session: %w", err)
	}

	downloader, err := download.NewDownloader(download.Config{
		Dir:            src.DownloadDir,
		UserAgent:      src.UserAgent,
		RequestTimeout: src.RequestTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create downloader: %w", err)
	}

	harvester, err := crawler.New(crawler.Params{
		Source:    src,
		Session:   session,
		Downloads: downloader,
		Metadata:  writer,
		Logger:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create harvester: %w", err)
	}

	return harvester, nil
}

// logPreviousRun reports metadata left by an earlier harvest, if any.
// Artifacts listed there are skipped while they remain on disk.
func logPreviousRun(writer *metadata.Writer, log logger.Interface) {
	records, err := writer.Load()
	if err != nil {
		log.Warn("Could not read previous metadata", "error", err, "path", writer.Path())
		return
	}
	if len(records) == 0 {
		return
	}

	log.Info("Previous harvest metadata found",
		"records", len(records),
		"path", writer.Path())
}

// renderSummary prints the run counters in a table format.
func renderSummary(out io.Writer, src *source.Source, result *crawler.Result, elapsed time.Duration) {
	counters := result.Counters

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Harvest summary: %s", src.Name)

	t.AppendRows([]table.Row{
		{"Pages visited", counters.PagesVisited},
		{"Records observed", counters.RecordsObserved},
		{"Relevant records", counters.RelevantRecords},
		{"Artifacts downloaded", counters.ArtifactsDownloaded},
		{"Downloads skipped", counters.DownloadsSkipped},
		{"Download failures", counters.DownloadFailures},
		{"Row errors", counters.RowErrors},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Metadata file", src.MetadataFile})
	t.AppendRow(table.Row{"Elapsed", elapsed.Round(time.Millisecond)})

	t.Render()
}

// renderSample prints the first accepted records so a run's yield is
// visible without opening the metadata file.
func renderSample(out io.Writer, records []catalog.FormRecord) {
	if len(records) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Product Number", "Title"})

	limit := min(len(records), sampleSize)
	for i := range limit {
		t.AppendRow(table.Row{records[i].ProductNumber, records[i].Title})
	}
	if len(records) > sampleSize {
		t.AppendFooter(table.Row{"", fmt.Sprintf("and %d more", len(records)-sampleSize)})
	}

	t.Render()
}
