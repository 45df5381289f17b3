package crawler

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/formharvest/internal/catalog"
	"github.com/jonesrussell/formharvest/internal/download"
	"github.com/jonesrussell/formharvest/internal/logger"
	"github.com/jonesrussell/formharvest/internal/metrics"
	"github.com/jonesrussell/formharvest/internal/source"
)

// artifactExt is the only document extension eligible for download.
const artifactExt = ".pdf"

// downloadDelaySpread staggers per-row download pauses across this many
// multiples of the configured delay.
const downloadDelaySpread = 3

// PageFetcher retrieves catalog pages. Implemented by Session.
type PageFetcher interface {
	Fetch(pageURL string) (*Page, error)
}

// ArtifactFetcher downloads record artifacts. Implemented by
// download.Downloader.
type ArtifactFetcher interface {
	Fetch(ctx context.Context, rec *catalog.FormRecord) download.Outcome
}

// MetadataWriter persists accepted records. Implemented by
// metadata.Writer.
type MetadataWriter interface {
	Write(records []catalog.FormRecord) error
}

// Ensure Session satisfies the page fetcher contract.
var _ PageFetcher = (*Session)(nil)

// Params bundles the dependencies for New.
type Params struct {
	Source    *source.Source
	Session   PageFetcher
	Downloads ArtifactFetcher
	Metadata  MetadataWriter
	Logger    logger.Interface
}

// Harvester walks one catalog source page by page. Pagination is
// strictly sequential: each next-page URL comes from the page before it,
// the way a browser user would click through.
type Harvester struct {
	source    *source.Source
	session   PageFetcher
	downloads ArtifactFetcher
	metadata  MetadataWriter
	extractor *catalog.Extractor
	logger    logger.Interface
}

// Result carries what one harvest run produced.
type Result struct {
	// Records are the accepted records in extraction order across pages.
	Records []catalog.FormRecord
	// Counters are the run counters.
	Counters metrics.RunCounters
}

// New validates params and creates a Harvester.
func New(p Params) (*Harvester, error) {
	if p.Source == nil {
		return nil, ErrSourceRequired
	}
	if p.Session == nil {
		return nil, ErrSessionRequired
	}
	if p.Downloads == nil {
		return nil, ErrDownloaderRequired
	}
	if p.Metadata == nil {
		return nil, ErrMetadataWriterRequired
	}
	if p.Logger == nil {
		return nil, ErrLoggerRequired
	}

	return &Harvester{
		source:    p.Source,
		session:   p.Session,
		downloads: p.Downloads,
		metadata:  p.Metadata,
		extractor: catalog.NewExtractor(p.Source),
		logger:    p.Logger,
	}, nil
}

// Run walks the catalog until the page limit, the last page, a page
// failure, or cancellation stops it. Page failures end the walk softly:
// everything collected so far is persisted and returned. The returned
// error reports only misuse of an unconstructed Harvester.
func (h *Harvester) Run(ctx context.Context) (*Result, error) {
	if h.session == nil {
		return nil, ErrSessionRequired
	}

	res := &Result{Records: make([]catalog.FormRecord, 0)}

	h.logger.Info("Starting harvest",
		"url", h.source.URL,
		"max_pages", h.source.MaxPages,
		"filter_relevant", h.source.FilterRelevant)

	var current *Page
	for pageNum := 1; ; pageNum++ {
		if h.source.MaxPages > 0 && pageNum > h.source.MaxPages {
			h.logger.Info("Reached maximum page limit", "max_pages", h.source.MaxPages)
			break
		}

		pageURL, ok := h.pageURL(current, pageNum)
		if !ok {
			h.logger.Info("No next page link found, reached end", "page", pageNum)
			break
		}

		page, err := h.session.Fetch(pageURL)
		if err != nil {
			h.logger.Error("Failed to fetch catalog page",
				"page", pageNum,
				"url", pageURL,
				"error", err)
			break
		}
		res.Counters.PagesVisited++
		h.logger.Info("Scraping page", "page", pageNum, "url", page.URL.String())

		table := page.Doc.Find(h.source.Selectors.Table).First()
		if table.Length() == 0 {
			h.logger.Warn("No catalog table found on page", "page", pageNum)
			break
		}

		if !h.processRows(ctx, table, res) {
			h.logger.Info("Harvest cancelled", "page", pageNum)
			break
		}
		h.logger.Info("Page complete", "page", pageNum, "total_records", len(res.Records))
		current = page

		if !h.pause(ctx, h.source.PageDelay) {
			h.logger.Info("Harvest cancelled", "page", pageNum)
			break
		}
	}

	if err := h.metadata.Write(res.Records); err != nil {
		h.logger.Error("Failed to save metadata", "error", err)
	}

	h.logger.Info("Harvest finished",
		"pages_visited", res.Counters.PagesVisited,
		"records", len(res.Records),
		"downloaded", res.Counters.ArtifactsDownloaded,
		"skipped", res.Counters.DownloadsSkipped,
		"failures", res.Counters.DownloadFailures)

	return res, nil
}

// pageURL resolves the URL for pageNum: the entry URL for the first
// page, afterwards the next-page affordance found on the page before
// it. It reports false when the previous page has no next-page link.
func (h *Harvester) pageURL(current *Page, pageNum int) (string, bool) {
	if pageNum == 1 {
		return h.source.URL, true
	}
	if current == nil {
		return "", false
	}
	return current.NextPageURL(h.source.Selectors.NextPage)
}

// processRows walks the listing rows of one page's table, skipping the
// header row. It reports false when cancellation interrupted the page.
func (h *Harvester) processRows(ctx context.Context, table *goquery.Selection, res *Result) bool {
	rows := table.Find(h.source.Selectors.Row)

	dataRows := rows.Length() - 1
	if dataRows < 0 {
		dataRows = 0
	}
	h.logger.Info("Found listing rows", "rows", dataRows)

	completed := true
	rows.EachWithBreak(func(idx int, row *goquery.Selection) bool {
		if idx == 0 {
			return true
		}
		if !h.processRow(ctx, idx-1, row, res) {
			completed = false
			return false
		}
		return true
	})

	return completed
}

// processRow extracts, classifies, and downloads a single listing row.
// A row never stops the page: rows that yield no record are counted and
// skipped. It reports false only on cancellation.
func (h *Harvester) processRow(ctx context.Context, rowIdx int, row *goquery.Selection, res *Result) bool {
	rec := h.extractor.Extract(row)
	if rec == nil {
		res.Counters.RowErrors++
		h.logger.Debug("Row yielded no record", "row", rowIdx)
		return true
	}
	res.Counters.RecordsObserved++

	if h.source.FilterRelevant && !catalog.IsRelevant(rec) {
		h.logger.Debug("Skipping irrelevant record",
			"product_number", rec.ProductNumber,
			"title", rec.Title)
		return true
	}
	res.Counters.RelevantRecords++
	res.Records = append(res.Records, *rec)

	if !strings.HasSuffix(rec.ArtifactURL, artifactExt) {
		return true
	}

	switch h.downloads.Fetch(ctx, rec) {
	case download.OutcomeDownloaded:
		res.Counters.ArtifactsDownloaded++
	case download.OutcomeSkippedExists:
		res.Counters.DownloadsSkipped++
	case download.OutcomeFailed:
		res.Counters.DownloadFailures++
	case download.OutcomeSkippedNoFilename:
	}

	return h.pause(ctx, h.downloadDelay(rowIdx))
}

// downloadDelay staggers the post-download pause between one and three
// delay units, varying with the row's position on the page.
func (h *Harvester) downloadDelay(rowIdx int) time.Duration {
	return h.source.DownloadDelay * time.Duration(1+rowIdx%downloadDelaySpread)
}

// pause sleeps for d, or reports false when the context is cancelled
// first.
func (h *Harvester) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
