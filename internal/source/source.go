// Package source provides catalog source definitions for the harvester.
// A source describes one paginated forms catalog: where it lives, how to
// walk it, and where its artifacts and metadata land on disk.
package source

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"
)

// Built-in catalog defaults.
const (
	// DefaultCatalogURL is the entry page of the IRS forms catalog.
	DefaultCatalogURL = "https://www.irs.gov/forms-instructions-and-publications"
	// DefaultBaseURL is the origin relative artifact links resolve against.
	DefaultBaseURL = "https://www.irs.gov"
	// DefaultUserAgent is sent on every catalog and artifact request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// DefaultDownloadDir is where artifacts are written.
	DefaultDownloadDir = "irs_pdfs"
	// MetadataFileName is the tabular file written inside the download dir.
	MetadataFileName = "metadata.csv"
)

// Pacing and limit defaults for the built-in source.
const (
	DefaultMaxPages       = 5
	DefaultRequestTimeout = 30 * time.Second
	DefaultPageDelay      = 2 * time.Second
	DefaultDownloadDelay  = 1 * time.Second
)

// Source represents one forms catalog to be harvested.
type Source struct {
	// Name is the unique identifier for the source
	Name string `yaml:"name" mapstructure:"name"`
	// URL is the entry page of the paginated catalog
	URL string `yaml:"url" mapstructure:"url"`
	// BaseURL is the origin used to absolutize relative artifact links
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// UserAgent is sent on catalog and artifact requests
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Headers are extra request headers for the page session
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// MaxPages caps how many catalog pages are visited; 0 means no cap
	MaxPages int `yaml:"max_pages" mapstructure:"max_pages"`
	// FilterRelevant enables the relevance classifier; irrelevant rows are
	// observed but neither stored nor downloaded
	FilterRelevant bool `yaml:"filter_relevant" mapstructure:"filter_relevant"`
	// RequestTimeout bounds each individual page or artifact request
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	// PageDelay is the fixed pause after each catalog page
	PageDelay time.Duration `yaml:"page_delay" mapstructure:"page_delay"`
	// DownloadDelay is the pacing unit after each artifact download; the
	// effective pause is DownloadDelay * (1 + rowIndex%3)
	DownloadDelay time.Duration `yaml:"download_delay" mapstructure:"download_delay"`
	// DownloadDir is where artifacts are written
	DownloadDir string `yaml:"download_dir" mapstructure:"download_dir"`
	// MetadataFile is the tabular metadata destination
	MetadataFile string `yaml:"metadata_file" mapstructure:"metadata_file"`
	// Selectors locate the catalog structures within a page
	Selectors CatalogSelectors `yaml:"selectors" mapstructure:"selectors"`
}

// CatalogSelectors defines the CSS selectors for walking a catalog page.
type CatalogSelectors struct {
	// Table is the selector for the catalog listing table
	Table string `yaml:"table" mapstructure:"table"`
	// Row is the selector for listing rows within the table
	Row string `yaml:"row" mapstructure:"row"`
	// LinkWrapper is the styled wrapper the product link is preferred from
	LinkWrapper string `yaml:"link_wrapper" mapstructure:"link_wrapper"`
	// Link is the fallback selector for the product link
	Link string `yaml:"link" mapstructure:"link"`
	// NextPage is the selector for the next-page affordance
	NextPage string `yaml:"next_page" mapstructure:"next_page"`
}

// DefaultSelectors returns the selectors used by the built-in catalog.
func DefaultSelectors() CatalogSelectors {
	return CatalogSelectors{
		Table:       "table",
		Row:         "tr",
		LinkWrapper: "span.tablesaw-cell-content",
		Link:        "a",
		NextPage:    `a[title="Go to next page"]`,
	}
}

// Default returns the built-in IRS forms catalog source. Running the
// harvester with no configuration at all harvests this source.
func Default() Source {
	return Source{
		Name:           "irs-forms",
		URL:            DefaultCatalogURL,
		BaseURL:        DefaultBaseURL,
		UserAgent:      DefaultUserAgent,
		MaxPages:       DefaultMaxPages,
		FilterRelevant: true,
		RequestTimeout: DefaultRequestTimeout,
		PageDelay:      DefaultPageDelay,
		DownloadDelay:  DefaultDownloadDelay,
		DownloadDir:    DefaultDownloadDir,
		MetadataFile:   filepath.Join(DefaultDownloadDir, MetadataFileName),
		Selectors:      DefaultSelectors(),
	}
}

// Validate checks that the source is usable.
func (s *Source) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if s.URL == "" {
		return fmt.Errorf("%w: url", ErrMissingRequiredField)
	}
	if err := validateURL(s.URL); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if s.BaseURL != "" {
		if err := validateURL(s.BaseURL); err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
	}
	if s.MaxPages < 0 {
		return errors.New("max_pages must be non-negative")
	}
	if s.RequestTimeout < 0 || s.PageDelay < 0 || s.DownloadDelay < 0 {
		return errors.New("timeouts and delays must be non-negative")
	}
	if s.DownloadDir == "" {
		return fmt.Errorf("%w: download_dir", ErrMissingRequiredField)
	}
	if s.MetadataFile == "" {
		return fmt.Errorf("%w: metadata_file", ErrMissingRequiredField)
	}
	return s.Selectors.Validate()
}

// Validate checks that the selectors needed to walk a catalog are present.
func (s *CatalogSelectors) Validate() error {
	if s.Table == "" {
		return fmt.Errorf("%w: selectors.table", ErrMissingRequiredField)
	}
	if s.Row == "" {
		return fmt.Errorf("%w: selectors.row", ErrMissingRequiredField)
	}
	if s.Link == "" {
		return fmt.Errorf("%w: selectors.link", ErrMissingRequiredField)
	}
	if s.NextPage == "" {
		return fmt.Errorf("%w: selectors.next_page", ErrMissingRequiredField)
	}
	return nil
}

// FindByName returns the source with the given name, or nil.
func FindByName(sources []Source, name string) *Source {
	for i := range sources {
		if sources[i].Name == name {
			return &sources[i]
		}
	}
	return nil
}

// validateURL validates the URL format.
func validateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be a valid HTTP(S) URL")
	}
	return nil
}
