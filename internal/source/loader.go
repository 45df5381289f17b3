package source

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoSources indicates no sources were found in the configuration
	ErrNoSources = errors.New("no sources found in configuration")
	// ErrMissingRequiredField indicates a required field is missing
	ErrMissingRequiredField = errors.New("missing required field")
)

// sourcesFile represents the structure of a sources YAML file.
type sourcesFile struct {
	Sources []map[string]any `yaml:"sources"`
}

// Loader handles loading and validating source definitions from a file.
type Loader struct {
	configPath string
}

// NewLoader creates a new Loader instance.
func NewLoader(configPath string) (*Loader, error) {
	return &Loader{
		configPath: configPath,
	}, nil
}

// LoadSources loads and validates all sources from the configuration file.
// Entries that fail to decode or validate are skipped.
func (l *Loader) LoadSources() ([]Source, error) {
	raw, err := l.loadRawSources()
	if err != nil {
		return nil, fmt.Errorf("failed to load raw sources: %w", err)
	}

	sources := make([]Source, 0, len(raw))
	for _, entry := range raw {
		src, convertErr := l.convertToSource(entry)
		if convertErr != nil {
			continue
		}
		applyDefaults(entry, &src)
		if validateErr := src.Validate(); validateErr != nil {
			continue
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	return sources, nil
}

// Report describes the validation outcome for one source entry.
type Report struct {
	// Name identifies the entry; synthesized from its position when
	// the entry carries no name.
	Name string
	// Err is nil when the entry is valid.
	Err error
}

// ValidateSources checks every entry in the configuration file and
// returns one report per entry. Unlike LoadSources it keeps the invalid
// entries so they can be reported.
func (l *Loader) ValidateSources() ([]Report, error) {
	raw, err := l.loadRawSources()
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(raw))
	for i, entry := range raw {
		report := Report{Name: entryName(entry, i)}

		src, convertErr := l.convertToSource(entry)
		if convertErr != nil {
			report.Err = convertErr
			reports = append(reports, report)
			continue
		}

		applyDefaults(entry, &src)
		report.Err = src.Validate()
		reports = append(reports, report)
	}

	return reports, nil
}

// entryName labels a raw entry for reporting.
func entryName(raw map[string]any, index int) string {
	if name, ok := raw["name"].(string); ok && name != "" {
		return name
	}
	return fmt.Sprintf("entry %d", index+1)
}

// loadRawSources loads the raw source data from the configuration file.
func (l *Loader) loadRawSources() ([]map[string]any, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSources, l.configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, ErrNoSources
	}

	return file.Sources, nil
}

// convertToSource converts a raw source map to a Source struct.
func (l *Loader) convertToSource(raw map[string]any) (Source, error) {
	var src Source
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &src,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Source{}, fmt.Errorf("failed to create decoder: %w", err)
	}

	if decodeErr := decoder.Decode(raw); decodeErr != nil {
		return Source{}, fmt.Errorf("failed to decode source: %w", decodeErr)
	}

	return src, nil
}

// applyDefaults fills in unset fields. Presence in the raw map decides
// whether a field was set, so an explicit zero (a deliberate 0s delay, a
// disabled filter) survives defaulting.
func applyDefaults(raw map[string]any, src *Source) {
	if _, ok := raw["base_url"]; !ok {
		src.BaseURL = originOf(src.URL)
	}
	if _, ok := raw["user_agent"]; !ok {
		src.UserAgent = DefaultUserAgent
	}
	if _, ok := raw["filter_relevant"]; !ok {
		src.FilterRelevant = true
	}
	if _, ok := raw["request_timeout"]; !ok {
		src.RequestTimeout = DefaultRequestTimeout
	}
	if _, ok := raw["page_delay"]; !ok {
		src.PageDelay = DefaultPageDelay
	}
	if _, ok := raw["download_delay"]; !ok {
		src.DownloadDelay = DefaultDownloadDelay
	}
	if _, ok := raw["download_dir"]; !ok {
		src.DownloadDir = "downloads"
	}
	if _, ok := raw["metadata_file"]; !ok {
		src.MetadataFile = filepath.Join(src.DownloadDir, MetadataFileName)
	}

	defaults := DefaultSelectors()
	if src.Selectors.Table == "" {
		src.Selectors.Table = defaults.Table
	}
	if src.Selectors.Row == "" {
		src.Selectors.Row = defaults.Row
	}
	if src.Selectors.LinkWrapper == "" {
		src.Selectors.LinkWrapper = defaults.LinkWrapper
	}
	if src.Selectors.Link == "" {
		src.Selectors.Link = defaults.Link
	}
	if src.Selectors.NextPage == "" {
		src.Selectors.NextPage = defaults.NextPage
	}
}

// originOf returns the scheme://host origin of rawURL, or empty.
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
