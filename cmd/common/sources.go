package common

import (
	"fmt"

	"github.com/jonesrussell/formharvest/internal/config"
	"github.com/jonesrussell/formharvest/internal/source"
)

// ResolveSources returns the source definitions to work with. When no
// sources file is configured it falls back to the built-in catalog source,
// so the harvester is usable with zero configuration.
func ResolveSources(cfg config.Interface) ([]source.Source, error) {
	harvesterCfg := cfg.GetHarvesterConfig()
	if harvesterCfg.SourcesFile == "" {
		return []source.Source{source.Default()}, nil
	}

	loader, err := source.NewLoader(harvesterCfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("create source loader: %w", err)
	}

	sources, err := loader.LoadSources()
	if err != nil {
		return nil, fmt.Errorf("load sources from %s: %w", harvesterCfg.SourcesFile, err)
	}

	return sources, nil
}

// ResolveSource picks the source to harvest. A non-empty name wins over
// the harvester.source setting; when neither is set the first defined
// source is used.
func ResolveSource(cfg config.Interface, name string) (*source.Source, error) {
	sources, err := ResolveSources(cfg)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = cfg.GetHarvesterConfig().Source
	}
	if name == "" {
		return &sources[0], nil
	}

	if src := source.FindByName(sources, name); src != nil {
		return src, nil
	}

	return nil, fmt.Errorf("%w: %q in %s", ErrSourceNotFound, name, cfg.GetHarvesterConfig().SourcesFile)
}
