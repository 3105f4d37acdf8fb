// Package internalsources wires the concrete providers into a fallback
// chain from the sources.yaml configuration.
package internalsources

import (
	"fmt"
	"os"

	"github.com/openlegis/amendmap/internal/sources/filedrop"
	"github.com/openlegis/amendmap/internal/sources/lis"
	"github.com/openlegis/amendmap/internal/sources/scrape"
	"github.com/openlegis/amendmap/internal/sources/snapshot"
	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/sources"
)

// BuildChain constructs the fallback chain described by cfg. The provider
// order in the file is the fallback order.
func BuildChain(cfg *sources.Config) (*sources.Chain, error) {
	if len(cfg.Providers) == 0 {
		return nil, &errors.ValidationError{Field: "providers", Message: "chain has no providers"}
	}

	providers := make([]sources.Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		p, err := buildProvider(pc)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	timeout := cfg.TimeoutOrDefault(constants.ProviderFetchTimeout)
	return sources.NewChain(providers, sources.WithTimeout(timeout)), nil
}

func buildProvider(pc sources.ProviderConfig) (sources.Provider, error) {
	switch pc.Type {
	case "lis":
		apiKey := ""
		if pc.APIKeyEnv != "" {
			apiKey = os.Getenv(pc.APIKeyEnv)
		}
		return lis.New(pc.Endpoint, apiKey), nil
	case "scrape":
		return scrape.New(pc.Endpoint), nil
	case "filedrop":
		return filedrop.New(pc.Dir), nil
	case "snapshot":
		path := pc.Path
		if path == "" {
			path = constants.SnapshotFilename
		}
		return snapshot.New(path), nil
	default:
		return nil, &errors.ValidationError{
			Field:   "type",
			Value:   pc.Type,
			Message: fmt.Sprintf("unknown provider type %q", pc.Type),
		}
	}
}

// SnapshotPath returns the snapshot path, if the chain has a snapshot
// provider to keep fresh. An unconfigured path falls back to the default
// filename, matching the provider the chain actually runs.
func SnapshotPath(cfg *sources.Config) string {
	for _, pc := range cfg.Providers {
		if pc.Type == "snapshot" {
			if pc.Path != "" {
				return pc.Path
			}
			return constants.SnapshotFilename
		}
	}
	return ""
}
