package sources

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/openlegis/amendmap/pkg/errors"
)

// Config is the on-disk chain configuration (sources.yaml). The provider
// order in the file is the fallback order.
type Config struct {
	// Timeout is the per-provider budget, e.g. "2m". Empty uses the default.
	Timeout string `yaml:"timeout"`

	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig configures one provider in the chain.
type ProviderConfig struct {
	// Type selects the implementation: lis, scrape, filedrop, snapshot.
	Type string `yaml:"type"`

	// Endpoint is the base URL for network providers.
	Endpoint string `yaml:"endpoint,omitempty"`

	// APIKeyEnv names the environment variable holding the API key, if any.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	// Dir is the drop directory for the filedrop provider.
	Dir string `yaml:"dir,omitempty"`

	// Path is the snapshot file for the snapshot provider.
	Path string `yaml:"path,omitempty"`
}

// LoadConfig reads a sources.yaml chain configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &cfg, nil
}

// TimeoutOrDefault parses the configured timeout, falling back to d.
func (c *Config) TimeoutOrDefault(d time.Duration) time.Duration {
	if c.Timeout == "" {
		return d
	}
	parsed, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return d
	}
	return parsed
}
