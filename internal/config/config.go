package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"codetyper/internal/errors"
)

// Defaults for the remote repository and the reveal pacing.
const (
	DefaultAPIBase      = "https://api.github.com"
	DefaultOwner        = "rust-lang"
	DefaultRepo         = "rust"
	DefaultUserAgent    = "codetyper"
	DefaultTimeout      = 30 * time.Second
	DefaultChunkSize    = 5
	DefaultPollInterval = 500 * time.Millisecond
	MinPollInterval     = time.Millisecond
)

// Config represents the application configuration structure.
// It describes where files come from and how fast they are revealed.
type Config struct {
	Remote struct {
		APIBase   string        `yaml:"api_base"`   // Contents API base URL
		Owner     string        `yaml:"owner"`      // Repository owner
		Repo      string        `yaml:"repo"`       // Repository name
		UserAgent string        `yaml:"user_agent"` // Sent with every request
		Timeout   time.Duration `yaml:"timeout"`    // Per-request timeout
	} `yaml:"remote"`
	Reveal struct {
		ChunkSize    int           `yaml:"chunk_size"`    // Characters shown per keypress
		PollInterval time.Duration `yaml:"poll_interval"` // Upper bound on one input wait
	} `yaml:"reveal"`
	Filter struct {
		Include []string `yaml:"include"` // Glob patterns a file must match
		Exclude []string `yaml:"exclude"` // Glob patterns that drop a file
	} `yaml:"filter"`
}

// New returns the default configuration
func New() *Config {
	return defaultConfig()
}

// LoadConfig loads configuration from the default location
// (~/.config/codetyper/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "codetyper", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, err)
	}

	cfg.merge(&tempCfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// merge copies every field set in other over the receiver
func (c *Config) merge(other *Config) {
	if other.Remote.APIBase != "" {
		c.Remote.APIBase = strings.TrimRight(other.Remote.APIBase, "/")
	}
	if other.Remote.Owner != "" {
		c.Remote.Owner = other.Remote.Owner
	}
	if other.Remote.Repo != "" {
		c.Remote.Repo = other.Remote.Repo
	}
	if other.Remote.UserAgent != "" {
		c.Remote.UserAgent = other.Remote.UserAgent
	}
	if other.Remote.Timeout != 0 {
		c.Remote.Timeout = other.Remote.Timeout
	}

	if other.Reveal.ChunkSize != 0 {
		c.Reveal.ChunkSize = other.Reveal.ChunkSize
	}
	if other.Reveal.PollInterval != 0 {
		c.Reveal.PollInterval = other.Reveal.PollInterval
	}

	if len(other.Filter.Include) > 0 {
		c.Filter.Include = other.Filter.Include
	}
	if len(other.Filter.Exclude) > 0 {
		c.Filter.Exclude = other.Filter.Exclude
	}
}

// SetRepository sets owner and repo from an "owner/repo" string
func (c *Config) SetRepository(ownerRepo string) error {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return errors.NewConfigError("repository must be OWNER/REPO", ownerRepo, nil)
	}
	c.Remote.Owner = owner
	c.Remote.Repo = repo
	return nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Remote.APIBase = DefaultAPIBase
	cfg.Remote.Owner = DefaultOwner
	cfg.Remote.Repo = DefaultRepo
	cfg.Remote.UserAgent = DefaultUserAgent
	cfg.Remote.Timeout = DefaultTimeout

	cfg.Reveal.ChunkSize = DefaultChunkSize
	cfg.Reveal.PollInterval = DefaultPollInterval

	cfg.Filter.Include = []string{}
	cfg.Filter.Exclude = []string{}

	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Remote.APIBase == "" {
		return errors.NewConfigError("remote API base must not be empty", "remote.api_base", nil)
	}
	if c.Remote.Owner == "" {
		return errors.NewConfigError("remote owner must not be empty", "remote.owner", nil)
	}
	if c.Remote.Repo == "" {
		return errors.NewConfigError("remote repo must not be empty", "remote.repo", nil)
	}
	if c.Remote.Timeout < 0 {
		return errors.NewConfigError("remote timeout must not be negative", "remote.timeout", nil)
	}
	if c.Reveal.ChunkSize < 1 {
		return errors.NewConfigError("chunk size must be at least 1", "reveal.chunk_size",
			fmt.Errorf("got %d", c.Reveal.ChunkSize))
	}
	if c.Reveal.PollInterval < MinPollInterval {
		return errors.NewConfigError("poll interval must be at least 1ms", "reveal.poll_interval",
			fmt.Errorf("got %s", c.Reveal.PollInterval))
	}

	for _, p := range c.Filter.Include {
		if _, err := glob.Compile(p, '/'); err != nil {
			return errors.NewConfigError("invalid include pattern", p, err)
		}
	}
	for _, p := range c.Filter.Exclude {
		if _, err := glob.Compile(p, '/'); err != nil {
			return errors.NewConfigError("invalid exclude pattern", p, err)
		}
	}

	return nil
}
