package config

import (
	"fmt"
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only configuration format version understood by Load.
const CurrentVersion = "1"

// Config is the migration configuration.
type Config struct {
	Version   string          `yaml:"version"`
	Source    SourceConfig    `yaml:"source"`
	Assets    AssetsConfig    `yaml:"assets"`
	Links     LinksConfig     `yaml:"links"`
	Target    TargetConfig    `yaml:"target"`
	Tags      TagsConfig      `yaml:"tags"`
	Converter ConverterConfig `yaml:"converter"`
	Output    OutputConfig    `yaml:"output"`
	Journal   JournalConfig   `yaml:"journal"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
	// Workers bounds the number of pages transformed in parallel.
	Workers int `yaml:"workers"`
}

// SourceConfig describes where the exported pages come from.
type SourceConfig struct {
	Format SourceFormat `yaml:"format"`
	Path   string       `yaml:"path"`
	// Query replaces the default page query of SQLite sources. It must select
	// id, title, content, categories, last_user_email and timestamp in that order.
	Query          string   `yaml:"query,omitempty"`
	SkipExtensions []string `yaml:"skip_extensions"`
}

// AssetsConfig locates the wiki's uploaded files.
type AssetsConfig struct {
	Root           string   `yaml:"root"`
	Cache          bool     `yaml:"cache"`
	FileNamespaces []string `yaml:"file_namespaces"`
}

type LinksConfig struct {
	// BaseURL is prepended to the slug of every rewritten internal link.
	BaseURL string `yaml:"base_url"`
}

type TargetConfig struct {
	BookID int64 `yaml:"book_id"`
}

// TagsConfig names the metadata tags attached to every page.
type TagsConfig struct {
	Editor          string `yaml:"editor"`
	Modified        string `yaml:"modified"`
	TimestampLayout string `yaml:"timestamp_layout"`
}

// ConverterConfig selects and configures the document converter.
type ConverterConfig struct {
	Type    ConverterType `yaml:"type"`
	Command string        `yaml:"command"`
	From    string        `yaml:"from"`
	To      string        `yaml:"to"`
	Args    []string      `yaml:"args,omitempty"`
	Timeout string        `yaml:"timeout"`
}

// TimeoutDuration returns the parsed converter timeout, zero when unset.
func (c ConverterConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// OutputConfig selects where transformed pages go. Both sinks may be active.
type OutputConfig struct {
	Directory string     `yaml:"directory"`
	NATS      NATSConfig `yaml:"nats"`
}

type NATSConfig struct {
	Enabled bool        `yaml:"enabled"`
	URL     string      `yaml:"url"`
	Subject string      `yaml:"subject"`
	Stream  string      `yaml:"stream"`
	Retry   RetryConfig `yaml:"retry"`
}

// RetryConfig controls retries of failed publishes.
type RetryConfig struct {
	Backoff    RetryBackoffMode `yaml:"backoff"`
	Initial    string           `yaml:"initial"`
	Max        string           `yaml:"max"`
	MaxRetries *int             `yaml:"max_retries,omitempty"`
}

// JournalConfig configures the SQLite warning journal; an empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig configures the Prometheus textfile written at the end of a run;
// an empty path disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads the configuration at configPath, expands environment variables,
// normalizes enumerations, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.ConfigError("read configuration file").WithCause(err).WithContext("path", configPath).Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.ConfigError("parse configuration file").WithCause(err).WithContext("path", configPath).Build()
	}

	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, ferrors.ConfigError("unsupported configuration version").
			WithContext("version", cfg.Version).
			WithContext("expected", CurrentVersion).
			Build()
	}

	for _, w := range Normalize(&cfg) {
		fmt.Fprintf(os.Stderr, "config normalization: %s\n", w)
	}
	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Version: CurrentVersion,
		Source: SourceConfig{
			Format: SourceFormatSQLite,
			Path:   "./wiki.db",
		},
		Assets: AssetsConfig{
			Root:  "/var/www/mediawiki/images",
			Cache: true,
		},
		Links: LinksConfig{
			BaseURL: "${BOOKSTACK_URL}/books/wiki/page/",
		},
		Target: TargetConfig{BookID: 1},
		Converter: ConverterConfig{
			Type:    ConverterPandoc,
			Command: "pandoc",
			From:    "mediawiki",
			To:      "markdown",
			Timeout: "1m",
		},
		Output: OutputConfig{
			Directory: "./out",
			NATS: NATSConfig{
				URL:     "nats://localhost:4222",
				Subject: "wikimigrate.pages",
			},
		},
		Journal: JournalConfig{Path: "./wikimigrate-journal.db"},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Workers: 4,
	}
	ApplyDefaults(&example)

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.InternalError("marshal example configuration").WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.FileSystemError("write configuration file").WithCause(err).WithContext("path", configPath).Build()
	}
	return nil
}
