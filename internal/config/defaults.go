package config

import (
	"runtime"

	"git.home.luguber.info/inful/wikimigrate/internal/source"
	"git.home.luguber.info/inful/wikimigrate/internal/transform"
	"git.home.luguber.info/inful/wikimigrate/internal/wikitext"
)

// DefaultApplier fills unset fields of one configuration section.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

// ApplyDefaults runs every section's applier over cfg.
func ApplyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}

var defaultAppliers = []DefaultApplier{
	sourceDefaults{},
	assetDefaults{},
	tagDefaults{},
	converterDefaults{},
	outputDefaults{},
	runtimeDefaults{},
}

type sourceDefaults struct{}

func (sourceDefaults) Domain() string { return "source" }

func (sourceDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Source.Format == "" {
		cfg.Source.Format = SourceFormatSQLite
	}
	if cfg.Source.SkipExtensions == nil {
		cfg.Source.SkipExtensions = append([]string(nil), source.DefaultSkipExtensions...)
	}
}

type assetDefaults struct{}

func (assetDefaults) Domain() string { return "assets" }

func (assetDefaults) ApplyDefaults(cfg *Config) {
	if len(cfg.Assets.FileNamespaces) == 0 {
		cfg.Assets.FileNamespaces = append([]string(nil), wikitext.DefaultFileNamespaces...)
	}
}

type tagDefaults struct{}

func (tagDefaults) Domain() string { return "tags" }

func (tagDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Tags.Editor == "" {
		cfg.Tags.Editor = transform.DefaultEditorTag
	}
	if cfg.Tags.Modified == "" {
		cfg.Tags.Modified = transform.DefaultModifiedTag
	}
	if cfg.Tags.TimestampLayout == "" {
		cfg.Tags.TimestampLayout = transform.DefaultTimestampLayout
	}
}

type converterDefaults struct{}

func (converterDefaults) Domain() string { return "converter" }

func (converterDefaults) ApplyDefaults(cfg *Config) {
	c := &cfg.Converter
	if c.Type == "" {
		c.Type = ConverterPandoc
	}
	if c.Command == "" {
		c.Command = "pandoc"
	}
	if c.From == "" {
		c.From = "mediawiki"
	}
	if c.To == "" {
		c.To = "markdown"
		if c.Type == ConverterPandocHTML {
			c.To = "html"
		}
	}
	if c.Timeout == "" {
		c.Timeout = "1m"
	}
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" && !cfg.Output.NATS.Enabled {
		cfg.Output.Directory = "./out"
	}
	if cfg.Output.NATS.URL == "" {
		cfg.Output.NATS.URL = "nats://localhost:4222"
	}
	if cfg.Output.NATS.Subject == "" {
		cfg.Output.NATS.Subject = "wikimigrate.pages"
	}
	if cfg.Output.NATS.Stream == "" {
		cfg.Output.NATS.Stream = "WIKIMIGRATE"
	}
	r := &cfg.Output.NATS.Retry
	if r.Backoff == "" {
		r.Backoff = RetryBackoffLinear
	}
	if r.Initial == "" {
		r.Initial = "1s"
	}
	if r.Max == "" {
		r.Max = "30s"
	}
}

type runtimeDefaults struct{}

func (runtimeDefaults) Domain() string { return "runtime" }

func (runtimeDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
}
