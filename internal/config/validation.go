package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
)

// Validate checks a defaulted configuration. All problems are reported at once
// in a single config error.
func (c *Config) Validate() error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(c.Source.Path) == "" {
		add("source.path is required")
	}
	if !sourceFormatNormalizer.ValidateEnum(c.Source.Format) {
		add("source.format %q is not one of %v", c.Source.Format, sourceFormatNormalizer.ValidKeys())
	}
	if strings.TrimSpace(c.Assets.Root) == "" {
		add("assets.root is required")
	}
	if c.Links.BaseURL == "" {
		add("links.base_url is required")
	} else if _, err := url.Parse(c.Links.BaseURL); err != nil {
		add("links.base_url %q is not a valid URL: %v", c.Links.BaseURL, err)
	}
	if c.Target.BookID <= 0 {
		add("target.book_id must be positive")
	}
	if !converterTypeNormalizer.ValidateEnum(c.Converter.Type) {
		add("converter.type %q is not one of %v", c.Converter.Type, converterTypeNormalizer.ValidKeys())
	}
	if c.Converter.Timeout != "" {
		if d, err := time.ParseDuration(c.Converter.Timeout); err != nil || d < 0 {
			add("converter.timeout %q is not a valid duration", c.Converter.Timeout)
		}
	}
	if c.Output.Directory == "" && !c.Output.NATS.Enabled {
		add("output needs a directory or an enabled nats sink")
	}
	if r := c.Output.NATS.Retry; c.Output.NATS.Enabled {
		if !retryBackoffNormalizer.ValidateEnum(r.Backoff) {
			add("output.nats.retry.backoff %q is not one of %v", r.Backoff, retryBackoffNormalizer.ValidKeys())
		}
		for _, f := range [...]struct{ name, value string }{{"initial", r.Initial}, {"max", r.Max}} {
			if d, err := time.ParseDuration(f.value); err != nil || d <= 0 {
				add("output.nats.retry.%s %q is not a positive duration", f.name, f.value)
			}
		}
		if r.MaxRetries != nil && *r.MaxRetries < 0 {
			add("output.nats.retry.max_retries cannot be negative")
		}
	}
	if !logLevelNormalizer.ValidateEnum(c.Logging.Level) {
		add("logging.level %q is not one of %v", c.Logging.Level, logLevelNormalizer.ValidKeys())
	}
	if !logFormatNormalizer.ValidateEnum(c.Logging.Format) {
		add("logging.format %q is not one of %v", c.Logging.Format, logFormatNormalizer.ValidKeys())
	}

	if len(problems) == 0 {
		return nil
	}
	return ferrors.ConfigError("configuration validation failed").
		WithCause(errors.Join(problems...)).
		WithContext("problems", len(problems)).
		Build()
}
