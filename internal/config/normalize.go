package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/wikimigrate/internal/foundation/normalization"
)

// Normalize case-folds enumerated fields in place and returns a note for every
// value it changed. Unrecognized values are left as written for Validate to
// report.
func Normalize(c *Config) []string {
	var warnings []string
	c.Logging.Level = normalizeField(&warnings, "logging.level", c.Logging.Level, logLevelNormalizer)
	c.Logging.Format = normalizeField(&warnings, "logging.format", c.Logging.Format, logFormatNormalizer)
	c.Source.Format = normalizeField(&warnings, "source.format", c.Source.Format, sourceFormatNormalizer)
	c.Converter.Type = normalizeField(&warnings, "converter.type", c.Converter.Type, converterTypeNormalizer)
	c.Output.NATS.Retry.Backoff = normalizeField(&warnings, "output.nats.retry.backoff", c.Output.NATS.Retry.Backoff, retryBackoffNormalizer)
	c.Links.BaseURL = strings.TrimSpace(c.Links.BaseURL)
	if c.Workers < 0 {
		c.Workers = 0
	}
	return warnings
}

func normalizeField[T ~string](warnings *[]string, field string, value T, n *normalization.Normalizer[T]) T {
	if strings.TrimSpace(string(value)) == "" {
		return ""
	}
	canonical, err := n.NormalizeWithError(string(value))
	if err != nil {
		return value
	}
	if canonical != value {
		*warnings = append(*warnings, fmt.Sprintf("normalized %s from %q to %q", field, value, canonical))
	}
	return canonical
}
