package config

import (
	"git.home.luguber.info/inful/wikimigrate/internal/foundation/normalization"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}

// SourceFormat selects the page loader.
type SourceFormat string

const (
	SourceFormatSQLite SourceFormat = "sqlite"
	SourceFormatJSON   SourceFormat = "json"
)

var sourceFormatNormalizer = normalization.NewNormalizer(map[string]SourceFormat{
	"sqlite":  SourceFormatSQLite,
	"sqlite3": SourceFormatSQLite,
	"json":    SourceFormatJSON,
}, "")

func NormalizeSourceFormat(raw string) SourceFormat {
	return sourceFormatNormalizer.Normalize(raw)
}

// ConverterType selects the document converter.
type ConverterType string

const (
	// ConverterPandoc runs an external pandoc binary.
	ConverterPandoc ConverterType = "pandoc"
	// ConverterPandocHTML runs pandoc to HTML and converts the HTML to Markdown
	// in process.
	ConverterPandocHTML ConverterType = "pandoc_html"
	// ConverterNone passes the rewritten markup through unchanged.
	ConverterNone ConverterType = "none"
)

var converterTypeNormalizer = normalization.NewNormalizer(map[string]ConverterType{
	"pandoc":      ConverterPandoc,
	"pandoc_html": ConverterPandocHTML,
	"pandoc-html": ConverterPandocHTML,
	"none":        ConverterNone,
}, "")

func NormalizeConverterType(raw string) ConverterType {
	return converterTypeNormalizer.Normalize(raw)
}

// RetryBackoffMode selects how retry delays grow.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffNormalizer = normalization.NewNormalizer(map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
}, RetryBackoffLinear)

func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	return retryBackoffNormalizer.Normalize(raw)
}
