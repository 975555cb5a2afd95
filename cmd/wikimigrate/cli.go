package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/wikimigrate/internal/config"
	"github.com/alecthomas/kong"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the command line definition. Global flags come first.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"wikimigrate.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text, json)" default:"text" enum:"text,json"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Migrate MigrateCmd `cmd:"" help:"Transform all source pages and hand them to the configured outputs"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Slug    SlugCmd    `cmd:"" help:"Print the slug of each argument"`
	Resolve ResolveCmd `cmd:"" help:"Show where each file name is found in the asset store"`
}

// AfterApply runs after flag parsing and installs the default logger.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(config.NormalizeLogFormat(c.LogFormat), level))
	return nil
}

// applyLogging reconfigures the default logger from the loaded configuration.
// --verbose still forces debug output.
func (c *CLI) applyLogging(cfg *config.Config) *slog.Logger {
	level := slogLevel(cfg.Logging.Level)
	if c.Verbose {
		level = slog.LevelDebug
	}
	format := cfg.Logging.Format
	if c.LogFormat == string(config.LogFormatJSON) {
		format = config.LogFormatJSON
	}
	logger := newLogger(format, level)
	slog.SetDefault(logger)
	return logger
}

func newLogger(format config.LogFormat, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func slogLevel(l config.LogLevel) slog.Level {
	switch l {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
