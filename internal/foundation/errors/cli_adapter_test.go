package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config", err: ConfigError("links.base_url is required").Build(), expected: 7},
		{name: "source", err: SourceError("query failed").Build(), expected: 8},
		{name: "conversion", err: ConversionError("pandoc failed").Build(), expected: 11},
		{name: "wrapped classified", err: fmt.Errorf("run: %w", SinkError("publish failed").Build()), expected: 8},
		{name: "unclassified error", err: stderrors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		err      error
		contains string
	}{
		{name: "nil error", err: nil, contains: ""},
		{name: "internal hidden", err: InternalError("boom").Build(), contains: "use -v for details"},
		{name: "config message", err: ConfigError("assets.root is required").Build(), contains: "assets.root is required"},
		{name: "verbose full", verbose: true, err: ConfigError("bad").Build(), contains: "[config:fatal] bad"},
		{name: "unclassified", err: stderrors.New("plain"), contains: "Error: plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewCLIErrorAdapter(tt.verbose, slog.Default())
			got := adapter.FormatError(tt.err)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("FormatError() = %q, want substring %q", got, tt.contains)
			}
		})
	}
}
