// Package convert turns rewritten wikitext into the target document format.
// Converters are opaque text-in, text-out steps; failures are reported as
// ConversionFailure and abort only the page being converted.
package convert

import (
	"context"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
)

// ErrConversion is the sentinel all converters wrap their failures in.
var ErrConversion = ferrors.ConversionError("conversion failed").Build()

// Converter converts markup from one format to another.
type Converter interface {
	Convert(ctx context.Context, input string) (string, error)
}

// Func adapts a function to the Converter interface.
type Func func(ctx context.Context, input string) (string, error)

func (f Func) Convert(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}

// Chain runs converters in order, feeding each one's output to the next.
type Chain []Converter

func (c Chain) Convert(ctx context.Context, input string) (string, error) {
	out := input
	for _, step := range c {
		var err error
		if out, err = step.Convert(ctx, out); err != nil {
			return "", err
		}
	}
	return out, nil
}
