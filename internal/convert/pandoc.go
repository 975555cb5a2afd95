package convert

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/wikimigrate/internal/logfields"
)

// Pandoc converts by running the pandoc binary with the input on stdin.
type Pandoc struct {
	Command   string        // binary name or path, "pandoc" when empty
	From      string        // input format, e.g. "mediawiki"
	To        string        // output format, e.g. "gfm" or "html"
	ExtraArgs []string      // appended after --from/--to
	Timeout   time.Duration // per invocation; zero means only ctx applies
	Logger    *slog.Logger
}

// Convert runs one pandoc process. A non-zero exit, a timeout or a missing
// binary all yield an error matching ErrConversion.
func (p *Pandoc) Convert(ctx context.Context, input string) (string, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	command := p.Command
	if command == "" {
		command = "pandoc"
	}
	args := []string{"--from", p.From, "--to", p.To}
	args = append(args, p.ExtraArgs...)

	// #nosec G204 -- command and args come from the operator's configuration.
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Pandoc finished",
		slog.String("command", command),
		slog.String("to", p.To),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))

	if err != nil {
		failure := ErrConversion.
			WithCause(err).
			WithContext("command", command).
			WithContext("stderr", strings.TrimSpace(stderr.String()))
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			failure = failure.WithContext("timeout", p.Timeout.String())
		}
		return "", failure
	}
	return stdout.String(), nil
}
