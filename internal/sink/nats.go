package sink

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/logfields"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
	"git.home.luguber.info/inful/wikimigrate/internal/retry"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	DefaultSubject = "wikimigrate.pages"
	DefaultStream  = "WIKIMIGRATE"

	publishTimeout = 5 * time.Second
)

// Publisher is the part of jetstream.JetStream the NATS sink uses.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATS publishes page records to a JetStream subject. The record fingerprint is
// used as message id, so the server drops republished identical pages within its
// duplicate window.
type NATS struct {
	conn    *nats.Conn
	js      Publisher
	subject string
	retry   retry.Policy
	logger  *slog.Logger
}

// NATSConfig configures DialNATS.
type NATSConfig struct {
	URL     string
	Subject string
	Stream  string
	Retry   retry.Policy
}

// DialNATS connects to the server at cfg.URL and makes sure a stream captures
// cfg.Subject.
func DialNATS(ctx context.Context, cfg NATSConfig, logger *slog.Logger) (*NATS, error) {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.Stream == "" {
		cfg.Stream = DefaultStream
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("wikimigrate"))
	if err != nil {
		return nil, ferrors.SinkError("connect to NATS").WithCause(err).WithContext("url", cfg.URL).Build()
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, ferrors.SinkError("create JetStream context").WithCause(err).Build()
	}
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Subject},
	}); err != nil {
		conn.Close()
		return nil, ferrors.SinkError("create stream").WithCause(err).WithContext("stream", cfg.Stream).Build()
	}

	s := NewNATS(js, cfg.Subject, logger).WithRetry(cfg.Retry)
	s.conn = conn
	s.logger.Info("NATS sink ready", "url", cfg.URL, "subject", cfg.Subject, "stream", cfg.Stream)
	return s, nil
}

// NewNATS returns a sink publishing through js.
func NewNATS(js Publisher, subject string, logger *slog.Logger) *NATS {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATS{js: js, subject: subject, logger: logger}
}

// WithRetry makes Put retry failed publishes according to p.
func (n *NATS) WithRetry(p retry.Policy) *NATS {
	n.retry = p
	return n
}

func (n *NATS) Put(ctx context.Context, p *page.OutputPage) error {
	rec, err := NewRecord(p)
	if err != nil {
		return ferrors.SinkError("build page record").WithCause(err).WithContext("page_id", p.SourceID).Build()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return ferrors.SinkError("encode page record").WithCause(err).WithContext("page_id", p.SourceID).Build()
	}

	var ack *jetstream.PubAck
	err = n.retry.Do(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		var perr error
		ack, perr = n.js.Publish(ctx, n.subject, data, jetstream.WithMsgID(rec.Fingerprint))
		if perr != nil {
			n.logger.Debug("Publish failed", logfields.PageID(p.SourceID), logfields.Error(perr))
		}
		return perr
	})
	if err != nil {
		return ferrors.SinkError("publish page record").
			WithCause(err).
			WithContext("page_id", p.SourceID).
			WithContext("subject", n.subject).
			Build()
	}
	n.logger.Debug("Published page",
		logfields.PageID(p.SourceID),
		slog.Uint64("sequence", ack.Sequence),
		slog.Bool("duplicate", ack.Duplicate))
	return nil
}

// Close closes the NATS connection if the sink owns one.
func (n *NATS) Close() error {
	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
