package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/sitecomposer/internal/config"
)

// RecomposeEvent is published whenever a recomposition produces output with
// a new content hash. Downstream consumers (cache invalidators, deploy
// hooks) subscribe to the configured subject.
type RecomposeEvent struct {
	RunID     string    `json:"run_id"`
	Hash      string    `json:"hash"`
	Locales   int       `json:"locales"`
	Warnings  int       `json:"warnings"`
	Trigger   string    `json:"trigger"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher manages the NATS connection for recompose events.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS and, when a stream name is configured,
// ensures the stream covering the event subject exists.
func NewPublisher(cfg *config.NATSSection) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	p := &Publisher{conn: conn, js: js, subject: cfg.Subject}

	if cfg.Stream != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     cfg.Stream,
			Subjects: []string{cfg.Subject},
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure event stream: %w", err)
		}
	}

	slog.Info("Event publisher connected", "url", cfg.URL, "subject", cfg.Subject)
	return p, nil
}

// PublishRecomposed publishes one recompose event.
func (p *Publisher) PublishRecomposed(ctx context.Context, event RecomposeEvent) error {
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := p.js.Publish(pubCtx, p.subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	slog.Debug("Published recompose event", "run_id", event.RunID, "hash", event.Hash)
	return nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	p.conn.Close()
}
