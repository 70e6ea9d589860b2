package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	domain "p2p-lending-backend/internal/domain/events"
)

var _ domain.Publisher = (*NATSPublisher)(nil)

const drainTimeout = 10 * time.Second

// NATSPublisher sends domain events as JSON on core NATS subjects.
type NATSPublisher struct {
	conn   *nats.Conn
	log    *zap.Logger
	closed chan struct{}
}

// Connect dials url and keeps reconnecting in the background if the broker
// goes away; publishes made while disconnected are buffered by the client.
func Connect(url string, log *zap.Logger) (*NATSPublisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	closed := make(chan struct{})
	conn, err := nats.Connect(url,
		nats.Name("p2p-lending-backend"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DrainTimeout(drainTimeout),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn, log: log, closed: closed}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	if err := p.conn.Publish(subject, body); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.log.Debug("event published", zap.String("subject", subject), zap.Int("bytes", len(body)))
	return nil
}

// Close drains the connection and returns once buffered events have been
// flushed and the connection is closed, or after the drain timeout.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.log.Warn("nats drain failed", zap.Error(err))
		p.conn.Close()
	}
	select {
	case <-p.closed:
	case <-time.After(drainTimeout + time.Second):
		p.log.Warn("nats drain timed out, closing")
		p.conn.Close()
	}
}
