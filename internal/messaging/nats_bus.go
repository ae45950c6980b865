package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"focusos/internal/infrastructure/logging"
)

// DefaultSubject is the NATS subject timer commands are published on
const DefaultSubject = "focusos.commands"

// NATSBus carries commands over core NATS publish/subscribe
type NATSBus struct {
	conn    *nats.Conn
	subject string
	logger  logging.Logger
}

// NewNATSBus connects to url. An empty subject uses DefaultSubject.
func NewNATSBus(url, subject string, logger logging.Logger) (*NATSBus, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	conn, err := nats.Connect(url,
		nats.Name("focusos"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return NewNATSBusWithConn(conn, subject, logger), nil
}

// NewNATSBusWithConn wraps an existing connection
func NewNATSBusWithConn(conn *nats.Conn, subject string, logger logging.Logger) *NATSBus {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	logger.Info("NATS command bus ready", "subject", subject)
	return &NATSBus{conn: conn, subject: subject, logger: logger}
}

func (b *NATSBus) Publish(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := cmd.Encode()
	if err != nil {
		return err
	}
	if err := b.conn.Publish(b.subject, data); err != nil {
		return fmt.Errorf("failed to publish command: %w", err)
	}
	// Flush so a short-lived CLI process does not exit with the message buffered
	if err := b.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush command: %w", err)
	}

	b.logger.Debug("Published command", "type", string(cmd.Type), "subject", b.subject)
	return nil
}

func (b *NATSBus) Subscribe(h Handler) (func() error, error) {
	sub, err := b.conn.Subscribe(b.subject, func(msg *nats.Msg) {
		cmd, err := Decode(msg.Data)
		if err != nil {
			b.logger.Warn("Dropping invalid command", "subject", msg.Subject, "error", err)
			return
		}
		h(cmd)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}
	return sub.Unsubscribe, nil
}

func (b *NATSBus) Close() error {
	if b.conn == nil {
		return nil
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}
