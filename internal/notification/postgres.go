package notification

import (
	"context"
	"fmt"

	"restaurant-console/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgresSource reads order events delivered with NOTIFY on a channel.
// It holds one pool connection for its lifetime.
type PostgresSource struct {
	conn    *pgxpool.Conn
	channel string
	logger  zerolog.Logger
}

// ListenPostgres acquires a connection from pool and listens on channel.
func ListenPostgres(ctx context.Context, pool *pgxpool.Pool, channel string, logger zerolog.Logger) (*PostgresSource, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", channel, err)
	}

	log := logger.With().Str("component", "postgres-source").Str("channel", channel).Logger()
	log.Info().Msg("listening for order notifications")

	return &PostgresSource{conn: conn, channel: channel, logger: log}, nil
}

// Next implements EventSource.
func (s *PostgresSource) Next(ctx context.Context) (model.OrderEvent, error) {
	n, err := s.conn.Conn().WaitForNotification(ctx)
	if err != nil {
		return model.OrderEvent{}, err
	}
	return decodeEvent([]byte(n.Payload))
}

// Close stops listening and returns the connection to the pool.
func (s *PostgresSource) Close() error {
	if !s.conn.Conn().IsClosed() {
		if _, err := s.conn.Exec(context.Background(), "UNLISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
			s.logger.Debug().Err(err).Msg("unlisten failed")
		}
	}
	s.conn.Release()
	return nil
}

// Notify publishes payload on channel. Used by seeding tools and tests to
// emit order events.
func Notify(ctx context.Context, pool *pgxpool.Pool, channel string, payload []byte) error {
	if _, err := pool.Exec(ctx, "SELECT pg_notify($1, $2)", channel, string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", channel, err)
	}
	return nil
}
