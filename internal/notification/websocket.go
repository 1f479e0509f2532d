package notification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"restaurant-console/internal/model"
	"restaurant-console/internal/session"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WebSocketSource reads order events from JSON text frames.
type WebSocketSource struct {
	conn   *websocket.Conn
	logger zerolog.Logger
}

// DialWebSocket connects to url, presenting the session credential.
func DialWebSocket(ctx context.Context, url string, sess session.Session, logger zerolog.Logger) (*WebSocketSource, error) {
	header := http.Header{}
	if sess.Token != "" {
		header.Set("Authorization", sess.AuthorizationHeader())
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial order events: handshake status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial order events: %w", err)
	}

	log := logger.With().Str("component", "websocket-source").Logger()
	log.Info().Str("url", url).Msg("connected to order events")

	return &WebSocketSource{conn: conn, logger: log}, nil
}

// Next implements EventSource. A normal close by the server ends the
// source with io.EOF.
func (s *WebSocketSource) Next(ctx context.Context) (model.OrderEvent, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		kind, payload, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return model.OrderEvent{}, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return model.OrderEvent{}, io.EOF
			}
			return model.OrderEvent{}, err
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		return decodeEvent(payload)
	}
}

// Close sends a close frame and closes the connection.
func (s *WebSocketSource) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	if err := s.conn.Close(); err != nil {
		return err
	}
	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		s.logger.Debug().Err(werr).Msg("close frame not sent")
	}
	return nil
}
