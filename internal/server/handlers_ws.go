package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/munchkineatter/DrawDrum/internal/domain"
	"github.com/munchkineatter/DrawDrum/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // displays are kiosk browsers on arbitrary hosts
	},
}

func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()
	if ok, reason := s.limits.Acquire(ip); !ok {
		metrics.WebSocketConnectionsRejected.WithLabelValues(string(reason)).Inc()
		metrics.WebSocketConnectionsTotal.WithLabelValues("rejected").Inc()
		return c.String(429, "Too many connections")
	}
	defer s.limits.Release(ip)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		metrics.WebSocketConnectionsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	// Snapshot-on-connect: the client renders current state before it
	// starts receiving broadcasts.
	snapshot, err := s.app.Snapshot(c.Request().Context())
	if err != nil {
		slog.Error("Failed to build init snapshot", "error", err)
		metrics.WebSocketConnectionsTotal.WithLabelValues("error").Inc()
		conn.Close()
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(snapshot); err != nil {
		metrics.WebSocketConnectionsTotal.WithLabelValues("error").Inc()
		conn.Close()
		return nil
	}

	if err := s.hub.Register(conn); err != nil {
		metrics.WebSocketConnectionsRejected.WithLabelValues("max_clients").Inc()
		metrics.WebSocketConnectionsTotal.WithLabelValues("rejected").Inc()
		return nil
	}
	metrics.WebSocketConnectionsTotal.WithLabelValues("success").Inc()

	// Read pump — blocks until the connection closes. Inbound messages are
	// admin commands taking the same path as the HTTP handlers.
	s.readPump(c.Request().Context(), conn)

	s.hub.Unregister(conn)
	return nil
}

func (s *Server) readPump(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.dispatchAdminMessage(ctx, data)
	}
}

// dispatchAdminMessage handles a message sent over the WebSocket by the
// admin panel. Unknown message types are ignored.
func (s *Server) dispatchAdminMessage(ctx context.Context, data []byte) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return
	}

	switch envelope.Type {
	case domain.EventPassportUpdate:
		var msg struct {
			Text       string             `json:"text"`
			Prize      string             `json:"prize"`
			Formatting *domain.Formatting `json:"formatting"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		req := passportRequest{Text: msg.Text, Prize: msg.Prize, Formatting: msg.Formatting}
		if err := validatePassport(req); err != nil {
			slog.Info("Rejected passport update over WebSocket", "error", err)
			return
		}
		if _, err := s.app.UpdatePassport(ctx, msg.Text, msg.Prize, msg.Formatting); err != nil {
			slog.Error("Failed to update passport over WebSocket", "error", err)
		}

	case domain.EventTimerAction:
		var msg struct {
			Action    string `json:"action"`
			Duration  int    `json:"duration"`
			TimerSize int    `json:"timerSize"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		if strings.TrimSpace(msg.Action) == "" || msg.Duration < 0 {
			slog.Info("Rejected timer action over WebSocket", "action", msg.Action, "duration", msg.Duration)
			return
		}
		s.app.TimerAction(msg.Action, msg.Duration, msg.TimerSize)
	}
}
