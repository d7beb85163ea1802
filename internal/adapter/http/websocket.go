package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsMaxMessageSize = 512

	// Slider drags can emit bursts of messages; renders are paced per connection.
	wsRenderInterval = 50 * time.Millisecond
	wsRenderBurst    = 5
)

// rangeMessage is what the page sends whenever the slider moves.
type rangeMessage struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// viewMessage answers a rangeMessage with a fresh view or an error.
type viewMessage struct {
	View  *pipeline.View `json:"view,omitempty"`
	Error string         `json:"error,omitempty"`
}

// handleWebsocket serves live re-renders: every rangeMessage triggers one
// render pass and one reply, in order. The read loop renders; a single write
// pump owns the connection's writes and keeps it alive with pings.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	ctx := r.Context()
	start := time.Now()
	s.logger.InfoContext(ctx, "websocket client connected", "remote_addr", r.RemoteAddr)

	conn.SetReadLimit(wsMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.pongWait)) //nolint:errcheck // reset on every message
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})

	replies := make(chan viewMessage, 1)
	done := make(chan struct{})
	go s.writePump(ctx, conn, replies, done)

	passes := s.readPump(ctx, conn, replies, done)
	close(replies)
	<-done

	s.logger.InfoContext(ctx, "websocket client disconnected",
		"renders", passes,
		"duration", time.Since(start),
	)
}

// readPump renders one view per incoming range message until the peer goes
// away or the write pump stops. It returns the number of renders queued.
func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, replies chan<- viewMessage, done <-chan struct{}) int {
	limiter := rate.NewLimiter(rate.Every(wsRenderInterval), wsRenderBurst)
	passes := 0
	for {
		var msg rangeMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WarnContext(ctx, "websocket read failed", "error", err)
			}
			return passes
		}
		conn.SetReadDeadline(time.Now().Add(s.pongWait)) //nolint:errcheck // see above
		if err := limiter.Wait(ctx); err != nil {
			return passes
		}

		select {
		case replies <- s.liveView(ctx, msg):
			passes++
		case <-done:
			return passes
		}
	}
}

// writePump is the only writer on conn. It sends replies in order and a ping
// every 9/10 of the pong wait so idle pages stay connected.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, replies <-chan viewMessage, done chan<- struct{}) {
	ticker := time.NewTicker(s.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		conn.Close()
		close(done)
	}()

	for {
		select {
		case reply, ok := <-replies:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait)) //nolint:errcheck // write fails on its own
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, //nolint:errcheck // peer may already be gone
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(reply); err != nil {
				s.logger.WarnContext(ctx, "websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait)) //nolint:errcheck // write fails on its own
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.DebugContext(ctx, "websocket ping failed", "error", err)
				return
			}
		}
	}
}

func (s *Server) liveView(ctx context.Context, msg rangeMessage) viewMessage {
	rng := domain.Range{Min: msg.Min, Max: msg.Max}.Snap()
	if err := rng.Validate(); err != nil {
		return viewMessage{Error: err.Error()}
	}

	view, err := s.dash.Render(ctx, rng)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidRange) {
			s.logger.ErrorContext(ctx, "render failed", "error", err)
		}
		return viewMessage{Error: err.Error()}
	}
	return viewMessage{View: view}
}
