package http

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
)

type staticDashboard struct{}

func (staticDashboard) Render(_ context.Context, r domain.Range) (*pipeline.View, error) {
	return &pipeline.View{HasData: true, Range: r}, nil
}

func (staticDashboard) Filtered(context.Context, domain.Range) (*domain.Table, error) {
	return domain.EmptyTable(), nil
}

func (staticDashboard) CheckReadiness(context.Context) error { return nil }

func TestWebsocket_IdleConnectionStaysOpen(t *testing.T) {
	srv := NewServer(":0", staticDashboard{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv.pongWait = 200 * time.Millisecond
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// Answer pings like a browser does, without sending any data frames.
	var pings atomic.Int32
	conn.SetPingHandler(func(data string) error {
		pings.Add(1)
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	replies := make(chan viewMessage, 1)
	readErr := make(chan error, 1)
	go func() {
		for {
			var reply viewMessage
			if err := conn.ReadJSON(&reply); err != nil {
				readErr <- err
				return
			}
			replies <- reply
		}
	}()

	select {
	case err := <-readErr:
		t.Fatalf("connection dropped while idle: %v (pings: %d)", err, pings.Load())
	case <-time.After(5 * srv.pongWait):
	}
	assert.Positive(t, pings.Load())

	require.NoError(t, conn.WriteJSON(rangeMessage{Min: 5, Max: 6}))
	select {
	case reply := <-replies:
		require.NotNil(t, reply.View)
		assert.Equal(t, domain.Range{Min: 5, Max: 6}, reply.View.Range)
	case err := <-readErr:
		t.Fatalf("read after idle period: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply after idle period")
	}
}
