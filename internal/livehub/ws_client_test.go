package livehub_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gnacomplaints/backend/internal/livehub"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketClient_ReceivesSnapshots(t *testing.T) {
	hub, _ := startHub(t)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := livehub.NewWebSocketClient("ws-viewer", conn, hub)
		if hub.Register(client) {
			client.Run()
		}
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens asynchronously; keep publishing until it lands.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-time.After(20 * time.Millisecond):
				hub.Publish(context.Background(), snapshotOf("a"))
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg livehub.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, livehub.TypeSnapshot, msg.Type)
	require.Len(t, msg.Complaints, 1)
	assert.Equal(t, "a", msg.Complaints[0].ID)
}
