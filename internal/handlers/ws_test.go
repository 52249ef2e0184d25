package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfagnish/exchange-api/internal/events"
)

func dialEvents(t *testing.T, hub *events.Hub, query string) *websocket.Conn {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/events", NewEventsHandler(hub, nil).Routes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	before := hub.Subscribers()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Subscribers() == before+1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(msg, &out))
	return out
}

func TestEventsStream(t *testing.T) {
	hub := events.NewHub(8)
	conn := dialEvents(t, hub, "")

	id := uuid.New()
	hub.Publish(events.Event{Type: events.Deleted, Resource: "conversions", ID: id})

	got := readEvent(t, conn)
	assert.Equal(t, "deleted", got["type"])
	assert.Equal(t, "conversions", got["resource"])
	assert.Equal(t, id.String(), got["id"])
	assert.NotContains(t, got, "data")
}

func TestEventsStreamResourceFilter(t *testing.T) {
	hub := events.NewHub(8)
	conn := dialEvents(t, hub, "?resource=persons")

	hub.Publish(events.Event{Type: events.Created, Resource: "addresses", ID: uuid.New()})
	want := uuid.New()
	hub.Publish(events.Event{Type: events.Created, Resource: "persons", ID: want})

	got := readEvent(t, conn)
	assert.Equal(t, "persons", got["resource"])
	assert.Equal(t, want.String(), got["id"])
}

func TestEventsStreamUnsubscribesOnClose(t *testing.T) {
	hub := events.NewHub(8)
	conn := dialEvents(t, hub, "")

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
