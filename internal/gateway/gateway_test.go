package gateway_test

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminWFox/certified-js13k/internal/game"
	"github.com/BenjaminWFox/certified-js13k/internal/gateway"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T) (*httptest.Server, *game.Matchmaker) {
	t.Helper()
	rng := rand.New(rand.NewPCG(11, 17))
	matchmaker := game.NewMatchmaker(game.DefaultConfig(), clockwork.NewRealClock(), rng)
	gw := gateway.New(matchmaker, gateway.DefaultConfig())
	srv := httptest.NewServer(http.HandlerFunc(gw.HandleConnection))
	t.Cleanup(srv.Close)
	return srv, matchmaker
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q", want)
		var ev envelope
		require.NoError(t, json.Unmarshal(data, &ev))
		if ev.Type == want {
			return ev
		}
	}
}

func sendAction(t *testing.T, conn *websocket.Conn, action string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"action": action}))
}

// readyUntil reads frames until one of the wanted type arrives, answering
// every start with a ready action along the way. Useful when a client may
// be re-paired mid-test and has to ready up more than once.
func readyUntil(t *testing.T, conn *websocket.Conn, want string) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q", want)
		var ev envelope
		require.NoError(t, json.Unmarshal(data, &ev))
		if ev.Type == "start" {
			sendAction(t, conn, "ready")
		}
		if ev.Type == want {
			return
		}
	}
}

func TestGatewayPairing(t *testing.T) {
	srv, _ := newTestServer(t)

	c1 := dial(t, srv)
	c2 := dial(t, srv)

	var start1, start2 game.StartPayload
	ev1 := readUntil(t, c1, "start")
	require.NoError(t, json.Unmarshal(ev1.Payload, &start1))
	ev2 := readUntil(t, c2, "start")
	require.NoError(t, json.Unmarshal(ev2.Payload, &start2))

	assert.ElementsMatch(t, []int{1, 2}, []int{start1.ID, start2.ID})
	assert.NotEqual(t, start1.Role, start2.Role)
	assert.Contains(t, []string{"line", "ground"}, start1.Role)
}

func TestGatewayReadyFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	readUntil(t, c1, "start")
	readUntil(t, c2, "start")

	sendAction(t, c1, "ready")
	sendAction(t, c2, "ready")

	readUntil(t, c1, "gameon")
	readUntil(t, c2, "gameon")

	// The countdown is running: both sides see tick broadcasts.
	tick := readUntil(t, c1, "tick")
	var remaining string
	require.NoError(t, json.Unmarshal(tick.Payload, &remaining))
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}$`, remaining)
}

func TestGatewayDisconnectEndsSession(t *testing.T) {
	srv, _ := newTestServer(t)

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	readUntil(t, c1, "start")
	readUntil(t, c2, "start")

	c1.Close()

	ev := readUntil(t, c2, "end")
	var payload game.EndPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, string(game.ReasonDisconnect), payload.Reason)
}

// A client that drops the moment the upgrade completes must still be
// released from the queue. If it lingered, it would pair with the next
// arrival and leave that player stuck waiting on a partner that never
// readies.
func TestGatewayInstantDisconnectDoesNotBlockPairing(t *testing.T) {
	srv, m := newTestServer(t)

	ghost := dial(t, srv)
	ghost.Close()

	c1 := dial(t, srv)
	c2 := dial(t, srv)

	// c2 is always part of the surviving pair. c1 may first be matched
	// with the closing connection and re-paired once it drops, so it
	// answers every start it sees.
	readUntil(t, c2, "start")
	sendAction(t, c2, "ready")
	readyUntil(t, c1, "gameon")
	readUntil(t, c2, "gameon")

	assert.Eventually(t, func() bool {
		return m.Waiting() == 0 && m.ActiveSessions() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGatewayIgnoresMalformedFrames(t *testing.T) {
	srv, _ := newTestServer(t)

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	readUntil(t, c1, "start")
	readUntil(t, c2, "start")

	require.NoError(t, c1.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, c1.WriteJSON(map[string]string{"action": "dance"}))

	// The connection survives and valid actions still work.
	sendAction(t, c1, "ready")
	sendAction(t, c2, "ready")
	readUntil(t, c1, "gameon")
}
