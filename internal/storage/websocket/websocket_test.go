package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enemyradar/extension/pkg/core"
)

// testServer upgrades to WebSocket, records received envelopes and acks
// start_session and end_session.
func testServer(t *testing.T) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ml.setSecret(r.URL.Query().Get("secret"))
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer c.Close()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var env Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			ml.add(env)

			if env.Type == TypeStartSession || env.Type == TypeEndSession {
				data, _ := json.Marshal(AckMessage{Type: TypeAck, For: env.Type})
				if err := c.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}
		}
	}))

	return srv, ml
}

type messageLog struct {
	mu       sync.Mutex
	messages []Envelope
	secret   string
}

func (m *messageLog) add(env Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, env)
}

func (m *messageLog) setSecret(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = s
}

func (m *messageLog) all() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Envelope, len(m.messages))
	copy(cp, m.messages)
	return cp
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStartSessionAndClose(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "test"}, nil)
	require.NoError(t, b.Init())

	require.NoError(t, b.StartSession(&core.SessionInfo{ID: "s1", Version: "1.0.0"}))
	require.NoError(t, b.Close())

	msgs := ml.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, TypeStartSession, msgs[0].Type)
	assert.Equal(t, TypeEndSession, msgs[1].Type)

	var info core.SessionInfo
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &info))
	assert.Equal(t, "s1", info.ID)

	var end EndSessionPayload
	require.NoError(t, json.Unmarshal(msgs[1].Payload, &end))
	assert.Equal(t, "s1", end.SessionID)

	ml.mu.Lock()
	assert.Equal(t, "test", ml.secret)
	ml.mu.Unlock()
}

func TestFireAndForgetRecords(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv)}, nil)
	require.NoError(t, b.Init())

	require.NoError(t, b.StartSession(&core.SessionInfo{ID: "s1"}))
	require.NoError(t, b.RecordScan(&core.ScanEvent{SessionID: "s1", Enemies: 2}))
	require.NoError(t, b.RecordLootScan(&core.LootScanEvent{SessionID: "s1", Spots: []core.LootSpotEvent{{Tier: 5}}}))
	require.NoError(t, b.RecordHealthBinding(&core.HealthBindingEvent{SessionID: "s1", Bound: true}))
	// end_session goes through the same write loop, so it arrives last.
	require.NoError(t, b.Close())

	types := make(map[string]int)
	for _, m := range ml.all() {
		types[m.Type]++
	}
	assert.Equal(t, map[string]int{
		TypeStartSession:  1,
		TypeScan:          1,
		TypeLootScan:      1,
		TypeHealthBinding: 1,
		TypeEndSession:    1,
	}, types)
}

func TestCloseWithoutSession(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv)}, nil)
	require.NoError(t, b.Init())
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, ml.all())
}

func TestInitFails(t *testing.T) {
	b := New(Config{URL: "ws://127.0.0.1:1/journal"}, nil)
	assert.Error(t, b.Init())

	b = New(Config{URL: "://bad"}, nil)
	assert.Error(t, b.Init())
}

func TestEnvelopeSerialization(t *testing.T) {
	data, err := marshalEnvelope(TypeScan, &core.ScanEvent{SessionID: "s1", EnemyBearings: []float64{90}})
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, TypeScan, env.Type)
	assert.Contains(t, string(env.Payload), `"enemyBearings":[90]`)
}

func TestReconnectReplaysStartSession(t *testing.T) {
	var (
		mu     sync.Mutex
		conns  int
		starts int
	)
	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		mu.Lock()
		conns++
		first := conns == 1
		mu.Unlock()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			var env Envelope
			if json.Unmarshal(msg, &env) != nil {
				continue
			}
			if env.Type == TypeStartSession {
				mu.Lock()
				starts++
				mu.Unlock()
			}
			data, _ := json.Marshal(AckMessage{Type: TypeAck, For: env.Type})
			_ = c.WriteMessage(ws.TextMessage, data)
			if first && env.Type == TypeStartSession {
				// Drop the first socket right after the session starts.
				return
			}
		}
	}))
	defer srv.Close()

	b := New(Config{URL: wsURL(srv)}, nil)
	require.NoError(t, b.Init())
	require.NoError(t, b.StartSession(&core.SessionInfo{ID: "s1"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return conns == 2 && starts == 2
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, b.Close())
	assert.Zero(t, b.Dropped())
}

func TestNonAckMessagesIgnored(t *testing.T) {
	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			var env Envelope
			if json.Unmarshal(msg, &env) != nil {
				continue
			}
			_ = c.WriteMessage(ws.TextMessage, []byte("not json"))
			_ = c.WriteMessage(ws.TextMessage, []byte(`{"type":"hello","for":"start_session"}`))
			data, _ := json.Marshal(AckMessage{Type: TypeAck, For: env.Type})
			_ = c.WriteMessage(ws.TextMessage, data)
		}
	}))
	defer srv.Close()

	b := New(Config{URL: wsURL(srv)}, nil)
	require.NoError(t, b.Init())
	require.NoError(t, b.StartSession(&core.SessionInfo{ID: "s1"}))
	require.NoError(t, b.Close())
}
