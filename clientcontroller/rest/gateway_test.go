package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// fakeGateway serves the REST routes used by the client and pushes
// websocket notifications on demand.
type fakeGateway struct {
	t      *testing.T
	server *httptest.Server

	mu          sync.Mutex
	routes      map[string]func(w http.ResponseWriter, r *http.Request)
	announced   []string
	subscribed  []string
	conn        *websocket.Conn
	connReady   chan struct{}
	subscribeCh chan string
}

func newFakeGateway(t *testing.T) *fakeGateway {
	g := &fakeGateway{
		t:           t,
		routes:      make(map[string]func(w http.ResponseWriter, r *http.Request)),
		connReady:   make(chan struct{}),
		subscribeCh: make(chan string, 64),
	}
	g.server = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.server.Close)

	return g
}

func (g *fakeGateway) URL() string {
	return g.server.URL
}

func (g *fakeGateway) handle(method, path string, fn func(w http.ResponseWriter, r *http.Request)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routes[method+" "+path] = fn
}

func (g *fakeGateway) handleJSON(method, path string, status int, body any) {
	g.handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func (g *fakeGateway) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/ws" {
		g.serveWebsocket(w, r)

		return
	}

	g.mu.Lock()
	fn, ok := g.routes[r.Method+" "+r.URL.Path]
	g.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"ResourceNotFound","message":"no resource exists with id"}`))

		return
	}
	fn(w, r)
}

func (g *fakeGateway) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	require.NoError(g.t, err)

	g.mu.Lock()
	g.conn = conn
	g.mu.Unlock()

	require.NoError(g.t, conn.WriteJSON(map[string]string{"uid": "test-uid"}))
	close(g.connReady)

	for {
		var msg map[string]string
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg["uid"] != "test-uid" {
			continue
		}
		g.mu.Lock()
		g.subscribed = append(g.subscribed, msg["subscribe"])
		g.mu.Unlock()
		g.subscribeCh <- msg["subscribe"]
	}
}

func (g *fakeGateway) push(topic string, data any) {
	<-g.connReady
	g.mu.Lock()
	defer g.mu.Unlock()
	require.NoError(g.t, g.conn.WriteJSON(map[string]any{"topic": topic, "data": data}))
}

func (g *fakeGateway) pushConfirmed(address, hash string) {
	g.push("confirmedAdded/"+address, map[string]any{"meta": map[string]string{"hash": strings.ToLower(hash)}})
}

func (g *fakeGateway) pushPartial(address, hash string) {
	g.push("partialAdded/"+address, map[string]any{"meta": map[string]string{"hash": hash}})
}

func (g *fakeGateway) pushStatus(address, hash, code string) {
	g.push("status/"+address, map[string]string{"hash": hash, "code": code})
}

func (g *fakeGateway) dropConnection() {
	<-g.connReady
	g.mu.Lock()
	defer g.mu.Unlock()
	_ = g.conn.Close()
}
