package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"revealtimer/internal/core/countdown"
	"revealtimer/internal/core/model"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*countdown.Engine, *Hub, *httptest.Server) {
	t.Helper()
	engine := countdown.New(model.NewTimerConfig(2), countdown.Options{Clock: clockwork.NewFakeClock()})
	t.Cleanup(engine.Close)
	hub := NewHub(DefaultHubConfig(), engine)
	server := httptest.NewServer(NewServer(engine, hub).Handler())
	t.Cleanup(server.Close)
	return engine, hub, server
}

func decodeSnapshot(t *testing.T, response *http.Response) countdown.Snapshot {
	t.Helper()
	defer response.Body.Close()
	var snapshot countdown.Snapshot
	require.NoError(t, json.NewDecoder(response.Body).Decode(&snapshot))
	return snapshot
}

func TestHealth(t *testing.T) {
	_, _, server := newTestServer(t)

	response, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "OK\n", string(body))
}

func TestStateAndControl(t *testing.T) {
	_, _, server := newTestServer(t)

	response, err := http.Get(server.URL + "/api/state")
	require.NoError(t, err)
	snapshot := decodeSnapshot(t, response)
	assert.Equal(t, model.StatusIdle, snapshot.Status)
	assert.Equal(t, 120, snapshot.InitialSeconds)
	assert.Equal(t, "02:00", snapshot.Label)

	response, err = http.Post(server.URL+"/api/control/start", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, decodeSnapshot(t, response).Status)

	response, err = http.Post(server.URL+"/api/control/pause", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaused, decodeSnapshot(t, response).Status)

	response, err = http.Post(server.URL+"/api/control/sound", "application/json", nil)
	require.NoError(t, err)
	assert.False(t, decodeSnapshot(t, response).SoundEnabled)

	response, err = http.Post(server.URL+"/api/control/explode", "application/json", nil)
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusNotFound, response.StatusCode)

	response, err = http.Get(server.URL + "/api/control/start")
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, response.StatusCode)
}

func TestConfigure(t *testing.T) {
	_, _, server := newTestServer(t)

	response, err := http.Post(server.URL+"/api/configure", "application/json", strings.NewReader(`{"minutes":90}`))
	require.NoError(t, err)
	assert.Equal(t, 3600, decodeSnapshot(t, response).InitialSeconds)

	response, err = http.Post(server.URL+"/api/configure", "application/json", strings.NewReader(`{minutes`))
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)

	response, err = http.Post(server.URL+"/api/control/start", "application/json", nil)
	require.NoError(t, err)
	response.Body.Close()

	response, err = http.Post(server.URL+"/api/configure", "application/json", strings.NewReader(`{"minutes":5}`))
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusConflict, response.StatusCode)
}

func TestCORS(t *testing.T) {
	_, _, server := newTestServer(t)

	request, err := http.NewRequest(http.MethodGet, server.URL+"/api/state", nil)
	require.NoError(t, err)
	request.Header.Set("Origin", "http://example.test")
	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, "*", response.Header.Get("Access-Control-Allow-Origin"))
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) countdown.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event countdown.Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestWebsocketFeed(t *testing.T) {
	engine, hub, server := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, engine.Subscribe(16))

	conn := dial(t, server)
	greeting := readEvent(t, conn)
	assert.Equal(t, countdown.EventConfigured, greeting.Type)
	assert.Equal(t, model.StatusIdle, greeting.Snapshot.Status)
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	engine.Start()
	event := readEvent(t, conn)
	assert.Equal(t, countdown.EventStateChange, event.Type)
	assert.Equal(t, model.StatusRunning, event.Snapshot.Status)
}

func TestWebsocketActions(t *testing.T) {
	engine, _, server := newTestServer(t)
	conn := dial(t, server)
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(clientMessage{Action: "configure", Minutes: 5}))
	assert.Eventually(t, func() bool { return engine.Snapshot().InitialSeconds == 300 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(clientMessage{Action: "start"}))
	assert.Eventually(t, func() bool { return engine.Snapshot().Status == model.StatusRunning }, time.Second, 5*time.Millisecond)
}

func TestHubDropsClientsOnShutdown(t *testing.T) {
	engine, hub, server := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx, engine.Subscribe(4))
		close(done)
	}()

	conn := dial(t, server)
	readEvent(t, conn)
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Zero(t, hub.Count())
}
