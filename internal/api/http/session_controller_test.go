package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Fahim-Codespace/WeWatch-sub000/internal/domain"
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/registry"
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := registry.NewInMemoryRegistry()
	svc := service.NewSessionService(reg, nil)
	controller := NewSessionController(svc, []string{"http://localhost:3000"}, nil)
	router := SetupRouter(controller, []string{"http://localhost:3000"})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws"
}

func TestSessionJoinOverWebsocket(t *testing.T) {
	server := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	require.NoError(t, err)
	defer conn.Close()

	payload, err := json.Marshal(domain.JoinRoomPayload{RoomID: "abc123", UserName: "Alice"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(domain.Event{Name: domain.EventJoinRoom, Data: payload}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event domain.Event
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, domain.EventRoomState, event.Name)

	var snapshot domain.RoomStatePayload
	require.NoError(t, json.Unmarshal(event.Data, &snapshot))
	require.Len(t, snapshot.Participants, 1)
	assert.Equal(t, "Alice", snapshot.Participants[0].Name)
	assert.True(t, snapshot.Participants[0].IsHost)

	// room is now visible over the REST snapshot
	resp, err := http.Get(server.URL + "/api/rooms/abc123")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetRoomNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/rooms/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListRoomsEmpty(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Rooms []json.RawMessage `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Rooms)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpgradeRejectsUnknownOrigin(t *testing.T) {
	server := newTestServer(t)

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server), header)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
}
