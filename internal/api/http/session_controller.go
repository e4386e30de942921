package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Fahim-Codespace/WeWatch-sub000/internal/api/http/converter"
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/domain"
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/registry"
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/service"
	"github.com/Fahim-Codespace/WeWatch-sub000/lib/logger/sl"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type SessionController struct {
	sessions service.SessionInteractor
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewSessionController(sessions service.SessionInteractor, allowedOrigins []string, log *slog.Logger) *SessionController {
	if log == nil {
		log = slog.Default()
	}
	return &SessionController{
		sessions: sessions,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

// checkOrigin admits requests without an Origin header (non-browser clients)
// and browser requests from the configured allow-list.
func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// Session upgrades the connection and runs its event loop. The read loop
// dispatches inbound events one at a time, so events from one connection are
// always handled in order.
func (c *SessionController) Session(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.log.Error("websocket upgrade failed", sl.Err(err))
		return
	}

	client := domain.NewClient()
	client.Socket = conn
	c.sessions.Connect(client)

	go forwardClientEvents(client)

	for {
		var event domain.Event
		if err := conn.ReadJSON(&event); err != nil {
			c.sessions.Disconnect(client)
			conn.Close()
			return
		}
		c.sessions.HandleEvent(client, event)
	}
}

// forwardClientEvents drains the client's event queue onto the socket until
// the queue is closed on disconnect or the socket dies.
func forwardClientEvents(client *domain.Client) {
	for event := range client.Events {
		if client.Socket == nil {
			return
		}
		if err := client.Socket.WriteJSON(event); err != nil {
			return
		}
	}
}

func (c *SessionController) GetRoom(ctx *gin.Context) {
	room, err := c.sessions.Room(ctx.Param("roomID"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, registry.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

func (c *SessionController) ListRooms(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"rooms": converter.RoomsToSummaries(c.sessions.Rooms())})
}
