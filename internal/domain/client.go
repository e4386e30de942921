package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const clientEventBuffer = 32

// Client is one websocket connection together with its session state.
// A client belongs to at most one room at a time; switching rooms leaves the
// previous one first.
type Client struct {
	ID          string
	ConnectedAt time.Time
	Socket      *websocket.Conn
	Events      chan Event

	Mutex    sync.RWMutex
	RoomID   string
	UserName string
}

func NewClient() *Client {
	return &Client{
		ID:          uuid.New().String(),
		ConnectedAt: time.Now().UTC(),
		Events:      make(chan Event, clientEventBuffer),
	}
}

// EnqueueEvent queues an outbound event without blocking. Events for a slow
// or dead client are dropped so one recipient can never stall a room
// broadcast.
func (c *Client) EnqueueEvent(event Event) {
	select {
	case c.Events <- event:
	default:
	}
}

// Session returns the client's current room id and display name.
func (c *Client) Session() (string, string) {
	c.Mutex.RLock()
	defer c.Mutex.RUnlock()
	return c.RoomID, c.UserName
}

func (c *Client) SetSession(roomID, userName string) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	c.RoomID = roomID
	c.UserName = userName
}
