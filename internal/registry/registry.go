package registry

import (
	"errors"
	"sync"

	"github.com/Fahim-Codespace/WeWatch-sub000/internal/domain"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRegistry is the authoritative mapping from room id to room state.
// A room exists here iff it has at least one participant or is persistent.
type RoomRegistry interface {
	Get(id string) (*domain.Room, error)
	GetOrCreate(id string) *domain.Room
	Delete(id string)
	List() []*domain.Room
}

// InMemoryRegistry holds all rooms of a single process. State is volatile:
// every room vanishes on restart and clients rejoin from scratch.
type InMemoryRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		rooms: make(map[string]*domain.Room),
	}
}

func (r *InMemoryRegistry) Get(id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// GetOrCreate returns the room under id, creating it with default video
// state and settings if absent. Room ids are client-chosen, so creation on
// demand is intentional and there is no "room not found" path on join.
func (r *InMemoryRegistry) GetOrCreate(id string) *domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		room = domain.NewRoom(id)
		r.rooms[id] = room
	}
	return room
}

func (r *InMemoryRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
}

func (r *InMemoryRegistry) List() []*domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		result = append(result, room)
	}
	return result
}
