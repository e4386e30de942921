package domain

import (
	"sync"
	"time"
)

// SourceType tells the player how to interpret the video URL.
type SourceType string

const (
	SourceTypeURL   SourceType = "url"
	SourceTypeLocal SourceType = "local"
	SourceTypeEmbed SourceType = "embed"
)

// VideoState is the room's authoritative playback descriptor. Concurrent
// updates resolve last-writer-wins under the room mutex.
type VideoState struct {
	URL         string     `json:"url"`
	Playing     bool       `json:"playing"`
	CurrentTime float64    `json:"currentTime"`
	SourceType  SourceType `json:"sourceType"`
}

// Settings holds per-room options.
type Settings struct {
	// Persistent keeps the room in the registry after the last participant
	// leaves.
	Persistent bool `json:"persistent"`
}

// Participant is one user's membership record within a room, scoped to a
// single connection.
type Participant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

// Room groups the participants that share one playback and chat state.
// Participants keeps join order; the participant that joined the room while
// it was empty is the host, and host is never reassigned when they leave.
type Room struct {
	Mutex        sync.RWMutex
	ID           string
	Participants []Participant
	Video        VideoState
	Settings     Settings
	CreatedAt    time.Time
}

// NewRoom constructs an empty room with default playback state.
func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		Participants: make([]Participant, 0, 4),
		Video:        VideoState{SourceType: SourceTypeURL},
		CreatedAt:    time.Now().UTC(),
	}
}
