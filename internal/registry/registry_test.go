package registry

import (
	"testing"

	"github.com/Fahim-Codespace/WeWatch-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateDefaults(t *testing.T) {
	reg := NewInMemoryRegistry()

	room := reg.GetOrCreate("abc123")
	require.NotNil(t, room)
	assert.Equal(t, "abc123", room.ID)
	assert.Empty(t, room.Participants)
	assert.Equal(t, domain.VideoState{SourceType: domain.SourceTypeURL}, room.Video)
	assert.False(t, room.Settings.Persistent)

	again := reg.GetOrCreate("abc123")
	assert.Same(t, room, again)
}

func TestGetMissingRoom(t *testing.T) {
	reg := NewInMemoryRegistry()

	_, err := reg.Get("nope")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestDelete(t *testing.T) {
	reg := NewInMemoryRegistry()
	reg.GetOrCreate("abc123")

	reg.Delete("abc123")
	_, err := reg.Get("abc123")
	require.ErrorIs(t, err, ErrRoomNotFound)

	// deleting an absent room is a no-op
	reg.Delete("abc123")
}

func TestList(t *testing.T) {
	reg := NewInMemoryRegistry()
	reg.GetOrCreate("a")
	reg.GetOrCreate("b")

	rooms := reg.List()
	require.Len(t, rooms, 2)

	ids := []string{rooms[0].ID, rooms[1].ID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}
