package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventBare(t *testing.T) {
	event, err := NewEvent(EventVideoPlay, nil)
	require.NoError(t, err)

	raw, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"video-play"}`, string(raw))
}

func TestNewEventWithPayload(t *testing.T) {
	event, err := NewEvent(EventVideoSeek, SeekPayload{Time: 12.5})
	require.NoError(t, err)

	raw, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"video-seek","data":{"time":12.5}}`, string(raw))
}

func TestEnqueueEventDropsWhenFull(t *testing.T) {
	client := NewClient()

	for i := 0; i < cap(client.Events)+10; i++ {
		client.EnqueueEvent(Event{Name: EventVideoPlay})
	}

	assert.Len(t, client.Events, cap(client.Events))
}
