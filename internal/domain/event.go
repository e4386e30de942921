package domain

import "encoding/json"

// Inbound event names (client -> server).
const (
	EventJoinRoom           = "join-room"
	EventUpdateRoomSettings = "update-room-settings"
	EventVideoPlay          = "video-play"
	EventVideoPause         = "video-pause"
	EventVideoSeek          = "video-seek"
	EventVideoChange        = "video-change"
	EventSendMessage        = "send-message"
	EventSendVoice          = "send-voice"
	EventScreenShareStart   = "screen-share-start"
	EventScreenShareStop    = "screen-share-stop"

	EventRequestScreenShare      = "request-screen-share"
	EventScreenShareOffer        = "screen-share-offer"
	EventScreenShareAnswer       = "screen-share-answer"
	EventScreenShareICECandidate = "screen-share-ice-candidate"
	EventRequestFileShare        = "request-file-share"
	EventFileShareOffer          = "file-share-offer"
	EventFileShareAnswer         = "file-share-answer"
	EventFileShareICECandidate   = "file-share-ice-candidate"
	EventFileShareStart          = "file-share-start"
)

// Outbound event names (server -> client). The point-to-point signaling
// events above are mirrored back under their inbound names.
const (
	EventRoomState           = "room-state"
	EventUserJoined          = "user-joined"
	EventUserLeft            = "user-left"
	EventRoomSettingsUpdated = "room-settings-updated"
	EventReceiveMessage      = "receive-message"
	EventReceiveVoice        = "receive-voice"
	EventScreenShareStarted  = "screen-share-started"
	EventScreenShareStopped  = "screen-share-stopped"
)

// Event is one named frame on the websocket.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an event frame, marshalling the payload. A nil payload
// produces a bare event (video-play/video-pause carry no data).
func NewEvent(name string, payload any) (Event, error) {
	if payload == nil {
		return Event{Name: name}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Data: data}, nil
}

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	Persistent *bool `json:"persistent,omitempty"`
}

type SeekPayload struct {
	Time float64 `json:"time"`
}

type VideoChangePayload struct {
	URL        string     `json:"url"`
	SourceType SourceType `json:"sourceType"`
}

// ChatMessage is relayed once and never stored; id and timestamp are
// client-supplied, the sender is overwritten with the session's user name.
type ChatMessage struct {
	ID        string `json:"id"`
	Sender    string `json:"sender,omitempty"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// VoiceMessage carries the recording as transferable base64 content so
// receivers can play it back without access to the sender's local blobs.
type VoiceMessage struct {
	ID        string `json:"id"`
	Sender    string `json:"sender,omitempty"`
	Data      string `json:"data"`
	MimeType  string `json:"mimeType,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// RoomStatePayload is the full snapshot unicast to a joining client.
type RoomStatePayload struct {
	Participants []Participant `json:"participants"`
	VideoState   VideoState    `json:"videoState"`
	Settings     Settings      `json:"settings"`
}

type UserJoinedPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

type UserLeftPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ScreenSharePayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
}
