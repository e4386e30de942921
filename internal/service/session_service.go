package service

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Fahim-Codespace/WeWatch-sub000/internal/domain"
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/registry"
	"github.com/Fahim-Codespace/WeWatch-sub000/lib/logger/sl"
)

const maxChatMessageLength = 4000

// SessionService owns the connection table and implements the room session
// protocol: join/leave, settings, playback control, chat, voice and the
// peer signaling relay. Every failure path is a silent no-op: the relay
// never reports an error back to the sender, it only fails to deliver.
type SessionService struct {
	registry registry.RoomRegistry
	log      *slog.Logger

	mu      sync.RWMutex
	clients map[string]*domain.Client

	// AuthorizeSettingsUpdate gates update-room-settings. The default
	// accepts any participant, which matches the permissive reference
	// behaviour; a stricter deployment can require the host here without
	// changing the wire contract.
	AuthorizeSettingsUpdate func(room *domain.Room, client *domain.Client) bool
}

func NewSessionService(reg registry.RoomRegistry, log *slog.Logger) *SessionService {
	if log == nil {
		log = slog.Default()
	}
	return &SessionService{
		registry: reg,
		log:      log,
		clients:  make(map[string]*domain.Client),
		AuthorizeSettingsUpdate: func(*domain.Room, *domain.Client) bool {
			return true
		},
	}
}

// Connect registers a freshly upgraded connection.
func (s *SessionService) Connect(client *domain.Client) {
	s.mu.Lock()
	s.clients[client.ID] = client
	s.mu.Unlock()

	s.log.Info("client connected", slog.String("client_id", client.ID))
}

// Disconnect runs the leave procedure for the client's current room, if any,
// and discards the connection. Safe to call for a client that never joined
// a room.
func (s *SessionService) Disconnect(client *domain.Client) {
	s.leaveCurrentRoom(client)

	s.mu.Lock()
	_, ok := s.clients[client.ID]
	delete(s.clients, client.ID)
	s.mu.Unlock()

	// Every delivery path enqueues while holding the read lock, so after
	// removal nothing can write to the channel anymore.
	if ok {
		close(client.Events)
	}

	s.log.Info("client disconnected", slog.String("client_id", client.ID))
}

// sendTo enqueues an event for the live connection with the given id,
// reporting whether the target exists. Lookup and enqueue happen under one
// read lock so a concurrent Disconnect cannot close the queue in between.
func (s *SessionService) sendTo(id string, event domain.Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[id]
	if !ok {
		return false
	}
	client.EnqueueEvent(event)
	return true
}

// Room exposes registry lookups for the REST snapshot endpoints.
func (s *SessionService) Room(id string) (*domain.Room, error) {
	return s.registry.Get(id)
}

func (s *SessionService) Rooms() []*domain.Room {
	return s.registry.List()
}

// HandleEvent dispatches one inbound event for a client. Events of a single
// connection are handled sequentially by its read loop, so per-source FIFO
// ordering holds without extra queueing.
func (s *SessionService) HandleEvent(client *domain.Client, event domain.Event) {
	switch event.Name {
	case domain.EventJoinRoom:
		s.handleJoinRoom(client, event.Data)
	case domain.EventUpdateRoomSettings:
		s.handleUpdateSettings(client, event.Data)
	case domain.EventVideoPlay:
		s.handlePlayback(client, true)
	case domain.EventVideoPause:
		s.handlePlayback(client, false)
	case domain.EventVideoSeek:
		s.handleSeek(client, event.Data)
	case domain.EventVideoChange:
		s.handleVideoChange(client, event.Data)
	case domain.EventSendMessage:
		s.handleSendMessage(client, event.Data)
	case domain.EventSendVoice:
		s.handleSendVoice(client, event.Data)
	case domain.EventScreenShareStart:
		s.handleScreenShare(client, true)
	case domain.EventScreenShareStop:
		s.handleScreenShare(client, false)
	case domain.EventRequestScreenShare,
		domain.EventScreenShareOffer,
		domain.EventScreenShareAnswer,
		domain.EventScreenShareICECandidate,
		domain.EventRequestFileShare,
		domain.EventFileShareOffer,
		domain.EventFileShareAnswer,
		domain.EventFileShareICECandidate:
		s.relayDirect(client, event)
	case domain.EventFileShareStart:
		s.relayToRoom(client, event)
	default:
		s.log.Debug("unknown event",
			slog.String("client_id", client.ID),
			slog.String("event", event.Name),
		)
	}
}

func (s *SessionService) handleJoinRoom(client *domain.Client, data json.RawMessage) {
	const op = "service.session.join"
	log := s.log.With(slog.String("op", op), slog.String("client_id", client.ID))

	var payload domain.JoinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Debug("malformed join payload", sl.Err(err))
		return
	}
	if payload.RoomID == "" {
		log.Debug("join without room id")
		return
	}

	// Switching rooms leaves the previous one first.
	s.leaveCurrentRoom(client)

	room := s.registry.GetOrCreate(payload.RoomID)

	room.Mutex.Lock()
	participant := domain.Participant{
		ID:     client.ID,
		Name:   payload.UserName,
		IsHost: len(room.Participants) == 0,
	}
	room.Participants = append(room.Participants, participant)
	snapshot := domain.RoomStatePayload{
		Participants: append([]domain.Participant(nil), room.Participants...),
		VideoState:   room.Video,
		Settings:     room.Settings,
	}
	room.Mutex.Unlock()

	client.SetSession(payload.RoomID, payload.UserName)

	// The joiner gets a full snapshot so a late or reconnecting client
	// synchronizes completely; the rest of the room gets the increment.
	s.unicast(client, domain.EventRoomState, snapshot)
	s.broadcast(room, domain.EventUserJoined, domain.UserJoinedPayload{
		ID:     participant.ID,
		Name:   participant.Name,
		IsHost: participant.IsHost,
	}, client.ID)

	log.Info("participant joined",
		slog.String("room_id", room.ID),
		slog.String("name", participant.Name),
		slog.Bool("is_host", participant.IsHost),
	)
}

// leaveCurrentRoom removes the client from its current room, notifies the
// remaining members and deletes the room once it is empty, unless the room
// is persistent. No-op for a client that is not in any room.
func (s *SessionService) leaveCurrentRoom(client *domain.Client) {
	const op = "service.session.leave"

	roomID, _ := client.Session()
	if roomID == "" {
		return
	}
	client.SetSession("", "")

	room, err := s.registry.Get(roomID)
	if err != nil {
		return
	}

	room.Mutex.Lock()
	var left *domain.Participant
	for i, p := range room.Participants {
		if p.ID == client.ID {
			left = &p
			room.Participants = append(room.Participants[:i], room.Participants[i+1:]...)
			break
		}
	}
	empty := len(room.Participants) == 0
	persistent := room.Settings.Persistent
	room.Mutex.Unlock()

	if left == nil {
		return
	}

	s.broadcast(room, domain.EventUserLeft, domain.UserLeftPayload{
		ID:   left.ID,
		Name: left.Name,
	}, client.ID)

	if empty && !persistent {
		s.registry.Delete(roomID)
	}

	s.log.Info("participant left",
		slog.String("op", op),
		slog.String("room_id", roomID),
		slog.String("client_id", client.ID),
		slog.Bool("room_deleted", empty && !persistent),
	)
}

func (s *SessionService) handleUpdateSettings(client *domain.Client, data json.RawMessage) {
	const op = "service.session.settings"
	log := s.log.With(slog.String("op", op), slog.String("client_id", client.ID))

	room, ok := s.currentRoom(client)
	if !ok {
		return
	}

	var patch domain.SettingsPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		log.Debug("malformed settings payload", sl.Err(err))
		return
	}

	if !s.AuthorizeSettingsUpdate(room, client) {
		log.Debug("settings update rejected", slog.String("room_id", room.ID))
		return
	}

	room.Mutex.Lock()
	if patch.Persistent != nil {
		room.Settings.Persistent = *patch.Persistent
	}
	merged := room.Settings
	room.Mutex.Unlock()

	// Everyone including the actor gets the canonical merged settings, so
	// an optimistic local update is always reconciled.
	s.broadcast(room, domain.EventRoomSettingsUpdated, merged, "")

	log.Info("room settings updated",
		slog.String("room_id", room.ID),
		slog.Bool("persistent", merged.Persistent),
	)
}

func (s *SessionService) handlePlayback(client *domain.Client, playing bool) {
	room, ok := s.currentRoom(client)
	if !ok {
		return
	}

	room.Mutex.Lock()
	room.Video.Playing = playing
	room.Mutex.Unlock()

	// The actor already applied the change locally, so only the rest of the
	// room needs the event.
	name := domain.EventVideoPause
	if playing {
		name = domain.EventVideoPlay
	}
	s.broadcast(room, name, nil, client.ID)
}

func (s *SessionService) handleSeek(client *domain.Client, data json.RawMessage) {
	room, ok := s.currentRoom(client)
	if !ok {
		return
	}

	var payload domain.SeekPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.log.Debug("malformed seek payload", sl.Err(err))
		return
	}

	room.Mutex.Lock()
	room.Video.CurrentTime = payload.Time
	room.Mutex.Unlock()

	s.broadcast(room, domain.EventVideoSeek, payload, client.ID)
}

func (s *SessionService) handleVideoChange(client *domain.Client, data json.RawMessage) {
	room, ok := s.currentRoom(client)
	if !ok {
		return
	}

	var payload domain.VideoChangePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.log.Debug("malformed video change payload", sl.Err(err))
		return
	}
	if payload.SourceType == "" {
		payload.SourceType = domain.SourceTypeURL
	}

	// Changing the source always pauses and rewinds, regardless of prior
	// state.
	room.Mutex.Lock()
	room.Video = domain.VideoState{
		URL:        payload.URL,
		SourceType: payload.SourceType,
	}
	room.Mutex.Unlock()

	s.broadcast(room, domain.EventVideoChange, payload, client.ID)
}

func (s *SessionService) handleSendMessage(client *domain.Client, data json.RawMessage) {
	room, ok := s.currentRoom(client)
	if !ok {
		return
	}

	var msg domain.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Debug("malformed chat payload", sl.Err(err))
		return
	}

	msg.Text = strings.TrimSpace(msg.Text)
	if msg.Text == "" || utf8.RuneCountInString(msg.Text) > maxChatMessageLength {
		s.log.Debug("dropping chat message",
			slog.String("client_id", client.ID),
			slog.Int("length", utf8.RuneCountInString(msg.Text)),
		)
		return
	}

	_, userName := client.Session()
	msg.Sender = userName

	s.broadcast(room, domain.EventReceiveMessage, msg, client.ID)
}

func (s *SessionService) handleSendVoice(client *domain.Client, data json.RawMessage) {
	room, ok := s.currentRoom(client)
	if !ok {
		return
	}

	var msg domain.VoiceMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Debug("malformed voice payload", sl.Err(err))
		return
	}
	if msg.Data == "" {
		s.log.Debug("dropping voice message without audio", slog.String("client_id", client.ID))
		return
	}

	_, userName := client.Session()
	msg.Sender = userName

	s.broadcast(room, domain.EventReceiveVoice, msg, client.ID)
}

func (s *SessionService) handleScreenShare(client *domain.Client, started bool) {
	room, ok := s.currentRoom(client)
	if !ok {
		return
	}

	// Purely transient notification: the room does not track who is
	// sharing.
	_, userName := client.Session()
	if started {
		s.broadcast(room, domain.EventScreenShareStarted, domain.ScreenSharePayload{
			UserID:   client.ID,
			UserName: userName,
		}, client.ID)
		return
	}
	s.broadcast(room, domain.EventScreenShareStopped, domain.ScreenSharePayload{
		UserID: client.ID,
	}, client.ID)
}

// relayDirect forwards a signaling envelope to the single connection named
// by its "to" field, stamping the sender's id. Used identically for screen
// share and file transfer; the server never looks at sdp or candidate. A
// missing or already-disconnected target drops the envelope silently.
func (s *SessionService) relayDirect(client *domain.Client, event domain.Event) {
	var envelope domain.SignalEnvelope
	if err := json.Unmarshal(event.Data, &envelope); err != nil {
		s.log.Debug("malformed signal envelope", sl.Err(err))
		return
	}
	if envelope.To == "" {
		s.log.Debug("signal without destination",
			slog.String("client_id", client.ID),
			slog.String("event", event.Name),
		)
		return
	}

	envelope.From = client.ID
	forward, err := domain.NewEvent(event.Name, envelope)
	if err != nil {
		s.log.Error("failed to marshal event", slog.String("event", event.Name), sl.Err(err))
		return
	}

	if !s.sendTo(envelope.To, forward) {
		s.log.Debug("signal target not found",
			slog.String("event", event.Name),
			slog.String("to", envelope.To),
		)
	}
}

// relayToRoom rebroadcasts a signaling envelope to the rest of the client's
// room with the sender stamped (file-share-start announcements).
func (s *SessionService) relayToRoom(client *domain.Client, event domain.Event) {
	room, ok := s.currentRoom(client)
	if !ok {
		return
	}

	var envelope domain.SignalEnvelope
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &envelope); err != nil {
			s.log.Debug("malformed signal envelope", sl.Err(err))
			return
		}
	}
	envelope.From = client.ID

	s.broadcast(room, event.Name, envelope, client.ID)
}

func (s *SessionService) currentRoom(client *domain.Client) (*domain.Room, bool) {
	roomID, _ := client.Session()
	if roomID == "" {
		return nil, false
	}
	room, err := s.registry.Get(roomID)
	if err != nil {
		return nil, false
	}
	return room, true
}

// unicast replies to the acting client itself. Deliveries to any other
// connection must go through sendTo or broadcast, which hold the connection
// table lock across the enqueue; the acting client cannot be concurrently
// disconnected because its own read loop is the only caller of Disconnect.
func (s *SessionService) unicast(client *domain.Client, name string, payload any) {
	event, err := domain.NewEvent(name, payload)
	if err != nil {
		s.log.Error("failed to marshal event", slog.String("event", name), sl.Err(err))
		return
	}
	client.EnqueueEvent(event)
}

// broadcast fans an event out to every participant of the room except
// excludeID; pass an empty excludeID to include everyone. Deliveries are
// independent non-blocking enqueues, so one dead recipient never delays the
// others and partial failure is not surfaced to the sender.
func (s *SessionService) broadcast(room *domain.Room, name string, payload any, excludeID string) {
	event, err := domain.NewEvent(name, payload)
	if err != nil {
		s.log.Error("failed to marshal event", slog.String("event", name), sl.Err(err))
		return
	}

	room.Mutex.RLock()
	ids := make([]string, 0, len(room.Participants))
	for _, p := range room.Participants {
		if p.ID == excludeID {
			continue
		}
		ids = append(ids, p.ID)
	}
	room.Mutex.RUnlock()

	s.mu.RLock()
	for _, id := range ids {
		client, ok := s.clients[id]
		if !ok {
			continue
		}
		client.EnqueueEvent(event)
	}
	s.mu.RUnlock()
}
