package converter

import (
	"time"

	"github.com/Fahim-Codespace/WeWatch-sub000/internal/domain"
)

type RoomResponse struct {
	ID           string               `json:"id"`
	Participants []domain.Participant `json:"participants"`
	VideoState   domain.VideoState    `json:"videoState"`
	Settings     domain.Settings      `json:"settings"`
	CreatedAt    time.Time            `json:"created_at"`
}

type RoomSummary struct {
	ID           string `json:"id"`
	Participants int    `json:"participants"`
	Persistent   bool   `json:"persistent"`
}

func RoomToApi(r *domain.Room) *RoomResponse {
	r.Mutex.RLock()
	defer r.Mutex.RUnlock()

	return &RoomResponse{
		ID:           r.ID,
		Participants: append([]domain.Participant(nil), r.Participants...),
		VideoState:   r.Video,
		Settings:     r.Settings,
		CreatedAt:    r.CreatedAt,
	}
}

func RoomsToSummaries(rooms []*domain.Room) []RoomSummary {
	summaries := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.Mutex.RLock()
		summaries = append(summaries, RoomSummary{
			ID:           r.ID,
			Participants: len(r.Participants),
			Persistent:   r.Settings.Persistent,
		})
		r.Mutex.RUnlock()
	}
	return summaries
}
