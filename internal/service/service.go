package service

import (
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/domain"
)

type SessionInteractor interface {
	Connect(client *domain.Client)
	Disconnect(client *domain.Client)
	HandleEvent(client *domain.Client, event domain.Event)
	Room(id string) (*domain.Room, error)
	Rooms() []*domain.Room
}
