package store

import (
	"context"
	"errors"
	"time"
)

// ErrSourceUnavailable оборачивает любой сбой обращения к каталогу событий,
// включая таймауты.
var ErrSourceUnavailable = errors.New("event source unavailable")

//go:generate mockgen -destination=mock/store.go -package=mock . Store

// Store — источник событий сообщества.
type Store interface {
	// NextEvent возвращает ближайшее событие сообщества или nil, если
	// ничего не запланировано.
	NextEvent(ctx context.Context, community string) (*Event, error)
}

// Event описывает одно событие, живёт в пределах одного запроса.
type Event struct {
	Name string
	// Start — местные дата и время начала.
	Start       time.Time
	VenueName   string
	Description string
}
