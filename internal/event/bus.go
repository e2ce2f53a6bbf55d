package event

import (
	"time"
)

type (
	bus struct {
		q chan Queueable
	}

	Queueable interface {
		Process()
		IsProcessed() bool
		Expired() bool
		Type() string
	}

	Base struct {
		processed bool
		expireAt  time.Time
		eventType string
	}
)

func CreateBase(eventType string, expiresAt time.Time) *Base {
	return &Base{
		expireAt:  expiresAt,
		eventType: eventType,
	}
}

func (b *Base) Process() {
	b.processed = true
}

func (b *Base) IsProcessed() bool {
	return b.processed
}

func (b *Base) Expired() bool {
	return time.Now().After(b.expireAt)
}

func (b *Base) Type() string {
	return b.eventType
}

var Bus = &bus{q: make(chan Queueable, 10000)}

func (b *bus) NQ(event Queueable) {
	select {
	case b.q <- event:
	default:
	}
}

func (b *bus) DQ() Queueable {
	select {
	case q := <-b.q:
		return q
	default:
		return nil
	}
}
