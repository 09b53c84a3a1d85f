package outbox

import (
	"context"
	"time"
)

type Status string

type Kind int

const (
	KindUserRegistered Kind = 1
	KindSessionOpened  Kind = 2
	KindSessionClosed  Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindUserRegistered:
		return "user.registered"
	case KindSessionOpened:
		return "session.opened"
	case KindSessionClosed:
		return "session.closed"
	default:
		return "unknown"
	}
}

type Message struct {
	IdempotencyKey string
	Kind           Kind
	Data           []byte
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Tracestate     string
	Traceparent    string
	Baggage        string
}

// AccountEvent is the JSON payload stored in the outbox and published as-is.
type AccountEvent struct {
	Type     string    `json:"type"`
	UserID   int64     `json:"userId"`
	Username string    `json:"username,omitempty"`
	At       time.Time `json:"at"`
}

type Repository interface {
	Enqueue(ctx context.Context, key string, kind Kind, data []byte) error

	PickBatch(ctx context.Context, batch int, inProgressTTL time.Duration) ([]Message, error)

	MarkSuccess(ctx context.Context, keys []string) error
}

type KindHandler func(ctx context.Context, data []byte) error

type GlobalHandler func(kind Kind) (KindHandler, error)
