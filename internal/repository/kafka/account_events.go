package kafka

import (
	"context"

	"github.com/NordCoder/Animetrack/internal/domain/kafka"
	kafkago "github.com/segmentio/kafka-go"
)

const contentTypeJSON = "application/json"

type AccountEventsKafka struct {
	p *Producer
}

func NewAccountEventsKafka(p *Producer) *AccountEventsKafka { return &AccountEventsKafka{p: p} }

var _ kafka.AccountEvents = (*AccountEventsKafka)(nil)

// PublishAccountEvent keys by user id so one user's events stay ordered.
func (e *AccountEventsKafka) PublishAccountEvent(ctx context.Context, userID int64, payload []byte) error {
	return e.p.Publish(ctx, KeyFromInt64(userID), payload,
		kafkago.Header{Key: "content-type", Value: []byte(contentTypeJSON)})
}
