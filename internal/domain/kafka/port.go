package kafka

import "context"

type AccountEvents interface {
	PublishAccountEvent(ctx context.Context, userID int64, payload []byte) error
}
