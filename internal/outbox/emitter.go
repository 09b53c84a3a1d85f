package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NordCoder/Animetrack/internal/domain/outbox"
	"github.com/google/uuid"
)

// Emitter records account events in the outbox. Called with a transaction
// context it writes inside that transaction.
type Emitter struct {
	repo outbox.Repository
	now  func() time.Time
}

func NewEmitter(repo outbox.Repository) *Emitter {
	return &Emitter{repo: repo, now: time.Now}
}

func (e *Emitter) Emit(ctx context.Context, kind outbox.Kind, userID int64, username string) error {
	data, err := json.Marshal(outbox.AccountEvent{
		Type:     kind.String(),
		UserID:   userID,
		Username: username,
		At:       e.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal account event: %w", err)
	}
	return e.repo.Enqueue(ctx, uuid.NewString(), kind, data)
}
