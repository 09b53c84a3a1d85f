package library

import (
	"context"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
)

type Repo interface {
	// Get returns (nil, nil) when the user has no entry for the anime.
	Get(ctx context.Context, userID, animeID int64) (*Entry, error)
	Upsert(ctx context.Context, e *Entry) error
	List(ctx context.Context, userID int64, list List, p anime.Page) ([]Item, error)
	Count(ctx context.Context, userID int64, list List) (int64, error)
}
