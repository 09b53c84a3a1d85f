package anime

import "context"

type Repo interface {
	List(ctx context.Context, f Filter, p Page) ([]Anime, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// BulkInsert returns the number of rows written.
	BulkInsert(ctx context.Context, items []Anime) (int64, error)
}
