package catalog

import (
	"context"
	"fmt"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
)

// Result is one page of catalog items.
type Result struct {
	Animes []anime.Anime
	Total  int64
	Page   anime.Page
}

type Usecase struct {
	repo anime.Repo
}

func New(repo anime.Repo) *Usecase { return &Usecase{repo: repo} }

// Search returns the page p of items matching f. An empty filter lists the
// whole catalog.
func (u *Usecase) Search(ctx context.Context, f anime.Filter, p anime.Page) (Result, error) {
	items, err := u.repo.List(ctx, f, p)
	if err != nil {
		return Result{}, fmt.Errorf("list anime: %w", err)
	}
	total, err := u.repo.Count(ctx, f)
	if err != nil {
		return Result{}, fmt.Errorf("count anime: %w", err)
	}
	if items == nil {
		items = []anime.Anime{}
	}
	return Result{Animes: items, Total: total, Page: p}, nil
}
