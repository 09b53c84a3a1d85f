package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
	"github.com/NordCoder/Animetrack/internal/domain/library"
)

const (
	MinScore = 1
	MaxScore = 10
)

var (
	ErrAnimeNotFound   = errors.New("anime not found")
	ErrInvalidScore    = errors.New("score must be a number between 1 and 10")
	ErrAlreadyFavorite = errors.New("anime is already in favorites")
	ErrInvalidAnimeID  = errors.New("animeId is required")
)

type Usecase struct {
	animes  anime.Repo
	entries library.Repo
}

func New(animes anime.Repo, entries library.Repo) *Usecase {
	return &Usecase{animes: animes, entries: entries}
}

type Page struct {
	Items []library.Item
	Total int64
	Page  anime.Page
}

// load checks that the anime exists and returns the user's entry for it, or
// a fresh one when the user never touched it.
func (u *Usecase) load(ctx context.Context, userID, animeID int64) (*library.Entry, bool, error) {
	if animeID <= 0 {
		return nil, false, ErrInvalidAnimeID
	}
	ok, err := u.animes.Exists(ctx, animeID)
	if err != nil {
		return nil, false, fmt.Errorf("check anime: %w", err)
	}
	if !ok {
		return nil, false, ErrAnimeNotFound
	}
	e, err := u.entries.Get(ctx, userID, animeID)
	if err != nil {
		return nil, false, fmt.Errorf("load entry: %w", err)
	}
	if e == nil {
		return &library.Entry{UserID: userID, AnimeID: animeID}, false, nil
	}
	return e, true, nil
}

func (u *Usecase) save(ctx context.Context, e *library.Entry) error {
	if err := u.entries.Upsert(ctx, e); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

// Rate sets the user's score. Existence is checked before the score range.
func (u *Usecase) Rate(ctx context.Context, userID, animeID int64, score *float64) error {
	e, _, err := u.load(ctx, userID, animeID)
	if err != nil {
		return err
	}
	if score == nil || *score < MinScore || *score > MaxScore {
		return ErrInvalidScore
	}
	s := *score
	e.Score = &s
	return u.save(ctx, e)
}

// AddToWatchlist marks the anime as wanted and not yet watched.
func (u *Usecase) AddToWatchlist(ctx context.Context, userID, animeID int64) error {
	e, _, err := u.load(ctx, userID, animeID)
	if err != nil {
		return err
	}
	e.WantToWatch = true
	e.Watched = false
	return u.save(ctx, e)
}

// MarkWatched marks the anime as watched and drops it from the watchlist.
func (u *Usecase) MarkWatched(ctx context.Context, userID, animeID int64) error {
	e, _, err := u.load(ctx, userID, animeID)
	if err != nil {
		return err
	}
	e.Watched = true
	e.WantToWatch = false
	return u.save(ctx, e)
}

// AddFavorite reports whether a new entry had to be created.
func (u *Usecase) AddFavorite(ctx context.Context, userID, animeID int64) (bool, error) {
	e, existed, err := u.load(ctx, userID, animeID)
	if err != nil {
		return false, err
	}
	if e.Favorite {
		return false, ErrAlreadyFavorite
	}
	e.Favorite = true
	if err := u.save(ctx, e); err != nil {
		return false, err
	}
	return !existed, nil
}

func (u *Usecase) List(ctx context.Context, userID int64, l library.List, p anime.Page) (Page, error) {
	items, err := u.entries.List(ctx, userID, l, p)
	if err != nil {
		return Page{}, fmt.Errorf("list %s: %w", l, err)
	}
	total, err := u.entries.Count(ctx, userID, l)
	if err != nil {
		return Page{}, fmt.Errorf("count %s: %w", l, err)
	}
	if items == nil {
		items = []library.Item{}
	}
	return Page{Items: items, Total: total, Page: p}, nil
}
