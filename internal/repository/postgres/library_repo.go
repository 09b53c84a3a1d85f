package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
	"github.com/NordCoder/Animetrack/internal/domain/library"
	"github.com/jackc/pgx/v5"
)

var _ library.Repo = (*LibraryRepo)(nil)

type LibraryRepo struct {
	db *DB
}

func NewLibraryRepo(db *DB) *LibraryRepo { return &LibraryRepo{db: db} }

const (
	qLibGet = `
SELECT user_id, anime_id, score, watched, want_to_watch, favorite
FROM user_anime
WHERE user_id = $1 AND anime_id = $2;`

	qLibUpsert = `
INSERT INTO user_anime (user_id, anime_id, score, watched, want_to_watch, favorite)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, anime_id) DO UPDATE
SET score         = EXCLUDED.score,
    watched       = EXCLUDED.watched,
    want_to_watch = EXCLUDED.want_to_watch,
    favorite      = EXCLUDED.favorite,
    updated_at    = NOW();`

	qLibList = `
SELECT a.id, a.title, a.type, a.episodes, a.status, a.season, a.year, a.synonyms, a.tags,
       ua.score, ua.watched, ua.want_to_watch, ua.favorite
FROM user_anime ua
JOIN anime a ON a.id = ua.anime_id
WHERE ua.user_id = $1 AND %s
ORDER BY ua.updated_at DESC, a.id
LIMIT $2 OFFSET $3;`

	qLibCount = `
SELECT COUNT(*)
FROM user_anime ua
WHERE ua.user_id = $1 AND %s;`
)

func listColumn(l library.List) (string, error) {
	switch l {
	case library.ListWatchlist:
		return "ua.want_to_watch", nil
	case library.ListWatched:
		return "ua.watched", nil
	case library.ListFavorites:
		return "ua.favorite", nil
	default:
		return "", fmt.Errorf("unknown list %q", l)
	}
}

func (r *LibraryRepo) Get(ctx context.Context, userID, animeID int64) (*library.Entry, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var e library.Entry
	err := r.db.execQueryer(ctx).QueryRow(ctx, qLibGet, userID, animeID).
		Scan(&e.UserID, &e.AnimeID, &e.Score, &e.Watched, &e.WantToWatch, &e.Favorite)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("library get: %w", err)
	}
	return &e, nil
}

func (r *LibraryRepo) Upsert(ctx context.Context, e *library.Entry) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	_, err := r.db.execQueryer(ctx).Exec(ctx, qLibUpsert, e.UserID, e.AnimeID, e.Score, e.Watched, e.WantToWatch, e.Favorite)
	if err != nil {
		return fmt.Errorf("library upsert: %w", mapPgErr(err))
	}
	return nil
}

func (r *LibraryRepo) List(ctx context.Context, userID int64, l library.List, p anime.Page) ([]library.Item, error) {
	col, err := listColumn(l)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.execQueryer(ctx).Query(ctx, fmt.Sprintf(qLibList, col), userID, p.Limit, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("library list: %w", err)
	}
	defer rows.Close()

	out := make([]library.Item, 0, p.Limit)
	for rows.Next() {
		var it library.Item
		var typ, status, season string
		a := &it.Anime
		if err := rows.Scan(&a.ID, &a.Title, &typ, &a.Episodes, &status, &season, &a.AnimeSeason.Year, &a.Synonyms, &a.Tags,
			&it.Score, &it.Watched, &it.WantToWatch, &it.Favorite); err != nil {
			return nil, fmt.Errorf("library scan: %w", err)
		}
		a.Type = anime.Type(typ)
		a.Status = anime.Status(status)
		a.AnimeSeason.Season = anime.Season(season)
		a.Synonyms = nonNil(a.Synonyms)
		a.Tags = nonNil(a.Tags)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *LibraryRepo) Count(ctx context.Context, userID int64, l library.List) (int64, error) {
	col, err := listColumn(l)
	if err != nil {
		return 0, err
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var n int64
	if err := r.db.execQueryer(ctx).QueryRow(ctx, fmt.Sprintf(qLibCount, col), userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("library count: %w", err)
	}
	return n, nil
}
