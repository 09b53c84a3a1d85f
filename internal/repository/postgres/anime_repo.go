package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
	"github.com/jackc/pgx/v5"
)

var _ anime.Repo = (*AnimeRepo)(nil)

type AnimeRepo struct {
	db *DB
}

func NewAnimeRepo(db *DB) *AnimeRepo { return &AnimeRepo{db: db} }

const animeCols = `id, title, type, episodes, status, season, year, synonyms, tags`

var animeCopyCols = []string{"title", "type", "episodes", "status", "season", "year", "synonyms", "tags"}

const qAnimeExists = `SELECT EXISTS (SELECT 1 FROM anime WHERE id = $1);`

// whereClause renders f as a WHERE clause with positional args starting at $1.
func whereClause(f anime.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	// Title is a literal case-insensitive substring; LIKE wildcards in it
	// carry no meaning.
	if f.Title != "" {
		add("strpos(lower(title), lower($%d)) > 0", f.Title)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Season != "" {
		add("season = $%d", f.Season)
	}
	if f.Year != nil {
		add("year = $%d", *f.Year)
	}
	if len(f.Tags) > 0 {
		add("tags && $%d::text[]", f.Tags)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *AnimeRepo) List(ctx context.Context, f anime.Filter, p anime.Page) ([]anime.Anime, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	where, args := whereClause(f)
	args = append(args, p.Limit, p.Offset())
	q := fmt.Sprintf("SELECT %s FROM anime%s ORDER BY id LIMIT $%d OFFSET $%d;", animeCols, where, len(args)-1, len(args))

	rows, err := r.db.execQueryer(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("anime list: %w", err)
	}
	defer rows.Close()

	out := make([]anime.Anime, 0, p.Limit)
	for rows.Next() {
		var a anime.Anime
		if err := scanAnime(rows, &a); err != nil {
			return nil, fmt.Errorf("anime scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimeRepo) Count(ctx context.Context, f anime.Filter) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	where, args := whereClause(f)
	var n int64
	if err := r.db.execQueryer(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM anime"+where+";", args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("anime count: %w", err)
	}
	return n, nil
}

func (r *AnimeRepo) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var ok bool
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qAnimeExists, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("anime exists: %w", err)
	}
	return ok, nil
}

// BulkInsert streams items through COPY. No per-query timeout applies.
func (r *AnimeRepo) BulkInsert(ctx context.Context, items []anime.Anime) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	src := pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
		a := items[i]
		return []any{
			a.Title, string(a.Type), a.Episodes, string(a.Status),
			string(a.AnimeSeason.Season), a.AnimeSeason.Year,
			nonNil(a.Synonyms), nonNil(a.Tags),
		}, nil
	})
	n, err := r.db.execQueryer(ctx).CopyFrom(ctx, pgx.Identifier{"anime"}, animeCopyCols, src)
	if err != nil {
		return n, fmt.Errorf("anime copy: %w", err)
	}
	return n, nil
}

func scanAnime(row pgx.Row, a *anime.Anime) error {
	var typ, status, season string
	if err := row.Scan(&a.ID, &a.Title, &typ, &a.Episodes, &status, &season, &a.AnimeSeason.Year, &a.Synonyms, &a.Tags); err != nil {
		return err
	}
	a.Type = anime.Type(typ)
	a.Status = anime.Status(status)
	a.AnimeSeason.Season = anime.Season(season)
	a.Synonyms = nonNil(a.Synonyms)
	a.Tags = nonNil(a.Tags)
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
