package library

import "github.com/NordCoder/Animetrack/internal/domain/anime"

// Entry is a user's relation to one catalog item.
type Entry struct {
	UserID      int64
	AnimeID     int64
	Score       *float64
	Watched     bool
	WantToWatch bool
	Favorite    bool
}

// Item is an Entry joined with its anime for list views.
type Item struct {
	Anime       anime.Anime `json:"animeInfo"`
	Score       *float64    `json:"score"`
	Watched     bool        `json:"watched"`
	WantToWatch bool        `json:"wantToWatch"`
	Favorite    bool        `json:"favorite"`
}

type List string

const (
	ListWatchlist List = "watchlist"
	ListWatched   List = "watched"
	ListFavorites List = "favorites"
)
