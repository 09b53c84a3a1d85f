package library

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NordCoder/Animetrack/internal/domain/library"
	"github.com/NordCoder/Animetrack/internal/services/api/auth"
	"github.com/NordCoder/Animetrack/internal/services/api/httpx"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	uc  *Usecase
	log *zap.Logger
}

func NewHandler(uc *Usecase, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{uc: uc, log: log.With(zap.String("handler", "library"))}
}

// RegisterRoutes mounts the library endpoints. r must already run the
// bearer middleware.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/rateAnime", h.rate)
	r.POST("/watchlist/add", h.addWatchlist)
	r.GET("/watchlist", h.list(library.ListWatchlist))
	r.POST("/watched/add", h.addWatched)
	r.GET("/watched", h.list(library.ListWatched))
	r.POST("/favorites/add", h.addFavorite)
	r.GET("/favorites", h.list(library.ListFavorites))
}

type animeRequest struct {
	AnimeID int64           `json:"animeId"`
	Score   json.RawMessage `json:"score"`
}

// score decodes the raw score. Anything that is not a JSON number yields
// nil so the range check runs after the anime lookup.
func (r animeRequest) score() *float64 {
	var v float64
	if len(r.Score) == 0 || json.Unmarshal(r.Score, &v) != nil {
		return nil
	}
	return &v
}

type listResponse struct {
	Animes      []library.Item `json:"animes"`
	TotalPages  int64          `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// request binds the body and resolves the caller. It writes the error
// response itself and reports false when the handler must stop.
func (h *Handler) request(c *gin.Context) (int64, animeRequest, bool) {
	userID, ok := auth.UserIDFromCtx(c.Request.Context())
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "authentication required")
		return 0, animeRequest{}, false
	}
	var req animeRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "malformed request body")
		return 0, animeRequest{}, false
	}
	return userID, req, true
}

func (h *Handler) rate(c *gin.Context) {
	userID, req, ok := h.request(c)
	if !ok {
		return
	}
	if err := h.uc.Rate(c.Request.Context(), userID, req.AnimeID, req.score()); err != nil {
		h.writeErr(c, "rate anime", err)
		return
	}
	httpx.Message(c, http.StatusOK, "anime rated")
}

func (h *Handler) addWatchlist(c *gin.Context) {
	h.mark(c, "add to watchlist", h.uc.AddToWatchlist, "anime added to watchlist")
}

func (h *Handler) addWatched(c *gin.Context) {
	h.mark(c, "mark watched", h.uc.MarkWatched, "anime marked as watched")
}

func (h *Handler) mark(c *gin.Context, op string, fn func(context.Context, int64, int64) error, msg string) {
	userID, req, ok := h.request(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), userID, req.AnimeID); err != nil {
		h.writeErr(c, op, err)
		return
	}
	httpx.Message(c, http.StatusCreated, msg)
}

func (h *Handler) addFavorite(c *gin.Context) {
	userID, req, ok := h.request(c)
	if !ok {
		return
	}
	created, err := h.uc.AddFavorite(c.Request.Context(), userID, req.AnimeID)
	if err != nil {
		h.writeErr(c, "add favorite", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.Message(c, status, "anime added to favorites")
}

func (h *Handler) list(l library.List) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserIDFromCtx(c.Request.Context())
		if !ok {
			httpx.Fail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		res, err := h.uc.List(c.Request.Context(), userID, l, httpx.PageFromQuery(c))
		if err != nil {
			httpx.Internal(c, h.log, "list "+string(l), err)
			return
		}
		c.JSON(http.StatusOK, listResponse{
			Animes:      res.Items,
			TotalPages:  httpx.TotalPages(res.Total, res.Page.Limit),
			CurrentPage: res.Page.Number,
		})
	}
}

func (h *Handler) writeErr(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidAnimeID),
		errors.Is(err, ErrInvalidScore),
		errors.Is(err, ErrAlreadyFavorite):
		httpx.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAnimeNotFound):
		httpx.Fail(c, http.StatusNotFound, err.Error())
	default:
		httpx.Internal(c, h.log, op, err)
	}
}
