package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
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
	return &Handler{uc: uc, log: log.With(zap.String("handler", "catalog"))}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/animes", h.list)
	r.GET("/animes/filter", h.filter)
}

type listResponse struct {
	Animes      []anime.Anime `json:"animes"`
	TotalPages  int64         `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

type filterResponse struct {
	listResponse
	TotalAnimes int64 `json:"totalAnimes"`
}

func toList(res Result) listResponse {
	return listResponse{
		Animes:      res.Animes,
		TotalPages:  httpx.TotalPages(res.Total, res.Page.Limit),
		CurrentPage: res.Page.Number,
	}
}

func (h *Handler) list(c *gin.Context) {
	res, err := h.uc.Search(c.Request.Context(), anime.Filter{}, httpx.PageFromQuery(c))
	if err != nil {
		httpx.Internal(c, h.log, "list anime", err)
		return
	}
	c.JSON(http.StatusOK, toList(res))
}

func (h *Handler) filter(c *gin.Context) {
	res, err := h.uc.Search(c.Request.Context(), filterFromQuery(c), httpx.PageFromQuery(c))
	if err != nil {
		httpx.Internal(c, h.log, "filter anime", err)
		return
	}
	c.JSON(http.StatusOK, filterResponse{listResponse: toList(res), TotalAnimes: res.Total})
}

// filterFromQuery reads the filter parameters. A non-numeric year is
// ignored. Tags may be repeated or comma separated.
func filterFromQuery(c *gin.Context) anime.Filter {
	f := anime.Filter{
		Title:  c.Query("title"),
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Season: c.Query("season"),
	}
	if y, err := strconv.Atoi(c.Query("year")); err == nil {
		f.Year = &y
	}
	for _, raw := range c.QueryArray("tags") {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}
	return f
}
