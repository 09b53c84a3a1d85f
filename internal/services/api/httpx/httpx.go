// Package httpx holds the response and query helpers shared by the REST
// handlers.
package httpx

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
	"github.com/NordCoder/Animetrack/internal/obs"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type ErrorBody struct {
	Error string `json:"error"`
}

type MessageBody struct {
	Message string `json:"message"`
}

// Fail aborts the chain with a JSON error body.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageBody{Message: msg})
}

// Internal logs err and answers with a generic 500 body.
func Internal(c *gin.Context, log *zap.Logger, op string, err error) {
	obs.WithTrace(c.Request.Context(), log).Error(op, zap.Error(err))
	Fail(c, http.StatusInternalServerError, "internal server error")
}

// BindJSON decodes the request body into dst. An empty body leaves dst at
// its zero value so handlers can report missing fields themselves.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// PageFromQuery reads page and limit. Missing, non-numeric or non-positive
// values fall back to defaults; limit is capped at MaxLimit.
func PageFromQuery(c *gin.Context) anime.Page {
	p := anime.Page{
		Number: positiveInt(c.Query("page"), DefaultPage),
		Limit:  positiveInt(c.Query("limit"), DefaultLimit),
	}
	p.Limit = min(p.Limit, MaxLimit)
	return p
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func TotalPages(count int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (count + l - 1) / l
}
