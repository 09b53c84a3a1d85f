package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	coreauth "github.com/NordCoder/Animetrack/internal/auth"
	"github.com/NordCoder/Animetrack/internal/obs"
	"github.com/NordCoder/Animetrack/internal/services/api/httpx"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type userIDKey struct{}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromCtx returns the identity attached by RequireAuth.
func UserIDFromCtx(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

type Authenticator interface {
	Authenticate(token string) (int64, error)
}

// RequireAuth admits requests carrying a valid access token in
// "Authorization: Bearer <token>" and puts the user id on the request
// context.
func RequireAuth(a Authenticator, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			bearerRejected.WithLabelValues("missing").Inc()
			httpx.Fail(c, http.StatusUnauthorized, "authorization header required")
			return
		}

		var token string
		if parts := strings.Split(header, " "); len(parts) > 1 {
			token = parts[1]
		}

		id, err := a.Authenticate(token)
		switch {
		case errors.Is(err, coreauth.ErrMissingSecret):
			obs.WithTrace(c.Request.Context(), log).Error("access secret is not configured")
			httpx.Fail(c, http.StatusInternalServerError, "server misconfigured")
			return
		case err != nil:
			bearerRejected.WithLabelValues("invalid").Inc()
			httpx.Fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), id))
		c.Next()
	}
}
