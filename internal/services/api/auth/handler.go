package auth

import (
	"errors"
	"net/http"

	"github.com/NordCoder/Animetrack/internal/obs"
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
	return &Handler{uc: uc, log: log.With(zap.String("handler", "auth"))}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/signup", h.signup)
	r.POST("/login", h.login)
	r.POST("/token", h.token)
	r.POST("/logout", h.logout)
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	u, err := h.uc.Signup(c.Request.Context(), SignupInput(req))
	if err != nil {
		h.writeErr(c, "signup", err)
		return
	}
	obs.WithTrace(c.Request.Context(), h.log).Info("user registered", zap.Int64("user_id", u.ID))
	httpx.Message(c, http.StatusCreated, "user created")
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	t, err := h.uc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeErr(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: t.Access, RefreshToken: t.Refresh})
}

func (h *Handler) token(c *gin.Context) {
	var req refreshRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	access, err := h.uc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeErr(c, "refresh", err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: access})
}

func (h *Handler) logout(c *gin.Context) {
	var req refreshRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	err := h.uc.Logout(c.Request.Context(), req.RefreshToken)
	switch {
	case errors.Is(err, ErrMissingRefreshToken):
		httpx.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRefreshTokenNotFound):
		httpx.Fail(c, http.StatusNotFound, "refresh token not found or already invalidated")
	case err != nil:
		h.writeErr(c, "logout", err)
	default:
		httpx.Message(c, http.StatusOK, "session closed")
	}
}

func (h *Handler) writeErr(c *gin.Context, op string, err error) {
	status, msg := mapErr(err)
	if status == http.StatusInternalServerError {
		httpx.Internal(c, h.log, op, err)
		return
	}
	httpx.Fail(c, status, msg)
}

func mapErr(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrUserExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, ErrMissingRefreshToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, ErrRefreshTokenNotFound),
		errors.Is(err, ErrInvalidRefreshToken):
		return http.StatusForbidden, "invalid refresh token"
	case errors.Is(err, ErrExpiredRefreshToken):
		return http.StatusForbidden, "invalid or expired refresh token"
	case errors.Is(err, ErrMalformedClaims):
		return http.StatusForbidden, "invalid user information in refresh token"
	default:
		return http.StatusInternalServerError, ""
	}
}
