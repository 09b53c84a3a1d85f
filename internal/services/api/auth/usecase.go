package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	coreauth "github.com/NordCoder/Animetrack/internal/auth"
	domainauth "github.com/NordCoder/Animetrack/internal/domain/auth"
	"github.com/NordCoder/Animetrack/internal/domain/outbox"
	"github.com/NordCoder/Animetrack/internal/domain/user"
	"github.com/NordCoder/Animetrack/internal/obs"
	"github.com/NordCoder/Animetrack/internal/repository/postgres"
	"go.uber.org/zap"
)

var (
	ErrValidation           = errors.New("username, password and email are required")
	ErrUserExists           = errors.New("username or email already registered")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrMissingRefreshToken  = errors.New("refresh token is required")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrExpiredRefreshToken  = errors.New("refresh token expired")
	ErrMalformedClaims      = errors.New("refresh token carries no user id")
)

// dummy credentials keep the unknown-user path as slow as a real check.
const (
	dummySalt = "00000000000000000000000000000000"
	dummyHash = "0000000000000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000"
)

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventEmitter interface {
	Emit(ctx context.Context, kind outbox.Kind, userID int64, username string) error
}

type SignupInput struct {
	Username string
	Password string
	Email    string
}

type Tokens struct {
	Access  string
	Refresh string
}

type Usecase struct {
	users  user.Repo
	tokens domainauth.RefreshTokenStore
	issuer *coreauth.Issuer
	tx     Transactor
	events EventEmitter
	log    *zap.Logger
}

type Deps struct {
	Users  user.Repo
	Tokens domainauth.RefreshTokenStore
	Issuer *coreauth.Issuer
	// Tx and Events are optional. Without Tx signup runs without a
	// transaction, without Events nothing is recorded.
	Tx     Transactor
	Events EventEmitter
	Logger *zap.Logger
}

func NewUsecase(d Deps) *Usecase {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		users:  d.Users,
		tokens: d.Tokens,
		issuer: d.Issuer,
		tx:     d.Tx,
		events: d.Events,
		log:    log.With(zap.String("component", "auth")),
	}
}

func (u *Usecase) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if u.tx == nil {
		return fn(ctx)
	}
	return u.tx.WithTx(ctx, fn)
}

func (u *Usecase) emit(ctx context.Context, kind outbox.Kind, userID int64, username string) error {
	if u.events == nil {
		return nil
	}
	return u.events.Emit(ctx, kind, userID, username)
}

// emitBestEffort records session events without failing the request.
func (u *Usecase) emitBestEffort(ctx context.Context, kind outbox.Kind, userID int64) {
	if err := u.emit(ctx, kind, userID, ""); err != nil {
		obs.WithTrace(ctx, u.log).Warn("record account event",
			zap.String("kind", kind.String()), zap.Int64("user_id", userID), zap.Error(err))
	}
}

// Signup stores a new user. No tokens are issued; the client logs in next.
func (u *Usecase) Signup(ctx context.Context, in SignupInput) (*user.User, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, ErrValidation
	}
	salt, hash, err := coreauth.HashPassword(in.Password, "")
	if err != nil {
		return nil, err
	}
	nu := &user.User{Username: in.Username, Email: in.Email, PasswordHash: hash, Salt: salt}

	err = u.withTx(ctx, func(ctx context.Context) error {
		if err := u.users.Create(ctx, nu); err != nil {
			return err
		}
		return u.emit(ctx, outbox.KindUserRegistered, nu.ID, nu.Username)
	})
	switch {
	case errors.Is(err, postgres.ErrConflict):
		return nil, ErrUserExists
	case err != nil:
		return nil, fmt.Errorf("create user: %w", err)
	}
	signups.Inc()
	return nu, nil
}

// Login checks credentials and opens a session. Unknown users and wrong
// passwords both yield ErrInvalidCredentials; only the log tells them apart.
func (u *Usecase) Login(ctx context.Context, username, password string) (Tokens, error) {
	log := obs.WithTrace(ctx, u.log)

	usr, err := u.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		coreauth.VerifyPassword(password, dummySalt, dummyHash)
		log.Info("login rejected", zap.String("reason", "unknown user"))
		logins.WithLabelValues(outcomeRejected).Inc()
		return Tokens{}, ErrInvalidCredentials
	case err != nil:
		return Tokens{}, fmt.Errorf("find user: %w", err)
	}

	if !coreauth.VerifyPassword(password, usr.Salt, usr.PasswordHash) {
		log.Info("login rejected", zap.String("reason", "wrong password"), zap.Int64("user_id", usr.ID))
		logins.WithLabelValues(outcomeRejected).Inc()
		return Tokens{}, ErrInvalidCredentials
	}

	sub := strconv.FormatInt(usr.ID, 10)
	access, err := u.issuer.IssueAccess(sub)
	if err != nil {
		return Tokens{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := u.issuer.IssueRefresh(sub)
	if err != nil {
		return Tokens{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := u.tokens.Save(ctx, usr.ID, refresh); err != nil {
		return Tokens{}, fmt.Errorf("save refresh token: %w", err)
	}

	u.emitBestEffort(ctx, outbox.KindSessionOpened, usr.ID)
	logins.WithLabelValues(outcomeOK).Inc()
	return Tokens{Access: access, Refresh: refresh}, nil
}

// Refresh mints a new access token. The store lookup comes before signature
// checks so a revoked but well-formed token is rejected without parsing.
func (u *Usecase) Refresh(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrMissingRefreshToken
	}

	rec, err := u.tokens.FindByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("find refresh token: %w", err)
	}
	if rec == nil {
		refreshes.WithLabelValues(outcomeRejected).Inc()
		return "", ErrRefreshTokenNotFound
	}

	v, err := u.issuer.VerifyRefresh(token)
	if err != nil {
		return "", err
	}
	switch {
	case v.Status == coreauth.StatusExpired:
		refreshes.WithLabelValues(outcomeRejected).Inc()
		return "", ErrExpiredRefreshToken
	case !v.Valid():
		refreshes.WithLabelValues(outcomeRejected).Inc()
		return "", ErrInvalidRefreshToken
	case v.UserID == "":
		refreshes.WithLabelValues(outcomeRejected).Inc()
		return "", ErrMalformedClaims
	}

	access, err := u.issuer.IssueAccess(v.UserID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	refreshes.WithLabelValues(outcomeOK).Inc()
	return access, nil
}

// Logout forgets the refresh token. Outstanding access tokens stay valid
// until they expire.
func (u *Usecase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingRefreshToken
	}
	rec, err := u.tokens.DeleteByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	if rec == nil {
		return ErrRefreshTokenNotFound
	}
	u.emitBestEffort(ctx, outbox.KindSessionClosed, rec.UserID)
	logouts.Inc()
	return nil
}

// Authenticate resolves a bearer access token to a user id.
func (u *Usecase) Authenticate(token string) (int64, error) {
	v, err := u.issuer.VerifyAccess(token)
	if err != nil {
		return 0, err
	}
	if !v.Valid() {
		return 0, ErrInvalidCredentials
	}
	id, err := strconv.ParseInt(v.UserID, 10, 64)
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	return id, nil
}
