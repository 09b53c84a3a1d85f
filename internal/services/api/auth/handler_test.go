package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	coreauth "github.com/NordCoder/Animetrack/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(f *fixture) *gin.Engine {
	r := gin.New()
	NewHandler(f.uc, nil).RegisterRoutes(r)
	r.GET("/me", RequireAuth(f.uc, nil), func(c *gin.Context) {
		id, ok := UserIDFromCtx(c.Request.Context())
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})
	return r
}

func do(r http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, json.NewEncoder(&b).Encode(v))
	return b.String()
}

func loginTokens(t *testing.T, r http.Handler, user, pw string) loginResponse {
	t.Helper()
	w := do(r, http.MethodPost, "/login", jsonBody(t, map[string]string{"username": user, "password": pw}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHTTP_SignupLoginScenario(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)

	w := do(r, http.MethodPost, "/signup", `{"username":"alice","password":"pw1","email":"a@x.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	tok := loginTokens(t, r, "alice", "pw1")
	require.NotEmpty(t, tok.Token)
	require.NotEmpty(t, tok.RefreshToken)

	now := f.clock.now()
	v := coreauth.Verify(tok.Token, []byte("access-secret"), func() time.Time { return now.Add(14 * time.Minute) })
	assert.True(t, v.Valid())
	v = coreauth.Verify(tok.Token, []byte("access-secret"), func() time.Time { return now.Add(16 * time.Minute) })
	assert.Equal(t, coreauth.StatusExpired, v.Status)

	v = coreauth.Verify(tok.RefreshToken, []byte("refresh-secret"), func() time.Time { return now.Add(6 * 24 * time.Hour) })
	assert.True(t, v.Valid())
	v = coreauth.Verify(tok.RefreshToken, []byte("refresh-secret"), func() time.Time { return now.Add(8 * 24 * time.Hour) })
	assert.Equal(t, coreauth.StatusExpired, v.Status)

	assert.Equal(t, 1, f.tokens.count())

	w = do(r, http.MethodGet, "/me", "", "Authorization", "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":1}`, w.Body.String())
}

func TestHTTP_SignupErrors(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/signup", `{"username":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/signup", `{"username":"a"}`).Code)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/signup", `{"username":"a","password":"b","email":"c"}`).Code)
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/signup", `{"username":"a","password":"b","email":"d"}`).Code)
}

func TestHTTP_LoginFailures(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/signup", `{"username":"alice","password":"pw1","email":"a@x.com"}`).Code)

	unknown := do(r, http.MethodPost, "/login", `{"username":"ghost","password":"pw1"}`)
	wrong := do(r, http.MethodPost, "/login", `{"username":"alice","password":"bad"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Zero(t, f.tokens.count())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/login", `nope`).Code)
}

func TestHTTP_TokenEndpoint(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/signup", `{"username":"alice","password":"pw1","email":"a@x.com"}`).Code)
	tok := loginTokens(t, r, "alice", "pw1")

	w := do(r, http.MethodPost, "/token", jsonBody(t, map[string]string{"refreshToken": tok.RefreshToken}))
	require.Equal(t, http.StatusOK, w.Code)
	var out tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/me", "", "Authorization", "Bearer "+out.Token).Code)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/token", `{}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/token", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/token", `{"refreshToken":"never-issued"}`).Code)
}

func TestHTTP_LogoutThenTokenIsForbidden(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/signup", `{"username":"alice","password":"pw1","email":"a@x.com"}`).Code)
	tok := loginTokens(t, r, "alice", "pw1")
	body := jsonBody(t, map[string]string{"refreshToken": tok.RefreshToken})

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/logout", body).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/token", body).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/logout", body).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/logout", `{}`).Code)

	// access tokens are not revoked by logout
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/me", "", "Authorization", "Bearer "+tok.Token).Code)
}

func TestHTTP_Middleware(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "", "Authorization", "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "", "Authorization", "Bearer").Code)

	refresh, err := f.uc.issuer.IssueRefresh("1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "", "Authorization", "Bearer "+refresh).Code,
		"refresh tokens must not pass as access tokens")

	access, err := f.uc.issuer.IssueAccess("1")
	require.NoError(t, err)
	f.clock.t = f.clock.t.Add(15*time.Minute + time.Second)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "", "Authorization", "Bearer "+access).Code)
}

func TestHTTP_MiddlewareSharedSecret(t *testing.T) {
	f := newFixture(t)
	f.uc.issuer = coreauth.NewIssuer(coreauth.Config{AccessSecret: []byte("same"), RefreshSecret: []byte("same")})
	r := newRouter(f)

	refresh, err := f.uc.issuer.IssueRefresh("1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "", "Authorization", "Bearer "+refresh).Code)

	access, err := f.uc.issuer.IssueAccess("1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/me", "", "Authorization", "Bearer "+access).Code)
}

func TestHTTP_MiddlewareMissingSecret(t *testing.T) {
	f := newFixture(t)
	f.uc.issuer = coreauth.NewIssuer(coreauth.Config{RefreshSecret: []byte("r")})
	r := newRouter(f)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/me", "", "Authorization", "Bearer x").Code)
}

func TestHTTP_InternalErrorIsGeneric(t *testing.T) {
	f := newFixture(t)
	f.users.err = assert.AnError
	r := newRouter(f)

	w := do(r, http.MethodPost, "/login", `{"username":"a","password":"b"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
