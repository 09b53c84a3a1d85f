package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(now func() time.Time) *Issuer {
	return NewIssuer(Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		Now:           now,
	})
}

func TestIssuer_AccessRoundTrip(t *testing.T) {
	iss := newTestIssuer(nil)

	tok, err := iss.IssueAccess("42")
	require.NoError(t, err)

	v, err := iss.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, StatusValid, v.Status)
	assert.Equal(t, "42", v.UserID)
}

func TestIssuer_Windows(t *testing.T) {
	issuedAt := time.Now()
	iss := newTestIssuer(func() time.Time { return issuedAt })

	access, err := iss.IssueAccess("42")
	require.NoError(t, err)
	refresh, err := iss.IssueRefresh("42")
	require.NoError(t, err)

	cases := []struct {
		name   string
		token  string
		secret string
		at     time.Time
		want   Status
	}{
		{"access before expiry", access, "access-secret", issuedAt.Add(14 * time.Minute), StatusValid},
		{"access after expiry", access, "access-secret", issuedAt.Add(16 * time.Minute), StatusExpired},
		{"refresh before expiry", refresh, "refresh-secret", issuedAt.Add(6 * 24 * time.Hour), StatusValid},
		{"refresh after expiry", refresh, "refresh-secret", issuedAt.Add(7*24*time.Hour + time.Minute), StatusExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			at := tc.at
			v := Verify(tc.token, []byte(tc.secret), func() time.Time { return at })
			assert.Equal(t, tc.want, v.Status)
		})
	}
}

func TestIssuer_SecretsAreNotInterchangeable(t *testing.T) {
	iss := newTestIssuer(nil)

	access, err := iss.IssueAccess("7")
	require.NoError(t, err)
	refresh, err := iss.IssueRefresh("7")
	require.NoError(t, err)

	v, err := iss.VerifyRefresh(access)
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, v.Status)

	v, err = iss.VerifyAccess(refresh)
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, v.Status)
}

func TestIssuer_SharedSecretKeepsClassesApart(t *testing.T) {
	iss := NewIssuer(Config{AccessSecret: []byte("same"), RefreshSecret: []byte("same")})

	access, err := iss.IssueAccess("7")
	require.NoError(t, err)
	refresh, err := iss.IssueRefresh("7")
	require.NoError(t, err)

	v, err := iss.VerifyAccess(refresh)
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, v.Status)

	v, err = iss.VerifyRefresh(access)
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, v.Status)

	v, err = iss.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.True(t, v.Valid())
	assert.Equal(t, TypeRefresh, v.Type)
}

func TestIssuer_UntypedTokenJudgedBySignature(t *testing.T) {
	claims := Claims{
		UserID: "9",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	v, err := newTestIssuer(nil).VerifyAccess(tok)
	require.NoError(t, err)
	assert.True(t, v.Valid())
	assert.Equal(t, "9", v.UserID)
}

func TestIssuer_RefreshTokensAreUnique(t *testing.T) {
	now := time.Now()
	iss := newTestIssuer(func() time.Time { return now })

	a, err := iss.IssueRefresh("7")
	require.NoError(t, err)
	b, err := iss.IssueRefresh("7")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssuer_MissingSecret(t *testing.T) {
	iss := NewIssuer(Config{})

	_, err := iss.IssueAccess("1")
	assert.ErrorIs(t, err, ErrMissingSecret)
	_, err = iss.IssueRefresh("1")
	assert.ErrorIs(t, err, ErrMissingSecret)
	_, err = iss.VerifyAccess("whatever")
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.False(t, iss.AccessConfigured())
}

func TestVerify_Garbage(t *testing.T) {
	for _, tok := range []string{"", "garbage", "not.a.jwt", "a.b.c.d"} {
		v := Verify(tok, []byte("k"), nil)
		assert.Equal(t, StatusInvalid, v.Status, "token %q", tok)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: "1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	v := Verify(tok, []byte("k"), nil)
	assert.Equal(t, StatusInvalid, v.Status)
}

func TestVerify_MissingUserIDStillValid(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	v := Verify(tok, []byte("k"), nil)
	assert.Equal(t, StatusValid, v.Status)
	assert.Empty(t, v.UserID)
}
