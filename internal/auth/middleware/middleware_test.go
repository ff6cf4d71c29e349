package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-batches/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("secret")
	tok, err := a.IssueJWT("ada", "teacher")
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "ada", c.Sub)
	require.Equal(t, "teacher", c.Role)

	_, err = NewAuthService("other").Parse(tok)
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	a := NewAuthService("secret")
	a.now = func() time.Time { return time.Now().Add(-2 * tokenTTL) }
	tok, err := a.IssueJWT("ada", "teacher")
	require.NoError(t, err)

	_, err = NewAuthService("secret").Parse(tok)
	require.Error(t, err)
}

func TestAccounts(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	acc := Accounts{AdminUser: "root", AdminPassHash: string(hash)}

	role, ok := acc.Authenticate("root", "pw")
	require.True(t, ok)
	require.Equal(t, "admin", role)

	_, ok = acc.Authenticate("root", "nope")
	require.False(t, ok)
	_, ok = acc.Authenticate("teacher", "teacher")
	require.False(t, ok, "dev users are off by default")

	acc.AllowDevUsers = true
	role, ok = acc.Authenticate("teacher", "teacher")
	require.True(t, ok)
	require.Equal(t, "teacher", role)
	_, ok = acc.Authenticate("student", "student")
	require.False(t, ok)
}

func TestLoginAndMiddleware(t *testing.T) {
	a := NewAuthService("secret")
	login := LoginHandler(a, Accounts{AllowDevUsers: true})

	rec := httptest.NewRecorder()
	login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"viewer","password":"viewer"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Equal(t, "viewer", out["role"])

	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/plans/x", nil)
	req.Header.Set("Authorization", "Bearer "+out["access_token"])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "viewer", gotSub)
	require.Equal(t, "viewer", gotRole)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plans/x", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadInput(t *testing.T) {
	login := LoginHandler(NewAuthService("secret"), Accounts{})

	rec := httptest.NewRecorder()
	login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{")))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"teacher","password":"teacher"}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
