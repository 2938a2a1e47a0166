package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/thuong-9/pydoan/internal/rbac"
)

func newService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService("test-secret", "teacher", string(hash))
}

func TestIssueAndParse(t *testing.T) {
	a := newService(t)
	tok, err := a.IssueJWT("kid-1", rbac.RoleLearner)
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "kid-1", c.Sub)
	assert.Equal(t, rbac.RoleLearner, c.Role)

	other := NewAuthService("another-secret", "", "")
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	a := newService(t)
	a.now = func() time.Time { return time.Now().Add(-9 * time.Hour) }
	tok, err := a.IssueJWT("teacher", rbac.RoleTeacher)
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckTeacher(t *testing.T) {
	a := newService(t)
	assert.True(t, a.CheckTeacher("teacher", "s3cret"))
	assert.False(t, a.CheckTeacher("teacher", "wrong"))
	assert.False(t, a.CheckTeacher("someone", "s3cret"))

	disabled := NewAuthService("x", "teacher", "")
	assert.False(t, disabled.CheckTeacher("teacher", ""))
}

func TestLoginHandler(t *testing.T) {
	a := newService(t)
	h := LoginHandler(a)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"teacher","password":"s3cret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"teacher"`)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"teacher","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJWTMiddleware(t *testing.T) {
	a := newService(t)
	tok, err := a.IssueJWT("kid-7", rbac.RoleLearner)
	require.NoError(t, err)

	var gotSub, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	})

	tests := []struct {
		name     string
		mw       func(http.Handler) http.Handler
		header   string
		wantCode int
		wantSub  string
	}{
		{"optional anonymous", OptionalJWT(a), "", http.StatusOK, ""},
		{"optional bearer", OptionalJWT(a), "Bearer " + tok, http.StatusOK, "kid-7"},
		{"optional bad token", OptionalJWT(a), "Bearer garbage", http.StatusUnauthorized, ""},
		{"required anonymous", RequireJWT(a), "", http.StatusUnauthorized, ""},
		{"required bearer", RequireJWT(a), "Bearer " + tok, http.StatusOK, "kid-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSub, gotRole = "", ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.mw(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantSub, gotSub)
			if tt.wantSub != "" {
				assert.Equal(t, rbac.RoleLearner, gotRole)
			}
		})
	}
}
