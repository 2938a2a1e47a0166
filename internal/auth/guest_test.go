package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/thuong-9/pydoan/internal/auth/middleware"
	"github.com/thuong-9/pydoan/internal/rbac"
)

type guestOut struct {
	AccessToken string `json:"access_token"`
	ClientID    string `json:"client_id"`
}

func TestGuestLoginIssuesLearnerToken(t *testing.T) {
	a := authmw.NewAuthService("secret", "", "")
	h := GuestLoginHandler(a)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out guestOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.ClientID, 36)

	c, err := a.Parse(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.ClientID, c.Sub)
	assert.Equal(t, rbac.RoleLearner, c.Role)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, out.ClientID, cookies[0].Value)

	// the cookie brings the same subject back
	req := httptest.NewRequest(http.MethodPost, "/auth/guest", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h(rec, req)
	var again guestOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, out.ClientID, again.ClientID)
}

func TestGuestLoginIgnoresForgedCookie(t *testing.T) {
	h := GuestLoginHandler(authmw.NewAuthService("secret", "", ""))
	req := httptest.NewRequest(http.MethodPost, "/auth/guest", nil)
	req.AddCookie(&http.Cookie{Name: guestCookie, Value: "teacher"})
	rec := httptest.NewRecorder()
	h(rec, req)

	var out guestOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEqual(t, "teacher", out.ClientID)
}
