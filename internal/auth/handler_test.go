package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *fakeCredentialStore) {
	t.Helper()
	svc, store := newTestService(t, time.Minute)
	return NewHandler(svc, zap.NewNop().Sugar()), store
}

func postToken(t *testing.T, h *Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.Token(rr, req)
	return rr
}

func TestHandler_Token_Success(t *testing.T) {
	h, store := newTestHandler(t)
	addUser(t, store, "alice", "s3cret", nil)

	rr := postToken(t, h, "alice", "s3cret")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "bearer", resp.TokenType)
}

func TestHandler_Token_InvalidCredentials(t *testing.T) {
	h, store := newTestHandler(t)
	addUser(t, store, "alice", "s3cret", nil)

	wrongPassword := postToken(t, h, "alice", "wrong")
	unknownUser := postToken(t, h, "nobody", "s3cret")

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Equal(t, "Bearer", wrongPassword.Header().Get("WWW-Authenticate"))
	require.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestHandler_Me(t *testing.T) {
	h, store := newTestHandler(t)
	addUser(t, store, "alice", "s3cret", nil)

	rr := postToken(t, h, "alice", "s3cret")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	me := httptest.NewRecorder()
	h.Me(me, req)

	require.Equal(t, http.StatusOK, me.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(me.Body).Decode(&body))
	require.Equal(t, "alice", body["username"])
	require.NotContains(t, me.Body.String(), "hashed_password")
	_, leaked := body["hashed_password"]
	require.False(t, leaked)
}

func TestHandler_Me_MissingOrBadToken(t *testing.T) {
	h, _ := newTestHandler(t)

	noHeader := httptest.NewRecorder()
	h.Me(noHeader, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	require.Equal(t, http.StatusUnauthorized, noHeader.Code)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	badToken := httptest.NewRecorder()
	h.Me(badToken, req)
	require.Equal(t, http.StatusUnauthorized, badToken.Code)
	require.Equal(t, "Bearer", badToken.Header().Get("WWW-Authenticate"))
}

func TestHandler_Me_InactiveUser(t *testing.T) {
	h, store := newTestHandler(t)
	disabled := true
	addUser(t, store, "carol", "s3cret", &disabled)

	rr := postToken(t, h, "carol", "s3cret")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	me := httptest.NewRecorder()
	h.Me(me, req)

	require.Equal(t, http.StatusBadRequest, me.Code)
	require.Contains(t, me.Body.String(), "Inactive user")
}
