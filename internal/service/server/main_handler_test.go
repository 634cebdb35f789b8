package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agurato/filmdelegate/internal/model"
)

func TestStartAndLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/delegate/start", map[string]string{
		"username": "Agurato", "password1": "password123", "password2": "password321",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/start", map[string]string{
		"username": "Agurato", "password1": "password123", "password2": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = ts.do(t, http.MethodPost, "/api/delegate/start", map[string]string{
		"username": "Other", "password1": "password123", "password2": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	_, err := ts.users.CreateUser("viewer", "password123", "password123", false, false)
	require.NoError(t, err)

	w = ts.do(t, http.MethodPost, "/api/delegate/login", map[string]string{"username": "viewer", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/login", map[string]string{"username": "nobody", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/login", map[string]string{"username": "viewer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/login", map[string]string{"username": "viewer", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	viewerCookies := w.Result().Cookies()
	user := decode[struct{ User model.User }](t, w).User
	assert.Equal(t, "viewer", user.Name)
	assert.False(t, user.IsAdmin)

	w = ts.do(t, http.MethodPost, "/api/delegate/films", model.NewFilm{Name: "Shrek"}, viewerCookies...)
	assert.Equal(t, http.StatusForbidden, w.Code, "only admins can create films")

	w = ts.do(t, http.MethodPost, "/api/delegate/login", map[string]string{"username": "Agurato", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	ownerCookies := w.Result().Cookies()

	w = ts.do(t, http.MethodPost, "/api/delegate/films", model.NewFilm{Name: "Shrek"}, ownerCookies...)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/logout", nil, ownerCookies...)
	require.Equal(t, http.StatusOK, w.Code)
	loggedOutCookies := w.Result().Cookies()

	w = ts.do(t, http.MethodPost, "/api/delegate/films", model.NewFilm{Name: "Shrek 2"}, loggedOutCookies...)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/logout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetPassword(t *testing.T) {
	ts := newTestServer(t, nil)

	body := map[string]string{"oldPassword": "password123", "password1": "newpassword", "password2": "newpassword"}
	w := ts.do(t, http.MethodPost, "/api/delegate/password", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/start", map[string]string{
		"username": "Agurato", "password1": "password123", "password2": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	cookies := w.Result().Cookies()

	w = ts.do(t, http.MethodPost, "/api/delegate/password", map[string]string{
		"oldPassword": "password123", "password1": "short", "password2": "short",
	}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/password", body, cookies...)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/login", map[string]string{"username": "Agurato", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = ts.do(t, http.MethodPost, "/api/delegate/login", map[string]string{"username": "Agurato", "password": "newpassword"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOperationalRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = ts.do(t, http.MethodGet, "/api/delegate/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `filmdelegate_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, w.Body.String(), `route="unmatched",status="404"`)
}
