package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurante/internal/config"
	"github.com/iliyamo/restaurante/internal/testutil"
	"github.com/iliyamo/restaurante/internal/utils"
)

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	return New(Deps{
		Cfg: config.Config{
			JWTSecret:          "secret",
			AccessTTLMin:       60,
			BcryptCost:         4,
			AuthRequired:       true,
			CORSAllowedOrigins: []string{"http://localhost:5173"},
		},
		DB:     testutil.NewDB(t),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func call(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := call(newAPI(t), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)
	creds := `{"username":"mesero","password":"s3creto"}`

	rec := call(api, http.MethodPost, "/api/register", creds, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id_usuario"`)

	rec = call(api, http.MethodPost, "/api/register", creds, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "message")

	rec = call(api, http.MethodPost, "/api/register", `{"username":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(api, http.MethodPost, "/api/login", `{"username":"mesero","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(api, http.MethodPost, "/api/login", creds, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.NotEmpty(t, login.ExpiresAt)

	assert.Equal(t, http.StatusUnauthorized, call(api, http.MethodGet, "/api/productos", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(api, http.MethodGet, "/api/productos", "", "garbage").Code)
	assert.Equal(t, http.StatusOK, call(api, http.MethodGet, "/api/productos", "", login.Token).Code)

	rec = call(api, http.MethodGet, "/api/me", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id_usuario":1,"username":"mesero"}`, rec.Body.String())

	assert.Equal(t, http.StatusNoContent, call(api, http.MethodPost, "/api/logout", "", login.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, call(api, http.MethodGet, "/api/productos", "", login.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, call(api, http.MethodGet, "/api/me", "", login.Token).Code)
}

func TestRateLimitPerUserOnAPI(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	api := New(Deps{
		Cfg: config.Config{JWTSecret: "secret", AccessTTLMin: 60, BcryptCost: 4, AuthRequired: true},
		RateLimit: config.RateLimitConfig{
			Enabled:        true,
			Capacity:       3,
			RefillTokens:   1,
			RefillInterval: time.Hour,
			TTL:            time.Hour,
			KeyStrategy:    "user",
			Prefix:         "rl",
		},
		DB:     testutil.NewDB(t),
		Redis:  rdb,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	token := func(id int64, name string) string {
		tok, err := utils.NewAccessToken("secret", id, name, 60)
		require.NoError(t, err)
		return tok.Token
	}
	ana, luis := token(1, "ana"), token(2, "luis")

	for range 3 {
		assert.Equal(t, http.StatusOK, call(api, http.MethodGet, "/api/productos", "", ana).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, call(api, http.MethodGet, "/api/productos", "", ana).Code)
	assert.Equal(t, http.StatusOK, call(api, http.MethodGet, "/api/productos", "", luis).Code)
	assert.True(t, mr.Exists("rl:user:1"))
}

func TestCORSPreflight(t *testing.T) {
	api := newAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/productos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
