package app

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-arcade/internal/config"
	"github.com/vancomm/minesweeper-arcade/internal/repository"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cfg.JWT.PrivateKey = string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
	cfg.Store = "memory"
	cfg.AllowedOrigins = []string{"https://arcade.example"}
	return cfg
}

func TestNew(t *testing.T) {
	log, _ := test.NewNullLogger()

	cfg := testConfig(t)
	cfg.Game.Preset = "impossible"
	_, err := New(log, cfg, repository.NewMemory())
	assert.ErrorContains(t, err, "unknown preset")

	cfg = testConfig(t)
	cfg.JWT.PrivateKey = "not a key"
	_, err = New(log, cfg, repository.NewMemory())
	assert.Error(t, err)
}

func TestRoutes(t *testing.T) {
	log, hook := test.NewNullLogger()

	a, err := New(log, testConfig(t), repository.NewMemory())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	h := a.Handler()

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/v1/presets", http.StatusOK},
		{http.MethodGet, "/v1/leaderboard", http.StatusOK},
		{http.MethodGet, "/v1/status", http.StatusOK},
		{http.MethodGet, "/v1/player", http.StatusUnauthorized},
		{http.MethodPost, "/v1/player/credits", http.StatusUnauthorized},
		{http.MethodGet, "/v1/player/rounds", http.StatusUnauthorized},
		{http.MethodPost, "/v1/round", http.StatusUnauthorized},
		{http.MethodGet, "/v1/round/abc", http.StatusUnauthorized},
		{http.MethodPost, "/v1/round/abc/reveal?row=0&col=0", http.StatusUnauthorized},
		{http.MethodPost, "/v1/round/abc/flag?row=0&col=0", http.StatusUnauthorized},
		{http.MethodPost, "/v1/round/abc/forfeit", http.StatusUnauthorized},
		{http.MethodGet, "/v1/round/abc/connect", http.StatusUnauthorized},
		{http.MethodDelete, "/v1/leaderboard", http.StatusUnauthorized},
		{http.MethodGet, "/v1/round", http.StatusMethodNotAllowed},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			req.Header.Set("Origin", "https://arcade.example")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "https://arcade.example", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "handled request", entry.Message)
	assert.Equal(t, "http", entry.Data["component"])
}
