package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/config"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.Logger = log.Output(io.Discard)
	os.Exit(m.Run())
}

func newTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg := config.FromViper(v)
	cfg.DataFile = filepath.Join(t.TempDir(), "data", "db.json")

	app, cleanup, err := newApp(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return app, cfg.DataFile
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRootAndHealth(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, rootMessage, string(body))

	resp = doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"healthy"`)
	assert.Contains(t, string(body), `"store":"json"`)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRegistrationIsPersistedToDataFile(t *testing.T) {
	app, dataFile := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/registro", map[string]string{
		"name": "Ana", "email": "Ana@X.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	content, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "\n  \"users\": [\n")

	var ds models.Dataset
	require.NoError(t, json.Unmarshal(content, &ds))
	require.Len(t, ds.Users, 1)
	assert.Equal(t, "ana@x.com", ds.Users[0].Email)
	assert.Equal(t, 1, ds.Sequences.Users)

	resp = doJSON(t, app, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	metricsBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metricsBody), "pataverde_users_registered_total 1")
}
