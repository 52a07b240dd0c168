package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogged/internal/config"
	"blogged/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server on an in-memory SQLite database with all
// routes registered. Redis is nil, so caching and per-route limits are off.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	cfg := &config.Config{
		JWTSecret: "test-secret-key",
		Port:      "4000",
		Env:       "test",
		UploadURL: "https://example.com/placeholder.png",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)

	t.Cleanup(func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
	})

	return srv, app
}

// doJSON performs a request against the test app. A non-empty token is sent
// as a bearer Authorization header.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody unmarshals the response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	return out
}

// decodeInto unmarshals the response body into dest.
func decodeInto(resp *http.Response, dest any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dest)
}

// registerUser signs up a fresh user and returns the auth token and the
// user payload from the response.
func registerUser(t *testing.T, app *fiber.App, username string) (string, map[string]any) {
	t.Helper()

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Test " + username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"username": username,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	return token, user
}

// createPost publishes a post as the token's user and returns its response body.
func createPost(t *testing.T, app *fiber.App, token, title string, tags []string) map[string]any {
	t.Helper()

	resp := doJSON(t, app, fiber.MethodPost, "/api/posts", token, map[string]any{
		"title":     title,
		"content":   "Content for " + title,
		"excerpt":   "An excerpt",
		"published": true,
		"tags":      tags,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)
}

func postID(t *testing.T, post map[string]any) int {
	t.Helper()

	id, ok := post["id"].(float64)
	require.True(t, ok, "post has no numeric id: %v", post)
	return int(id)
}
