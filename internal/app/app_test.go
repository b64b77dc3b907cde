package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-backend/internal/config"
	"studio-backend/internal/fakes"
	"studio-backend/internal/gateway"
	"studio-backend/internal/handlers"
	"studio-backend/internal/models"
	"studio-backend/internal/services"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		CORSOrigins:    "*",
		StorageBackend: config.StorageLocal,
		UploadDir:      t.TempDir(),
		UploadFolder:   "studio-24mm",
		UploadMaxBytes: 1 << 20,
	}
	log := zerolog.Nop()

	gw, err := NewGateway(context.Background(), cfg, log)
	require.NoError(t, err)

	photographers := fakes.NewPhotographerStore()
	media := fakes.NewMediaStore(photographers)
	feed := handlers.NewFeedHub(log)

	return NewServer(Deps{
		Config: cfg,
		Log:    log,
		Users:  services.NewUserService(photographers, services.NewTokenIssuer("test-secret", time.Hour), log),
		Media: services.NewMediaService(services.MediaServiceConfig{
			Store:        media,
			Gateway:      gw,
			Publisher:    feed,
			UploadFolder: cfg.UploadFolder,
			Log:          log,
		}),
		Reviews: services.NewReviewService(fakes.NewReviewStore(), media, feed, log),
		Feed:    feed,
	})
}

func request(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestHealth(t *testing.T) {
	app := newTestServer(t)

	status, body := request(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestServer(t)

	status, body := request(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "studio_api_feed_subscribers")
}

func TestRegisterLoginUploadFlow(t *testing.T) {
	app := newTestServer(t)

	status, body := request(t, app, jsonRequest(t, http.MethodPost, "/auth/register", fiber.Map{
		"email": "a@x.com", "name": "A", "password": "secret1", "confirmPassword": "secret1",
	}))
	require.Equal(t, http.StatusCreated, status, string(body))

	var registered models.AuthResponse
	require.NoError(t, json.Unmarshal(body, &registered))
	assert.Equal(t, "Registration successful", registered.Message)

	status, body = request(t, app, jsonRequest(t, http.MethodPost, "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "secret1",
	}))
	require.Equal(t, http.StatusOK, status, string(body))

	var loggedIn models.AuthResponse
	require.NoError(t, json.Unmarshal(body, &loggedIn))
	assert.Equal(t, registered.Photographer.ID, loggedIn.Photographer.ID)

	status, body = request(t, app, jsonRequest(t, http.MethodPost, "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "wrong-password",
	}))
	assert.Equal(t, http.StatusUnauthorized, status, string(body))

	// Upload through the local gateway, then fetch the stored file back.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("type", "image"))
	part, err := w.CreateFormFile("file", "portrait.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+loggedIn.Token)

	status, body = request(t, app, req)
	require.Equal(t, http.StatusCreated, status, string(body))

	var media models.Media
	require.NoError(t, json.Unmarshal(body, &media))
	require.True(t, strings.HasPrefix(media.URL, "/uploads/studio-24mm/images/"), media.URL)

	status, body = request(t, app, httptest.NewRequest(http.MethodGet, media.URL, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "jpeg bytes", string(body))

	status, body = request(t, app, httptest.NewRequest(http.MethodGet, "/images", nil))
	require.Equal(t, http.StatusOK, status)

	var images []models.Media
	require.NoError(t, json.Unmarshal(body, &images))
	require.Len(t, images, 1)
	assert.Equal(t, media.URL, images[0].URL)
}

func TestCORSAllowsIdentityHeaders(t *testing.T) {
	app := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPost)

	resp, err := app.Test(req)
	require.NoError(t, err)
	allowed := resp.Header.Get(fiber.HeaderAccessControlAllowHeaders)
	assert.Contains(t, allowed, "Authorization")
	assert.Contains(t, allowed, handlers.PhotographerHeader)
}

func TestNewGateway(t *testing.T) {
	log := zerolog.Nop()
	dir := filepath.Join(t.TempDir(), "uploads")

	gw, err := NewGateway(context.Background(), &config.Config{StorageBackend: config.StorageLocal, UploadDir: dir}, log)
	require.NoError(t, err)
	assert.IsType(t, &gateway.LocalGateway{}, gw)
	_, err = os.Stat(dir)
	assert.NoError(t, err)

	_, err = NewGateway(context.Background(), &config.Config{StorageBackend: "ftp"}, log)
	assert.Error(t, err)
}
