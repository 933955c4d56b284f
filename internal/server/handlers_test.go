package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munchkineatter/DrawDrum/internal/app"
	"github.com/munchkineatter/DrawDrum/internal/broadcast"
	"github.com/munchkineatter/DrawDrum/internal/config"
	apperrors "github.com/munchkineatter/DrawDrum/internal/errors"
	"github.com/munchkineatter/DrawDrum/internal/store"
	"github.com/munchkineatter/DrawDrum/internal/uploads"
)

// newTestServer builds a Server with a fresh database and uploads dir,
// using inline templates so tests do not depend on the working directory.
func newTestServer(t *testing.T, opts ...func(*config.Config)) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:                   "0",
		MaxDisplayClients:      10,
		MaxUploadBytes:         1 << 20,
		MaxConnectionsPerIP:    10,
		WSConnectionsPerSecond: 100,
		WSConnectionBurst:      100,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	clock := clockwork.NewRealClock()

	st, err := store.Open(filepath.Join(t.TempDir(), "drawdrum.db"), clock)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logos, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	hub := broadcast.NewHub(cfg.MaxDisplayClients, clock)
	t.Cleanup(hub.Stop)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:            e,
		config:          cfg,
		app:             app.NewService(st, logos, hub),
		hub:             hub,
		logos:           logos,
		store:           st,
		limits:          NewConnectionLimits(cfg.MaxConnectionsPerIP, cfg.WSConnectionsPerSecond, cfg.WSConnectionBurst),
		adminTemplate:   template.Must(template.New("admin").Parse(`<title>Admin {{.WSHost}}</title>`)),
		displayTemplate: template.Must(template.New("display").Parse(`<title>Display</title>`)),
		startTime:       time.Now(),
	}
	srv.registerRoutes()
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGetSettings_Defaults(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "", body["passport_text"])
	assert.Equal(t, "#FFFFFF", body["text_color"])
	assert.Equal(t, "normal", body["text_style"])
	assert.Equal(t, 96.0, body["display_text_size"])
	assert.Equal(t, 96.0, body["timer_size"])
	assert.Equal(t, 1.0, body["columns"])
	assert.Equal(t, 32.0, body["prize_size"])
}

func TestUpdatePassport(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/passport", map[string]any{
		"text":  "A-100\nB-200",
		"prize": "Weekend trip",
		"formatting": map[string]any{
			"color":           "#FF0000",
			"style":           "bold",
			"displayTextSize": 72,
			"timerSize":       48,
			"columns":         2,
			"prizeSize":       24,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	rec = doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "A-100\nB-200", body["passport_text"])
	assert.Equal(t, "Weekend trip", body["prize_text"])
	assert.Equal(t, "#FF0000", body["text_color"])
	assert.Equal(t, 2.0, body["columns"])
}

func TestUpdatePassport_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/passport", strings.NewReader(`{"text":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "validation", body["type"])
}

func TestUpdatePassport_InvalidFormatting(t *testing.T) {
	srv := newTestServer(t)

	cases := []map[string]any{
		{"color": "#FFF", "style": "normal", "displayTextSize": 0, "timerSize": 96, "columns": 1, "prizeSize": 32},
		{"color": "#FFF", "style": "normal", "displayTextSize": 96, "timerSize": 1000, "columns": 1, "prizeSize": 32},
		{"color": "#FFF", "style": "normal", "displayTextSize": 96, "timerSize": 96, "columns": 0, "prizeSize": 32},
		{"color": "#FFF", "style": "normal", "displayTextSize": 96, "timerSize": 96, "columns": 11, "prizeSize": 32},
	}
	for _, formatting := range cases {
		rec := doJSON(t, srv, http.MethodPost, "/api/passport", map[string]any{
			"text":       "x",
			"formatting": formatting,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "formatting %v", formatting)
	}
}

func TestUpdatePassport_TextTooLong(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/passport", map[string]any{
		"text": strings.Repeat("x", maxTextLen+1),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimerAction(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/timer", map[string]any{
		"action":    "start",
		"duration":  60,
		"timerSize": 48,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	// Timer actions must not be persisted.
	rec = doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	body := decodeBody(t, rec)
	assert.Equal(t, 96.0, body["timer_size"])
}

func TestTimerAction_Invalid(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/timer", map[string]any{"action": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/timer", map[string]any{"action": "start", "duration": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// multipartLogo builds a multipart body with an explicit part content type,
// the way browsers submit file inputs.
func multipartLogo(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func uploadLogo(t *testing.T, srv *Server, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, formType := multipartLogo(t, filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/logo", body)
	req.Header.Set(echo.HeaderContentType, formType)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestUploadLogo(t *testing.T) {
	srv := newTestServer(t)

	rec := uploadLogo(t, srv, "brand.png", "image/png", []byte("png bytes"))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	logoPath, _ := body["logo_path"].(string)
	require.True(t, strings.HasPrefix(logoPath, "/uploads/logo_"), "got %q", logoPath)

	// The stored path shows up in settings.
	rec = doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, logoPath, decodeBody(t, rec)["logo_path"])

	// And the file is served back.
	req := httptest.NewRequest(http.MethodGet, logoPath, nil)
	serveRec := httptest.NewRecorder()
	srv.echo.ServeHTTP(serveRec, req)
	require.Equal(t, http.StatusOK, serveRec.Code)
	assert.Equal(t, "png bytes", serveRec.Body.String())
}

func TestUploadLogo_RejectsBadType(t *testing.T) {
	srv := newTestServer(t)

	rec := uploadLogo(t, srv, "logo.svg", "image/svg+xml", []byte("<svg/>"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "validation", body["type"])
}

func TestUploadLogo_TooLarge(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.MaxUploadBytes = 10
	})

	rec := uploadLogo(t, srv, "big.png", "image/png", bytes.Repeat([]byte("x"), 11))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadLogo_MissingFile(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/logo", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteLogo(t *testing.T) {
	srv := newTestServer(t)

	rec := uploadLogo(t, srv, "brand.png", "image/png", []byte("png"))
	require.Equal(t, http.StatusOK, rec.Code)
	logoPath, _ := decodeBody(t, rec)["logo_path"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/api/logo", nil)
	delRec := httptest.NewRecorder()
	srv.echo.ServeHTTP(delRec, req)
	require.Equal(t, http.StatusOK, delRec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "", decodeBody(t, rec)["logo_path"])

	// The old file is gone.
	req = httptest.NewRequest(http.MethodGet, logoPath, nil)
	serveRec := httptest.NewRecorder()
	srv.echo.ServeHTTP(serveRec, req)
	assert.Equal(t, http.StatusNotFound, serveRec.Code)
}

func TestServeUpload_Traversal(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/uploads/..%2F..%2Fetc%2Fpasswd", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = doJSON(t, srv, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decodeBody(t, rec)["status"])
}

func TestPages(t *testing.T) {
	srv := newTestServer(t)

	for path, want := range map[string]string{"/": "Admin", "/display": "Display"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
		assert.Contains(t, rec.Body.String(), want)
	}
}
