package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketdto "github.com/techdesk-io/techdesk/internal/application/ticket/dto"
	"github.com/techdesk-io/techdesk/internal/infrastructure/config"
	"github.com/techdesk-io/techdesk/internal/infrastructure/database"
	"github.com/techdesk-io/techdesk/internal/infrastructure/migration"
	"github.com/techdesk-io/techdesk/internal/interfaces/http/handlers/testutil"
	sharedConfig "github.com/techdesk-io/techdesk/internal/shared/config"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: sharedConfig.ServerConfig{Host: "127.0.0.1", Port: 3000, AllowedOrigins: []string{"*"}},
		Database: sharedConfig.DatabaseConfig{
			Driver:        sharedConfig.DriverSQLite,
			Path:          filepath.Join(t.TempDir(), "tickets.db"),
			BusyTimeoutMS: 5000,
		},
		Email:  sharedConfig.EmailConfig{SendTimeoutSeconds: 1},
		Upload: sharedConfig.UploadConfig{Dir: "/uploads", MaxFiles: 3, MaxFileSize: 1 << 20},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Container, afero.Fs) {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	gdb, err := database.Open(ctx, &cfg.Database, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(gdb) })

	strategy, err := migration.NewGooseStrategy(cfg.Database.Driver, log)
	require.NoError(t, err)
	require.NoError(t, strategy.Migrate(ctx, gdb))

	fs := afero.NewMemMapFs()
	c, err := NewContainer(gdb, cfg, fs, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })

	c.SetupRoutes()
	return c, fs
}

func serve(c *Container, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)
	return w
}

func submitRequest(fields map[string]string, files ...testutil.FormFile) *http.Request {
	ctx, _ := testutil.NewMultipartContext("/tickets?lang=en", fields, files...)
	return ctx.Request
}

func TestContainer_SubmitAndReadBack(t *testing.T) {
	c, fs := newTestServer(t, testConfig(t))

	w := serve(c, submitRequest(
		map[string]string{"problem_description": "Printer jam", "equipment_id": "EQ-12"},
		testutil.FormFile{Field: "images", Filename: "photo.png", Content: pngBytes},
	))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "Ticket saved", resp.Message)

	var created ticketdto.SubmitTicketResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, uint(1), created.TicketID)
	assert.False(t, created.Notification.Delivered)
	assert.True(t, strings.HasPrefix(created.NotificationMessage, "Error sending email: "))
	require.Len(t, created.Attachments, 1)
	assert.Equal(t, "image/png", created.Attachments[0].ContentType)

	storageName := created.Attachments[0].StorageName
	exists, err := afero.Exists(fs, "/uploads/"+storageName)
	require.NoError(t, err)
	assert.True(t, exists)

	w = serve(c, httptest.NewRequest(http.MethodGet, "/api/tickets/"+strconv.Itoa(int(created.TicketID)), nil))
	require.Equal(t, http.StatusOK, w.Code)
	resp = testutil.APIResponse{}
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var got ticketdto.TicketDTO
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, "Printer jam", got.ProblemDescription)
	assert.Equal(t, "EQ-12", got.EquipmentID)
	assert.Equal(t, []string{storageName}, got.AttachmentFilenames)

	w = serve(c, httptest.NewRequest(http.MethodGet, "/uploads/"+storageName, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngBytes, w.Body.Bytes())

	w = serve(c, httptest.NewRequest(http.MethodGet, "/api/tickets", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestContainer_RejectsInvalidSubmission(t *testing.T) {
	c, fs := newTestServer(t, testConfig(t))

	tests := []struct {
		name   string
		fields map[string]string
		files  []testutil.FormFile
	}{
		{
			name:   "missing problem",
			fields: map[string]string{"client_name": "ACME"},
			files:  []testutil.FormFile{{Field: "images", Filename: "photo.png", Content: pngBytes}},
		},
		{
			name:   "bad extension",
			fields: map[string]string{"problem_description": "Printer jam"},
			files: []testutil.FormFile{
				{Field: "images", Filename: "ok.png", Content: pngBytes},
				{Field: "images", Filename: "notes.txt", Content: []byte("hello")},
			},
		},
		{
			name:   "too many files",
			fields: map[string]string{"problem_description": "Printer jam"},
			files: []testutil.FormFile{
				{Field: "images", Filename: "a.png", Content: pngBytes},
				{Field: "images", Filename: "b.png", Content: pngBytes},
				{Field: "images", Filename: "c.png", Content: pngBytes},
				{Field: "images", Filename: "d.png", Content: pngBytes},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(c, submitRequest(tt.fields, tt.files...))
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := serve(c, httptest.NewRequest(http.MethodGet, "/api/tickets", nil))
	assert.Contains(t, w.Body.String(), `"total":0`)

	stored, err := afero.Glob(fs, "/uploads/*")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestContainer_HealthAndMetrics(t *testing.T) {
	c, _ := newTestServer(t, testConfig(t))

	w := serve(c, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	serve(c, submitRequest(map[string]string{"problem_description": "Printer jam"}))

	w = serve(c, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `techdesk_ticket_submissions_total{result="created"} 1`)
}

func TestContainer_SubmissionRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Redis = sharedConfig.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}
	cfg.RateLimit = sharedConfig.RateLimitConfig{RequestsPerMinute: 1}
	c, _ := newTestServer(t, cfg)

	first := serve(c, submitRequest(map[string]string{"problem_description": "Printer jam"}))
	assert.Equal(t, http.StatusCreated, first.Code)

	second := serve(c, submitRequest(map[string]string{"problem_description": "Printer jam"}))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestContainer_SchedulesOrphanAudit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scheduler.OrphanAuditIntervalMinutes = 30
	c, _ := newTestServer(t, cfg)

	require.NotNil(t, c.Scheduler())
	jobs := c.Scheduler().Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "orphan-audit", jobs[0].Name())
}
