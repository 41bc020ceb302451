package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eras_backend/internal/app"
	"eras_backend/internal/auth"
	"eras_backend/internal/config"
	"eras_backend/internal/logger"
	"eras_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

type testServer struct {
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, app.Migrate(db))

	return &testServer{db: db, router: app.SetupRouter(db)}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec, rec.Body.String()
}

var serverUserSeq int

// registerCitizen registers a citizen through the API and returns the token.
func (ts *testServer) registerCitizen(t *testing.T, city, area string) (string, string) {
	t.Helper()
	serverUserSeq++

	body := map[string]interface{}{
		"email":       fmt.Sprintf("citizen%d@test.local", serverUserSeq),
		"phone":       fmt.Sprintf("0171%07d", serverUserSeq),
		"password":    "password123",
		"role":        "citizen",
		"city":        city,
		"area_sector": area,
		"full_name":   "Test Citizen",
	}
	rec, respBody := ts.request(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, respBody)

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(respBody), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken, resp.User.ID
}

// createAdmin inserts a superuser directly and returns a token for it.
func (ts *testServer) createAdmin(t *testing.T) string {
	t.Helper()
	serverUserSeq++

	hash, err := auth.HashPassword("admin-password")
	require.NoError(t, err)

	admin := &models.User{
		Email:        fmt.Sprintf("admin%d@test.local", serverUserSeq),
		Phone:        fmt.Sprintf("0199%07d", serverUserSeq),
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		IsSuperuser:  true,
		IsActive:     true,
	}
	require.NoError(t, ts.db.Create(admin).Error)

	token, err := auth.GenerateToken(admin.ID, string(admin.Role), true)
	require.NoError(t, err)
	return token
}

func disasterBody() map[string]interface{} {
	return map[string]interface{}{
		"disaster_type":     "flood",
		"severity":          "high",
		"description":       "Flood waters rising rapidly across several residential blocks, families stranded on rooftops.",
		"city":              "Dhaka",
		"area_sector":       "Gulshan",
		"incident_datetime": time.Now().Add(-time.Hour).Format(time.RFC3339),
	}
}

func TestDisasterLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	reporterToken, _ := ts.registerCitizen(t, "Dhaka", "Gulshan")
	neighborToken, _ := ts.registerCitizen(t, "Dhaka", "Banani")
	adminToken := ts.createAdmin(t)

	// Report a disaster
	rec, body := ts.request(t, http.MethodPost, "/api/v1/disasters", reporterToken, disasterBody())
	require.Equal(t, http.StatusCreated, rec.Code, body)

	var created models.Disaster
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "Flood in Dhaka", created.Title)

	// Not public yet
	rec, body = ts.request(t, http.MethodGet, "/api/v1/disasters", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `"total":0`)

	// Anonymous detail access is refused while pending
	rec, _ = ts.request(t, http.MethodGet, "/api/v1/disasters/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The reporter still sees it
	rec, body = ts.request(t, http.MethodGet, "/api/v1/disasters/"+created.ID, reporterToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `"can_edit":true`)
	assert.Contains(t, body, `"can_delete":false`)

	// A pending report cannot be deleted by its reporter
	rec, _ = ts.request(t, http.MethodDelete, "/api/v1/disasters/"+created.ID, reporterToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Moderation is superuser-only
	moderate := map[string]interface{}{"status": "approved"}
	rec, _ = ts.request(t, http.MethodPost, "/api/v1/admin/disasters/"+created.ID+"/approve", reporterToken, moderate)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = ts.request(t, http.MethodPost, "/api/v1/admin/disasters/"+created.ID+"/approve", adminToken, moderate)
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Contains(t, body, `"status":"approved"`)

	// Now public
	rec, body = ts.request(t, http.MethodGet, "/api/v1/disasters", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `"total":1`)

	// Both citizens in Dhaka were alerted
	rec, body = ts.request(t, http.MethodGet, "/api/v1/alerts", neighborToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `"count":1`)
	assert.Contains(t, body, `"match_type":"city"`)

	rec, body = ts.request(t, http.MethodGet, "/api/v1/alerts", reporterToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `"match_type":"exact"`)

	// Mark the neighbor's alert read
	var alerts struct {
		Alerts []struct {
			ID string `json:"id"`
		} `json:"alerts"`
	}
	rec, body = ts.request(t, http.MethodGet, "/api/v1/alerts", neighborToken, nil)
	require.NoError(t, json.Unmarshal([]byte(body), &alerts))
	require.Len(t, alerts.Alerts, 1)

	rec, _ = ts.request(t, http.MethodPost, "/api/v1/alerts/"+alerts.Alerts[0].ID+"/mark-read", neighborToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = ts.request(t, http.MethodGet, "/api/v1/alerts/unread-count", neighborToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `"unread_count":0`)

	// Resolve
	rec, body = ts.request(t, http.MethodPost, "/api/v1/disasters/"+created.ID+"/mark-resolved", adminToken,
		map[string]interface{}{"resolution_notes": "Water receded"})
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Contains(t, body, `"status":"resolved"`)

	// Area autocomplete reflects registered profiles
	rec, body = ts.request(t, http.MethodGet, "/api/v1/disasters/areas-by-city?city=Dhaka", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "Gulshan")
	assert.Contains(t, body, "Banani")
}

func TestCreateDisaster_ValidationOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerCitizen(t, "Dhaka", "Gulshan")

	short := disasterBody()
	short["description"] = "Too short"
	rec, body := ts.request(t, http.MethodPost, "/api/v1/disasters", token, short)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body, "Description")

	future := disasterBody()
	future["incident_datetime"] = time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	rec, body = ts.request(t, http.MethodPost, "/api/v1/disasters", token, future)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body, "IncidentDatetime")

	badType := disasterBody()
	badType["disaster_type"] = "meteor"
	rec, _ = ts.request(t, http.MethodPost, "/api/v1/disasters", token, badType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unauthenticated create is refused
	rec, _ = ts.request(t, http.MethodPost, "/api/v1/disasters", "", disasterBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRejectionFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	reporterToken, _ := ts.registerCitizen(t, "Dhaka", "Gulshan")
	adminToken := ts.createAdmin(t)

	rec, body := ts.request(t, http.MethodPost, "/api/v1/disasters", reporterToken, disasterBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Disaster
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	// Rejecting without a reason fails
	rec, _ = ts.request(t, http.MethodPost, "/api/v1/admin/disasters/"+created.ID+"/approve", adminToken,
		map[string]interface{}{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = ts.request(t, http.MethodPost, "/api/v1/admin/disasters/"+created.ID+"/approve", adminToken,
		map[string]interface{}{"status": "rejected", "rejection_reason": "Not enough detail"})
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Contains(t, body, `"rejection_reason":"Not enough detail"`)

	// The reporter may delete a rejected report
	rec, _ = ts.request(t, http.MethodDelete, "/api/v1/disasters/"+created.ID, reporterToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProviderResponseOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	reporterToken, _ := ts.registerCitizen(t, "Dhaka", "Gulshan")
	adminToken := ts.createAdmin(t)

	// Register a provider through the API
	serverUserSeq++
	providerReq := map[string]interface{}{
		"email":             fmt.Sprintf("hospital%d@test.local", serverUserSeq),
		"phone":             fmt.Sprintf("0188%07d", serverUserSeq),
		"password":          "password123",
		"role":              "service_provider",
		"city":              "Dhaka",
		"area_sector":       "Banani",
		"organization_name": "City General Hospital",
		"service_type":      "hospital",
	}
	rec, body := ts.request(t, http.MethodPost, "/api/v1/auth/register", "", providerReq)
	require.Equal(t, http.StatusCreated, rec.Code, body)

	var providerResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &providerResp))
	providerToken := providerResp.AccessToken

	rec, body = ts.request(t, http.MethodPost, "/api/v1/disasters", reporterToken, disasterBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Disaster
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	// Cannot respond while pending
	respond := map[string]interface{}{"response_status": "responding", "response_notes": "Two ambulances dispatched"}
	rec, _ = ts.request(t, http.MethodPost, "/api/v1/disasters/"+created.ID+"/respond", providerToken, respond)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.request(t, http.MethodPost, "/api/v1/admin/disasters/"+created.ID+"/approve", adminToken,
		map[string]interface{}{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Citizens cannot respond at all
	rec, _ = ts.request(t, http.MethodPost, "/api/v1/disasters/"+created.ID+"/respond", reporterToken, respond)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = ts.request(t, http.MethodPost, "/api/v1/disasters/"+created.ID+"/respond", providerToken, respond)
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Contains(t, body, `"response_status":"responding"`)

	// The provider dashboard lists the disaster with the response attached
	rec, body = ts.request(t, http.MethodGet, "/api/v1/disasters/nearby", providerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, created.ID)
	assert.Contains(t, body, `"same_area":false`)

	// Public responses listing
	rec, body = ts.request(t, http.MethodGet, "/api/v1/disasters/"+created.ID+"/responses", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "City General Hospital")
}
