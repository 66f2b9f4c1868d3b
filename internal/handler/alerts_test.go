package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"BotonPanico/internal/models"
	"BotonPanico/pkg/cache"
	"BotonPanico/pkg/config"
	"BotonPanico/pkg/middleware"
	"BotonPanico/pkg/notification"
	"BotonPanico/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPusher struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingPusher) Push(ctx context.Context, token string, msg notification.PushMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, token)
	return nil
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB, *recordingPusher) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.GlobalConfig = &config.Config{APIPrefix: "/api"}

	db, err := util.InitDatabase("", "")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Alert{}))

	directory := models.NewDirectory(db, cache.NewLocalCache(cache.LocalConfig{MaxSize: 100}), time.Minute)
	pusher := &recordingPusher{}
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Rate: "1000-S"}, nil)

	engine := gin.New()
	NewHandlers(db, directory, pusher, limiter).Register(engine)
	return engine, db, pusher
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
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
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{Name: "Ana", Phone: "912345678"}).Error)
	require.NoError(t, db.Create(&models.User{Name: "Beto", Phone: "912345679", FCMToken: "beto-token"}).Error)
}

func TestCreateAlertEndToEnd(t *testing.T) {
	engine, db, pusher := newTestServer(t)
	seed(t, db)

	w, body := doJSON(t, engine, http.MethodPost, "/api/emergencias", gin.H{
		"senderName":  "Ana",
		"senderPhone": "912345678",
		"message":     "necesito ayuda",
		"location":    "-33.45,-70.66",
		"contacts":    []string{"56912345679", "000"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["registrados"])
	assert.EqualValues(t, 1, body["noRegistrados"])

	detalles, ok := body["detalles"].([]interface{})
	require.True(t, ok)
	require.Len(t, detalles, 1)
	detalle := detalles[0].(map[string]interface{})
	assert.Equal(t, "Beto", detalle["nombre"])
	assert.Equal(t, "912345679", detalle["telefono"])

	require.Len(t, pusher.calls, 1)
	assert.Equal(t, "beto-token", pusher.calls[0])

	var row models.Alert
	require.NoError(t, db.Where("owner_phone = ?", "912345679").First(&row).Error)
	assert.Equal(t, models.AlertStatusActive, row.Status)
}

func TestCreateAlertBadRequests(t *testing.T) {
	engine, db, _ := newTestServer(t)
	seed(t, db)

	w, _ := doJSON(t, engine, http.MethodPost, "/api/emergencias", gin.H{
		"senderPhone": "912345678",
		"contacts":    []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, engine, http.MethodPost, "/api/emergencias", gin.H{
		"senderPhone": "abc",
		"contacts":    []string{"912345679"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := doJSON(t, engine, http.MethodPost, "/api/emergencias", gin.H{
		"senderPhone": "966666666",
		"contacts":    []string{"912345679"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestListAlerts(t *testing.T) {
	engine, db, _ := newTestServer(t)
	seed(t, db)

	w, body := doJSON(t, engine, http.MethodGet, "/api/emergencias/912345679", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "912345679", body["telefono"])
	assert.Len(t, body["recibidas"], 0)
	assert.Len(t, body["enviadas"], 0)

	w, _ = doJSON(t, engine, http.MethodPost, "/api/emergencias", gin.H{
		"senderPhone": "912345678",
		"contacts":    []string{"912345679"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	_, body = doJSON(t, engine, http.MethodGet, "/api/emergencias/+56912345679", nil)
	recibidas := body["recibidas"].([]interface{})
	require.Len(t, recibidas, 1)
	alerta := recibidas[0].(map[string]interface{})
	assert.Equal(t, "activa", alerta["estado"])
	assert.NotEmpty(t, alerta["id"])

	w, _ = doJSON(t, engine, http.MethodGet, "/api/emergencias/123", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, engine, http.MethodGet, "/api/emergencias/977777777", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFinalizeAlertEndpoint(t *testing.T) {
	engine, db, _ := newTestServer(t)
	seed(t, db)

	w0, _ := doJSON(t, engine, http.MethodPost, "/api/emergencias", gin.H{
		"senderPhone": "912345678",
		"contacts":    []string{"912345679"},
	})
	require.Equal(t, http.StatusOK, w0.Code)
	_, listBody := doJSON(t, engine, http.MethodGet, "/api/emergencias/912345679", nil)
	recibidas := listBody["recibidas"].([]interface{})
	require.Len(t, recibidas, 1)
	eventID := recibidas[0].(map[string]interface{})["id"].(string)

	w, finBody := doJSON(t, engine, http.MethodPut, "/api/emergencias/finalizar/"+eventID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, finBody["success"])

	var count int64
	require.NoError(t, db.Model(&models.Alert{}).
		Where("event_id = ? AND status = ?", eventID, models.AlertStatusFinished).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// idempotent
	w, _ = doJSON(t, engine, http.MethodPut, "/api/emergencias/finalizar/"+eventID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, engine, http.MethodPut, "/api/emergencias/finalizar/desconocida", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterUser(t *testing.T) {
	engine, db, _ := newTestServer(t)

	w, body := doJSON(t, engine, http.MethodPost, "/api/usuarios", gin.H{
		"nombre":   "Carla",
		"telefono": "+56 9 8888 8888",
		"fcmToken": "carla-token",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	usuario := body["usuario"].(map[string]interface{})
	assert.Equal(t, "Carla", usuario["nombre"])
	assert.Equal(t, "988888888", usuario["telefono"])

	// re-registering updates the token instead of duplicating the user
	w, _ = doJSON(t, engine, http.MethodPost, "/api/usuarios", gin.H{
		"nombre":   "Carla",
		"telefono": "988888888",
		"fcmToken": "carla-token-2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("phone = ?", "988888888").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var user models.User
	require.NoError(t, db.Where("phone = ?", "988888888").First(&user).Error)
	assert.Equal(t, "carla-token-2", user.FCMToken)

	w, _ = doJSON(t, engine, http.MethodPost, "/api/usuarios", gin.H{
		"nombre":   "X",
		"telefono": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	engine, _, _ := newTestServer(t)

	w, body := doJSON(t, engine, http.MethodGet, "/api/system/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
}
