package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TeguiHD/Portafolio-sub005/internal/config"
	"github.com/TeguiHD/Portafolio-sub005/internal/finance"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.CategoryRule{},
		&models.SecurityEvent{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// scanRouter serves /receipts/scan with a stubbed authenticated user. The
// scanner stays nil: these paths must all fail before it is reached.
func scanRouter(db *gorm.DB, limiter ratelimit.Store, cfg config.OCRConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("currentUser", &models.User{ID: 1, Name: "tester"})
	})
	h := NewReceiptHandler(db, nil, finance.NewCategorizer(db), limiter, cfg, zap.NewNop())
	r.POST("/receipts/scan", h.Scan)
	return r
}

func postScan(t *testing.T, r *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/receipts/scan", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func countEvents(t *testing.T, db *gorm.DB, kind string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.SecurityEvent{}).Where("kind = ?", kind).Count(&n).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	return n
}

func TestScanRejectsInvalidBase64(t *testing.T) {
	db := newHandlerDB(t)
	r := scanRouter(db, ratelimit.NewMemoryStore(), config.OCRConfig{MaxImageBytes: 1 << 20, DailyScans: 10})

	w := postScan(t, r, map[string]string{"image": "not base64 at all!!"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestScanRejectsUnknownFormat(t *testing.T) {
	db := newHandlerDB(t)
	r := scanRouter(db, ratelimit.NewMemoryStore(), config.OCRConfig{MaxImageBytes: 1 << 20, DailyScans: 10})

	payload := base64.StdEncoding.EncodeToString([]byte("plain text, not an image"))
	w := postScan(t, r, map[string]string{"image": payload})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := countEvents(t, db, models.SecSuspiciousUpload); got != 1 {
		t.Fatalf("suspicious-upload events = %d, want 1", got)
	}
}

func TestScanRejectsEmbeddedScript(t *testing.T) {
	db := newHandlerDB(t)
	r := scanRouter(db, ratelimit.NewMemoryStore(), config.OCRConfig{MaxImageBytes: 1 << 20, DailyScans: 10})

	img := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte("<script>alert(1)</script>")...)
	w := postScan(t, r, map[string]string{"image": base64.StdEncoding.EncodeToString(img)})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := countEvents(t, db, models.SecSuspiciousUpload); got != 1 {
		t.Fatalf("suspicious-upload events = %d, want 1", got)
	}
}

func TestScanDailyQuota(t *testing.T) {
	db := newHandlerDB(t)
	r := scanRouter(db, ratelimit.NewMemoryStore(), config.OCRConfig{MaxImageBytes: 1 << 20, DailyScans: 2})

	// each attempt counts against the quota even when validation fails
	for i := 0; i < 2; i++ {
		w := postScan(t, r, map[string]string{"image": "x"})
		if w.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d hit the quota early", i+1)
		}
	}

	w := postScan(t, r, map[string]string{"image": "x"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := countEvents(t, db, models.SecRateLimit); got != 1 {
		t.Fatalf("rate-limit events = %d, want 1", got)
	}
}

func TestScanOversizedImage(t *testing.T) {
	db := newHandlerDB(t)
	r := scanRouter(db, ratelimit.NewMemoryStore(), config.OCRConfig{MaxImageBytes: 8, DailyScans: 10})

	img := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...)
	w := postScan(t, r, map[string]string{"image": base64.StdEncoding.EncodeToString(img)})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	// size violations are client mistakes, not attacks
	if got := countEvents(t, db, models.SecSuspiciousUpload); got != 0 {
		t.Fatalf("suspicious-upload events = %d, want 0", got)
	}
}
