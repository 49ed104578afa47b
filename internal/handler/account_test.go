package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func accountRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("currentUser", &models.User{ID: userID, Name: "tester"})
	})
	h := NewAccountHandler(db)
	r.POST("/accounts", h.Create)
	r.POST("/accounts/:id/default", h.SetDefault)
	return r
}

func seedAccount(t *testing.T, db *gorm.DB, userID uint, name string, isDefault bool) *models.Account {
	t.Helper()
	acct := models.Account{
		UserID:       userID,
		Name:         name,
		CurrencyCode: "USD",
		IsDefault:    isDefault,
	}
	if err := db.Create(&acct).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	return &acct
}

func defaultCount(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	err := db.Model(&models.Account{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&n).Error
	if err != nil {
		t.Fatalf("count defaults: %v", err)
	}
	return n
}

func TestSetDefaultClearsPriorDefault(t *testing.T) {
	db := newHandlerDB(t)
	if err := db.AutoMigrate(&models.Currency{}, &models.Account{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	r := accountRouter(db, 1)

	a := seedAccount(t, db, 1, "checking", true)
	b := seedAccount(t, db, 1, "savings", false)
	theirs := seedAccount(t, db, 2, "other", true)

	req := httptest.NewRequest(http.MethodPost, "/accounts/"+itoa(b.ID)+"/default", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if got := defaultCount(t, db, 1); got != 1 {
		t.Fatalf("defaults for user 1 = %d, want 1", got)
	}
	var reloaded models.Account
	if err := db.First(&reloaded, b.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IsDefault {
		t.Fatal("new default not set")
	}
	var reloadedA models.Account
	if err := db.First(&reloadedA, a.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloadedA.IsDefault {
		t.Fatal("prior default not cleared")
	}

	// other users' defaults are out of scope
	var reloadedTheirs models.Account
	if err := db.First(&reloadedTheirs, theirs.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloadedTheirs.IsDefault {
		t.Fatal("another user's default was cleared")
	}
}

func TestSetDefaultForeignAccount(t *testing.T) {
	db := newHandlerDB(t)
	if err := db.AutoMigrate(&models.Currency{}, &models.Account{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	r := accountRouter(db, 1)

	mine := seedAccount(t, db, 1, "checking", true)
	theirs := seedAccount(t, db, 2, "other", false)

	req := httptest.NewRequest(http.MethodPost, "/accounts/"+itoa(theirs.ID)+"/default", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var reloaded models.Account
	if err := db.First(&reloaded, mine.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IsDefault {
		t.Fatal("own default lost on failed request")
	}
}

func TestCreateDefaultAccountClearsPrior(t *testing.T) {
	db := newHandlerDB(t)
	if err := db.AutoMigrate(&models.Currency{}, &models.Account{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&models.Currency{Code: "USD", Name: "US Dollar", RateToBase: decimal.NewFromInt(1), IsBase: true}).Error; err != nil {
		t.Fatalf("seed currency: %v", err)
	}
	r := accountRouter(db, 1)

	prior := seedAccount(t, db, 1, "checking", true)

	body, err := json.Marshal(map[string]interface{}{
		"name":          "savings",
		"currency_code": "USD",
		"is_default":    true,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if got := defaultCount(t, db, 1); got != 1 {
		t.Fatalf("defaults = %d, want 1", got)
	}
	var reloaded models.Account
	if err := db.First(&reloaded, prior.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.IsDefault {
		t.Fatal("prior default not cleared on create")
	}
}
