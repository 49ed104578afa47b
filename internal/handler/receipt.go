package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/config"
	"github.com/TeguiHD/Portafolio-sub005/internal/finance"
	"github.com/TeguiHD/Portafolio-sub005/internal/middleware"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/ocr"
	"github.com/TeguiHD/Portafolio-sub005/internal/ratelimit"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReceiptHandler accepts base64 receipt images, validates them locally and
// forwards them to the OCR model. It only returns structured fields for the
// client to confirm; it never creates transactions.
type ReceiptHandler struct {
	DB          *gorm.DB
	Scanner     *ocr.Scanner
	Categorizer *finance.Categorizer
	Limiter     ratelimit.Store
	OCR         config.OCRConfig
	Log         *zap.Logger
}

func NewReceiptHandler(db *gorm.DB, scanner *ocr.Scanner, categorizer *finance.Categorizer, limiter ratelimit.Store, cfg config.OCRConfig, log *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		DB:          db,
		Scanner:     scanner,
		Categorizer: categorizer,
		Limiter:     limiter,
		OCR:         cfg,
		Log:         log,
	}
}

type scanReq struct {
	Image string `json:"image" binding:"required"`
}

func (h *ReceiptHandler) securityEvent(c *gin.Context, userID uint, kind, detail string) {
	event := models.SecurityEvent{
		UserID: &userID,
		Kind:   kind,
		Detail: detail,
		IP:     c.ClientIP(),
	}
	_ = h.DB.Create(&event).Error
}

// Scan validates and OCRs one receipt image.
func (h *ReceiptHandler) Scan(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	// daily quota, counted before any expensive work
	quotaKey := fmt.Sprintf("ocr:%d", user.ID)
	count, _ := h.Limiter.Incr(quotaKey, 24*time.Hour)
	if count > h.OCR.DailyScans {
		h.securityEvent(c, user.ID, models.SecRateLimit, "ocr daily quota exceeded")
		util.Error(c, http.StatusTooManyRequests, "daily scan limit reached")
		return
	}

	var req scanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		util.ValidationError(c, "validation failed", map[string]string{"image": "invalid base64"})
		return
	}

	mime, err := ocr.ValidateImage(data, h.OCR.MaxImageBytes)
	if err != nil {
		if errors.Is(err, ocr.ErrSuspiciousContent) || errors.Is(err, ocr.ErrUnknownFormat) {
			h.securityEvent(c, user.ID, models.SecSuspiciousUpload, err.Error())
		}
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	scanID := uuid.NewString()
	receipt, err := h.Scanner.Scan(c.Request.Context(), data, mime)
	if err != nil {
		h.Log.Error("receipt scan failed", zap.String("scan_id", scanID), zap.Error(err))
		util.Error(c, http.StatusInternalServerError, "receipt scan failed")
		return
	}

	// advisory category for the client to pre-select
	suggestion, err := h.Categorizer.Suggest(user.ID, "", receipt.Merchant)
	if err != nil {
		h.Log.Warn("receipt suggestion failed", zap.Error(err))
		suggestion = nil
	}

	util.Success(c, util.Response{
		"scan_id":    scanID,
		"receipt":    receipt,
		"suggestion": suggestion,
	})
}
