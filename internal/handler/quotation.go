package handler

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/ratelimit"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// submissions per IP per hour on the public contact form
const quoteLimit = 5

// QuotationHandler serves the public contact/quote form and its admin
// management endpoints.
type QuotationHandler struct {
	DB      *gorm.DB
	Limiter ratelimit.Store
}

func NewQuotationHandler(db *gorm.DB, limiter ratelimit.Store) *QuotationHandler {
	return &QuotationHandler{DB: db, Limiter: limiter}
}

type quotationReq struct {
	Name    string `json:"name" binding:"required,max=64"`
	Email   string `json:"email" binding:"required,max=128"`
	Subject string `json:"subject" binding:"max=128"`
	Message string `json:"message" binding:"required,max=4000"`
}

// Create is public and rate-limited per IP.
func (h *QuotationHandler) Create(c *gin.Context) {
	ip := c.ClientIP()
	count, _ := h.Limiter.Incr("quote:"+ip, time.Hour)
	if count > quoteLimit {
		event := models.SecurityEvent{
			Kind:   models.SecRateLimit,
			Detail: "quotation form flood",
			IP:     ip,
		}
		_ = h.DB.Create(&event).Error
		util.Error(c, http.StatusTooManyRequests, "too many requests")
		return
	}

	var req quotationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		util.ValidationError(c, "validation failed", map[string]string{"email": "invalid email address"})
		return
	}

	quote := models.Quotation{
		Reference: uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		Status:    models.QuoteNew,
		IP:        ip,
	}
	if err := h.DB.Create(&quote).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"reference": quote.Reference})
}

// List is admin-only (quotations.manage).
func (h *QuotationHandler) List(c *gin.Context) {
	page, size, offset := pageParams(c)

	base := h.DB.Model(&models.Quotation{})
	if v := c.Query("status"); v != "" {
		base = base.Where("status = ?", v)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	var quotes []models.Quotation
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(size).
		Offset(offset).
		Find(&quotes).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{
		"items": quotes,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

type quoteStatusReq struct {
	Status string `json:"status" binding:"required,oneof=new read replied archived"`
}

// UpdateStatus is admin-only (quotations.manage).
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req quoteStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.DB.Model(&models.Quotation{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "quotation not found")
		return
	}

	util.Success(c, util.Response{"message": "status updated"})
}
