package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/finance"
	"github.com/TeguiHD/Portafolio-sub005/internal/middleware"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TransactionHandler exposes the ledger over HTTP.
type TransactionHandler struct {
	DB          *gorm.DB
	Ledger      *finance.Ledger
	Categorizer *finance.Categorizer
	Log         *zap.Logger
}

func NewTransactionHandler(db *gorm.DB, ledger *finance.Ledger, categorizer *finance.Categorizer, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{DB: db, Ledger: ledger, Categorizer: categorizer, Log: log}
}

type transactionResp struct {
	ID               uint             `json:"id"`
	AccountID        uint             `json:"account_id"`
	ToAccountID      *uint            `json:"to_account_id,omitempty"`
	CategoryID       *uint            `json:"category_id,omitempty"`
	Type             string           `json:"type"`
	Amount           decimal.Decimal  `json:"amount"`
	OriginalAmount   *decimal.Decimal `json:"original_amount,omitempty"`
	OriginalCurrency string           `json:"original_currency,omitempty"`
	ExchangeRate     *decimal.Decimal `json:"exchange_rate,omitempty"`
	Description      string           `json:"description"`
	Merchant         string           `json:"merchant"`
	OccurredAt       time.Time        `json:"occurred_at"`
	CreatedAt        time.Time        `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:               t.ID,
		AccountID:        t.AccountID,
		ToAccountID:      t.ToAccountID,
		CategoryID:       t.CategoryID,
		Type:             t.Type,
		Amount:           t.Amount,
		OriginalAmount:   t.OriginalAmount,
		OriginalCurrency: t.OriginalCurrency,
		ExchangeRate:     t.ExchangeRate,
		Description:      t.Description,
		Merchant:         t.Merchant,
		OccurredAt:       t.OccurredAt,
		CreatedAt:        t.CreatedAt,
	}
}

// ledgerError maps finance sentinels onto HTTP statuses; anything
// unrecognized is logged and hidden behind a 500.
func (h *TransactionHandler) ledgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, finance.ErrAccountNotFound):
		util.Error(c, http.StatusNotFound, "account not found")
	case errors.Is(err, finance.ErrTransactionNotFound):
		util.Error(c, http.StatusNotFound, "transaction not found")
	case errors.Is(err, finance.ErrCurrencyNotFound):
		util.Error(c, http.StatusBadRequest, "unknown currency")
	case errors.Is(err, finance.ErrMissingDestination),
		errors.Is(err, finance.ErrSameAccountTransfer),
		errors.Is(err, finance.ErrInvalidType),
		errors.Is(err, finance.ErrInvalidAmount):
		util.Error(c, http.StatusBadRequest, err.Error())
	default:
		h.Log.Error("ledger operation failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, "internal error")
	}
}

type createTransactionReq struct {
	AccountID   uint   `json:"account_id" binding:"required"`
	ToAccountID *uint  `json:"to_account_id"`
	CategoryID  *uint  `json:"category_id"`
	Type        string `json:"type" binding:"required,oneof=income expense transfer"`
	Amount      string `json:"amount" binding:"required"`
	Currency    string `json:"currency"`
	Description string `json:"description" binding:"max=255"`
	Merchant    string `json:"merchant" binding:"max=128"`
	OccurredAt  string `json:"occurred_at"`
}

func parseOccurredAt(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.ValidationError(c, "validation failed", map[string]string{"amount": err.Error()})
		return
	}

	categoryID := req.CategoryID
	var suggestion *finance.Suggestion
	if categoryID == nil && req.Type != models.TxTransfer {
		// advisory only: a failed suggestion never blocks the create
		suggestion, err = h.Categorizer.Suggest(user.ID, req.Description, req.Merchant)
		if err != nil {
			h.Log.Warn("category suggestion failed", zap.Error(err))
			suggestion = nil
		}
		if suggestion != nil {
			categoryID = &suggestion.CategoryID
		}
	}

	created, err := h.Ledger.Create(c.Request.Context(), finance.CreateInput{
		UserID:      user.ID,
		AccountID:   req.AccountID,
		ToAccountID: req.ToAccountID,
		CategoryID:  categoryID,
		Type:        req.Type,
		Amount:      amount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Description: strings.TrimSpace(req.Description),
		Merchant:    strings.TrimSpace(req.Merchant),
		OccurredAt:  parseOccurredAt(req.OccurredAt),
	})
	if err != nil {
		h.ledgerError(c, err)
		return
	}

	resp := util.Response{"transaction": toTransactionResp(created)}
	if suggestion != nil {
		resp["suggestion"] = suggestion
	}
	util.Success(c, resp)
}

type updateTransactionReq struct {
	AccountID   uint   `json:"account_id" binding:"required"`
	ToAccountID *uint  `json:"to_account_id"`
	CategoryID  *uint  `json:"category_id"`
	Type        string `json:"type" binding:"required,oneof=income expense transfer"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"max=255"`
	Merchant    string `json:"merchant" binding:"max=128"`
	OccurredAt  string `json:"occurred_at"`
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := idParam(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.ValidationError(c, "validation failed", map[string]string{"amount": err.Error()})
		return
	}

	var occurredAt time.Time
	if req.OccurredAt != "" {
		occurredAt = parseOccurredAt(req.OccurredAt)
	}

	updated, err := h.Ledger.Update(c.Request.Context(), user.ID, id, finance.UpdateInput{
		AccountID:   req.AccountID,
		ToAccountID: req.ToAccountID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Amount:      amount,
		Description: strings.TrimSpace(req.Description),
		Merchant:    strings.TrimSpace(req.Merchant),
		OccurredAt:  occurredAt,
	})
	if err != nil {
		h.ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{"transaction": toTransactionResp(updated)})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := idParam(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Ledger.SoftDelete(c.Request.Context(), user.ID, id); err != nil {
		h.ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{"message": "transaction deleted"})
}

// List returns non-deleted transactions with filters: account_id, type,
// category_id, start/end dates, pagination and sorting.
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	page, size, offset := pageParams(c)

	base := h.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND is_deleted = ?", user.ID, false)

	if v := c.Query("account_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			base = base.Where("(account_id = ? OR to_account_id = ?)", id, id)
		}
	}
	if v := c.Query("type"); v == models.TxIncome || v == models.TxExpense || v == models.TxTransfer {
		base = base.Where("type = ?", v)
	}
	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			base = base.Where("category_id = ?", id)
		}
	}
	if v := c.Query("start"); v != "" {
		start, err := util.ParseDate(v)
		if err != nil {
			util.ValidationError(c, "validation failed", map[string]string{"start": "expected YYYY-MM-DD"})
			return
		}
		base = base.Where("occurred_at >= ?", start)
	}
	if v := c.Query("end"); v != "" {
		end, err := util.ParseDate(v)
		if err != nil {
			util.ValidationError(c, "validation failed", map[string]string{"end": "expected YYYY-MM-DD"})
			return
		}
		// end date is inclusive: < end+1d
		base = base.Where("occurred_at < ?", end.Add(24*time.Hour))
	}

	orderBy := "occurred_at DESC, id DESC"
	switch c.DefaultQuery("sort", "date_desc") {
	case "date_asc":
		orderBy = "occurred_at ASC, id ASC"
	case "amount_desc":
		orderBy = "amount DESC, id DESC"
	case "amount_asc":
		orderBy = "amount ASC, id ASC"
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	var txs []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Order(orderBy).
		Limit(size).
		Offset(offset).
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]transactionResp, 0, len(txs))
	for i := range txs {
		items = append(items, toTransactionResp(&txs[i]))
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
