package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/middleware"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountHandler serves account CRUD. Balances are owned by the ledger
// service; this handler only ever sets them at creation time.
type AccountHandler struct {
	DB *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{DB: db}
}

type accountResp struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	CurrencyCode   string          `json:"currency_code"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsDefault      bool            `json:"is_default"`
	Archived       bool            `json:"archived"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toAccountResp(a *models.Account) accountResp {
	return accountResp{
		ID:             a.ID,
		Name:           a.Name,
		CurrencyCode:   a.CurrencyCode,
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.CurrentBalance,
		IsDefault:      a.IsDefault,
		Archived:       a.ArchivedAt != nil,
		CreatedAt:      a.CreatedAt,
	}
}

func (h *AccountHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).Order("id ASC").Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResp(&accounts[i]))
	}
	util.Success(c, util.Response{"items": items})
}

type createAccountReq struct {
	Name           string `json:"name" binding:"required,max=64"`
	CurrencyCode   string `json:"currency_code" binding:"required"`
	InitialBalance string `json:"initial_balance"`
	IsDefault      bool   `json:"is_default"`
}

func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	var count int64
	if err := h.DB.Model(&models.Currency{}).Where("code = ?", code).Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if count == 0 {
		util.ValidationError(c, "validation failed", map[string]string{"currency_code": "unknown currency"})
		return
	}

	initial := decimal.Zero
	if req.InitialBalance != "" {
		d, err := decimal.NewFromString(req.InitialBalance)
		if err != nil {
			util.ValidationError(c, "validation failed", map[string]string{"initial_balance": "invalid amount"})
			return
		}
		initial = d
	}

	account := models.Account{
		UserID:         user.ID,
		Name:           strings.TrimSpace(req.Name),
		CurrencyCode:   code,
		InitialBalance: initial,
		CurrentBalance: initial,
		IsDefault:      req.IsDefault,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			// at most one default per user
			if err := tx.Model(&models.Account{}).
				Where("user_id = ?", user.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"account": toAccountResp(&account)})
}

type updateAccountReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

func (h *AccountHandler) Update(c *gin.Context) {
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

	var req updateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	account.Name = strings.TrimSpace(req.Name)
	if err := h.DB.Save(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"account": toAccountResp(&account)})
}

// SetDefault marks one account as the user's default, clearing any other
// default in the same transaction.
func (h *AccountHandler) SetDefault(c *gin.Context) {
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

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Where("id = ? AND user_id = ?", id, user.ID).First(&account).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Account{}).
			Where("user_id = ?", user.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&account).Update("is_default", true).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	util.Success(c, util.Response{"message": "default account updated"})
}

// Archive hides an account from new activity. Transactions referencing it
// are kept; hard deletion would orphan the history.
func (h *AccountHandler) Archive(c *gin.Context) {
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

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	now := time.Now()
	if err := h.DB.Model(&account).Updates(map[string]interface{}{
		"archived_at": now,
		"is_default":  false,
	}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"message": "account archived"})
}
