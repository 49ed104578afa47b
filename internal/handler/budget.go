package handler

import (
	"net/http"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/finance"
	"github.com/TeguiHD/Portafolio-sub005/internal/middleware"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetHandler serves budget CRUD. Spent amounts are derived at read time
// from non-deleted expenses, never stored.
type BudgetHandler struct {
	DB       *gorm.DB
	Reporter *finance.Reporter
}

func NewBudgetHandler(db *gorm.DB, reporter *finance.Reporter) *BudgetHandler {
	return &BudgetHandler{DB: db, Reporter: reporter}
}

type budgetResp struct {
	ID         uint            `json:"id"`
	CategoryID uint            `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Period     string          `json:"period"`
	StartDate  time.Time       `json:"start_date"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
}

func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).Order("id ASC").Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now()
	items := make([]budgetResp, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		spent, err := h.Reporter.BudgetSpent(c.Request.Context(), b, now)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		items = append(items, budgetResp{
			ID:         b.ID,
			CategoryID: b.CategoryID,
			Amount:     b.Amount,
			Period:     b.Period,
			StartDate:  b.StartDate,
			Spent:      spent,
			Remaining:  b.Amount.Sub(spent),
		})
	}

	util.Success(c, util.Response{"items": items})
}

type budgetReq struct {
	CategoryID uint   `json:"category_id" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	Period     string `json:"period" binding:"omitempty,oneof=weekly monthly yearly"`
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.ValidationError(c, "validation failed", map[string]string{"amount": err.Error()})
		return
	}

	usable, err := categoryUsable(h.DB, user.ID, req.CategoryID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if !usable {
		util.Error(c, http.StatusNotFound, "category not found")
		return
	}

	if req.Period == "" {
		req.Period = models.PeriodMonthly
	}

	budget := models.Budget{
		UserID:     user.ID,
		CategoryID: req.CategoryID,
		Amount:     amount,
		Period:     req.Period,
		StartDate:  time.Now(),
	}
	if err := h.DB.Create(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"budget": budget})
}

func (h *BudgetHandler) Update(c *gin.Context) {
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

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.ValidationError(c, "validation failed", map[string]string{"amount": err.Error()})
		return
	}

	var budget models.Budget
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&budget).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "budget not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	budget.Amount = amount
	if req.Period != "" {
		budget.Period = req.Period
	}
	if err := h.DB.Save(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"budget": budget})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
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

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Budget{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "budget not found")
		return
	}

	util.Success(c, util.Response{"message": "budget deleted"})
}
