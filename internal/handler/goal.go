package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/middleware"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GoalHandler serves savings goals.
type GoalHandler struct {
	DB *gorm.DB
}

func NewGoalHandler(db *gorm.DB) *GoalHandler {
	return &GoalHandler{DB: db}
}

func (h *GoalHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var goals []models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).Order("id ASC").Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"items": goals})
}

type goalReq struct {
	Name         string `json:"name" binding:"required,max=64"`
	TargetAmount string `json:"target_amount" binding:"required"`
	Deadline     string `json:"deadline"`
}

func (h *GoalHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := util.ParseAmount(req.TargetAmount)
	if err != nil {
		util.ValidationError(c, "validation failed", map[string]string{"target_amount": err.Error()})
		return
	}

	goal := models.Goal{
		UserID:       user.ID,
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: target,
	}
	if req.Deadline != "" {
		d, err := util.ParseDate(req.Deadline)
		if err != nil {
			util.ValidationError(c, "validation failed", map[string]string{"deadline": "expected YYYY-MM-DD"})
			return
		}
		goal.Deadline = &d
	}

	if err := h.DB.Create(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"goal": goal})
}

type contributeReq struct {
	Amount string `json:"amount" binding:"required"`
}

// Contribute adds to the goal's progress and stamps AchievedAt when the
// target is reached.
func (h *GoalHandler) Contribute(c *gin.Context) {
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

	var req contributeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.ValidationError(c, "validation failed", map[string]string{"amount": err.Error()})
		return
	}

	var goal models.Goal
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, user.ID).First(&goal).Error; err != nil {
			return err
		}
		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		if goal.AchievedAt == nil && goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			now := time.Now()
			goal.AchievedAt = &now
		}
		return tx.Save(&goal).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "goal not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	util.Success(c, util.Response{"goal": goal})
}

func (h *GoalHandler) Delete(c *gin.Context) {
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

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Goal{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "goal not found")
		return
	}

	util.Success(c, util.Response{"message": "goal deleted"})
}
