package handler

import (
	"net/http"
	"strings"

	"github.com/TeguiHD/Portafolio-sub005/internal/finance"
	"github.com/TeguiHD/Portafolio-sub005/internal/middleware"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler serves categories, categorization rules and the
// suggestion endpoint. Global categories are read-only here; users manage
// only their own.
type CategoryHandler struct {
	DB          *gorm.DB
	Categorizer *finance.Categorizer
}

func NewCategoryHandler(db *gorm.DB, categorizer *finance.Categorizer) *CategoryHandler {
	return &CategoryHandler{DB: db, Categorizer: categorizer}
}

// categoryUsable reports whether the category is global or owned by the
// user.
func categoryUsable(db *gorm.DB, userID, categoryID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Category{}).
		Where("id = ? AND (user_id IS NULL OR user_id = ?)", categoryID, userID).
		Count(&count).Error
	return count > 0, err
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var categories []models.Category
	err := h.DB.Where("user_id IS NULL OR user_id = ?", user.ID).
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"items": categories})
}

type categoryReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Type     string `json:"type" binding:"required,oneof=income expense"`
	Keywords string `json:"keywords" binding:"max=512"`
	Icon     string `json:"icon" binding:"max=32"`
	Color    string `json:"color" binding:"max=16"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	category := models.Category{
		UserID:   &user.ID,
		Name:     strings.TrimSpace(req.Name),
		Type:     req.Type,
		Keywords: strings.ToLower(strings.TrimSpace(req.Keywords)),
		Icon:     req.Icon,
		Color:    req.Color,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"category": category})
}

func (h *CategoryHandler) Update(c *gin.Context) {
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

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// global categories are not editable through the API
	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Type = req.Type
	category.Keywords = strings.ToLower(strings.TrimSpace(req.Keywords))
	category.Icon = req.Icon
	category.Color = req.Color
	if err := h.DB.Save(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"category": category})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
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

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Category{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "category not found")
		return
	}

	util.Success(c, util.Response{"message": "category deleted"})
}

// ---------- categorization rules ----------

func (h *CategoryHandler) ListRules(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var rules []models.CategoryRule
	err := h.DB.Where("user_id = ?", user.ID).
		Order("priority ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"items": rules})
}

type ruleReq struct {
	Pattern    string `json:"pattern" binding:"required,max=128"`
	MatchField string `json:"match_field" binding:"omitempty,oneof=merchant description any"`
	CategoryID uint   `json:"category_id" binding:"required"`
	Priority   int    `json:"priority"`
}

func (h *CategoryHandler) CreateRule(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ruleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
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

	if req.MatchField == "" {
		req.MatchField = models.RuleFieldAny
	}
	if req.Priority <= 0 {
		req.Priority = 100
	}

	rule := models.CategoryRule{
		UserID:     user.ID,
		Pattern:    strings.TrimSpace(req.Pattern),
		MatchField: req.MatchField,
		CategoryID: req.CategoryID,
		Priority:   req.Priority,
	}
	if err := h.DB.Create(&rule).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"rule": rule})
}

func (h *CategoryHandler) DeleteRule(c *gin.Context) {
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

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.CategoryRule{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "rule not found")
		return
	}

	util.Success(c, util.Response{"message": "rule deleted"})
}

// ---------- suggestion ----------

type suggestReq struct {
	Description string `json:"description" binding:"max=255"`
	Merchant    string `json:"merchant" binding:"max=128"`
}

// Suggest previews the category the auto-categorizer would pick.
func (h *CategoryHandler) Suggest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req suggestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	suggestion, err := h.Categorizer.Suggest(user.ID, req.Description, req.Merchant)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"suggestion": suggestion})
}
