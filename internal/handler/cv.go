package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CVHandler serves the public CV (Markdown rendered to HTML) and its admin
// editor.
type CVHandler struct {
	DB  *gorm.DB
	md  goldmark.Markdown
	Log *zap.Logger
}

func NewCVHandler(db *gorm.DB, log *zap.Logger) *CVHandler {
	return &CVHandler{
		DB:  db,
		md:  goldmark.New(),
		Log: log,
	}
}

type cvSectionResp struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Get is public: visible sections in order, rendered to HTML.
func (h *CVHandler) Get(c *gin.Context) {
	var sections []models.CVSection
	err := h.DB.Where("visible = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&sections).Error
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]cvSectionResp, 0, len(sections))
	for i := range sections {
		var buf bytes.Buffer
		if err := h.md.Convert([]byte(sections[i].Body), &buf); err != nil {
			h.Log.Error("render cv section", zap.String("slug", sections[i].Slug), zap.Error(err))
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		items = append(items, cvSectionResp{
			Slug:  sections[i].Slug,
			Title: sections[i].Title,
			HTML:  buf.String(),
		})
	}

	util.Success(c, util.Response{"sections": items})
}

// ListSections is admin-only (cv.manage): raw Markdown including hidden
// sections.
func (h *CVHandler) ListSections(c *gin.Context) {
	var sections []models.CVSection
	if err := h.DB.Order("sort_order ASC, id ASC").Find(&sections).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, util.Response{"items": sections})
}

type cvSectionReq struct {
	Slug      string `json:"slug" binding:"required,max=64"`
	Title     string `json:"title" binding:"required,max=128"`
	Body      string `json:"body"`
	SortOrder int    `json:"sort_order"`
	Visible   *bool  `json:"visible"`
}

func (h *CVHandler) CreateSection(c *gin.Context) {
	var req cvSectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}
	section := models.CVSection{
		Slug:      strings.ToLower(strings.TrimSpace(req.Slug)),
		Title:     strings.TrimSpace(req.Title),
		Body:      req.Body,
		SortOrder: req.SortOrder,
		Visible:   visible,
	}
	if err := h.DB.Create(&section).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"section": section})
}

func (h *CVHandler) UpdateSection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req cvSectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var section models.CVSection
	if err := h.DB.First(&section, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "section not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	section.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	section.Title = strings.TrimSpace(req.Title)
	section.Body = req.Body
	section.SortOrder = req.SortOrder
	if req.Visible != nil {
		section.Visible = *req.Visible
	}
	if err := h.DB.Save(&section).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"section": section})
}

func (h *CVHandler) DeleteSection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	res := h.DB.Delete(&models.CVSection{}, id)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "section not found")
		return
	}

	util.Success(c, util.Response{"message": "section deleted"})
}
