package handler

import (
	"net/http"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler serves user administration, permission grants and the audit
// and security logs. All routes are behind RequirePermission.
type AdminHandler struct {
	DB         *gorm.DB
	EncryptKey string
}

func NewAdminHandler(db *gorm.DB, encryptKey string) *AdminHandler {
	return &AdminHandler{DB: db, EncryptKey: encryptKey}
}

type adminUserResp struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	Closed      bool       `json:"closed"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ListUsers decrypts emails for display; the hash never leaves the server.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, size, offset := pageParams(c)

	var total int64
	if err := h.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	var users []models.User
	if err := h.DB.Order("id ASC").Limit(size).Offset(offset).Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]adminUserResp, 0, len(users))
	for i := range users {
		u := &users[i]
		items = append(items, adminUserResp{
			ID:          u.ID,
			Name:        u.Name,
			Email:       util.DecryptField(h.EncryptKey, u.EmailEnc),
			Role:        u.Role,
			LockedUntil: u.LockedUntil,
			LastLoginAt: u.LastLoginAt,
			Closed:      u.DeletedAt != nil,
			CreatedAt:   u.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

type lockUserReq struct {
	Minutes int `json:"minutes" binding:"required,min=1,max=10080"`
}

func (h *AdminHandler) LockUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req lockUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	until := time.Now().Add(time.Duration(req.Minutes) * time.Minute)
	res := h.DB.Model(&models.User{}).Where("id = ?", id).Update("locked_until", until)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}

	util.Success(c, util.Response{"message": "user locked", "until": until})
}

func (h *AdminHandler) UnlockUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	res := h.DB.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"locked_until":          nil,
		"failed_login_attempts": 0,
	})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}

	util.Success(c, util.Response{"message": "user unlocked"})
}

type roleReq struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

// UpdateRole changes a user's role. Admin routes stay gated on explicit
// permission grants, so the role alone opens nothing.
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req roleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.DB.Model(&models.User{}).Where("id = ?", id).Update("role", req.Role)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}

	util.Success(c, util.Response{"message": "role updated"})
}

// ---------- permissions ----------

func (h *AdminHandler) ListPermissions(c *gin.Context) {
	var perms []models.Permission
	if err := h.DB.Order("id ASC").Find(&perms).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	util.Success(c, util.Response{"items": perms})
}

type grantReq struct {
	UserID uint   `json:"user_id" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

func (h *AdminHandler) GrantPermission(c *gin.Context) {
	var req grantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var perm models.Permission
	if err := h.DB.Where("code = ?", req.Code).First(&perm).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "permission not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	var user models.User
	if err := h.DB.First(&user, req.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	grant := models.UserPermission{UserID: user.ID, PermissionID: perm.ID}
	// idempotent: the unique index makes a duplicate grant a no-op
	if err := h.DB.Where(&grant).FirstOrCreate(&grant).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"message": "permission granted"})
}

func (h *AdminHandler) RevokePermission(c *gin.Context) {
	var req grantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var perm models.Permission
	if err := h.DB.Where("code = ?", req.Code).First(&perm).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "permission not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	res := h.DB.Where("user_id = ? AND permission_id = ?", req.UserID, perm.ID).
		Delete(&models.UserPermission{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "grant not found")
		return
	}

	util.Success(c, util.Response{"message": "permission revoked"})
}

// ---------- audit & security logs ----------

func (h *AdminHandler) ListAuditLog(c *gin.Context) {
	page, size, offset := pageParams(c)

	base := h.DB.Model(&models.AuditLog{})
	if v := c.Query("user_id"); v != "" {
		base = base.Where("user_id = ?", v)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	var logs []models.AuditLog
	if err := base.Session(&gorm.Session{}).
		Order("id DESC").
		Limit(size).
		Offset(offset).
		Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{
		"items": logs,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

func (h *AdminHandler) ListSecurityEvents(c *gin.Context) {
	page, size, offset := pageParams(c)

	base := h.DB.Model(&models.SecurityEvent{})
	if v := c.Query("kind"); v != "" {
		base = base.Where("kind = ?", v)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	var events []models.SecurityEvent
	if err := base.Session(&gorm.Session{}).
		Order("id DESC").
		Limit(size).
		Offset(offset).
		Find(&events).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{
		"items": events,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
