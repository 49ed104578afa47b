package handler

import (
	"net/http"
	"strings"

	"github.com/TeguiHD/Portafolio-sub005/internal/middleware"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetMe returns the current user's profile. The email is decrypted for
// display only, never exposed elsewhere.
func GetMe(encryptKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "authentication required")
			return
		}

		util.Success(c, util.Response{
			"user": gin.H{
				"id":         user.ID,
				"name":       user.Name,
				"email":      util.DecryptField(encryptKey, user.EmailEnc),
				"role":       user.Role,
				"created_at": user.CreatedAt,
			},
		})
	}
}

type updateProfileReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

// UpdateProfile updates the display name.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "authentication required")
			return
		}

		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}

		name := strings.TrimSpace(req.Name)
		if err := db.Model(user).Update("name", name).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		user.Name = name

		util.Success(c, util.Response{
			"user": gin.H{"id": user.ID, "name": user.Name},
		})
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword verifies the old password before replacing it.
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "authentication required")
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			util.Error(c, http.StatusBadRequest, "current password is incorrect")
			return
		}
		if !isStrongPassword(req.NewPassword) {
			util.ValidationError(c, "validation failed", map[string]string{
				"new_password": "must be 8-32 characters with upper, lower and digit",
			})
			return
		}

		cost := bcryptCost
		if cost <= 0 {
			cost = bcrypt.DefaultCost
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), cost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}

		if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			return
		}

		util.Success(c, util.Response{"message": "password updated"})
	}
}
