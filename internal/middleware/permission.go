package middleware

import (
	"net/http"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequirePermission gates a route on an explicit permission grant. The
// response is a bare 403 with no hint about which resources exist.
func RequirePermission(db *gorm.DB, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		var count int64
		err := db.Model(&models.UserPermission{}).
			Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
			Where("user_permissions.user_id = ? AND permissions.code = ?", user.ID, code).
			Count(&count).Error
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "internal error")
			c.Abort()
			return
		}
		if count == 0 {
			util.Error(c, http.StatusForbidden, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}
