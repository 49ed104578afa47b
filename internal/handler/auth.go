package handler

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/config"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	DB        *gorm.DB
	Security  config.SecurityConfig
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
	Log       *zap.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger) *AuthHandler {
	ttlHours := cfg.JWT.ExpireHours
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:        db,
		Security:  cfg.Security,
		JWTSecret: cfg.JWT.Secret,
		Issuer:    cfg.JWT.Issuer,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
		Log:       log,
	}
}

// ---------- register ----------

type registerReq struct {
	Name            string `json:"name" binding:"required,max=64"`
	Email           string `json:"email" binding:"required,max=128"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		util.ValidationError(c, "validation failed", map[string]string{"email": "invalid email address"})
		return
	}
	if !isStrongPassword(req.Password) {
		util.ValidationError(c, "validation failed", map[string]string{
			"password": "must be 8-32 characters with upper, lower and digit",
		})
		return
	}
	if req.Password != req.ConfirmPassword {
		util.ValidationError(c, "validation failed", map[string]string{"confirm_password": "passwords do not match"})
		return
	}

	emailHash := util.HashEmail(h.Security.EmailHashSalt, req.Email)

	var count int64
	if err := h.DB.Model(&models.User{}).Where("email_hash = ?", emailHash).Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if count > 0 {
		util.ValidationError(c, "validation failed", map[string]string{"email": "already registered"})
		return
	}

	cost := h.Security.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	emailEnc, err := util.EncryptField(h.Security.EncryptionKey, req.Email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		EmailHash:    emailHash,
		EmailEnc:     emailEnc,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		h.Log.Error("create user", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":   user.ID,
			"name": user.Name,
		},
	})
}

// 8-32 characters with upper, lower and digit
func isStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// ---------- login ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	emailHash := util.HashEmail(h.Security.EmailHashSalt, req.Email)

	var user models.User
	if err := h.DB.Where("email_hash = ?", emailHash).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, "invalid email or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	now := time.Now()

	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, "account locked, try again later")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= 5 {
			lockUntil := now.Add(10 * time.Minute)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0

			event := models.SecurityEvent{
				UserID: &user.ID,
				Kind:   models.SecLoginLockout,
				Detail: "five consecutive failed logins",
				IP:     c.ClientIP(),
			}
			_ = h.DB.Create(&event).Error
		}
		_ = h.DB.Save(&user).Error
		util.Error(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if user.DeletedAt != nil {
		util.Error(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	user.LastLoginIP = c.ClientIP()
	if err := h.DB.Save(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, user.Role, h.TokenTTL)
	if err != nil {
		h.Log.Error("generate token", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":   user.ID,
			"name": user.Name,
			"role": user.Role,
		},
	})
}
