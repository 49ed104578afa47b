package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/ratelimit"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// threatWindow is how long injection-pattern hits count against an IP.
const threatWindow = time.Hour

// patterns that only appear in probing traffic, never in legitimate API use
var injectionPatterns = []string{
	"union select",
	"information_schema",
	"<script",
	"<?php",
	"../../",
	"etc/passwd",
	"sleep(",
}

// SecurityMiddleware scans the query string for injection patterns. A hit
// is rejected with 400, recorded as a SecurityEvent, and raises the per-IP
// threat score; an IP over the threshold gets 429 for the rest of the
// window regardless of payload.
func SecurityMiddleware(db *gorm.DB, store ratelimit.Store, threshold int, log *zap.Logger) gin.HandlerFunc {
	if threshold <= 0 {
		threshold = 10
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		raw := strings.ToLower(c.Request.URL.RawQuery)

		var matched string
		for _, p := range injectionPatterns {
			if strings.Contains(raw, p) {
				matched = p
				break
			}
		}
		if matched == "" {
			c.Next()
			return
		}

		score, _ := store.Incr("threat:"+ip, threatWindow)

		// runs before authentication, so events are attributed by IP only
		event := models.SecurityEvent{
			Kind:   models.SecInjectionPattern,
			Detail: "pattern " + matched + " in " + c.Request.URL.Path,
			IP:     ip,
		}
		_ = db.Create(&event).Error

		log.Warn("injection pattern rejected",
			zap.String("ip", ip),
			zap.String("pattern", matched),
			zap.Int("threat_score", score))

		if score > threshold {
			util.Error(c, http.StatusTooManyRequests, "too many requests")
		} else {
			util.Error(c, http.StatusBadRequest, "invalid request")
		}
		c.Abort()
	}
}

// RequestLogger replaces gin.Logger with structured zap output.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()))
	}
}
