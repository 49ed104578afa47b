package router

import (
	"github.com/TeguiHD/Portafolio-sub005/internal/config"
	"github.com/TeguiHD/Portafolio-sub005/internal/finance"
	"github.com/TeguiHD/Portafolio-sub005/internal/handler"
	"github.com/TeguiHD/Portafolio-sub005/internal/middleware"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/ocr"
	"github.com/TeguiHD/Portafolio-sub005/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter wires services, middleware and the API route table.
func SetupRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()

	limiter := ratelimit.NewMemoryStore()
	r.Use(
		middleware.RequestLogger(log),
		gin.Recovery(),
		middleware.SecurityMiddleware(db, limiter, cfg.Security.ThreatThreshold, log),
	)

	converter := finance.NewConverter(db)
	ledger := finance.NewLedger(db, converter, log)
	categorizer := finance.NewCategorizer(db)
	reporter := finance.NewReporter(db)
	scanner := ocr.NewScanner(cfg.OCR.Model)

	api := r.Group("/api")

	// public
	authHandler := handler.NewAuthHandler(db, cfg, log)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	quoteHandler := handler.NewQuotationHandler(db, limiter)
	api.POST("/quotations", quoteHandler.Create)

	cvHandler := handler.NewCVHandler(db, log)
	api.GET("/cv", cvHandler.Get)

	// authenticated
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe(cfg.Security.EncryptionKey))
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))

	accountHandler := handler.NewAccountHandler(db)
	protected.GET("/accounts", accountHandler.List)
	protected.POST("/accounts", accountHandler.Create)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.POST("/accounts/:id/default", accountHandler.SetDefault)
	protected.DELETE("/accounts/:id", accountHandler.Archive)

	txHandler := handler.NewTransactionHandler(db, ledger, categorizer, log)
	protected.GET("/transactions", txHandler.List)
	protected.POST("/transactions", txHandler.Create)
	protected.PUT("/transactions/:id", txHandler.Update)
	protected.DELETE("/transactions/:id", txHandler.Delete)

	categoryHandler := handler.NewCategoryHandler(db, categorizer)
	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)
	protected.GET("/categories/rules", categoryHandler.ListRules)
	protected.POST("/categories/rules", categoryHandler.CreateRule)
	protected.DELETE("/categories/rules/:id", categoryHandler.DeleteRule)
	protected.POST("/categories/suggest", categoryHandler.Suggest)

	budgetHandler := handler.NewBudgetHandler(db, reporter)
	protected.GET("/budgets", budgetHandler.List)
	protected.POST("/budgets", budgetHandler.Create)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)

	goalHandler := handler.NewGoalHandler(db)
	protected.GET("/goals", goalHandler.List)
	protected.POST("/goals", goalHandler.Create)
	protected.POST("/goals/:id/contribute", goalHandler.Contribute)
	protected.DELETE("/goals/:id", goalHandler.Delete)

	reportHandler := handler.NewReportHandler(reporter, log)
	protected.GET("/reports/monthly", reportHandler.Monthly)
	protected.GET("/reports/monthly/chart", reportHandler.MonthlyChart)

	receiptHandler := handler.NewReceiptHandler(db, scanner, categorizer, limiter, cfg.OCR, log)
	protected.POST("/receipts/scan", receiptHandler.Scan)

	// admin, gated per permission
	adminHandler := handler.NewAdminHandler(db, cfg.Security.EncryptionKey)
	admin := protected.Group("/admin")

	users := admin.Group("", middleware.RequirePermission(db, models.PermManageUsers))
	users.GET("/users", adminHandler.ListUsers)
	users.POST("/users/:id/lock", adminHandler.LockUser)
	users.POST("/users/:id/unlock", adminHandler.UnlockUser)
	users.PUT("/users/:id/role", adminHandler.UpdateRole)

	perms := admin.Group("", middleware.RequirePermission(db, models.PermManagePerms))
	perms.GET("/permissions", adminHandler.ListPermissions)
	perms.POST("/permissions/grant", adminHandler.GrantPermission)
	perms.POST("/permissions/revoke", adminHandler.RevokePermission)

	admin.GET("/audit-log", middleware.RequirePermission(db, models.PermViewAuditLog), adminHandler.ListAuditLog)
	admin.GET("/security-events", middleware.RequirePermission(db, models.PermViewSecurityLog), adminHandler.ListSecurityEvents)

	quotes := admin.Group("", middleware.RequirePermission(db, models.PermManageQuotes))
	quotes.GET("/quotations", quoteHandler.List)
	quotes.PUT("/quotations/:id", quoteHandler.UpdateStatus)

	cv := admin.Group("", middleware.RequirePermission(db, models.PermManageCV))
	cv.GET("/cv/sections", cvHandler.ListSections)
	cv.POST("/cv/sections", cvHandler.CreateSection)
	cv.PUT("/cv/sections/:id", cvHandler.UpdateSection)
	cv.DELETE("/cv/sections/:id", cvHandler.DeleteSection)

	return r
}
