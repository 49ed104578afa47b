package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/finance"
	"github.com/TeguiHD/Portafolio-sub005/internal/middleware"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"
)

// ReportHandler serves monthly summaries and the rendered expense chart.
type ReportHandler struct {
	Reporter *finance.Reporter
	Log      *zap.Logger
}

func NewReportHandler(reporter *finance.Reporter, log *zap.Logger) *ReportHandler {
	return &ReportHandler{Reporter: reporter, Log: log}
}

func reportMonth(c *gin.Context) (time.Time, bool) {
	monthStr := c.Query("month")
	if monthStr == "" {
		return time.Now(), true
	}
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Monthly returns the per-day and per-category summary for ?month=YYYY-MM
// (default: current month).
func (h *ReportHandler) Monthly(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	month, ok := reportMonth(c)
	if !ok {
		util.ValidationError(c, "validation failed", map[string]string{"month": "expected YYYY-MM"})
		return
	}

	report, err := h.Reporter.Monthly(c.Request.Context(), user.ID, month)
	if err != nil {
		h.Log.Error("monthly report", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	util.Success(c, util.Response{"report": report})
}

// MonthlyChart renders the month's expenses by category as a PNG pie chart.
func (h *ReportHandler) MonthlyChart(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	month, ok := reportMonth(c)
	if !ok {
		util.ValidationError(c, "validation failed", map[string]string{"month": "expected YYYY-MM"})
		return
	}

	report, err := h.Reporter.Monthly(c.Request.Context(), user.ID, month)
	if err != nil {
		h.Log.Error("monthly report", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	values := make([]chart.Value, 0, len(report.ByCategory))
	for _, cs := range report.ByCategory {
		if cs.Expense.IsZero() {
			continue
		}
		label := cs.Name
		if label == "" {
			label = "other"
		}
		v, _ := cs.Expense.Float64()
		values = append(values, chart.Value{Value: v, Label: label})
	}
	if len(values) == 0 {
		util.Error(c, http.StatusNotFound, "no expenses in this month")
		return
	}

	pie := chart.PieChart{
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		h.Log.Error("render chart", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
