package finance

import (
	"context"
	"sort"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyStat aggregates one day of a monthly report.
type DailyStat struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CategoryStat aggregates a category over the report range.
type CategoryStat struct {
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
}

// MonthlyReport is the per-month summary over non-deleted transactions.
// Transfers move money between the user's own accounts and are excluded
// from income/expense totals.
type MonthlyReport struct {
	Month        string          `json:"month"` // YYYY-MM
	Daily        []DailyStat     `json:"daily"`
	ByCategory   []CategoryStat  `json:"by_category"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

// Reporter derives read-only aggregates from the ledger.
type Reporter struct {
	db *gorm.DB
}

func NewReporter(db *gorm.DB) *Reporter {
	return &Reporter{db: db}
}

// Monthly builds the report for the month containing t.
func (r *Reporter) Monthly(ctx context.Context, userID uint, t time.Time) (*MonthlyReport, error) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0)

	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ? AND occurred_at >= ? AND occurred_at < ?",
			userID, false, start, end).
		Where("type <> ?", models.TxTransfer).
		Order("occurred_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Month:        start.Format("2006-01"),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	dailyMap := make(map[string]*DailyStat)
	catMap := make(map[uint]*CategoryStat)
	for i := range txs {
		tr := &txs[i]
		day := tr.OccurredAt.Format("2006-01-02")
		ds, ok := dailyMap[day]
		if !ok {
			ds = &DailyStat{Date: day}
			dailyMap[day] = ds
		}

		var cs *CategoryStat
		if tr.CategoryID != nil {
			cs, ok = catMap[*tr.CategoryID]
			if !ok {
				cs = &CategoryStat{CategoryID: *tr.CategoryID}
				catMap[*tr.CategoryID] = cs
			}
		}

		if tr.Type == models.TxIncome {
			ds.Income = ds.Income.Add(tr.Amount)
			report.TotalIncome = report.TotalIncome.Add(tr.Amount)
			if cs != nil {
				cs.Income = cs.Income.Add(tr.Amount)
			}
		} else {
			ds.Expense = ds.Expense.Add(tr.Amount)
			report.TotalExpense = report.TotalExpense.Add(tr.Amount)
			if cs != nil {
				cs.Expense = cs.Expense.Add(tr.Amount)
			}
		}
	}

	if len(catMap) > 0 {
		ids := make([]uint, 0, len(catMap))
		for id := range catMap {
			ids = append(ids, id)
		}
		var cats []models.Category
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cats).Error; err != nil {
			return nil, err
		}
		for i := range cats {
			if cs, ok := catMap[cats[i].ID]; ok {
				cs.Name = cats[i].Name
			}
		}
	}

	for _, ds := range dailyMap {
		ds.Net = ds.Income.Sub(ds.Expense)
		report.Daily = append(report.Daily, *ds)
	}
	sort.Slice(report.Daily, func(i, j int) bool {
		return report.Daily[i].Date < report.Daily[j].Date
	})

	for _, cs := range catMap {
		report.ByCategory = append(report.ByCategory, *cs)
	}
	sort.Slice(report.ByCategory, func(i, j int) bool {
		return report.ByCategory[i].Expense.GreaterThan(report.ByCategory[j].Expense)
	})

	report.Net = report.TotalIncome.Sub(report.TotalExpense)
	return report, nil
}

// periodStart returns the beginning of the current budget window.
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case models.PeriodWeekly:
		// back to Monday
		offset := (int(now.Weekday()) + 6) % 7
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return day.AddDate(0, 0, -offset)
	case models.PeriodYearly:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// BudgetSpent sums non-deleted expenses for the budget's category inside
// its current period window.
func (r *Reporter) BudgetSpent(ctx context.Context, b *models.Budget, now time.Time) (decimal.Decimal, error) {
	start := periodStart(b.Period, now)

	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND type = ? AND is_deleted = ? AND occurred_at >= ?",
			b.UserID, b.CategoryID, models.TxExpense, false, start).
		Find(&txs).Error
	if err != nil {
		return decimal.Zero, err
	}

	spent := decimal.Zero
	for i := range txs {
		spent = spent.Add(txs[i].Amount)
	}
	return spent, nil
}
