package finance

import (
	"context"
	"testing"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func addTx(t *testing.T, db *gorm.DB, userID, accountID uint, catID *uint, txType string, amount int64, occurred time.Time, deleted bool) {
	t.Helper()
	row := models.Transaction{
		UserID:     userID,
		AccountID:  accountID,
		CategoryID: catID,
		Type:       txType,
		Amount:     decimal.NewFromInt(amount),
		OccurredAt: occurred,
		IsDeleted:  deleted,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create tx: %v", err)
	}
}

func TestMonthlyReport(t *testing.T) {
	db := newTestDB(t)
	seedCurrencies(t, db)
	acct := newAccount(t, db, 1, "USD", 0)
	other := newAccount(t, db, 1, "USD", 0)
	food := newCategory(t, db, nil, "Food", "")

	month := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	addTx(t, db, 1, acct.ID, nil, models.TxIncome, 5000, day1, false)
	addTx(t, db, 1, acct.ID, &food.ID, models.TxExpense, 1200, day1, false)
	addTx(t, db, 1, acct.ID, &food.ID, models.TxExpense, 800, day2, false)
	// excluded: tombstoned, transfer, other user, outside the month
	addTx(t, db, 1, acct.ID, &food.ID, models.TxExpense, 999, day2, true)
	trf := models.Transaction{UserID: 1, AccountID: acct.ID, ToAccountID: &other.ID, Type: models.TxTransfer, Amount: decimal.NewFromInt(400), OccurredAt: day2}
	if err := db.Create(&trf).Error; err != nil {
		t.Fatalf("create transfer: %v", err)
	}
	addTx(t, db, 2, acct.ID, nil, models.TxExpense, 50, day1, false)
	addTx(t, db, 1, acct.ID, nil, models.TxExpense, 77, day1.AddDate(0, -1, 0), false)

	r := NewReporter(db)
	report, err := r.Monthly(context.Background(), 1, month)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}

	if report.Month != "2026-03" {
		t.Fatalf("month = %q, want 2026-03", report.Month)
	}
	if !report.TotalIncome.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("income = %s, want 5000", report.TotalIncome)
	}
	if !report.TotalExpense.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expense = %s, want 2000", report.TotalExpense)
	}
	if !report.Net.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("net = %s, want 3000", report.Net)
	}

	if len(report.Daily) != 2 {
		t.Fatalf("daily days = %d, want 2", len(report.Daily))
	}
	if report.Daily[0].Date != "2026-03-01" || report.Daily[1].Date != "2026-03-02" {
		t.Fatalf("daily order = %q, %q", report.Daily[0].Date, report.Daily[1].Date)
	}
	if !report.Daily[0].Net.Equal(decimal.NewFromInt(3800)) {
		t.Fatalf("day1 net = %s, want 3800", report.Daily[0].Net)
	}

	if len(report.ByCategory) != 1 {
		t.Fatalf("categories = %d, want 1", len(report.ByCategory))
	}
	cs := report.ByCategory[0]
	if cs.CategoryID != food.ID || cs.Name != "Food" || !cs.Expense.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("category stat = %+v", cs)
	}
}

func TestPeriodStart(t *testing.T) {
	loc := time.UTC
	// 2026-08-27 is a Thursday
	now := time.Date(2026, 8, 27, 15, 30, 0, 0, loc)

	cases := []struct {
		period string
		want   time.Time
	}{
		{models.PeriodWeekly, time.Date(2026, 8, 24, 0, 0, 0, 0, loc)},
		{models.PeriodMonthly, time.Date(2026, 8, 1, 0, 0, 0, 0, loc)},
		{models.PeriodYearly, time.Date(2026, 1, 1, 0, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		if got := periodStart(tc.period, now); !got.Equal(tc.want) {
			t.Fatalf("periodStart(%s) = %v, want %v", tc.period, got, tc.want)
		}
	}

	// Monday stays on Monday
	monday := time.Date(2026, 8, 24, 9, 0, 0, 0, loc)
	if got := periodStart(models.PeriodWeekly, monday); !got.Equal(time.Date(2026, 8, 24, 0, 0, 0, 0, loc)) {
		t.Fatalf("periodStart(weekly, monday) = %v", got)
	}
}

func TestBudgetSpent(t *testing.T) {
	db := newTestDB(t)
	seedCurrencies(t, db)
	acct := newAccount(t, db, 1, "USD", 0)
	food := newCategory(t, db, nil, "Food", "")

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	inPeriod := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	before := time.Date(2026, 7, 28, 0, 0, 0, 0, time.UTC)

	addTx(t, db, 1, acct.ID, &food.ID, models.TxExpense, 300, inPeriod, false)
	addTx(t, db, 1, acct.ID, &food.ID, models.TxExpense, 200, inPeriod, false)
	addTx(t, db, 1, acct.ID, &food.ID, models.TxExpense, 111, inPeriod, true)
	addTx(t, db, 1, acct.ID, &food.ID, models.TxExpense, 999, before, false)
	addTx(t, db, 1, acct.ID, &food.ID, models.TxIncome, 50, inPeriod, false)

	b := &models.Budget{UserID: 1, CategoryID: food.ID, Period: models.PeriodMonthly, Amount: decimal.NewFromInt(1000)}
	spent, err := NewReporter(db).BudgetSpent(context.Background(), b, now)
	if err != nil {
		t.Fatalf("budget spent: %v", err)
	}
	if !spent.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("spent = %s, want 500", spent)
	}
}
