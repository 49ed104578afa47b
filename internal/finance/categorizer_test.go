package finance

import (
	"testing"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"

	"gorm.io/gorm"
)

func newCategory(t *testing.T, db *gorm.DB, userID *uint, name, keywords string) *models.Category {
	t.Helper()
	cat := models.Category{
		UserID:   userID,
		Name:     name,
		Type:     models.TxExpense,
		Keywords: keywords,
	}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return &cat
}

func TestSuggestRuleBeatsKeywords(t *testing.T) {
	db := newTestDB(t)
	cz := NewCategorizer(db)

	newCategory(t, db, nil, "Dining", "coffee,restaurant")
	groceries := newCategory(t, db, nil, "Groceries", "grocery,supermarket")

	rule := models.CategoryRule{
		UserID:     1,
		Pattern:    "Starbucks",
		MatchField: models.RuleFieldAny,
		CategoryID: groceries.ID,
		Priority:   10,
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("create rule: %v", err)
	}

	// the keyword "coffee" also matches but the rule must win
	got, err := cz.Suggest(1, "morning coffee", "STARBUCKS #123")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got == nil {
		t.Fatal("suggest returned nil")
	}
	if got.CategoryID != groceries.ID || got.MatchedBy != "rule" {
		t.Fatalf("got %+v, want rule match on category %d", got, groceries.ID)
	}
	if got.Confidence != RuleConfidence {
		t.Fatalf("confidence = %v, want %v", got.Confidence, RuleConfidence)
	}
}

func TestSuggestRulePriorityOrder(t *testing.T) {
	db := newTestDB(t)
	cz := NewCategorizer(db)

	a := newCategory(t, db, nil, "A", "")
	b := newCategory(t, db, nil, "B", "")

	rules := []models.CategoryRule{
		{UserID: 1, Pattern: "market", MatchField: models.RuleFieldAny, CategoryID: b.ID, Priority: 50},
		{UserID: 1, Pattern: "market", MatchField: models.RuleFieldAny, CategoryID: a.ID, Priority: 10},
	}
	for i := range rules {
		if err := db.Create(&rules[i]).Error; err != nil {
			t.Fatalf("create rule: %v", err)
		}
	}

	got, err := cz.Suggest(1, "market run", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got == nil || got.CategoryID != a.ID {
		t.Fatalf("got %+v, want lowest-priority-number rule (category %d)", got, a.ID)
	}
}

func TestSuggestRuleFieldScoping(t *testing.T) {
	db := newTestDB(t)
	cz := NewCategorizer(db)

	cat := newCategory(t, db, nil, "Transport", "")
	rule := models.CategoryRule{
		UserID:     1,
		Pattern:    "uber",
		MatchField: models.RuleFieldMerchant,
		CategoryID: cat.ID,
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("create rule: %v", err)
	}

	got, err := cz.Suggest(1, "uber ride home", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got != nil {
		t.Fatalf("merchant-scoped rule matched description: %+v", got)
	}

	got, err = cz.Suggest(1, "", "UBER BV")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got == nil || got.CategoryID != cat.ID {
		t.Fatalf("got %+v, want merchant match on category %d", got, cat.ID)
	}
}

func TestSuggestIgnoresOtherUsersRules(t *testing.T) {
	db := newTestDB(t)
	cz := NewCategorizer(db)

	cat := newCategory(t, db, nil, "Dining", "")
	rule := models.CategoryRule{UserID: 2, Pattern: "pizza", MatchField: models.RuleFieldAny, CategoryID: cat.ID}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("create rule: %v", err)
	}

	got, err := cz.Suggest(1, "pizza night", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got != nil {
		t.Fatalf("matched another user's rule: %+v", got)
	}
}

func TestSuggestKeywordScoring(t *testing.T) {
	db := newTestDB(t)
	cz := NewCategorizer(db)

	groceries := newCategory(t, db, nil, "Groceries", "grocery,supermarket")

	// keyword length 11 over search text length 22 scores 0.5
	got, err := cz.Suggest(1, "supermarket", "fresh mart")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got == nil || got.CategoryID != groceries.ID || got.MatchedBy != "keyword" {
		t.Fatalf("got %+v, want keyword match on category %d", got, groceries.ID)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("confidence = %v, want 0.5", got.Confidence)
	}
}

func TestSuggestKeywordConfidenceClamped(t *testing.T) {
	db := newTestDB(t)
	cz := NewCategorizer(db)
	newCategory(t, db, nil, "Groceries", "supermarket")

	// keyword covers the whole search text; raw score 1.0 clamps to the cap
	got, err := cz.Suggest(1, "supermarket", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got == nil {
		t.Fatal("suggest returned nil")
	}
	if got.Confidence != KeywordMaxConfidence {
		t.Fatalf("confidence = %v, want clamp at %v", got.Confidence, KeywordMaxConfidence)
	}
}

func TestSuggestTieKeepsEarlierCategory(t *testing.T) {
	db := newTestDB(t)
	cz := NewCategorizer(db)

	first := newCategory(t, db, nil, "First", "coffee")
	newCategory(t, db, nil, "Second", "nights")

	// both keywords are 6 characters in the same text: identical scores
	got, err := cz.Suggest(1, "coffee nights", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got == nil || got.CategoryID != first.ID {
		t.Fatalf("got %+v, want earlier category %d on tie", got, first.ID)
	}
}

func TestSuggestUserCategoriesIncluded(t *testing.T) {
	db := newTestDB(t)
	cz := NewCategorizer(db)

	uid := uint(1)
	other := uint(2)
	mine := newCategory(t, db, &uid, "Hobby", "climbing")
	newCategory(t, db, &other, "Theirs", "climbing")

	got, err := cz.Suggest(1, "climbing gym pass", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got == nil || got.CategoryID != mine.ID {
		t.Fatalf("got %+v, want own category %d", got, mine.ID)
	}
}

func TestSuggestNoMatch(t *testing.T) {
	db := newTestDB(t)
	cz := NewCategorizer(db)
	newCategory(t, db, nil, "Groceries", "grocery,supermarket")

	got, err := cz.Suggest(1, "totally unrelated", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}

	got, err = cz.Suggest(1, "", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got != nil {
		t.Fatalf("empty input got %+v, want nil", got)
	}
}
