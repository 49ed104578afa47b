package finance

import (
	"strings"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"

	"gorm.io/gorm"
)

// RuleConfidence is assigned when a user rule matches; keyword matches
// never exceed KeywordMaxConfidence.
const (
	RuleConfidence       = 0.95
	KeywordMaxConfidence = 0.8
)

// Suggestion is an advisory category assignment. It never fails a
// transaction: a wrong suggestion mis-tags a category, nothing more.
type Suggestion struct {
	CategoryID uint    `json:"category_id"`
	Confidence float64 `json:"confidence"`
	MatchedBy  string  `json:"matched_by"` // rule / keyword
}

// Categorizer assigns categories from free-text description and merchant
// strings when the client supplied none.
type Categorizer struct {
	db *gorm.DB
}

func NewCategorizer(db *gorm.DB) *Categorizer {
	return &Categorizer{db: db}
}

func ruleMatches(r *models.CategoryRule, description, merchant string) bool {
	p := strings.ToLower(strings.TrimSpace(r.Pattern))
	if p == "" {
		return false
	}
	switch r.MatchField {
	case models.RuleFieldMerchant:
		return strings.Contains(merchant, p)
	case models.RuleFieldDescription:
		return strings.Contains(description, p)
	default:
		return strings.Contains(merchant, p) || strings.Contains(description, p)
	}
}

// Suggest returns the best category for the given texts, or nil when
// nothing matches.
//
// User rules are checked first in priority order; the first substring match
// wins at the fixed rule confidence. Otherwise global and user categories'
// keyword lists are scanned against lower(description + " " + merchant);
// candidates score keyword length / search-text length, clamped to the
// keyword maximum, highest first, ties broken by category iteration order.
func (cz *Categorizer) Suggest(userID uint, description, merchant string) (*Suggestion, error) {
	desc := strings.ToLower(strings.TrimSpace(description))
	merch := strings.ToLower(strings.TrimSpace(merchant))

	var rules []models.CategoryRule
	err := cz.db.Where("user_id = ?", userID).
		Order("priority ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if ruleMatches(&rules[i], desc, merch) {
			return &Suggestion{
				CategoryID: rules[i].CategoryID,
				Confidence: RuleConfidence,
				MatchedBy:  "rule",
			}, nil
		}
	}

	searchText := strings.TrimSpace(desc + " " + merch)
	if searchText == "" {
		return nil, nil
	}

	var categories []models.Category
	err = cz.db.Where("user_id IS NULL OR user_id = ?", userID).
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	var best *Suggestion
	for i := range categories {
		for _, kw := range categories[i].KeywordList() {
			if !strings.Contains(searchText, kw) {
				continue
			}
			score := float64(len(kw)) / float64(len(searchText))
			if score > KeywordMaxConfidence {
				score = KeywordMaxConfidence
			}
			// strictly greater: ties keep the earlier category
			if best == nil || score > best.Confidence {
				best = &Suggestion{
					CategoryID: categories[i].ID,
					Confidence: score,
					MatchedBy:  "keyword",
				}
			}
		}
	}
	return best, nil
}
