package model

import (
	"fmt"
	"slices"
	"strconv"
)

// Normalize fills defaults on a decoded question set: weight 1, the common
// segment, and non-nil score maps.
func (s *QuestionSet) Normalize() {
	for i := range s.Questions {
		q := &s.Questions[i]
		if q.Weight == 0 {
			q.Weight = 1
		}
		if len(q.TargetSegments) == 0 {
			q.TargetSegments = []string{SegmentCommon}
		}
		for j := range q.Options {
			if q.Options[j].Scores == nil {
				q.Options[j].Scores = map[CategoryKey]float64{}
			}
		}
	}
}

// Validate checks structural rules. Call Normalize first.
func (s *QuestionSet) Validate() error {
	if s.ID == "" {
		return NewValidationError("questionSet.id", "", ErrMissingID)
	}
	if len(s.Questions) == 0 {
		return NewValidationError("questionSet.questions", s.ID, ErrNoQuestions)
	}

	seen := make(map[string]bool, len(s.Questions))
	for i, q := range s.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if q.ID == "" {
			return NewValidationError(field+".id", "", ErrMissingID)
		}
		if seen[q.ID] {
			return NewValidationError(field+".id", q.ID, ErrDuplicateID)
		}
		seen[q.ID] = true

		if q.Weight < 1 {
			return NewValidationError(field+".weight", strconv.Itoa(q.Weight), ErrInvalidWeight)
		}
		if len(q.Options) < 2 {
			return NewValidationError(field+".options", q.ID, ErrTooFewOptions)
		}

		keys := make(map[string]bool, len(q.Options))
		for j, opt := range q.Options {
			optField := fmt.Sprintf("%s.options[%d]", field, j)
			if opt.Key == "" {
				return NewValidationError(optField+".key", "", ErrMissingID)
			}
			if keys[opt.Key] {
				return NewValidationError(optField+".key", opt.Key, ErrDuplicateID)
			}
			keys[opt.Key] = true

			if opt.Constraints != nil && !opt.Constraints.PreferredWeight.Valid() {
				return NewValidationError(optField+".constraints.preferredWeight", string(opt.Constraints.PreferredWeight), ErrInvalidPreference)
			}
			for k, eff := range opt.Effects {
				if err := validateEffect(eff); err != nil {
					err.Field = fmt.Sprintf("%s.effects[%d].%s", optField, k, err.Field)
					return err
				}
			}
		}
	}
	return nil
}

func validateEffect(eff Effect) *ValidationError {
	if !eff.Op.Known() {
		return NewValidationError("op", string(eff.Op), ErrUnknownEffect)
	}
	if eff.Op == EffectSetMode && eff.Mode != ModeLight && eff.Mode != ModePro {
		return NewValidationError("mode", string(eff.Mode), ErrInvalidMode)
	}
	return nil
}

// Normalize fills defaults on a decoded catalog.
func (c *Catalog) Normalize() {
	if c.Categories == nil {
		c.Categories = map[CategoryKey]Category{}
	}
	for key, cat := range c.Categories {
		if cat.Alts == nil {
			cat.Alts = []string{}
			c.Categories[key] = cat
		}
	}
	for i := range c.Products {
		p := &c.Products[i]
		if p.Kind == "" {
			p.Kind = KindAircraft
		}
		if p.CategoryTags == nil {
			p.CategoryTags = []CategoryKey{}
		}
		if p.Bullets == nil {
			p.Bullets = []string{}
		}
		if p.Images == nil {
			p.Images = []string{}
		}
	}
}

// Validate checks product records. Dangling category references are not
// errors; see Integrity.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Products))
	for i, p := range c.Products {
		field := fmt.Sprintf("products[%d]", i)
		if p.ID == "" {
			return NewValidationError(field+".id", "", ErrMissingID)
		}
		if seen[p.ID] {
			return NewValidationError(field+".id", p.ID, ErrDuplicateID)
		}
		seen[p.ID] = true

		if p.Kind != KindAircraft && p.Kind != KindPayload {
			return NewValidationError(field+".kind", string(p.Kind), ErrInvalidKind)
		}
		if p.Price.Min > p.Price.Max {
			return NewValidationError(field+".price", fmt.Sprintf("%d-%d", p.Price.Min, p.Price.Max), ErrInvalidPriceRange)
		}
	}
	return nil
}

// IntegrityIssue describes a dangling reference inside the catalog
type IntegrityIssue struct {
	Category  CategoryKey `json:"category"`
	Field     string      `json:"field"`
	ProductID string      `json:"productId"`
}

func (i IntegrityIssue) String() string {
	return fmt.Sprintf("category %s: %s references unknown product %q", i.Category, i.Field, i.ProductID)
}

// Integrity lists category links that point at missing products, walking
// categories in priority order so the report is stable.
func (c *Catalog) Integrity() []IntegrityIssue {
	var issues []IntegrityIssue
	visited := make(map[CategoryKey]bool, len(c.Categories))
	check := func(key CategoryKey) {
		cat, ok := c.Categories[key]
		if !ok || visited[key] {
			return
		}
		visited[key] = true
		if _, ok := c.Product(cat.PrimaryModelID); !ok {
			issues = append(issues, IntegrityIssue{Category: key, Field: "primaryModelId", ProductID: cat.PrimaryModelID})
		}
		for _, id := range cat.Alts {
			if _, ok := c.Product(id); !ok {
				issues = append(issues, IntegrityIssue{Category: key, Field: "alts", ProductID: id})
			}
		}
	}
	for _, key := range c.CategoryPriority() {
		check(key)
	}
	for _, key := range sortedCategoryKeys(c.Categories) {
		check(key)
	}
	return issues
}

func sortedCategoryKeys(m map[CategoryKey]Category) []CategoryKey {
	keys := make([]CategoryKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
