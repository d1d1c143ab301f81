package diagnosis

import (
	"dronediag/internal/model"
	"strings"
)

// Advisory notes attached to a selection
const (
	NoteEmptyPool          = "No products are registered for this category yet. Try broadening your conditions."
	NoteMissingPrimary     = "The recommended model for this category is unavailable, so alternatives are shown instead."
	NoteUnder100Fallback   = "No model under 100 g fits these requirements, so standard models are shown."
	NoteOver100Fallback    = "No model over 100 g was found, so micro models are shown."
	NoteOverBudget         = "The recommended model is outside your budget. Consider the lower-ranked candidates to adjust cost."
	NoteOverBudgetNoAlts   = "Few models meet the requirements within the budget you set. Consider revising your conditions."
	NotePrimaryNotUnder100 = "This category has no model under 100 g. The recommendation assumes flight permits where required."
	NotePrimaryNotOver100  = "This category has no model over 100 g. A micro model is recommended instead."
)

// Selection is the product recommendation for one category
type Selection struct {
	Primary      *model.Product  `json:"primary,omitempty"`
	Alternatives []model.Product `json:"alternatives"`
	Note         string          `json:"note,omitempty"`
}

// SelectCandidates maps a winning category and the session constraints onto a
// primary product and ordered alternatives. Missing data only ever shrinks the
// result and adds a note.
func SelectCandidates(catalog *model.Catalog, category model.CategoryKey, s State) Selection {
	sel := Selection{Alternatives: []model.Product{}}
	if catalog == nil {
		return sel
	}
	if _, ok := catalog.Category(category); !ok {
		return sel
	}

	var notes []string
	declared := catalog.ResolvePrimary(category)
	if declared == nil {
		notes = append(notes, NoteMissingPrimary)
	}

	pool := make([]model.Product, 0)
	if declared != nil {
		pool = append(pool, *declared)
	}
	pool = dedupeProducts(append(pool, catalog.ResolveAlternatives(category)...))
	pool = preferModels(pool, s.PreferredModels)

	if len(pool) == 0 {
		sel.Note = joinNotes(append(notes, NoteEmptyPool))
		return sel
	}

	preferred, overflow := pool, []model.Product(nil)
	micro, standard := splitByWeight(pool)
	switch s.Constraints.PreferredWeight {
	case model.WeightUnder100:
		if len(micro) > 0 {
			preferred, overflow = micro, standard
		} else {
			notes = append(notes, NoteUnder100Fallback)
		}
	case model.WeightOver100:
		if len(standard) > 0 {
			preferred, overflow = standard, micro
		} else {
			notes = append(notes, NoteOver100Fallback)
		}
	}
	ordered := dedupeProducts(append(append([]model.Product{}, preferred...), overflow...))

	if declared == nil {
		sel.Alternatives = orderByBudget(ordered, s.Constraints)
		sel.Note = joinNotes(notes)
		return sel
	}

	primary := ordered[0]
	sel.Primary = &primary
	sel.Alternatives = orderByBudget(ordered[1:], s.Constraints)

	if s.Constraints.HasPriceBounds() && !FitsBudget(&primary, s.Constraints) {
		if countFitting(sel.Alternatives, s.Constraints) > 0 {
			notes = append(notes, NoteOverBudget)
		} else {
			notes = append(notes, NoteOverBudgetNoAlts)
		}
	}

	switch s.Constraints.PreferredWeight {
	case model.WeightUnder100:
		if !primary.IsMicro() {
			notes = append(notes, NotePrimaryNotUnder100)
		}
	case model.WeightOver100:
		if primary.IsMicro() {
			notes = append(notes, NotePrimaryNotOver100)
		}
	}

	sel.Note = joinNotes(notes)
	return sel
}

// FitsBudget reports whether the product's price range overlaps the
// constraint window. Unset bounds are not checked.
func FitsBudget(p *model.Product, c ConstraintState) bool {
	if c.MaxPrice != nil && p.Price.Min > *c.MaxPrice {
		return false
	}
	if c.MinPrice != nil && p.Price.Max < *c.MinPrice {
		return false
	}
	return true
}

// orderByBudget moves fitting products ahead of the rest, stable otherwise
func orderByBudget(products []model.Product, c ConstraintState) []model.Product {
	fitting := make([]model.Product, 0, len(products))
	var rest []model.Product
	for _, p := range products {
		if FitsBudget(&p, c) {
			fitting = append(fitting, p)
		} else {
			rest = append(rest, p)
		}
	}
	return append(fitting, rest...)
}

func countFitting(products []model.Product, c ConstraintState) int {
	n := 0
	for i := range products {
		if FitsBudget(&products[i], c) {
			n++
		}
	}
	return n
}

// preferModels moves the pinned ids to the front in pin order
func preferModels(pool []model.Product, pinned []string) []model.Product {
	if len(pinned) == 0 {
		return pool
	}
	out := make([]model.Product, 0, len(pool))
	taken := make(map[string]bool, len(pinned))
	for _, id := range pinned {
		for _, p := range pool {
			if p.ID == id && !taken[id] {
				out = append(out, p)
				taken[id] = true
			}
		}
	}
	for _, p := range pool {
		if !taken[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func splitByWeight(pool []model.Product) (micro, standard []model.Product) {
	for _, p := range pool {
		if p.IsMicro() {
			micro = append(micro, p)
		} else {
			standard = append(standard, p)
		}
	}
	return micro, standard
}

func dedupeProducts(in []model.Product) []model.Product {
	seen := make(map[string]bool, len(in))
	out := make([]model.Product, 0, len(in))
	for _, p := range in {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

func joinNotes(notes []string) string {
	return strings.Join(notes, " ")
}
