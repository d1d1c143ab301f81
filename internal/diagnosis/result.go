package diagnosis

import "dronediag/internal/model"

// Result is the completed diagnosis as shown on the result page
type Result struct {
	Category      model.CategoryKey     `json:"category"`
	CategoryLabel string                `json:"categoryLabel"`
	Score         float64               `json:"score"`
	Ranked        []RankedScore         `json:"ranked"`
	Secondary     []RankedScore         `json:"secondary"`
	Primary       *model.Product        `json:"primary,omitempty"`
	Alternatives  []model.Product       `json:"alternatives"`
	Note          string                `json:"note,omitempty"`
	Highlights    []string              `json:"highlights"`
	Template      *model.ResultTemplate `json:"template,omitempty"`
}

// BuildResult assembles the result page data. It returns nil when the summary
// has no primary category.
func BuildResult(catalog *model.Catalog, templates *model.ResultTemplateSet, summary Summary, sel Selection, s State) *Result {
	if summary.Primary == nil {
		return nil
	}

	res := &Result{
		Category:     summary.Primary.Category,
		Score:        summary.Primary.Score,
		Ranked:       summary.Ranked,
		Secondary:    summary.Secondary,
		Primary:      sel.Primary,
		Alternatives: sel.Alternatives,
		Note:         sel.Note,
		Highlights:   []string{},
		Template:     templates.Template(summary.Primary.Category),
	}
	if catalog != nil {
		if cat, ok := catalog.Category(summary.Primary.Category); ok {
			res.CategoryLabel = cat.Label
		}
	}
	if res.Alternatives == nil {
		res.Alternatives = []model.Product{}
	}
	for _, line := range s.ResultSummary {
		if line != "" {
			res.Highlights = append(res.Highlights, line)
		}
	}
	return res
}
