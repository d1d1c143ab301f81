// Package diagnosis implements the adaptive questionnaire engine: scoring,
// the per-session state machine, and candidate selection. Every function is
// pure; callers own the state values they pass in and get back.
package diagnosis

import (
	"dronediag/internal/model"
	"sort"
)

// DefaultClosenessThreshold is the score gap within which a category is
// surfaced as a close second.
const DefaultClosenessThreshold = 2.0

// Totals maps each known category to its accumulated score
type Totals map[model.CategoryKey]float64

// RankedScore is one row of a ranking
type RankedScore struct {
	Category model.CategoryKey `json:"category"`
	Score    float64           `json:"score"`
}

// Summary is the outcome of Evaluate
type Summary struct {
	Totals    Totals        `json:"totals"`
	Ranked    []RankedScore `json:"ranked"`
	Primary   *RankedScore  `json:"primary,omitempty"`
	Secondary []RankedScore `json:"secondary"`
}

// Scorer scores answer maps against a question set. The priority list is the
// set of known categories and the final tie-break order.
type Scorer struct {
	priority []model.CategoryKey
	index    map[model.CategoryKey]int
}

// NewScorer creates a scorer over the given categories. Duplicates are ignored.
func NewScorer(priority []model.CategoryKey) *Scorer {
	s := &Scorer{index: make(map[model.CategoryKey]int, len(priority))}
	for _, key := range priority {
		if _, dup := s.index[key]; dup {
			continue
		}
		s.index[key] = len(s.priority)
		s.priority = append(s.priority, key)
	}
	return s
}

// Categories returns the known categories in priority order
func (s *Scorer) Categories() []model.CategoryKey {
	out := make([]model.CategoryKey, len(s.priority))
	copy(out, s.priority)
	return out
}

// Score sums delta*weight of every answered option into per-category totals.
// Unanswered questions, unknown option keys and unknown categories contribute
// nothing.
func (s *Scorer) Score(set *model.QuestionSet, answers model.AnswerMap) Totals {
	totals := make(Totals, len(s.priority))
	for _, key := range s.priority {
		totals[key] = 0
	}

	for _, ans := range resolveAnswers(set, answers) {
		for cat, delta := range ans.option.Scores {
			if _, known := totals[cat]; known {
				totals[cat] += delta * ans.weight
			}
		}
	}
	return totals
}

// Rank orders categories by descending total. Ties are broken by the weighted
// contribution of each answered question, heaviest question first, then by
// priority order.
func (s *Scorer) Rank(totals Totals, set *model.QuestionSet, answers model.AnswerMap) []RankedScore {
	ranked := make([]RankedScore, 0, len(s.priority))
	for _, key := range s.priority {
		ranked = append(ranked, RankedScore{Category: key, Score: totals[key]})
	}

	answered := resolveAnswers(set, answers)
	sort.SliceStable(answered, func(i, j int) bool {
		return answered[i].weight > answered[j].weight
	})

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		for _, ans := range answered {
			sa := ans.option.Scores[a.Category] * ans.weight
			sb := ans.option.Scores[b.Category] * ans.weight
			if sa != sb {
				return sa > sb
			}
		}
		return s.index[a.Category] < s.index[b.Category]
	})
	return ranked
}

// Evaluate scores, ranks and picks the primary and close-second categories.
// Primary is nil only when no entry of answers resolves to an option of set.
func (s *Scorer) Evaluate(set *model.QuestionSet, answers model.AnswerMap, threshold float64) Summary {
	totals := s.Score(set, answers)
	ranked := s.Rank(totals, set, answers)

	summary := Summary{
		Totals:    totals,
		Ranked:    ranked,
		Secondary: []RankedScore{},
	}
	if len(ranked) == 0 || len(resolveAnswers(set, answers)) == 0 {
		return summary
	}

	primary := ranked[0]
	summary.Primary = &primary
	for _, entry := range ranked[1:] {
		if primary.Score-entry.Score <= threshold {
			summary.Secondary = append(summary.Secondary, entry)
		}
	}
	return summary
}

type answeredQuestion struct {
	option *model.Option
	weight float64
}

// resolveAnswers returns the chosen option of every answered question in
// declared order, skipping keys that match no option.
func resolveAnswers(set *model.QuestionSet, answers model.AnswerMap) []answeredQuestion {
	if set == nil {
		return nil
	}
	var found []answeredQuestion
	for i := range set.Questions {
		q := &set.Questions[i]
		opt, ok := q.Option(answers[q.ID])
		if !ok {
			continue
		}
		found = append(found, answeredQuestion{option: opt, weight: float64(q.EffectiveWeight())})
	}
	return found
}
