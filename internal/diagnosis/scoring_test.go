package diagnosis

import (
	"dronediag/internal/model"
	"reflect"
	"testing"
)

func TestScoreAppliesWeights(t *testing.T) {
	set := testQuestionSet()
	scorer := NewScorer(model.DefaultCategoryPriority)

	totals := scorer.Score(set, model.AnswerMap{"q_mode": "casual", "q_purpose": "travel"})

	if totals[model.CategoryHobby] != 8 {
		t.Errorf("expected hobby 8, got %v", totals[model.CategoryHobby])
	}
	if totals[model.CategoryCreative] != 3 {
		t.Errorf("expected creative 3, got %v", totals[model.CategoryCreative])
	}
	if len(totals) != len(model.DefaultCategoryPriority) {
		t.Errorf("expected every category present, got %d entries", len(totals))
	}
}

func TestScoreIgnoresUnknownData(t *testing.T) {
	set := &model.QuestionSet{
		ID: "s",
		Questions: []model.Question{{
			ID:     "q",
			Weight: 1,
			Options: []model.Option{
				{Key: "a", Scores: map[model.CategoryKey]float64{"rocketry": 5, model.CategoryDev: 1}},
				{Key: "b"},
			},
		}},
	}
	scorer := NewScorer(model.DefaultCategoryPriority)

	totals := scorer.Score(set, model.AnswerMap{"q": "a", "missing": "x"})
	if _, ok := totals["rocketry"]; ok {
		t.Error("unknown category should not appear in totals")
	}
	if totals[model.CategoryDev] != 1 {
		t.Errorf("expected dev 1, got %v", totals[model.CategoryDev])
	}

	totals = scorer.Score(set, model.AnswerMap{"q": "nope"})
	for cat, v := range totals {
		if v != 0 {
			t.Errorf("expected zero for %s, got %v", cat, v)
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	set := testQuestionSet()
	scorer := NewScorer(model.DefaultCategoryPriority)
	answers := model.AnswerMap{"q_mode": "business", "q_pro_env": "indoor", "q_budget": "high"}

	first := scorer.Evaluate(set, answers, DefaultClosenessThreshold)
	for i := 0; i < 20; i++ {
		again := scorer.Evaluate(set, answers, DefaultClosenessThreshold)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestEvaluateClosenessThreshold(t *testing.T) {
	set := &model.QuestionSet{
		ID: "s",
		Questions: []model.Question{{
			ID:     "q",
			Weight: 1,
			Options: []model.Option{
				{Key: "a", Scores: map[model.CategoryKey]float64{model.CategorySurvey: 10, model.CategoryAgri: 9}},
				{Key: "b"},
			},
		}},
	}
	scorer := NewScorer(model.DefaultCategoryPriority)
	answers := model.AnswerMap{"q": "a"}

	summary := scorer.Evaluate(set, answers, 2)
	if summary.Primary == nil || summary.Primary.Category != model.CategorySurvey {
		t.Fatalf("expected survey primary, got %+v", summary.Primary)
	}
	if len(summary.Secondary) != 1 || summary.Secondary[0].Category != model.CategoryAgri {
		t.Errorf("threshold 2: expected agri as secondary, got %+v", summary.Secondary)
	}

	summary = scorer.Evaluate(set, answers, 0)
	if len(summary.Secondary) != 0 {
		t.Errorf("threshold 0: expected no secondary, got %+v", summary.Secondary)
	}
}

func TestEvaluatePrimaryRule(t *testing.T) {
	set := testQuestionSet()
	scorer := NewScorer(model.DefaultCategoryPriority)

	tests := []struct {
		name    string
		answers model.AnswerMap
		want    model.CategoryKey
	}{
		{name: "empty answers", answers: model.AnswerMap{}},
		{name: "nil answers", answers: nil},
		{name: "unresolvable answers", answers: model.AnswerMap{"q_mode": "unknown", "nope": "x"}},
		{name: "resolved answer", answers: model.AnswerMap{"q_mode": "casual"}, want: model.CategoryHobby},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := scorer.Evaluate(set, tt.answers, DefaultClosenessThreshold)
			if tt.want == "" {
				if summary.Primary != nil {
					t.Errorf("expected no primary, got %+v", summary.Primary)
				}
				if summary.Secondary == nil {
					t.Error("secondary should be an empty slice, not nil")
				}
				return
			}
			if summary.Primary == nil || summary.Primary.Category != tt.want {
				t.Errorf("expected primary %s, got %+v", tt.want, summary.Primary)
			}
		})
	}
}

func TestEvaluateAllZeroStillHasPrimary(t *testing.T) {
	set := &model.QuestionSet{
		ID: "s",
		Questions: []model.Question{{
			ID:      "q",
			Weight:  1,
			Options: []model.Option{{Key: "a"}, {Key: "b"}},
		}},
	}
	scorer := NewScorer(model.DefaultCategoryPriority)

	summary := scorer.Evaluate(set, model.AnswerMap{"q": "a"}, DefaultClosenessThreshold)
	if summary.Primary == nil {
		t.Fatal("expected a primary once an answer resolves")
	}
	if summary.Primary.Category != model.CategoryHobby {
		t.Errorf("expected priority head hobby, got %s", summary.Primary.Category)
	}
}

func TestRankTieBreaks(t *testing.T) {
	set := &model.QuestionSet{
		ID: "s",
		Questions: []model.Question{
			{ID: "light", Weight: 1, Options: []model.Option{
				{Key: "a", Scores: map[model.CategoryKey]float64{model.CategoryHobby: 3}}, {Key: "b"},
			}},
			{ID: "heavy", Weight: 3, Options: []model.Option{
				{Key: "a", Scores: map[model.CategoryKey]float64{model.CategoryDev: 1}}, {Key: "b"},
			}},
			{ID: "flat", Weight: 1, Options: []model.Option{
				{Key: "a", Scores: map[model.CategoryKey]float64{model.CategoryAgri: 1, model.CategorySurvey: 1}}, {Key: "b"},
			}},
		},
	}
	scorer := NewScorer(model.DefaultCategoryPriority)

	answers := model.AnswerMap{"light": "a", "heavy": "a"}
	ranked := scorer.Rank(scorer.Score(set, answers), set, answers)
	if ranked[0].Category != model.CategoryDev || ranked[1].Category != model.CategoryHobby {
		t.Errorf("expected dev before hobby via heavier question, got %s, %s", ranked[0].Category, ranked[1].Category)
	}

	answers = model.AnswerMap{"flat": "a"}
	ranked = scorer.Rank(scorer.Score(set, answers), set, answers)
	if ranked[0].Category != model.CategorySurvey || ranked[1].Category != model.CategoryAgri {
		t.Errorf("expected survey before agri via priority, got %s, %s", ranked[0].Category, ranked[1].Category)
	}
}

func TestNewScorerDedupesPriority(t *testing.T) {
	scorer := NewScorer([]model.CategoryKey{model.CategoryAgri, model.CategoryHobby, model.CategoryAgri})
	got := scorer.Categories()
	want := []model.CategoryKey{model.CategoryAgri, model.CategoryHobby}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPartialPriorityKeepsEveryCategory(t *testing.T) {
	catalog := testCatalog()
	catalog.Priority = []model.CategoryKey{model.CategorySurvey}

	want := []model.CategoryKey{model.CategorySurvey, model.CategoryCreative, model.CategoryHobby, model.CategoryInspection}
	if got := catalog.CategoryPriority(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	set := &model.QuestionSet{ID: "s", Questions: []model.Question{
		{ID: "q", Weight: 1, Options: []model.Option{
			{Key: "a", Scores: map[model.CategoryKey]float64{model.CategoryHobby: 2}}, {Key: "b"},
		}},
	}}
	summary := NewScorer(catalog.CategoryPriority()).Evaluate(set, model.AnswerMap{"q": "a"}, DefaultClosenessThreshold)
	if summary.Primary == nil || summary.Primary.Category != model.CategoryHobby {
		t.Errorf("expected hobby primary from an undeclared category, got %+v", summary.Primary)
	}
}
