package diagnosis

import "dronediag/internal/model"

func intPtr(v int) *int { return &v }

// testQuestionSet is a small branching flow: a mode question, a purpose
// question that can unlock a travel sub-flow, a light terminal question and
// two pro-only questions.
func testQuestionSet() *model.QuestionSet {
	return &model.QuestionSet{
		ID:      "test",
		Version: "1",
		Title:   "test flow",
		Questions: []model.Question{
			{
				ID:             "q_mode",
				Weight:         2,
				TargetSegments: []string{model.SegmentCommon},
				Options: []model.Option{
					{Key: "casual", Scores: map[model.CategoryKey]float64{model.CategoryHobby: 3, model.CategoryCreative: 1},
						Effects: []model.Effect{{Op: model.EffectSetMode, Mode: model.ModeLight}}},
					{Key: "business", Scores: map[model.CategoryKey]float64{model.CategorySurvey: 3, model.CategoryInspection: 2},
						Effects: []model.Effect{{Op: model.EffectSetMode, Mode: model.ModePro}}},
				},
			},
			{
				ID:             "q_purpose",
				Weight:         1,
				TargetSegments: []string{model.SegmentCommon},
				Options: []model.Option{
					{Key: "travel", Scores: map[model.CategoryKey]float64{model.CategoryHobby: 2, model.CategoryCreative: 1},
						Effects: []model.Effect{{Op: model.EffectAddSegments, Values: []string{"detail_travel"}}}},
					{Key: "inspect", Scores: map[model.CategoryKey]float64{model.CategoryInspection: 3}},
				},
			},
			{
				ID:             "q_travel_detail",
				Weight:         1,
				TargetSegments: []string{"detail_travel"},
				Options: []model.Option{
					{Key: "video", Scores: map[model.CategoryKey]float64{model.CategoryCreative: 2}},
					{Key: "photo", Scores: map[model.CategoryKey]float64{model.CategoryHobby: 1}},
				},
			},
			{
				ID:             "q_light_final",
				Weight:         1,
				TargetSegments: []string{model.SegmentLight},
				StrategyTags:   []string{model.StrategyLightTerminal},
				Options: []model.Option{
					{Key: "ok", Scores: map[model.CategoryKey]float64{model.CategoryHobby: 1}},
					{Key: "results", Scores: map[model.CategoryKey]float64{model.CategoryCreative: 1},
						Effects: []model.Effect{{Op: model.EffectForceComplete}}},
				},
			},
			{
				ID:             "q_budget",
				Weight:         1,
				TargetSegments: []string{model.SegmentPro},
				Options: []model.Option{
					{Key: "low", Scores: map[model.CategoryKey]float64{model.CategoryHobby: 1},
						Constraints: &model.Constraints{MaxPrice: intPtr(50000)}},
					{Key: "high", Scores: map[model.CategoryKey]float64{model.CategorySurvey: 1},
						Constraints: &model.Constraints{MinPrice: intPtr(200000)}},
				},
			},
			{
				ID:             "q_pro_env",
				Weight:         1,
				TargetSegments: []string{model.SegmentPro},
				Options: []model.Option{
					{Key: "indoor", Scores: map[model.CategoryKey]float64{model.CategoryInspection: 2}},
					{Key: "outdoor", Scores: map[model.CategoryKey]float64{model.CategorySurvey: 2}},
				},
			},
		},
	}
}

// testCatalog has one micro product and several standard ones, plus
// categories with dangling ids.
func testCatalog() *model.Catalog {
	return &model.Catalog{
		Version:  "test",
		Currency: "JPY",
		Products: []model.Product{
			{ID: "mini", Name: "Mini", Kind: model.KindAircraft, WeightGrams: 80, Price: model.PriceRange{Min: 30000, Max: 40000}},
			{ID: "std", Name: "Standard", Kind: model.KindAircraft, WeightGrams: 500, Price: model.PriceRange{Min: 100000, Max: 150000}},
			{ID: "std2", Name: "Standard 2", Kind: model.KindAircraft, WeightGrams: 600, Price: model.PriceRange{Min: 60000, Max: 80000}},
			{ID: "pro", Name: "Pro", Kind: model.KindAircraft, WeightGrams: 900, Price: model.PriceRange{Min: 300000, Max: 400000}},
		},
		Categories: map[model.CategoryKey]model.Category{
			model.CategoryHobby:      {Label: "Hobby", PrimaryModelID: "mini", Alts: []string{"std", "std2", "mini"}},
			model.CategorySurvey:     {Label: "Survey", PrimaryModelID: "pro", Alts: []string{"std", "std2"}},
			model.CategoryInspection: {Label: "Inspection", PrimaryModelID: "ghost", Alts: []string{"std", "ghost2", "std2"}},
			model.CategoryCreative:   {Label: "Creative", PrimaryModelID: "ghost"},
		},
	}
}

func answerAll(set *model.QuestionSet, s State, pairs ...string) State {
	for i := 0; i+1 < len(pairs); i += 2 {
		q, _ := set.Question(pairs[i])
		opt, _ := q.Option(pairs[i+1])
		s = ApplyAnswer(s, q, opt)
	}
	return s
}
