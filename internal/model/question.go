package model

// Segment tags controlling which flow phase a question belongs to
const (
	SegmentCommon = "common"
	SegmentLight  = "light"
	SegmentPro    = "pro"
)

// StrategyLightTerminal marks a question that gates completion until answered
const StrategyLightTerminal = "light_terminal"

// WeightPreference is a soft preference on the product weight class
type WeightPreference string

const (
	WeightNoPreference WeightPreference = ""
	WeightUnder100     WeightPreference = "under100"
	WeightOver100      WeightPreference = "over100"
)

// Valid reports whether p is empty or one of the known preferences
func (p WeightPreference) Valid() bool {
	switch p {
	case WeightNoPreference, WeightUnder100, WeightOver100:
		return true
	}
	return false
}

// Constraints are the optional soft constraints an option contributes.
// Nil fields are left untouched when merged into a session.
type Constraints struct {
	MaxPrice         *int             `json:"maxPrice,omitempty" bson:"maxPrice,omitempty" yaml:"maxPrice,omitempty"`
	MinPrice         *int             `json:"minPrice,omitempty" bson:"minPrice,omitempty" yaml:"minPrice,omitempty"`
	RequiredFeatures []string         `json:"requiredFeatures,omitempty" bson:"requiredFeatures,omitempty" yaml:"requiredFeatures,omitempty"`
	PreferredWeight  WeightPreference `json:"preferredWeight,omitempty" bson:"preferredWeight,omitempty" yaml:"preferredWeight,omitempty"`
}

// Option is a selectable answer with its score contributions
type Option struct {
	Key         string                  `json:"key" bson:"key" yaml:"key"`
	Label       string                  `json:"label" bson:"label" yaml:"label"`
	Scores      map[CategoryKey]float64 `json:"scores" bson:"scores" yaml:"scores"`
	Constraints *Constraints            `json:"constraints,omitempty" bson:"constraints,omitempty" yaml:"constraints,omitempty"`
	Effects     []Effect                `json:"effects,omitempty" bson:"effects,omitempty" yaml:"effects,omitempty"`
}

// Question is a prompt with two or more scored options
type Question struct {
	ID             string   `json:"id" bson:"id" yaml:"id"`
	Text           string   `json:"text" bson:"text" yaml:"text"`
	Weight         int      `json:"weight" bson:"weight" yaml:"weight"`
	TargetSegments []string `json:"targetSegments,omitempty" bson:"targetSegments,omitempty" yaml:"targetSegments,omitempty"`
	StrategyTags   []string `json:"strategyTags,omitempty" bson:"strategyTags,omitempty" yaml:"strategyTags,omitempty"`
	Options        []Option `json:"options" bson:"options" yaml:"options"`
	// CandidatePool lists product ids showcased while this question is open
	CandidatePool []string `json:"candidatePool,omitempty" bson:"candidatePool,omitempty" yaml:"candidatePool,omitempty"`
}

// Segments returns the target segments, defaulting to common
func (q *Question) Segments() []string {
	if len(q.TargetSegments) == 0 {
		return []string{SegmentCommon}
	}
	return q.TargetSegments
}

// EffectiveWeight returns the score multiplier, defaulting to 1
func (q *Question) EffectiveWeight() int {
	if q.Weight < 1 {
		return 1
	}
	return q.Weight
}

// HasStrategy reports whether the question carries the given strategy tag
func (q *Question) HasStrategy(tag string) bool {
	for _, t := range q.StrategyTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Option finds an option by key
func (q *Question) Option(key string) (*Option, bool) {
	if key == "" {
		return nil, false
	}
	for i := range q.Options {
		if q.Options[i].Key == key {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// QuestionSet is an ordered question bank
type QuestionSet struct {
	ID        string     `json:"id" bson:"_id" yaml:"id"`
	Version   string     `json:"version" bson:"version" yaml:"version"`
	Locale    string     `json:"locale,omitempty" bson:"locale,omitempty" yaml:"locale,omitempty"`
	Title     string     `json:"title" bson:"title" yaml:"title"`
	Questions []Question `json:"questions" bson:"questions" yaml:"questions"`
}

// Question finds a question by id
func (s *QuestionSet) Question(id string) (*Question, bool) {
	if id == "" {
		return nil, false
	}
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], true
		}
	}
	return nil, false
}

// AnswerMap maps question id to the chosen option key
type AnswerMap map[string]string
