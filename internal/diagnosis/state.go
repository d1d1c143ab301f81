package diagnosis

import (
	"dronediag/internal/model"
	"slices"
)

// ConstraintState is the running set of soft constraints collected from answers
type ConstraintState struct {
	MaxPrice         *int                   `json:"maxPrice,omitempty"`
	MinPrice         *int                   `json:"minPrice,omitempty"`
	RequiredFeatures []string               `json:"requiredFeatures,omitempty"`
	PreferredWeight  model.WeightPreference `json:"preferredWeight,omitempty"`
}

// HasPriceBounds reports whether either price bound is set
func (c ConstraintState) HasPriceBounds() bool {
	return c.MaxPrice != nil || c.MinPrice != nil
}

// State is one session's diagnosis progress. Values are never mutated in
// place by this package; every transition returns a fresh State.
type State struct {
	Mode            model.Mode      `json:"mode"`
	Constraints     ConstraintState `json:"constraints"`
	Answers         model.AnswerMap `json:"answers"`
	Order           []string        `json:"order"`
	DetailSegments  []string        `json:"detailSegments"`
	PreferredModels []string        `json:"preferredModels"`
	ForceComplete   bool            `json:"forceComplete"`
	ResultSummary   []string        `json:"resultSummary"`
	SkipCommon      bool            `json:"skipCommon"`
}

// StateOption configures the initial state
type StateOption func(*State)

// WithPreferredWeight presets the weight preference, e.g. from an entry link
func WithPreferredWeight(p model.WeightPreference) StateOption {
	return func(s *State) {
		s.Constraints.PreferredWeight = p
	}
}

// WithDetailSegments presets active detail segments
func WithDetailSegments(segments ...string) StateOption {
	return func(s *State) {
		s.DetailSegments = unionStrings(s.DetailSegments, segments)
	}
}

// NewState returns the initial state of a fresh diagnosis
func NewState(opts ...StateOption) State {
	s := State{
		Mode:            model.ModeUndetermined,
		Answers:         model.AnswerMap{},
		Order:           []string{},
		DetailSegments:  []string{},
		PreferredModels: []string{},
		ResultSummary:   []string{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Clone returns a deep copy of s
func (s State) Clone() State {
	out := s
	out.Constraints = s.Constraints.clone()
	out.Answers = make(model.AnswerMap, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	out.Order = cloneStrings(s.Order)
	out.DetailSegments = cloneStrings(s.DetailSegments)
	out.PreferredModels = cloneStrings(s.PreferredModels)
	out.ResultSummary = cloneStrings(s.ResultSummary)
	return out
}

func (c ConstraintState) clone() ConstraintState {
	out := c
	if c.MaxPrice != nil {
		v := *c.MaxPrice
		out.MaxPrice = &v
	}
	if c.MinPrice != nil {
		v := *c.MinPrice
		out.MinPrice = &v
	}
	if c.RequiredFeatures != nil {
		out.RequiredFeatures = cloneStrings(c.RequiredFeatures)
	}
	return out
}

// merge overlays the fields an option sets. Unset fields keep their value.
func (c ConstraintState) merge(in *model.Constraints) ConstraintState {
	if in == nil {
		return c
	}
	if in.MaxPrice != nil {
		v := *in.MaxPrice
		c.MaxPrice = &v
	}
	if in.MinPrice != nil {
		v := *in.MinPrice
		c.MinPrice = &v
	}
	if in.RequiredFeatures != nil {
		c.RequiredFeatures = cloneStrings(in.RequiredFeatures)
	}
	if in.PreferredWeight != model.WeightNoPreference {
		c.PreferredWeight = in.PreferredWeight
	}
	return c
}

// Includes is the inclusion predicate: whether q is eligible in state s.
func Includes(q *model.Question, s State) bool {
	segments := q.Segments()
	hasCommon := slices.Contains(segments, model.SegmentCommon)
	matchesDetail := intersects(segments, s.DetailSegments)

	if s.Mode == model.ModeUndetermined || s.Mode == "" {
		return hasCommon || matchesDetail
	}

	if s.SkipCommon && len(segments) == 1 && hasCommon {
		return false
	}
	if hasCommon || slices.Contains(segments, string(s.Mode)) {
		return true
	}
	return matchesDetail
}

// ApplyAnswer records opt as the answer to q and returns the resulting state.
// Constraints merge field by field, then effects run in a fixed phase order
// independent of their order on the option.
func ApplyAnswer(s State, q *model.Question, opt *model.Option) State {
	next := s.Clone()
	next.Constraints = next.Constraints.merge(opt.Constraints)

	effects := opt.Effects

	for _, e := range effects {
		if e.Op == model.EffectSetMode && (e.Mode == model.ModeLight || e.Mode == model.ModePro) {
			next.Mode = e.Mode
		}
	}

	for _, e := range effects {
		if e.Op == model.EffectSetSegments {
			next.DetailSegments = unionStrings(nil, e.Values)
		}
	}
	for _, e := range effects {
		if e.Op == model.EffectAddSegments {
			next.DetailSegments = unionStrings(next.DetailSegments, e.Values)
		}
	}
	for _, e := range effects {
		if e.Op == model.EffectRemoveSegments {
			next.DetailSegments = subtractStrings(next.DetailSegments, e.Values)
		}
	}

	for _, e := range effects {
		switch e.Op {
		case model.EffectSkipCommon:
			next.SkipCommon = true
		case model.EffectClearPreferredWeight:
			next.Constraints.PreferredWeight = model.WeightNoPreference
		}
	}

	for _, e := range effects {
		if e.Op == model.EffectClearPreferredModels {
			next.PreferredModels = []string{}
		}
	}
	for _, e := range effects {
		if e.Op == model.EffectSetPreferredModels {
			next.PreferredModels = unionStrings(nil, e.Values)
		}
	}
	for _, e := range effects {
		if e.Op == model.EffectAddPreferredModels {
			next.PreferredModels = unionStrings(next.PreferredModels, e.Values)
		}
	}

	for _, e := range effects {
		if e.Op == model.EffectForceComplete {
			next.ForceComplete = true
		}
	}

	for _, e := range effects {
		if e.Op == model.EffectClearSummary {
			next.ResultSummary = []string{}
		}
	}
	for _, e := range effects {
		if e.Op == model.EffectAppendSummary {
			next.ResultSummary = append(next.ResultSummary, e.Text)
		}
	}
	// set replaces whatever clear and append left behind
	for _, e := range effects {
		if e.Op == model.EffectSetSummary {
			next.ResultSummary = []string{e.Text}
		}
	}

	if next.Mode == model.ModeUndetermined || next.Mode == "" {
		next.Mode = model.ModePro
	}

	next.Answers[q.ID] = opt.Key
	if !slices.Contains(next.Order, q.ID) {
		next.Order = append(next.Order, q.ID)
	}
	return next
}

// ActiveQuestions returns the questions eligible in s, in declared order
func ActiveQuestions(set *model.QuestionSet, s State) []*model.Question {
	if set == nil {
		return nil
	}
	var active []*model.Question
	for i := range set.Questions {
		if Includes(&set.Questions[i], s) {
			active = append(active, &set.Questions[i])
		}
	}
	return active
}

// NextQuestion returns the first unanswered eligible question, or nil when
// none is left.
func NextQuestion(set *model.QuestionSet, s State) *model.Question {
	if set == nil {
		return nil
	}
	for i := range set.Questions {
		q := &set.Questions[i]
		if _, answered := s.Answers[q.ID]; answered {
			continue
		}
		if Includes(q, s) {
			return q
		}
	}
	return nil
}

// IsComplete reports whether the flow has finished: the answered count has
// reached the number of currently active questions. An unanswered
// light_terminal question always blocks completion unless the flow was
// forced to finish.
func IsComplete(s State, active []*model.Question) bool {
	if s.Mode == model.ModeUndetermined || s.Mode == "" {
		return false
	}
	if s.ForceComplete {
		return true
	}
	for _, q := range active {
		if _, answered := s.Answers[q.ID]; !answered && q.HasStrategy(model.StrategyLightTerminal) {
			return false
		}
	}
	return len(s.Answers) >= len(active)
}

// Replay folds history over base and returns the resulting state. Entries
// that reference an unknown question or option are skipped.
func Replay(set *model.QuestionSet, base State, history []model.AnswerRecord) State {
	s := base.Clone()
	if set == nil {
		return s
	}
	for _, rec := range history {
		q, ok := set.Question(rec.QuestionID)
		if !ok {
			continue
		}
		opt, ok := q.Option(rec.OptionKey)
		if !ok {
			continue
		}
		s = ApplyAnswer(s, q, opt)
	}
	return s
}

// Progress is the answered count against the current active total
type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// CurrentProgress is the answered count against the active question count.
// Total grows or shrinks as segments toggle.
func CurrentProgress(set *model.QuestionSet, s State) Progress {
	return Progress{
		Answered: len(s.Answers),
		Total:    len(ActiveQuestions(set, s)),
	}
}

// Reanswer returns history with questionID answered by optionKey. When the
// question was already answered, everything from that point on is discarded
// first, since later answers may depend on it.
func Reanswer(history []model.AnswerRecord, questionID, optionKey string) []model.AnswerRecord {
	out := make([]model.AnswerRecord, 0, len(history)+1)
	for _, rec := range history {
		if rec.QuestionID == questionID {
			break
		}
		out = append(out, rec)
	}
	return append(out, model.AnswerRecord{QuestionID: questionID, OptionKey: optionKey})
}

// StepBack returns history without its last entry
func StepBack(history []model.AnswerRecord) []model.AnswerRecord {
	if len(history) == 0 {
		return []model.AnswerRecord{}
	}
	out := make([]model.AnswerRecord, len(history)-1)
	copy(out, history[:len(history)-1])
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// unionStrings appends the values of add missing from base, keeping order
func unionStrings(base, add []string) []string {
	out := cloneStrings(base)
	for _, v := range add {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func subtractStrings(base, remove []string) []string {
	out := make([]string, 0, len(base))
	for _, v := range base {
		if !slices.Contains(remove, v) {
			out = append(out, v)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if slices.Contains(b, v) {
			return true
		}
	}
	return false
}
