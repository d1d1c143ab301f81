package service

import (
	"context"
	"dronediag/internal/cache"
	"dronediag/internal/diagnosis"
	"dronediag/internal/model"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("dronediag/internal/service")

// OptionView is an answer choice as shown to the user
type OptionView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// QuestionView is the question to render next
type QuestionView struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Options  []OptionView `json:"options"`
	Selected string       `json:"selected,omitempty"`
	Terminal bool         `json:"terminal"`
}

// View is everything a client needs to render one step of a diagnosis
type View struct {
	SessionID         string                    `json:"sessionId"`
	QuestionSetID     string                    `json:"questionSetId"`
	PreferredCategory model.CategoryKey         `json:"preferredCategory,omitempty"`
	Mode              model.Mode                `json:"mode"`
	Question          *QuestionView             `json:"question,omitempty"`
	Progress          diagnosis.Progress        `json:"progress"`
	Complete          bool                      `json:"complete"`
	Constraints       diagnosis.ConstraintState `json:"constraints"`
	History           []model.AnswerRecord      `json:"history"`
	Evaluation        diagnosis.Summary         `json:"evaluation"`
	Candidates        []model.Product           `json:"candidates"`
	Result            *diagnosis.Result         `json:"result,omitempty"`
}

// StartRequest configures a new diagnosis
type StartRequest struct {
	QuestionSetID     string                 `json:"questionSetId,omitempty"`
	PreferredWeight   model.WeightPreference `json:"preferredWeight,omitempty"`
	PreferredCategory model.CategoryKey      `json:"preferredCategory,omitempty"`
}

// StartResponse carries the new session handle
type StartResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	View      *View  `json:"view"`
}

// DiagnosisService runs diagnosis sessions. Sessions only store their answer
// history; every request replays it through the engine.
type DiagnosisService struct {
	datasets    *DatasetService
	sessions    cache.SessionCache
	tokens      *TokenService
	broadcaster Broadcaster

	threshold    float64
	defaultSetID string
	newID        func() string
	now          func() time.Time
}

// DiagnosisOption configures a DiagnosisService
type DiagnosisOption func(*DiagnosisService)

// WithClosenessThreshold sets the score gap for close-second categories
func WithClosenessThreshold(threshold float64) DiagnosisOption {
	return func(s *DiagnosisService) {
		if threshold >= 0 {
			s.threshold = threshold
		}
	}
}

// WithDefaultQuestionSet sets the question set used when a start request
// names none
func WithDefaultQuestionSet(id string) DiagnosisOption {
	return func(s *DiagnosisService) {
		if id != "" {
			s.defaultSetID = id
		}
	}
}

// NewDiagnosisService creates a new diagnosis service
func NewDiagnosisService(
	datasets *DatasetService,
	sessions cache.SessionCache,
	tokens *TokenService,
	opts ...DiagnosisOption,
) *DiagnosisService {
	s := &DiagnosisService{
		datasets:     datasets,
		sessions:     sessions,
		tokens:       tokens,
		threshold:    diagnosis.DefaultClosenessThreshold,
		defaultSetID: "dynamic",
		newID:        func() string { return "d_" + uuid.New().String() },
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBroadcaster sets the broadcaster for real-time updates
func (s *DiagnosisService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Tokens exposes the token service for transport-level checks
func (s *DiagnosisService) Tokens() *TokenService {
	return s.tokens
}

// Start opens a new session and returns its first view
func (s *DiagnosisService) Start(ctx context.Context, req StartRequest) (resp *StartResponse, err error) {
	ctx, span := tracer.Start(ctx, "diagnosis.Start")
	defer func() { endSpan(span, err) }()

	if !req.PreferredWeight.Valid() {
		return nil, model.NewValidationError("preferredWeight", string(req.PreferredWeight), model.ErrInvalidPreference)
	}
	setID := req.QuestionSetID
	if setID == "" {
		setID = s.defaultSetID
	}
	set, err := s.datasets.QuestionSet(setID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &model.Session{
		ID:              s.newID(),
		QuestionSetID:   set.ID,
		PreferredWeight: req.PreferredWeight,
		History:         []model.AnswerRecord{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, ok := s.datasets.Catalog().Category(req.PreferredCategory); ok {
		session.PreferredCategory = req.PreferredCategory
	}
	span.SetAttributes(attribute.String("session.id", session.ID), attribute.String("questionSet.id", set.ID))

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	token, err := s.tokens.Issue(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("diagnosis started", "session", session.ID, "questionSet", set.ID, "preferredWeight", session.PreferredWeight)
	return &StartResponse{
		SessionID: session.ID,
		Token:     token,
		View:      s.render(set, session),
	}, nil
}

// Get returns the current view of a session
func (s *DiagnosisService) Get(ctx context.Context, sessionID string) (view *View, err error) {
	ctx, span := tracer.Start(ctx, "diagnosis.Get", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	session, set, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.render(set, session), nil
}

// Answer records optionKey for questionID. Re-answering an earlier question
// discards every answer given after it.
func (s *DiagnosisService) Answer(ctx context.Context, sessionID, questionID, optionKey string) (view *View, err error) {
	ctx, span := tracer.Start(ctx, "diagnosis.Answer", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("question.id", questionID),
	))
	defer func() { endSpan(span, err) }()

	if optionKey == "" {
		return nil, ErrNoOptionSelected
	}
	session, set, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	q, ok := set.Question(questionID)
	if !ok {
		return nil, ErrUnknownQuestion
	}
	opt, ok := q.Option(optionKey)
	if !ok {
		return nil, ErrUnknownOption
	}

	state := s.replay(set, session)
	if _, answered := state.Answers[q.ID]; !answered && !diagnosis.Includes(q, state) {
		return nil, ErrQuestionNotActive
	}

	session.History = diagnosis.Reanswer(session.History, q.ID, opt.Key)
	return s.save(ctx, set, session)
}

// Back drops the most recent answer. It is a no-op on a fresh session.
func (s *DiagnosisService) Back(ctx context.Context, sessionID string) (view *View, err error) {
	ctx, span := tracer.Start(ctx, "diagnosis.Back", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	session, set, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.History) == 0 {
		return s.render(set, session), nil
	}
	session.History = diagnosis.StepBack(session.History)
	return s.save(ctx, set, session)
}

// Reset clears every answer while keeping the entry preferences
func (s *DiagnosisService) Reset(ctx context.Context, sessionID string) (view *View, err error) {
	ctx, span := tracer.Start(ctx, "diagnosis.Reset", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	session, set, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.History = []model.AnswerRecord{}
	return s.save(ctx, set, session)
}

// End discards a session and disconnects its subscribers
func (s *DiagnosisService) End(ctx context.Context, sessionID string) (err error) {
	ctx, span := tracer.Start(ctx, "diagnosis.End", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, MsgDiagnosisEnded, map[string]string{"sessionId": sessionID})
		s.broadcaster.DisconnectSession(sessionID)
	}
	slog.Info("diagnosis ended", "session", sessionID, "answers", len(session.History))
	return nil
}

func (s *DiagnosisService) load(ctx context.Context, sessionID string) (*model.Session, *model.QuestionSet, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}
	set, err := s.datasets.QuestionSet(session.QuestionSetID)
	if err != nil {
		return nil, nil, err
	}
	return session, set, nil
}

func (s *DiagnosisService) save(ctx context.Context, set *model.QuestionSet, session *model.Session) (*View, error) {
	session.UpdatedAt = s.now()
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	view := s.render(set, session)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(session.ID, MsgDiagnosisUpdated, view)
	}
	slog.Debug("diagnosis updated", "session", session.ID, "answers", len(session.History), "complete", view.Complete)
	return view, nil
}

func (s *DiagnosisService) replay(set *model.QuestionSet, session *model.Session) diagnosis.State {
	base := diagnosis.NewState(diagnosis.WithPreferredWeight(session.PreferredWeight))
	return diagnosis.Replay(set, base, session.History)
}

// render derives the full view from the session's history
func (s *DiagnosisService) render(set *model.QuestionSet, session *model.Session) *View {
	state := s.replay(set, session)
	catalog := s.datasets.Catalog()

	view := &View{
		SessionID:         session.ID,
		QuestionSetID:     set.ID,
		PreferredCategory: session.PreferredCategory,
		Mode:              state.Mode,
		Progress:          diagnosis.CurrentProgress(set, state),
		Complete:          diagnosis.IsComplete(state, diagnosis.ActiveQuestions(set, state)),
		Constraints:       state.Constraints,
		History:           answeredHistory(state, session.History),
		Evaluation:        s.datasets.Scorer().Evaluate(set, state.Answers, s.threshold),
		Candidates:        []model.Product{},
	}

	var sel diagnosis.Selection
	if view.Evaluation.Primary != nil {
		sel = diagnosis.SelectCandidates(catalog, view.Evaluation.Primary.Category, state)
	}

	if view.Complete {
		view.Result = diagnosis.BuildResult(catalog, s.datasets.Templates(), view.Evaluation, sel, state)
		return view
	}

	next := diagnosis.NextQuestion(set, state)
	if next == nil {
		slog.Warn("diagnosis has no next question but is not complete", "session", session.ID, "mode", state.Mode)
	} else {
		view.Question = newQuestionView(next, state)
	}
	view.Candidates = s.candidates(next, state, sel)
	return view
}

// candidates picks the side panel products: the open question's showcase,
// then pinned models, then the live selection.
func (s *DiagnosisService) candidates(next *model.Question, state diagnosis.State, sel diagnosis.Selection) []model.Product {
	if next != nil && len(next.CandidatePool) > 0 {
		if pool := s.datasets.ResolveProducts(next.CandidatePool); len(pool) > 0 {
			return pool
		}
	}
	if pinned := s.datasets.ResolveProducts(state.PreferredModels); len(pinned) > 0 {
		return pinned
	}

	out := make([]model.Product, 0, len(sel.Alternatives)+1)
	if sel.Primary != nil {
		out = append(out, *sel.Primary)
	}
	for _, p := range sel.Alternatives {
		if sel.Primary == nil || p.ID != sel.Primary.ID {
			out = append(out, p)
		}
	}
	return out
}

func newQuestionView(q *model.Question, state diagnosis.State) *QuestionView {
	qv := &QuestionView{
		ID:       q.ID,
		Text:     q.Text,
		Options:  make([]OptionView, 0, len(q.Options)),
		Selected: state.Answers[q.ID],
		Terminal: q.HasStrategy(model.StrategyLightTerminal),
	}
	for _, opt := range q.Options {
		qv.Options = append(qv.Options, OptionView{Key: opt.Key, Label: opt.Label})
	}
	return qv
}

// answeredHistory keeps only the history entries that replay accepted
func answeredHistory(state diagnosis.State, history []model.AnswerRecord) []model.AnswerRecord {
	out := make([]model.AnswerRecord, 0, len(state.Order))
	for _, id := range state.Order {
		out = append(out, model.AnswerRecord{QuestionID: id, OptionKey: state.Answers[id]})
	}
	if len(out) != len(history) {
		slog.Debug("dropped invalid history entries", "kept", len(out), "stored", len(history))
	}
	return out
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
