package services

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/vytor/lingoplay/internal/dataset"
	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/game"
	"github.com/vytor/lingoplay/internal/jobs"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
	"github.com/vytor/lingoplay/internal/shuffle"
)

// Action types accepted by SessionService.Act, per game.
const (
	ActionSelectWord    = "select-word"    // word match: ID
	ActionSelectMeaning = "select-meaning" // word match: ID
	ActionReorder       = "reorder"        // sentence builder: From, To
	ActionCheck         = "check"          // sentence builder
	ActionInput         = "input"          // rapid fire: Text
	ActionSelectOption  = "select-option"  // story completion: Blank, Option
	ActionSubmit        = "submit"         // story completion
)

// CreateSessionInput picks a catalog game and the content to play it with.
// UserID 0 plays anonymously and reports nothing.
type CreateSessionInput struct {
	GameID     int64  `json:"gameId"`
	UserID     int64  `json:"userId"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
}

// Action is one learner input.
type Action struct {
	Type   string `json:"type"`
	ID     int    `json:"id"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	Text   string `json:"text"`
	Blank  int    `json:"blank"`
	Option int    `json:"option"`
}

// SessionResult is the final score of a completed lifecycle.
type SessionResult struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// SessionView is a point-in-time copy of a session.
type SessionView struct {
	ID         string         `json:"id"`
	GameID     int64          `json:"gameId"`
	Kind       game.Kind      `json:"kind"`
	UserID     int64          `json:"userId"`
	Language   string         `json:"language"`
	Difficulty string         `json:"difficulty"`
	CreatedAt  time.Time      `json:"createdAt"`
	Result     *SessionResult `json:"result,omitempty"`
	State      any            `json:"state"`
}

// ActionOutcome reports what an action achieved. Correct is set by check and
// input; CorrectBlanks by submit.
type ActionOutcome struct {
	Correct       *bool       `json:"correct,omitempty"`
	CorrectBlanks *int        `json:"correctBlanks,omitempty"`
	Session       SessionView `json:"session"`
}

// SessionService runs timed game sessions in memory
type SessionService interface {
	Create(ctx context.Context, input CreateSessionInput) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	Start(ctx context.Context, id string) (*SessionView, error)
	Restart(ctx context.Context, id string) (*SessionView, error)
	Act(ctx context.Context, id string, action Action) (*ActionOutcome, error)
	Delete(ctx context.Context, id string) error
	// Subscribe streams a view after every state change until cancel is
	// called or the session is deleted. Slow readers miss intermediate views.
	Subscribe(ctx context.Context, id string) (<-chan SessionView, func(), error)
	// Sweep deletes sessions untouched for longer than the TTL.
	Sweep(ctx context.Context) int
	// Run sweeps periodically until ctx is done, then stops every session.
	Run(ctx context.Context, every time.Duration)
}

// SessionConfig wires a SessionService.
type SessionConfig struct {
	Games           repository.GameRepository
	Content         dataset.Provider
	Scheduler       game.Scheduler
	Clock           clockwork.Clock
	Reports         jobs.ReportQueue
	DefaultLanguage string
	TTL             time.Duration
	// Random overrides the shuffle source; nil uses math/rand.
	Random shuffle.IntN
}

type sessionService struct {
	cfg SessionConfig

	mu       sync.RWMutex
	sessions map[string]*playSession
}

// NewSessionService creates a new SessionService
func NewSessionService(cfg SessionConfig) SessionService {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = game.NewScheduler(cfg.Clock)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	return &sessionService{cfg: cfg, sessions: make(map[string]*playSession)}
}

// playSession binds a game to its catalog entry and subscribers.
type playSession struct {
	id         string
	gameID     int64
	kind       game.Kind
	userID     int64
	language   string
	difficulty dataset.Difficulty
	createdAt  time.Time

	game     game.Session
	snapshot func() any
	act      func(Action) (ActionOutcome, error)

	mu         sync.Mutex
	result     *SessionResult
	lastAccess time.Time
	subs       map[chan SessionView]struct{}
	closed     bool
}

func (p *playSession) view() SessionView {
	state := p.snapshot()
	p.mu.Lock()
	defer p.mu.Unlock()
	v := SessionView{
		ID:         p.id,
		GameID:     p.gameID,
		Kind:       p.kind,
		UserID:     p.userID,
		Language:   p.language,
		Difficulty: string(p.difficulty),
		CreatedAt:  p.createdAt,
		State:      state,
	}
	if p.result != nil {
		r := *p.result
		v.Result = &r
	}
	return v
}

func (p *playSession) touch(now time.Time) {
	p.mu.Lock()
	p.lastAccess = now
	p.mu.Unlock()
}

// publish fans the current view out to subscribers without blocking.
func (p *playSession) publish() {
	v := p.view()
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

func (p *playSession) subscribe() (chan SessionView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, false
	}
	ch := make(chan SessionView, 8)
	p.subs[ch] = struct{}{}
	return ch, true
}

func (p *playSession) unsubscribe(ch chan SessionView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.subs[ch]; ok {
		delete(p.subs, ch)
		close(ch)
	}
}

func (p *playSession) close() {
	p.game.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for ch := range p.subs {
		delete(p.subs, ch)
		close(ch)
	}
}

func (s *sessionService) Create(ctx context.Context, input CreateSessionInput) (*SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating session: game_id=%d, user_id=%d, language=%s, difficulty=%s", input.GameID, input.UserID, input.Language, input.Difficulty)

	if input.GameID <= 0 {
		return nil, errors.NewValidationError("gameId", "must be positive")
	}
	if input.UserID < 0 {
		return nil, errors.NewValidationError("userId", "cannot be negative")
	}

	entry, err := s.cfg.Games.Get(ctx, input.GameID)
	if err != nil {
		log.Error("failed to get game: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entry == nil {
		return nil, errors.NewNotFoundError("game", input.GameID)
	}
	kind := game.Kind(entry.Kind)
	if !kind.Valid() {
		return nil, errors.NewBadRequestError("game " + entry.Title + " is not playable")
	}

	language := strings.ToLower(strings.TrimSpace(input.Language))
	if language == "" {
		language = s.cfg.DefaultLanguage
	}
	diffName := input.Difficulty
	if strings.TrimSpace(diffName) == "" {
		diffName = entry.Difficulty
	}

	now := s.cfg.Clock.Now()
	sess := &playSession{
		id:         uuid.NewString(),
		gameID:     entry.ID,
		kind:       kind,
		userID:     input.UserID,
		language:   language,
		difficulty: dataset.ParseDifficulty(diffName),
		createdAt:  now,
		lastAccess: now,
		subs:       make(map[chan SessionView]struct{}),
	}

	opts := []game.Option{
		game.WithOnComplete(func(score, total int) { s.completed(sess, score, total) }),
		game.WithOnChange(sess.publish),
	}
	if s.cfg.Random != nil {
		opts = append(opts, game.WithRandom(s.cfg.Random))
	}
	if err := s.build(sess, opts); err != nil {
		if stderrors.Is(err, dataset.ErrNotFound) {
			return nil, errors.NewNotFoundError("content", language+"/"+string(sess.difficulty))
		}
		log.Error("failed to build %s session: %v", kind, err)
		return nil, errors.NewInternalError(err)
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	log.Info("session created: id=%s, kind=%s, language=%s, difficulty=%s", sess.id, kind, language, sess.difficulty)
	v := sess.view()
	return &v, nil
}

// build loads content and constructs the game for sess.kind.
func (s *sessionService) build(sess *playSession, opts []game.Option) error {
	content, sched := s.cfg.Content, s.cfg.Scheduler
	switch sess.kind {
	case game.KindWordMatch:
		pairs, err := content.WordPairs(sess.language, sess.difficulty)
		if err != nil {
			return err
		}
		g, err := game.NewWordMatch(pairs, sched, opts...)
		if err != nil {
			return err
		}
		sess.game, sess.snapshot = g, func() any { return g.Snapshot() }
		sess.act = func(a Action) (ActionOutcome, error) {
			switch a.Type {
			case ActionSelectWord:
				return ActionOutcome{}, g.SelectWord(a.ID)
			case ActionSelectMeaning:
				return ActionOutcome{}, g.SelectMeaning(a.ID)
			}
			return ActionOutcome{}, unsupportedAction(a, sess.kind)
		}

	case game.KindSentenceBuilder:
		sentences, err := content.Sentences(sess.language, sess.difficulty)
		if err != nil {
			return err
		}
		g, err := game.NewSentenceBuilder(sentences, sched, opts...)
		if err != nil {
			return err
		}
		sess.game, sess.snapshot = g, func() any { return g.Snapshot() }
		sess.act = func(a Action) (ActionOutcome, error) {
			switch a.Type {
			case ActionReorder:
				return ActionOutcome{}, g.Reorder(a.From, a.To)
			case ActionCheck:
				ok, err := g.Check()
				if err != nil {
					return ActionOutcome{}, err
				}
				return ActionOutcome{Correct: &ok}, nil
			}
			return ActionOutcome{}, unsupportedAction(a, sess.kind)
		}

	case game.KindRapidFire:
		words, err := content.Words(sess.language, sess.difficulty)
		if err != nil {
			return err
		}
		g, err := game.NewRapidFire(words, game.BudgetFor(sess.difficulty), sched, opts...)
		if err != nil {
			return err
		}
		sess.game, sess.snapshot = g, func() any { return g.Snapshot() }
		sess.act = func(a Action) (ActionOutcome, error) {
			if a.Type != ActionInput {
				return ActionOutcome{}, unsupportedAction(a, sess.kind)
			}
			ok, err := g.Input(a.Text)
			if err != nil {
				return ActionOutcome{}, err
			}
			return ActionOutcome{Correct: &ok}, nil
		}

	case game.KindStoryCompletion:
		stories, err := content.Stories(sess.language, sess.difficulty)
		if err != nil {
			return err
		}
		g, err := game.NewStoryCompletion(stories, sched, opts...)
		if err != nil {
			return err
		}
		sess.game, sess.snapshot = g, func() any { return g.Snapshot() }
		sess.act = func(a Action) (ActionOutcome, error) {
			switch a.Type {
			case ActionSelectOption:
				return ActionOutcome{}, g.SelectOption(a.Blank, a.Option)
			case ActionSubmit:
				n, err := g.Submit()
				if err != nil {
					return ActionOutcome{}, err
				}
				return ActionOutcome{CorrectBlanks: &n}, nil
			}
			return ActionOutcome{}, unsupportedAction(a, sess.kind)
		}
	}
	return nil
}

var errUnsupportedAction = stderrors.New("unsupported action")

func unsupportedAction(a Action, kind game.Kind) error {
	return &actionError{action: a.Type, kind: kind}
}

type actionError struct {
	action string
	kind   game.Kind
}

func (e *actionError) Error() string {
	return "action " + e.action + " is not supported by " + string(e.kind)
}

func (e *actionError) Is(target error) bool { return target == errUnsupportedAction }

// completed runs once per lifecycle from the game's completion callback.
func (s *sessionService) completed(sess *playSession, score, total int) {
	log := logger.Default().WithPrefix("sessions").WithField("session_id", sess.id)

	sess.mu.Lock()
	sess.result = &SessionResult{Score: score, Total: total}
	sess.lastAccess = s.cfg.Clock.Now()
	sess.mu.Unlock()

	log.Info("session completed: kind=%s, score=%d/%d", sess.kind, score, total)
	if sess.userID == 0 || s.cfg.Reports == nil {
		return
	}

	report := models.ActivityReport{
		UserID:       sess.userID,
		ActivityType: models.ActivityTypeGame,
		ActivityID:   sess.gameID,
		Score:        score,
		Total:        total,
		LanguageCode: sess.language,
		Completed:    true,
	}
	if err := s.cfg.Reports.EnqueueReport(report); err != nil {
		log.Warn("dropping activity report: %v", err)
	}
}

func (s *sessionService) lookup(id string) (*playSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	sess.touch(s.cfg.Clock.Now())
	return sess, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	v := sess.view()
	return &v, nil
}

func (s *sessionService) Start(ctx context.Context, id string) (*SessionView, error) {
	log := logger.FromContext(ctx)
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := sess.game.Start(); err != nil {
		return nil, gameError(err)
	}
	log.Debug("session started: id=%s", id)
	v := sess.view()
	return &v, nil
}

func (s *sessionService) Restart(ctx context.Context, id string) (*SessionView, error) {
	log := logger.FromContext(ctx)
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := sess.game.Restart(); err != nil {
		return nil, gameError(err)
	}
	sess.mu.Lock()
	sess.result = nil
	sess.mu.Unlock()
	sess.publish()

	log.Debug("session restarted: id=%s", id)
	v := sess.view()
	return &v, nil
}

func (s *sessionService) Act(ctx context.Context, id string, action Action) (*ActionOutcome, error) {
	log := logger.FromContext(ctx)
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	log.Debug("session action: id=%s, type=%s", id, action.Type)

	out, err := sess.act(action)
	if err != nil {
		return nil, gameError(err)
	}
	out.Session = sess.view()
	return &out, nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return errors.NewNotFoundError("session", id)
	}
	sess.close()
	logger.FromContext(ctx).Debug("session deleted: id=%s", id)
	return nil
}

func (s *sessionService) Subscribe(ctx context.Context, id string) (<-chan SessionView, func(), error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	ch, ok := sess.subscribe()
	if !ok {
		return nil, nil, errors.NewNotFoundError("session", id)
	}
	var once sync.Once
	return ch, func() { once.Do(func() { sess.unsubscribe(ch) }) }, nil
}

func (s *sessionService) Sweep(ctx context.Context) int {
	cutoff := s.cfg.Clock.Now().Add(-s.cfg.TTL)

	var expired []*playSession
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := sess.lastAccess.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
	if len(expired) > 0 {
		logger.FromContext(ctx).Info("swept %d idle sessions", len(expired))
	}
	return len(expired)
}

func (s *sessionService) Run(ctx context.Context, every time.Duration) {
	log := logger.FromContext(ctx).WithPrefix("sessions")
	ticker := s.cfg.Clock.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			all := s.sessions
			s.sessions = make(map[string]*playSession)
			s.mu.Unlock()
			for _, sess := range all {
				sess.close()
			}
			log.Info("stopped %d sessions", len(all))
			return
		case <-ticker.Chan():
			s.Sweep(ctx)
		}
	}
}

// gameError maps game input errors onto API errors.
func gameError(err error) error {
	switch {
	case game.IsInactive(err):
		return errors.NewConflictError(err.Error(), err)
	case stderrors.Is(err, game.ErrAlreadySubmitted):
		return errors.NewConflictError(err.Error(), err)
	case stderrors.Is(err, game.ErrIncompleteAnswers),
		stderrors.Is(err, game.ErrIndexOutOfRange),
		stderrors.Is(err, game.ErrUnknownItem),
		stderrors.Is(err, errUnsupportedAction):
		return errors.NewBadRequestError(err.Error())
	default:
		return errors.NewInternalError(err)
	}
}
