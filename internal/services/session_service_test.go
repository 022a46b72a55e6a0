package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoplay/internal/dataset"
	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/game"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/testutil"
	"github.com/vytor/lingoplay/internal/testutil/mocks"
)

type sessionFixture struct {
	svc     SessionService
	sched   *testutil.ManualScheduler
	reports *mocks.MockReportQueue
	content *stubContent
	advance func(time.Duration)
}

func newSessionFixture(t *testing.T) *sessionFixture {
	store, clock := seededStore(t)
	sched := testutil.NewManualScheduler()
	reports := new(mocks.MockReportQueue)
	content := defaultContent()
	svc := NewSessionService(SessionConfig{
		Games:           store.Games,
		Content:         content,
		Scheduler:       sched,
		Clock:           clock,
		Reports:         reports,
		DefaultLanguage: "en",
		TTL:             time.Minute,
		Random:          keepOrder,
	})
	return &sessionFixture{
		svc: svc, sched: sched, reports: reports, content: content,
		advance: func(d time.Duration) { clock.Advance(d) },
	}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}

func TestSessionWordMatchCompletesAndReports(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	f.reports.On("EnqueueReport", models.ActivityReport{
		UserID: 7, ActivityType: "game", ActivityID: 1, Score: 1, Total: 1, LanguageCode: "te", Completed: true,
	}).Return(nil).Once()

	v, err := f.svc.Create(ctx, CreateSessionInput{GameID: 1, UserID: 7, Language: "TE"})
	require.NoError(t, err)
	assert.Equal(t, game.KindWordMatch, v.Kind)
	assert.Equal(t, "te", v.Language)
	assert.Equal(t, "beginner", v.Difficulty)
	assert.Equal(t, game.StatusReady, v.State.(game.WordMatchState).Status)

	_, err = f.svc.Act(ctx, v.ID, Action{Type: ActionSelectWord, ID: 1})
	assert.Equal(t, errors.ErrCodeConflict, appCode(t, err), "input before start is rejected")

	_, err = f.svc.Start(ctx, v.ID)
	require.NoError(t, err)
	_, err = f.svc.Act(ctx, v.ID, Action{Type: ActionSelectWord, ID: 1})
	require.NoError(t, err)
	out, err := f.svc.Act(ctx, v.ID, Action{Type: ActionSelectMeaning, ID: 1})
	require.NoError(t, err)

	require.NotNil(t, out.Session.Result)
	assert.Equal(t, SessionResult{Score: 1, Total: 1}, *out.Session.Result)
	assert.Equal(t, game.StatusCompleted, out.Session.State.(game.WordMatchState).Status)
	f.reports.AssertExpectations(t)

	_, err = f.svc.Act(ctx, v.ID, Action{Type: ActionSelectWord, ID: 1})
	assert.Equal(t, errors.ErrCodeConflict, appCode(t, err))
}

func TestSessionAnonymousPlayReportsNothing(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, CreateSessionInput{GameID: 3})
	require.NoError(t, err)
	assert.Equal(t, "en", v.Language)
	assert.Equal(t, dataset.Advanced, f.content.difficulty, "catalog difficulty is the default")

	_, err = f.svc.Start(ctx, v.ID)
	require.NoError(t, err)
	out, err := f.svc.Act(ctx, v.ID, Action{Type: ActionInput, Text: "CAT"})
	require.NoError(t, err)
	require.NotNil(t, out.Correct)
	assert.True(t, *out.Correct)
	require.NotNil(t, out.Session.Result)
	assert.Equal(t, SessionResult{Score: 2, Total: 1}, *out.Session.Result)
	f.reports.AssertNotCalled(t, "EnqueueReport", mock.Anything)
}

func TestSessionReportFailureDoesNotAffectGame(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.reports.On("EnqueueReport", mock.Anything).Return(assert.AnError).Once()

	v, err := f.svc.Create(ctx, CreateSessionInput{GameID: 2, UserID: 1, Difficulty: "advanced"})
	require.NoError(t, err)
	_, err = f.svc.Start(ctx, v.ID)
	require.NoError(t, err)

	out, err := f.svc.Act(ctx, v.ID, Action{Type: ActionCheck})
	require.NoError(t, err)
	assert.True(t, *out.Correct)
	assert.Equal(t, SessionResult{Score: 1, Total: 1}, *out.Session.Result)
	f.reports.AssertExpectations(t)
}

func TestSessionStoryCompletionValidation(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, CreateSessionInput{GameID: 4})
	require.NoError(t, err)
	_, err = f.svc.Start(ctx, v.ID)
	require.NoError(t, err)

	_, err = f.svc.Act(ctx, v.ID, Action{Type: ActionSubmit})
	assert.Equal(t, errors.ErrCodeBadRequest, appCode(t, err), "incomplete answers")

	_, err = f.svc.Act(ctx, v.ID, Action{Type: ActionSelectOption, Blank: 0, Option: 5})
	assert.Equal(t, errors.ErrCodeBadRequest, appCode(t, err), "option out of range")

	_, err = f.svc.Act(ctx, v.ID, Action{Type: ActionCheck})
	assert.Equal(t, errors.ErrCodeBadRequest, appCode(t, err), "wrong game")

	_, err = f.svc.Act(ctx, v.ID, Action{Type: ActionSelectOption, Blank: 0, Option: 0})
	require.NoError(t, err)
	out, err := f.svc.Act(ctx, v.ID, Action{Type: ActionSubmit})
	require.NoError(t, err)
	require.NotNil(t, out.CorrectBlanks)
	assert.Equal(t, 1, *out.CorrectBlanks)

	require.NotNil(t, out.Session.Result, "last story completes on submit")
	assert.Equal(t, SessionResult{Score: 1, Total: 1}, *out.Session.Result)

	_, err = f.svc.Act(ctx, v.ID, Action{Type: ActionSubmit})
	assert.Equal(t, errors.ErrCodeConflict, appCode(t, err))
}

func TestSessionTimeoutCompletesAndRestartClearsResult(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.reports.On("EnqueueReport", mock.Anything).Return(nil)

	v, err := f.svc.Create(ctx, CreateSessionInput{GameID: 1, UserID: 2})
	require.NoError(t, err)
	_, err = f.svc.Start(ctx, v.ID)
	require.NoError(t, err)

	f.sched.Advance(game.WordMatchDuration)
	got, err := f.svc.Get(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Result)
	assert.Equal(t, SessionResult{Score: 0, Total: 1}, *got.Result)

	restarted, err := f.svc.Restart(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, restarted.Result)
	assert.Equal(t, game.StatusActive, restarted.State.(game.WordMatchState).Status)
	f.reports.AssertNumberOfCalls(t, "EnqueueReport", 1)
}

func TestSessionCreateErrors(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateSessionInput{GameID: 0})
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))

	_, err = f.svc.Create(ctx, CreateSessionInput{GameID: 99})
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))

	f.content.pairs = nil
	_, err = f.svc.Create(ctx, CreateSessionInput{GameID: 1})
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))

	_, err = f.svc.Get(ctx, "missing")
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))
}

func TestSessionSubscribeAndDelete(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, CreateSessionInput{GameID: 1})
	require.NoError(t, err)
	events, cancel, err := f.svc.Subscribe(ctx, v.ID)
	require.NoError(t, err)
	defer cancel()

	_, err = f.svc.Start(ctx, v.ID)
	require.NoError(t, err)
	select {
	case ev := <-events:
		assert.Equal(t, game.StatusActive, ev.State.(game.WordMatchState).Status)
	case <-time.After(time.Second):
		t.Fatal("no event after start")
	}

	f.sched.Advance(time.Second)
	ev := <-events
	assert.Equal(t, int(game.WordMatchDuration/time.Second)-1, ev.State.(game.WordMatchState).TimeRemaining)

	require.NoError(t, f.svc.Delete(ctx, v.ID))
	for range events {
		// drain until closed
	}
	assert.Equal(t, 0, f.sched.Pending(), "timers stop with the session")

	err = f.svc.Delete(ctx, v.ID)
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))
	cancel() // safe after the channel is closed
}

func TestSessionSweepRemovesIdleSessions(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	idle, err := f.svc.Create(ctx, CreateSessionInput{GameID: 1})
	require.NoError(t, err)
	f.advance(45 * time.Second)
	fresh, err := f.svc.Create(ctx, CreateSessionInput{GameID: 2})
	require.NoError(t, err)
	f.advance(30 * time.Second)

	assert.Equal(t, 1, f.svc.Sweep(ctx))
	_, err = f.svc.Get(ctx, idle.ID)
	assert.Error(t, err)
	_, err = f.svc.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}
