package game_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoplay/internal/dataset"
	"github.com/vytor/lingoplay/internal/game"
	"github.com/vytor/lingoplay/internal/testutil"
)

var builderSentences = []dataset.Sentence{
	{ID: 1, Words: []string{"I", "like", "books"}, CorrectOrder: []string{"I", "like", "books"}, Meaning: "reading"},
	{ID: 2, Words: []string{"She", "goes", "home"}, CorrectOrder: []string{"She", "goes", "home"}, Meaning: "going home"},
}

func newSentenceBuilder(t *testing.T, intn func(int) int) (*game.SentenceBuilder, *recorder, *testutil.ManualScheduler) {
	t.Helper()
	rec := &recorder{}
	sched := testutil.NewManualScheduler()
	g, err := game.NewSentenceBuilder(builderSentences, sched,
		game.WithOnComplete(rec.onComplete),
		game.WithRandom(intn),
	)
	require.NoError(t, err)
	require.NoError(t, g.Start())
	return g, rec, sched
}

func TestSameOrder(t *testing.T) {
	correct := []string{"They", "are", "playing", "outside"}

	assert.True(t, game.SameOrder([]string{"They", "are", "playing", "outside"}, correct))
	assert.False(t, game.SameOrder([]string{"are", "They", "playing", "outside"}, correct))
	assert.False(t, game.SameOrder([]string{"They", "are", "outside", "playing"}, correct))
	assert.False(t, game.SameOrder([]string{"they", "are", "playing", "outside"}, correct), "comparison is case-sensitive")
	assert.False(t, game.SameOrder([]string{"They", "are", "playing"}, correct))
}

func TestSentenceBuilder_CheckAdvancesAndCompletes(t *testing.T) {
	g, rec, _ := newSentenceBuilder(t, keepOrder)

	ok, err := g.Check()
	require.NoError(t, err)
	assert.True(t, ok)

	st := g.Snapshot()
	assert.Equal(t, 1, st.CurrentIndex)
	assert.Equal(t, 1, st.Score)
	assert.Equal(t, []string{"She", "goes", "home"}, st.CurrentWords)

	ok, err = g.Check()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, game.StatusCompleted, g.Snapshot().Status)
	assert.Equal(t, []completion{{Score: 2, Total: 2}}, rec.results())
}

func TestSentenceBuilder_WrongOrderDoesNotMutate(t *testing.T) {
	// Always swapping with the head turns [I like books] into [like books I].
	g, rec, _ := newSentenceBuilder(t, func(int) int { return 0 })
	before := g.Snapshot()
	require.Equal(t, []string{"like", "books", "I"}, before.CurrentWords)

	ok, err := g.Check()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, g.Snapshot())
	assert.Empty(t, rec.results())

	require.NoError(t, g.Reorder(2, 0))
	assert.Equal(t, []string{"I", "like", "books"}, g.Snapshot().CurrentWords)

	ok, err = g.Check()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSentenceBuilder_Reorder(t *testing.T) {
	g, _, _ := newSentenceBuilder(t, keepOrder)

	require.NoError(t, g.Reorder(0, 2))
	assert.Equal(t, []string{"like", "books", "I"}, g.Snapshot().CurrentWords)

	require.NoError(t, g.Reorder(1, 1))
	assert.Equal(t, []string{"like", "books", "I"}, g.Snapshot().CurrentWords)

	assert.ErrorIs(t, g.Reorder(-1, 0), game.ErrIndexOutOfRange)
	assert.ErrorIs(t, g.Reorder(0, 3), game.ErrIndexOutOfRange)
	assert.Equal(t, []string{"like", "books", "I"}, g.Snapshot().CurrentWords)
}

func TestSentenceBuilder_Timeout(t *testing.T) {
	g, rec, sched := newSentenceBuilder(t, keepOrder)
	_, err := g.Check()
	require.NoError(t, err)

	sched.Advance(180 * time.Second)

	assert.Equal(t, game.StatusCompleted, g.Snapshot().Status)
	assert.Equal(t, []completion{{Score: 1, Total: 2}}, rec.results())

	_, err = g.Check()
	assert.ErrorIs(t, err, game.ErrCompleted)
	assert.ErrorIs(t, g.Reorder(0, 1), game.ErrCompleted)
}

func TestSentenceBuilder_RestartReshuffles(t *testing.T) {
	g, _, _ := newSentenceBuilder(t, keepOrder)
	_, err := g.Check()
	require.NoError(t, err)

	require.NoError(t, g.Restart())

	st := g.Snapshot()
	assert.Equal(t, 0, st.CurrentIndex)
	assert.Equal(t, 0, st.Score)
	assert.Equal(t, 180, st.TimeRemaining)
	assert.ElementsMatch(t, builderSentences[0].CorrectOrder, st.CurrentWords)
}

func TestNewSentenceBuilder_FillsMissingWords(t *testing.T) {
	g, err := game.NewSentenceBuilder([]dataset.Sentence{{ID: 1, CorrectOrder: []string{"a", "b"}}}, testutil.NewManualScheduler())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, g.Snapshot().CurrentWords)

	_, err = game.NewSentenceBuilder(nil, testutil.NewManualScheduler())
	assert.ErrorIs(t, err, game.ErrNoItems)
}
