package services

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoplay/internal/dataset"
	"github.com/vytor/lingoplay/internal/repository"
	"github.com/vytor/lingoplay/internal/repository/memory"
)

// keepOrder makes every shuffle the identity permutation.
func keepOrder(n int) int { return n - 1 }

// stubContent serves fixed content for every language and difficulty and
// records the last lookup.
type stubContent struct {
	pairs     []dataset.WordPair
	sentences []dataset.Sentence
	words     []dataset.Word
	stories   []dataset.Story

	language   string
	difficulty dataset.Difficulty
}

func (c *stubContent) seen(language string, difficulty dataset.Difficulty) {
	c.language, c.difficulty = language, difficulty
}

func (c *stubContent) WordPairs(language string, difficulty dataset.Difficulty) ([]dataset.WordPair, error) {
	c.seen(language, difficulty)
	if len(c.pairs) == 0 {
		return nil, &dataset.NotFoundError{Dataset: "word_pairs", Language: language, Difficulty: difficulty}
	}
	return c.pairs, nil
}

func (c *stubContent) Sentences(language string, difficulty dataset.Difficulty) ([]dataset.Sentence, error) {
	c.seen(language, difficulty)
	return c.sentences, nil
}

func (c *stubContent) Words(language string, difficulty dataset.Difficulty) ([]dataset.Word, error) {
	c.seen(language, difficulty)
	return c.words, nil
}

func (c *stubContent) Stories(language string, difficulty dataset.Difficulty) ([]dataset.Story, error) {
	c.seen(language, difficulty)
	return c.stories, nil
}

func (c *stubContent) Languages() []string { return []string{"en", "hi", "te"} }

func defaultContent() *stubContent {
	return &stubContent{
		pairs: []dataset.WordPair{{ID: 1, Word: "cat", Meaning: "a small pet"}},
		sentences: []dataset.Sentence{{
			ID: 1, Words: []string{"I", "am", "here"}, CorrectOrder: []string{"I", "am", "here"}, Meaning: "presence",
		}},
		words: []dataset.Word{{ID: 1, Text: "cat", Meaning: "pet"}},
		stories: []dataset.Story{{
			ID:   1,
			Text: "The $BLANK_0 sat.",
			Blanks: []dataset.Blank{
				{ID: 0, Options: []string{"cat", "sky"}, CorrectIndex: 0},
			},
		}},
	}
}

// seededStore returns a seeded in-memory store on a fake clock.
func seededStore(t *testing.T) (repository.Store, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := memory.New(clock)
	require.NoError(t, repository.Seed(context.Background(), store))
	return store, clock
}
