package game

import (
	"slices"
	"strings"
	"time"

	"github.com/vytor/lingoplay/internal/dataset"
)

const SentenceBuilderDuration = 180 * time.Second

// SentenceBuilder asks the player to put shuffled words back in order.
type SentenceBuilder struct {
	core

	sentences     []dataset.Sentence
	current       int
	currentWords  []string
	score         int
	timeRemaining int
}

// SentenceBuilderState is a point-in-time view of a SentenceBuilder session.
type SentenceBuilderState struct {
	Status        Status   `json:"status"`
	CurrentIndex  int      `json:"currentIndex"`
	Total         int      `json:"total"`
	CurrentWords  []string `json:"currentWords"`
	Meaning       string   `json:"meaning"`
	Score         int      `json:"score"`
	TimeRemaining int      `json:"timeRemaining"`
}

// NewSentenceBuilder builds a session over sentences in the given order.
func NewSentenceBuilder(sentences []dataset.Sentence, sched Scheduler, opts ...Option) (*SentenceBuilder, error) {
	if len(sentences) == 0 {
		return nil, ErrNoItems
	}
	g := &SentenceBuilder{sentences: make([]dataset.Sentence, len(sentences))}
	for i, s := range sentences {
		if len(s.Words) == 0 {
			s.Words = s.CorrectOrder
		}
		s.Words = slices.Clone(s.Words)
		s.CorrectOrder = slices.Clone(s.CorrectOrder)
		g.sentences[i] = s
	}
	g.setup(sched, buildOptions(SentenceBuilderDuration, opts))
	g.resetBoard()
	return g, nil
}

func (g *SentenceBuilder) resetBoard() {
	g.current = 0
	g.score = 0
	g.currentWords = shuffled(&g.core, g.sentences[0].Words)
	g.timeRemaining = int(g.opts.duration / time.Second)
}

// Start begins the countdown.
func (g *SentenceBuilder) Start() error {
	g.lock()
	defer g.unlock()
	return g.startLocked()
}

func (g *SentenceBuilder) startLocked() error {
	if g.active() {
		return nil
	}
	if err := g.begin(); err != nil {
		return err
	}
	g.every(time.Second, g.tick)
	return nil
}

func (g *SentenceBuilder) tick() {
	g.timeRemaining--
	g.changed()
	if g.timeRemaining <= 0 {
		g.timeRemaining = 0
		g.complete(g.score, len(g.sentences))
	}
}

// Reorder moves the word at from so that it ends up at index to.
func (g *SentenceBuilder) Reorder(from, to int) error {
	g.lock()
	defer g.unlock()

	if err := g.requireActive(); err != nil {
		return err
	}
	n := len(g.currentWords)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	word := g.currentWords[from]
	g.currentWords = slices.Delete(g.currentWords, from, from+1)
	g.currentWords = slices.Insert(g.currentWords, to, word)
	g.changed()
	return nil
}

// Check compares the working order with the current sentence. A correct
// answer scores a point and moves on; a wrong one changes nothing.
func (g *SentenceBuilder) Check() (bool, error) {
	g.lock()
	defer g.unlock()

	if err := g.requireActive(); err != nil {
		return false, err
	}
	if !SameOrder(g.currentWords, g.sentences[g.current].CorrectOrder) {
		return false, nil
	}

	g.score++
	g.changed()
	if g.current == len(g.sentences)-1 {
		g.complete(g.score, len(g.sentences))
		return true, nil
	}
	g.current++
	g.currentWords = shuffled(&g.core, g.sentences[g.current].Words)
	return true, nil
}

// SameOrder reports whether the space-joined token sequences are identical.
func SameOrder(words, correct []string) bool {
	return strings.Join(words, " ") == strings.Join(correct, " ")
}

// Restart reshuffles from the first sentence and starts a new lifecycle.
func (g *SentenceBuilder) Restart() error {
	g.lock()
	defer g.unlock()
	if err := g.reset(); err != nil {
		return err
	}
	g.resetBoard()
	return g.startLocked()
}

// Stop cancels the session's timers without reporting a result.
func (g *SentenceBuilder) Stop() {
	g.lock()
	defer g.unlock()
	g.stop()
}

// Snapshot returns a copy of the current state.
func (g *SentenceBuilder) Snapshot() SentenceBuilderState {
	g.lock()
	defer g.unlock()
	return SentenceBuilderState{
		Status:        g.status(),
		CurrentIndex:  g.current,
		Total:         len(g.sentences),
		CurrentWords:  slices.Clone(g.currentWords),
		Meaning:       g.sentences[g.current].Meaning,
		Score:         g.score,
		TimeRemaining: g.timeRemaining,
	}
}
