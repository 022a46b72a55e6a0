package game

import (
	"time"

	"github.com/vytor/lingoplay/internal/dataset"
)

const (
	WordMatchDuration      = 120 * time.Second
	WordMatchMismatchDelay = time.Second
)

// WordMatch pairs words with their meanings against a countdown.
//
// Selections are sticky: once a word (or meaning) is selected it stays
// selected until the pair is evaluated, and nothing can be selected while a
// failed pairing is on display.
type WordMatch struct {
	core

	pairs        []dataset.WordPair
	index        map[int]int
	wordOrder    []int
	meaningOrder []int

	selectedWord    int
	selectedMeaning int
	hasWord         bool
	hasMeaning      bool
	mismatch        bool

	matched        map[int]bool
	attempts       int
	correctMatches int
	timeRemaining  int
}

// WordMatchState is a point-in-time view of a WordMatch session.
type WordMatchState struct {
	Status          Status             `json:"status"`
	Pairs           []dataset.WordPair `json:"pairs"`
	WordOrder       []int              `json:"wordOrder"`
	MeaningOrder    []int              `json:"meaningOrder"`
	SelectedWord    *int               `json:"selectedWord"`
	SelectedMeaning *int               `json:"selectedMeaning"`
	Mismatch        bool               `json:"mismatch"`
	MatchedIDs      []int              `json:"matchedIds"`
	Attempts        int                `json:"attempts"`
	CorrectMatches  int                `json:"correctMatches"`
	TimeRemaining   int                `json:"timeRemaining"`
}

// NewWordMatch builds a session over pairs. Pair ids must be unique.
func NewWordMatch(pairs []dataset.WordPair, sched Scheduler, opts ...Option) (*WordMatch, error) {
	if len(pairs) == 0 {
		return nil, ErrNoItems
	}
	index := make(map[int]int, len(pairs))
	for i, p := range pairs {
		if _, dup := index[p.ID]; dup {
			return nil, ErrDuplicateID
		}
		index[p.ID] = i
	}

	g := &WordMatch{
		pairs: append([]dataset.WordPair(nil), pairs...),
		index: index,
	}
	g.setup(sched, buildOptions(WordMatchDuration, opts))
	g.resetBoard()
	return g, nil
}

func (g *WordMatch) resetBoard() {
	ids := make([]int, len(g.pairs))
	for i, p := range g.pairs {
		ids[i] = p.ID
	}
	g.wordOrder = shuffled(&g.core, ids)
	g.meaningOrder = shuffled(&g.core, ids)
	g.hasWord, g.hasMeaning, g.mismatch = false, false, false
	g.matched = make(map[int]bool, len(g.pairs))
	g.attempts = 0
	g.correctMatches = 0
	g.timeRemaining = int(g.opts.duration / time.Second)
}

// Start begins the countdown.
func (g *WordMatch) Start() error {
	g.lock()
	defer g.unlock()
	return g.startLocked()
}

func (g *WordMatch) startLocked() error {
	if g.active() {
		return nil
	}
	if err := g.begin(); err != nil {
		return err
	}
	g.every(time.Second, g.tick)
	return nil
}

func (g *WordMatch) tick() {
	g.timeRemaining--
	g.changed()
	if g.timeRemaining <= 0 {
		g.timeRemaining = 0
		g.complete(g.correctMatches, len(g.pairs))
	}
}

// SelectWord selects the word side of pair id.
func (g *WordMatch) SelectWord(id int) error {
	return g.selectSide(id, true)
}

// SelectMeaning selects the meaning side of pair id.
func (g *WordMatch) SelectMeaning(id int) error {
	return g.selectSide(id, false)
}

func (g *WordMatch) selectSide(id int, word bool) error {
	g.lock()
	defer g.unlock()

	if err := g.requireActive(); err != nil {
		return err
	}
	if _, ok := g.index[id]; !ok {
		return ErrUnknownItem
	}
	if g.matched[id] || g.mismatch {
		return nil
	}

	if word {
		if g.hasWord {
			return nil
		}
		g.selectedWord, g.hasWord = id, true
	} else {
		if g.hasMeaning {
			return nil
		}
		g.selectedMeaning, g.hasMeaning = id, true
	}
	g.changed()

	if g.hasWord && g.hasMeaning {
		g.evaluate()
	}
	return nil
}

func (g *WordMatch) evaluate() {
	g.attempts++
	if g.selectedWord == g.selectedMeaning {
		g.matched[g.selectedWord] = true
		g.correctMatches++
		g.hasWord, g.hasMeaning = false, false
		if len(g.matched) == len(g.pairs) {
			g.complete(g.correctMatches, len(g.pairs))
		}
		return
	}

	g.mismatch = true
	g.after(WordMatchMismatchDelay, func() {
		g.hasWord, g.hasMeaning, g.mismatch = false, false, false
		g.changed()
	})
}

// Restart reshuffles the board and starts a new lifecycle.
func (g *WordMatch) Restart() error {
	g.lock()
	defer g.unlock()
	if err := g.reset(); err != nil {
		return err
	}
	g.resetBoard()
	return g.startLocked()
}

// Stop cancels the session's timers without reporting a result.
func (g *WordMatch) Stop() {
	g.lock()
	defer g.unlock()
	g.stop()
}

// Snapshot returns a copy of the current state.
func (g *WordMatch) Snapshot() WordMatchState {
	g.lock()
	defer g.unlock()

	st := WordMatchState{
		Status:         g.status(),
		Pairs:          append([]dataset.WordPair(nil), g.pairs...),
		WordOrder:      append([]int(nil), g.wordOrder...),
		MeaningOrder:   append([]int(nil), g.meaningOrder...),
		Mismatch:       g.mismatch,
		MatchedIDs:     make([]int, 0, len(g.matched)),
		Attempts:       g.attempts,
		CorrectMatches: g.correctMatches,
		TimeRemaining:  g.timeRemaining,
	}
	if g.hasWord {
		id := g.selectedWord
		st.SelectedWord = &id
	}
	if g.hasMeaning {
		id := g.selectedMeaning
		st.SelectedMeaning = &id
	}
	for _, p := range g.pairs {
		if g.matched[p.ID] {
			st.MatchedIDs = append(st.MatchedIDs, p.ID)
		}
	}
	return st
}
