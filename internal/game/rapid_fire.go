package game

import (
	"strings"
	"time"

	"github.com/vytor/lingoplay/internal/dataset"
)

const (
	rapidFireTick     = time.Second
	rapidFireWordTick = 100 * time.Millisecond
)

// Budget is a Rapid Fire time allowance.
type Budget struct {
	Word  time.Duration
	Total time.Duration
}

var rapidFireBudgets = map[dataset.Difficulty]Budget{
	dataset.Beginner:     {Word: 6 * time.Second, Total: 90 * time.Second},
	dataset.Intermediate: {Word: 5 * time.Second, Total: 75 * time.Second},
	dataset.Advanced:     {Word: 4 * time.Second, Total: 60 * time.Second},
}

// BudgetFor returns the allowance for a difficulty. Unknown values get the
// beginner budget.
func BudgetFor(d dataset.Difficulty) Budget {
	return rapidFireBudgets[dataset.ParseDifficulty(string(d))]
}

// RapidFire shows one word at a time under two countdowns: a global one and
// a per-word one that advances to the next word when it runs out.
type RapidFire struct {
	core

	words         []dataset.Word
	budget        Budget
	current       int
	input         string
	score         int
	streak        int
	mistakes      int
	timeRemaining int
	// per-word timer in tenths of a second
	wordTimer    int
	wordTimerMax int
}

// RapidFireState is a point-in-time view of a RapidFire session.
type RapidFireState struct {
	Status        Status       `json:"status"`
	CurrentIndex  int          `json:"currentIndex"`
	Total         int          `json:"total"`
	Word          dataset.Word `json:"word"`
	UserInput     string       `json:"userInput"`
	Score         int          `json:"score"`
	Streak        int          `json:"streak"`
	Mistakes      int          `json:"mistakes"`
	TimeRemaining int          `json:"timeRemaining"`
	TotalTime     int          `json:"totalTime"`
	WordTimer     float64      `json:"wordTimer"`
	WordTimerMax  float64      `json:"wordTimerMax"`
}

// NewRapidFire builds a session over a shuffled copy of words.
func NewRapidFire(words []dataset.Word, budget Budget, sched Scheduler, opts ...Option) (*RapidFire, error) {
	if len(words) == 0 {
		return nil, ErrNoItems
	}
	if budget.Word < rapidFireWordTick || budget.Total < rapidFireTick {
		budget = BudgetFor(dataset.Beginner)
	}
	g := &RapidFire{words: append([]dataset.Word(nil), words...)}
	g.setup(sched, buildOptions(budget.Total, opts))
	g.budget = Budget{Word: budget.Word, Total: g.opts.duration}
	g.wordTimerMax = int(budget.Word / rapidFireWordTick)
	g.resetBoard()
	return g, nil
}

func (g *RapidFire) resetBoard() {
	g.words = shuffled(&g.core, g.words)
	g.current = 0
	g.input = ""
	g.score = 0
	g.streak = 0
	g.mistakes = 0
	g.timeRemaining = int(g.budget.Total / time.Second)
	g.wordTimer = g.wordTimerMax
}

// Start begins both countdowns.
func (g *RapidFire) Start() error {
	g.lock()
	defer g.unlock()
	return g.startLocked()
}

func (g *RapidFire) startLocked() error {
	if g.active() {
		return nil
	}
	if err := g.begin(); err != nil {
		return err
	}
	g.every(rapidFireTick, g.tick)
	g.every(rapidFireWordTick, g.wordTick)
	return nil
}

func (g *RapidFire) tick() {
	g.timeRemaining--
	g.changed()
	if g.timeRemaining <= 0 {
		g.timeRemaining = 0
		g.complete(g.score, len(g.words))
	}
}

func (g *RapidFire) wordTick() {
	g.wordTimer--
	g.changed()
	if g.wordTimer > 0 {
		return
	}
	g.streak = 0
	g.mistakes++
	g.next()
}

// next moves to the following word or completes after the last one.
func (g *RapidFire) next() {
	if g.current == len(g.words)-1 {
		g.complete(g.score, len(g.words))
		return
	}
	g.current++
	g.input = ""
	g.wordTimer = g.wordTimerMax
}

// Input records the player's typing. It reports whether text matched the
// current word, ignoring case.
func (g *RapidFire) Input(text string) (bool, error) {
	g.lock()
	defer g.unlock()

	if err := g.requireActive(); err != nil {
		return false, err
	}
	g.input = text
	g.changed()
	if !strings.EqualFold(text, g.words[g.current].Text) {
		return false, nil
	}

	g.score += Points(g.streak, g.wordTimer, g.wordTimerMax)
	g.streak++
	g.next()
	return true, nil
}

// Points scores a correct word: one base point, up to +100% for the streak
// (capped at ten) and up to +50% for the remaining share of the word timer,
// rounded up. remaining and limit use the same unit.
func Points(streak, remaining, limit int) int {
	if limit <= 0 {
		return 1
	}
	remaining = min(max(remaining, 0), limit)
	streak = min(max(streak, 0), 10)
	// 1 + streak/10 + remaining/limit/2, scaled by 20*limit to stay integral.
	den := 20 * limit
	num := den + 2*streak*limit + 10*remaining
	return (num + den - 1) / den
}

// Restart reshuffles the words and starts a new lifecycle.
func (g *RapidFire) Restart() error {
	g.lock()
	defer g.unlock()
	if err := g.reset(); err != nil {
		return err
	}
	g.resetBoard()
	return g.startLocked()
}

// Stop cancels both countdowns without reporting a result.
func (g *RapidFire) Stop() {
	g.lock()
	defer g.unlock()
	g.stop()
}

// Snapshot returns a copy of the current state.
func (g *RapidFire) Snapshot() RapidFireState {
	g.lock()
	defer g.unlock()
	return RapidFireState{
		Status:        g.status(),
		CurrentIndex:  g.current,
		Total:         len(g.words),
		Word:          g.words[g.current],
		UserInput:     g.input,
		Score:         g.score,
		Streak:        g.streak,
		Mistakes:      g.mistakes,
		TimeRemaining: g.timeRemaining,
		TotalTime:     int(g.budget.Total / time.Second),
		WordTimer:     float64(g.wordTimer) / 10,
		WordTimerMax:  float64(g.wordTimerMax) / 10,
	}
}
