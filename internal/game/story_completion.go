package game

import (
	"strings"
	"time"

	"github.com/vytor/lingoplay/internal/dataset"
)

const (
	StoryCompletionDuration = 300 * time.Second
	StoryAdvanceDelay       = 2 * time.Second
	blankPlaceholder        = "______"
)

// StoryCompletion fills multiple-choice blanks in a sequence of stories.
type StoryCompletion struct {
	core

	stories       []dataset.Story
	parts         [][]dataset.Part
	totalPossible int

	current       int
	answers       []int
	score         int
	submitted     bool
	lastCorrect   int
	timeRemaining int
}

// BlankView renders one blank of the current story.
type BlankView struct {
	Index    int      `json:"index"`
	Options  []string `json:"options"`
	Selected int      `json:"selected"`
	Display  string   `json:"display"`
	// Set once the story is submitted.
	Correct       *bool  `json:"correct,omitempty"`
	CorrectOption string `json:"correctOption,omitempty"`
}

// Segment is literal text or a blank.
type Segment struct {
	Text  string     `json:"text,omitempty"`
	Blank *BlankView `json:"blank,omitempty"`
}

// StoryCompletionState is a point-in-time view of a StoryCompletion session.
type StoryCompletionState struct {
	Status        Status    `json:"status"`
	CurrentIndex  int       `json:"currentIndex"`
	Total         int       `json:"total"`
	Segments      []Segment `json:"segments"`
	UserAnswers   []int     `json:"userAnswers"`
	Score         int       `json:"score"`
	TotalPossible int       `json:"totalPossible"`
	Submitted     bool      `json:"submitted"`
	LastCorrect   int       `json:"lastCorrect"`
	TimeRemaining int       `json:"timeRemaining"`
}

// NewStoryCompletion builds a session over a shuffled copy of stories.
func NewStoryCompletion(stories []dataset.Story, sched Scheduler, opts ...Option) (*StoryCompletion, error) {
	if len(stories) == 0 {
		return nil, ErrNoItems
	}
	g := &StoryCompletion{stories: make([]dataset.Story, len(stories))}
	for i, st := range stories {
		if err := dataset.ValidateStory(st); err != nil {
			return nil, err
		}
		g.stories[i] = st
		g.totalPossible += len(st.Blanks)
	}
	g.setup(sched, buildOptions(StoryCompletionDuration, opts))
	g.resetBoard()
	return g, nil
}

func (g *StoryCompletion) resetBoard() {
	g.stories = shuffled(&g.core, g.stories)
	g.parts = make([][]dataset.Part, len(g.stories))
	for i, st := range g.stories {
		g.parts[i] = st.Parts()
	}
	g.current = 0
	g.score = 0
	g.lastCorrect = 0
	g.resetAnswers()
	g.timeRemaining = int(g.opts.duration / time.Second)
}

func (g *StoryCompletion) resetAnswers() {
	g.submitted = false
	g.answers = make([]int, len(g.stories[g.current].Blanks))
	for i := range g.answers {
		g.answers[i] = -1
	}
}

// Start begins the countdown.
func (g *StoryCompletion) Start() error {
	g.lock()
	defer g.unlock()
	return g.startLocked()
}

func (g *StoryCompletion) startLocked() error {
	if g.active() {
		return nil
	}
	if err := g.begin(); err != nil {
		return err
	}
	g.every(time.Second, g.tick)
	return nil
}

func (g *StoryCompletion) tick() {
	g.timeRemaining--
	g.changed()
	if g.timeRemaining > 0 {
		return
	}
	g.timeRemaining = 0
	if !g.submitted {
		g.score += g.correctCount()
	}
	g.complete(g.score, g.totalPossible)
}

// SelectOption records the chosen option for a blank of the current story.
func (g *StoryCompletion) SelectOption(blank, option int) error {
	g.lock()
	defer g.unlock()

	if err := g.requireActive(); err != nil {
		return err
	}
	if g.submitted {
		return ErrAlreadySubmitted
	}
	blanks := g.stories[g.current].Blanks
	if blank < 0 || blank >= len(blanks) || option < 0 || option >= len(blanks[blank].Options) {
		return ErrIndexOutOfRange
	}
	g.answers[blank] = option
	g.changed()
	return nil
}

// Submit scores the current story and returns its correct count. Every
// blank must be answered first.
func (g *StoryCompletion) Submit() (int, error) {
	g.lock()
	defer g.unlock()

	if err := g.requireActive(); err != nil {
		return 0, err
	}
	if g.submitted {
		return 0, ErrAlreadySubmitted
	}
	for _, a := range g.answers {
		if a == -1 {
			return 0, ErrIncompleteAnswers
		}
	}

	correct := g.correctCount()
	g.score += correct
	g.lastCorrect = correct
	g.submitted = true
	g.changed()

	if g.current == len(g.stories)-1 {
		g.complete(g.score, g.totalPossible)
		return correct, nil
	}
	g.after(StoryAdvanceDelay, func() {
		g.current++
		g.resetAnswers()
		g.changed()
	})
	return correct, nil
}

func (g *StoryCompletion) correctCount() int {
	n := 0
	for i, b := range g.stories[g.current].Blanks {
		if g.answers[i] == b.CorrectIndex {
			n++
		}
	}
	return n
}

// Restart reshuffles the stories and starts a new lifecycle.
func (g *StoryCompletion) Restart() error {
	g.lock()
	defer g.unlock()
	if err := g.reset(); err != nil {
		return err
	}
	g.resetBoard()
	return g.startLocked()
}

// Stop cancels the session's timers without reporting a result.
func (g *StoryCompletion) Stop() {
	g.lock()
	defer g.unlock()
	g.stop()
}

// Snapshot returns a copy of the current state.
func (g *StoryCompletion) Snapshot() StoryCompletionState {
	g.lock()
	defer g.unlock()
	return StoryCompletionState{
		Status:        g.status(),
		CurrentIndex:  g.current,
		Total:         len(g.stories),
		Segments:      g.segments(),
		UserAnswers:   append([]int(nil), g.answers...),
		Score:         g.score,
		TotalPossible: g.totalPossible,
		Submitted:     g.submitted,
		LastCorrect:   g.lastCorrect,
		TimeRemaining: g.timeRemaining,
	}
}

// Text renders the current story with selections or placeholders in place
// of the blanks.
func (g *StoryCompletion) Text() string {
	g.lock()
	defer g.unlock()

	var sb strings.Builder
	for _, seg := range g.segments() {
		if seg.Blank != nil {
			sb.WriteString(seg.Blank.Display)
			continue
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

func (g *StoryCompletion) segments() []Segment {
	story := g.stories[g.current]
	out := make([]Segment, 0, len(g.parts[g.current]))
	for _, p := range g.parts[g.current] {
		if p.Blank < 0 {
			out = append(out, Segment{Text: p.Text})
			continue
		}
		b := story.Blanks[p.Blank]
		view := &BlankView{
			Index:    p.Blank,
			Options:  append([]string(nil), b.Options...),
			Selected: g.answers[p.Blank],
			Display:  blankPlaceholder,
		}
		if sel := g.answers[p.Blank]; sel >= 0 {
			view.Display = b.Options[sel]
		}
		if g.submitted {
			ok := g.answers[p.Blank] == b.CorrectIndex
			view.Correct = &ok
			view.CorrectOption = b.Options[b.CorrectIndex]
		}
		out = append(out, Segment{Blank: view})
	}
	return out
}
