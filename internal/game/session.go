// Package game implements the timed game sessions: Word Match, Sentence
// Builder, Rapid Fire and Story Completion.
//
// Each session owns its timers. Callbacks run on scheduler goroutines and
// serialize on the session lock; a completion callback fires exactly once per
// lifecycle, after which the score is frozen until Restart.
package game

// Kind identifies a game.
type Kind string

const (
	KindWordMatch       Kind = "word-match"
	KindSentenceBuilder Kind = "sentence-builder"
	KindRapidFire       Kind = "rapid-fire"
	KindStoryCompletion Kind = "story-completion"
)

// Valid reports whether k names a known game.
func (k Kind) Valid() bool {
	switch k {
	case KindWordMatch, KindSentenceBuilder, KindRapidFire, KindStoryCompletion:
		return true
	}
	return false
}

// Session is the lifecycle surface every game shares.
type Session interface {
	Start() error
	Restart() error
	Stop()
}

var (
	_ Session = (*WordMatch)(nil)
	_ Session = (*SentenceBuilder)(nil)
	_ Session = (*RapidFire)(nil)
	_ Session = (*StoryCompletion)(nil)
)
