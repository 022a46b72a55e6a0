// Package pronunciation scores a spoken transcript against reference text.
//
// Two strategies are available. Per-word matches every reference word with
// its closest spoken word; whole-string scores the transcripts as a unit and
// suits scripts where whitespace segmentation is unreliable.
package pronunciation

import (
	"errors"
	"math"
	"strings"
)

// Strategy selects how a transcript is scored.
type Strategy string

const (
	PerWord     Strategy = "per-word"
	WholeString Strategy = "whole-string"
)

// Verdict is the overall outcome of a comparison.
type Verdict string

const (
	Correct   Verdict = "correct"
	Partial   Verdict = "partial"
	Incorrect Verdict = "incorrect"
)

var ErrEmptyReference = errors.New("reference text is empty")

// Thresholds are the similarity cut-offs used by both strategies.
type Thresholds struct {
	Word    float64 // per-word: a reference word counts as spoken
	Pass    float64 // whole-string: correct
	Partial float64 // whole-string: lower bound of the partial band
}

// DefaultThresholds returns the stock cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Word: 0.7, Pass: 0.6, Partial: 0.3}
}

// WordResult is the per-word verdict for one reference word.
type WordResult struct {
	Word       string  `json:"word"`
	Heard      string  `json:"heard"`
	Similarity float64 `json:"similarity"`
	Correct    bool    `json:"correct"`
}

// Result is the outcome of a comparison.
type Result struct {
	Strategy     Strategy     `json:"strategy"`
	Similarity   float64      `json:"similarity"`
	Accuracy     float64      `json:"accuracy"`
	CorrectWords int          `json:"correctWords"`
	TotalWords   int          `json:"totalWords"`
	Words        []WordResult `json:"words,omitempty"`
	Verdict      Verdict      `json:"verdict"`
	Feedback     string       `json:"feedback"`
}

// Engine compares transcripts with a fixed metric and thresholds.
type Engine struct {
	metric     Metric
	thresholds Thresholds
	whole      map[string]bool
}

// NewEngine builds an engine. Languages in wholeString use the whole-string
// strategy; every other language is scored per word.
func NewEngine(metric Metric, thresholds Thresholds, wholeString []string) *Engine {
	if metric == nil {
		metric = Dice()
	}
	whole := make(map[string]bool, len(wholeString))
	for _, lang := range wholeString {
		whole[strings.ToLower(strings.TrimSpace(lang))] = true
	}
	return &Engine{metric: metric, thresholds: thresholds, whole: whole}
}

// StrategyFor returns the strategy used for a language code.
func (e *Engine) StrategyFor(language string) Strategy {
	if e.whole[strings.ToLower(strings.TrimSpace(language))] {
		return WholeString
	}
	return PerWord
}

// Compare scores transcript against reference using the language's strategy.
func (e *Engine) Compare(reference, transcript, language string) (Result, error) {
	return e.CompareWith(e.StrategyFor(language), reference, transcript)
}

// CompareWith scores transcript against reference with an explicit strategy.
func (e *Engine) CompareWith(strategy Strategy, reference, transcript string) (Result, error) {
	if Normalize(reference) == "" {
		return Result{}, ErrEmptyReference
	}
	if strategy == WholeString {
		return e.wholeString(reference, transcript), nil
	}
	return e.perWord(reference, transcript), nil
}

func (e *Engine) perWord(reference, transcript string) Result {
	refWords := strings.Fields(Normalize(reference))
	spoken := strings.Fields(Normalize(transcript))

	res := Result{Strategy: PerWord, TotalWords: len(refWords), Words: make([]WordResult, len(refWords))}
	var sum float64
	for i, word := range refWords {
		wr := WordResult{Word: word}
		for _, heard := range spoken {
			if s := Similarity(e.metric, word, heard); s > wr.Similarity || wr.Heard == "" {
				wr.Similarity, wr.Heard = s, heard
			}
		}
		wr.Correct = wr.Heard != "" && wr.Similarity >= e.thresholds.Word
		if wr.Correct {
			res.CorrectWords++
		}
		sum += wr.Similarity
		res.Words[i] = wr
	}

	res.Similarity = round(sum / float64(len(refWords)))
	res.Accuracy = round(100 * float64(res.CorrectWords) / float64(len(refWords)))
	switch {
	case res.CorrectWords == res.TotalWords:
		res.Verdict = Correct
		res.Feedback = "Excellent pronunciation!"
	case res.CorrectWords > 0:
		res.Verdict = Partial
		res.Feedback = "Good attempt. Practice the highlighted words."
	default:
		res.Verdict = Incorrect
		res.Feedback = "Keep practicing. Listen to the text and try again."
	}
	return res
}

func (e *Engine) wholeString(reference, transcript string) Result {
	s := Similarity(e.metric, reference, transcript)
	res := Result{
		Strategy:   WholeString,
		Similarity: round(s),
		Accuracy:   round(100 * s),
	}
	switch {
	case s >= e.thresholds.Pass:
		res.Verdict = Correct
		res.Feedback = "Excellent pronunciation!"
	case s >= e.thresholds.Partial:
		res.Verdict = Partial
		res.Feedback = "Good attempt. Try to articulate more clearly."
	default:
		res.Verdict = Incorrect
		res.Feedback = "Keep practicing. Listen to the text and try again."
	}
	return res
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
