package pronunciation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/agnivade/levenshtein"
)

// Metric scores two normalized strings in [0, 1].
type Metric interface {
	Compare(a, b string) float64
}

// MetricFunc adapts a function to Metric.
type MetricFunc func(a, b string) float64

func (f MetricFunc) Compare(a, b string) float64 { return f(a, b) }

const (
	MetricDice        = "dice"
	MetricLevenshtein = "levenshtein"
)

// Dice is the bigram Sorensen-Dice coefficient.
func Dice() Metric {
	dice := metrics.NewSorensenDice()
	dice.CaseSensitive = false
	dice.NgramSize = 2
	return MetricFunc(func(a, b string) float64 {
		return strutil.Similarity(a, b, dice)
	})
}

// Levenshtein is one minus the edit distance over the longer rune length.
func Levenshtein() Metric {
	return MetricFunc(func(a, b string) float64 {
		longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
		if longest == 0 {
			return 1
		}
		return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
	})
}

// MetricByName resolves a configured metric name.
func MetricByName(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MetricDice:
		return Dice(), nil
	case MetricLevenshtein:
		return Levenshtein(), nil
	default:
		return nil, fmt.Errorf("unknown similarity metric %q", name)
	}
}

// Similarity normalizes both inputs and scores them with m. Identical
// normalized inputs always score 1 and the result is symmetric.
func Similarity(m Metric, a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	if b < a {
		a, b = b, a
	}
	s := m.Compare(a, b)
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}

// Normalize lowercases, strips punctuation and collapses whitespace.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			continue
		case unicode.IsSpace(r):
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
