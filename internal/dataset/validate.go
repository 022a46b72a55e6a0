package dataset

import (
	"errors"
	"fmt"
	"slices"
)

func (s *Store) validate() error {
	var errs []error
	for lang, byDiff := range s.wordPairs {
		for diff, pairs := range byDiff {
			errs = append(errs, checkIDs("word pairs", lang, diff, pairs, func(p WordPair) int { return p.ID })...)
		}
	}
	for lang, byDiff := range s.sentences {
		for diff, items := range byDiff {
			errs = append(errs, checkIDs("sentences", lang, diff, items, func(x Sentence) int { return x.ID })...)
			for _, sentence := range items {
				if len(sentence.CorrectOrder) == 0 {
					errs = append(errs, fmt.Errorf("sentences %s/%s: sentence %d is empty", lang, diff, sentence.ID))
				}
			}
		}
	}
	for lang, byDiff := range s.words {
		for diff, items := range byDiff {
			errs = append(errs, checkIDs("words", lang, diff, items, func(w Word) int { return w.ID })...)
		}
	}
	for lang, byDiff := range s.stories {
		for diff, items := range byDiff {
			errs = append(errs, checkIDs("stories", lang, diff, items, func(st Story) int { return st.ID })...)
			for _, story := range items {
				if err := ValidateStory(story); err != nil {
					errs = append(errs, fmt.Errorf("stories %s/%s: %w", lang, diff, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func checkIDs[T any](name, lang string, diff Difficulty, items []T, id func(T) int) []error {
	var errs []error
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		i := id(item)
		if seen[i] {
			errs = append(errs, fmt.Errorf("%s %s/%s: duplicate id %d", name, lang, diff, i))
		}
		seen[i] = true
	}
	return errs
}

// ValidateStory checks that every blank is referenced by exactly one marker,
// in order, and that each correct index points into its options.
func ValidateStory(story Story) error {
	var referenced []int
	for _, p := range story.Parts() {
		if p.Blank >= 0 {
			referenced = append(referenced, p.Blank)
		}
	}
	want := make([]int, len(story.Blanks))
	for i := range want {
		want[i] = i
	}
	if !slices.Equal(referenced, want) {
		return fmt.Errorf("story %d: markers %v do not match blanks", story.ID, referenced)
	}
	if len(blankMarker.FindAllString(story.Text, -1)) != len(story.Blanks) {
		return fmt.Errorf("story %d: marker without blank", story.ID)
	}
	for _, b := range story.Blanks {
		if b.CorrectIndex < 0 || b.CorrectIndex >= len(b.Options) {
			return fmt.Errorf("story %d: blank %d correct index %d out of range", story.ID, b.ID, b.CorrectIndex)
		}
	}
	return nil
}
