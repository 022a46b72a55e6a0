// Package dataset serves the static per-language, per-difficulty game tables.
//
// Lookups follow a fixed fallback policy: an unknown language resolves to the
// store's default language and an unknown difficulty resolves to beginner.
// Only when the fallback is also missing does a lookup fail with ErrNotFound.
package dataset

import (
	"embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("dataset not found")

// NotFoundError reports a lookup that failed even after fallback.
type NotFoundError struct {
	Dataset    string
	Language   string
	Difficulty Difficulty
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s for language %q difficulty %q", e.Dataset, e.Language, e.Difficulty)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Provider resolves game items for a language and difficulty.
type Provider interface {
	WordPairs(language string, difficulty Difficulty) ([]WordPair, error)
	Sentences(language string, difficulty Difficulty) ([]Sentence, error)
	Words(language string, difficulty Difficulty) ([]Word, error)
	Stories(language string, difficulty Difficulty) ([]Story, error)
	Languages() []string
}

type table[T any] map[string]map[Difficulty][]T

// Store is the embedded Provider.
type Store struct {
	defaultLanguage string
	wordPairs       table[WordPair]
	sentences       table[Sentence]
	words           table[Word]
	stories         table[Story]
}

var _ Provider = (*Store)(nil)

// Load decodes and validates the embedded tables.
func Load(defaultLanguage string) (*Store, error) {
	s := &Store{defaultLanguage: normalizeLanguage(defaultLanguage)}
	if s.defaultLanguage == "" {
		s.defaultLanguage = "en"
	}

	if err := decode("word_pairs.yaml", &s.wordPairs); err != nil {
		return nil, err
	}
	if err := decode("sentences.yaml", &s.sentences); err != nil {
		return nil, err
	}
	if err := decode("words.yaml", &s.words); err != nil {
		return nil, err
	}
	if err := decode("stories.yaml", &s.stories); err != nil {
		return nil, err
	}

	for _, byDiff := range s.sentences {
		for _, items := range byDiff {
			for i := range items {
				items[i].Words = slices.Clone(items[i].CorrectOrder)
			}
		}
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	if _, ok := s.wordPairs[s.defaultLanguage]; !ok {
		return nil, fmt.Errorf("default language %q has no data", s.defaultLanguage)
	}
	return s, nil
}

// MustLoad is Load for process startup. Embedded data is part of the build,
// so a decode failure is a defect rather than a runtime condition.
func MustLoad(defaultLanguage string) *Store {
	s, err := Load(defaultLanguage)
	if err != nil {
		panic(err)
	}
	return s
}

func decode[T any](name string, out *table[T]) error {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) WordPairs(language string, difficulty Difficulty) ([]WordPair, error) {
	return lookup(s, "word pairs", s.wordPairs, language, difficulty)
}

func (s *Store) Sentences(language string, difficulty Difficulty) ([]Sentence, error) {
	items, err := lookup(s, "sentences", s.sentences, language, difficulty)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Words = slices.Clone(items[i].Words)
		items[i].CorrectOrder = slices.Clone(items[i].CorrectOrder)
	}
	return items, nil
}

func (s *Store) Words(language string, difficulty Difficulty) ([]Word, error) {
	return lookup(s, "words", s.words, language, difficulty)
}

func (s *Store) Stories(language string, difficulty Difficulty) ([]Story, error) {
	items, err := lookup(s, "stories", s.stories, language, difficulty)
	if err != nil {
		return nil, err
	}
	for i := range items {
		blanks := make([]Blank, len(items[i].Blanks))
		for j, b := range items[i].Blanks {
			b.Options = slices.Clone(b.Options)
			blanks[j] = b
		}
		items[i].Blanks = blanks
	}
	return items, nil
}

// Languages lists the language codes that have word pair data.
func (s *Store) Languages() []string {
	langs := make([]string, 0, len(s.wordPairs))
	for lang := range s.wordPairs {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// DefaultLanguage is the language unknown codes fall back to.
func (s *Store) DefaultLanguage() string {
	return s.defaultLanguage
}

// lookup returns a copy of the resolved item list.
func lookup[T any](s *Store, name string, t table[T], language string, difficulty Difficulty) ([]T, error) {
	lang := normalizeLanguage(language)
	byDiff, ok := t[lang]
	if !ok {
		lang = s.defaultLanguage
		byDiff, ok = t[lang]
	}
	if !ok {
		return nil, &NotFoundError{Dataset: name, Language: language, Difficulty: difficulty}
	}

	items, ok := byDiff[ParseDifficulty(string(difficulty))]
	if !ok {
		items, ok = byDiff[Beginner]
	}
	if !ok || len(items) == 0 {
		return nil, &NotFoundError{Dataset: name, Language: lang, Difficulty: difficulty}
	}
	return slices.Clone(items), nil
}

// ParseDifficulty normalizes s. Unrecognized values map to Beginner.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Intermediate:
		return Intermediate
	case Advanced:
		return Advanced
	default:
		return Beginner
	}
}

func normalizeLanguage(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
