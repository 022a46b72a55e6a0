package repository

import (
	"context"
	"fmt"

	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
)

func ptr(s string) *string { return &s }

var allLanguages = []string{"en", "te", "hi"}

// SeedLanguages are the languages available on a fresh store.
var SeedLanguages = []models.Language{
	{Name: "Telugu", Code: "te", ImageURL: ptr("https://images.unsplash.com/photo-1564507592333-c60657eea523?auto=format&fit=crop&w=500&q=80")},
	{Name: "Hindi", Code: "hi", ImageURL: ptr("https://images.unsplash.com/photo-1597324819116-1c295a3dfac5?auto=format&fit=crop&w=500&q=80")},
	{Name: "English", Code: "en", ImageURL: ptr("https://images.unsplash.com/photo-1510081887155-56fe96846e71?auto=format&fit=crop&w=500&q=80")},
}

// SeedActivities are the featured activities on a fresh store.
var SeedActivities = []models.Activity{
	{
		Title:       "Image to Text Reading",
		Description: "Upload an image or take a photo, then read the text out loud. Perfect for practicing with real-world materials.",
		Type:        models.ActivityTypeImageOCR,
		ImageURL:    ptr("https://images.unsplash.com/photo-1588345921523-c2dcdb7f1dcd?auto=format&fit=crop&w=500&q=80"),
		Duration:    "10-15 mins",
		Category:    "new",
		Badge:       ptr("New"),
		Languages:   allLanguages,
	},
	{
		Title:       "Word Scramble Game",
		Description: "Drag and drop letters to form words. A fun way to improve vocabulary and spelling in different languages.",
		Type:        models.ActivityTypeGame,
		ImageURL:    ptr("https://images.unsplash.com/photo-1555895315-2d672a4b2b0f?auto=format&fit=crop&w=500&q=80"),
		Duration:    "5-10 mins",
		Category:    "popular",
		Badge:       ptr("Popular"),
		Languages:   allLanguages,
	},
	{
		Title:       "Story Builder",
		Description: "Create your own stories by arranging words and phrases. Then read your creation aloud to practice pronunciation.",
		Type:        models.ActivityTypeStory,
		ImageURL:    ptr("https://images.unsplash.com/photo-1503676260728-1c00da094a0b?auto=format&fit=crop&w=500&q=80"),
		Duration:    "15-20 mins",
		Category:    "creative",
		Badge:       ptr("Creative"),
		Languages:   allLanguages,
	},
}

// SeedGames are the playable catalog entries. Ids 1..4 follow insertion order.
var SeedGames = []models.Game{
	{
		Title:       "Word Match",
		Description: "Match words with their meanings",
		ImageURL:    ptr("https://images.unsplash.com/photo-1499078124630-c1e2e55fbe7f?auto=format&fit=crop&w=300&q=80"),
		Difficulty:  "beginner",
		Kind:        "word-match",
		Languages:   allLanguages,
	},
	{
		Title:       "Sentence Builder",
		Description: "Arrange words to form sentences",
		ImageURL:    ptr("https://images.unsplash.com/photo-1568377210220-151e1d7f42c7?auto=format&fit=crop&w=300&q=80"),
		Difficulty:  "intermediate",
		Kind:        "sentence-builder",
		Languages:   allLanguages,
	},
	{
		Title:       "Rapid Fire",
		Description: "Read words quickly against timer",
		ImageURL:    ptr("https://images.unsplash.com/photo-1553481187-be93c21490a9?auto=format&fit=crop&w=300&q=80"),
		Difficulty:  "advanced",
		Kind:        "rapid-fire",
		Languages:   allLanguages,
	},
	{
		Title:       "Story Completion",
		Description: "Fill in blanks to complete stories",
		ImageURL:    ptr("https://images.unsplash.com/photo-1513542789411-b6a5d4f31634?auto=format&fit=crop&w=300&q=80"),
		Difficulty:  "all",
		Kind:        "story-completion",
		Languages:   allLanguages,
	},
}

// Seed fills an empty store with the default catalog. A store that already
// has languages is left untouched.
func Seed(ctx context.Context, s Store) error {
	log := logger.FromContext(ctx).WithPrefix("seed")

	existing, err := s.Languages.List(ctx)
	if err != nil {
		return fmt.Errorf("list languages: %w", err)
	}
	if len(existing) > 0 {
		log.Debug("store already seeded (%d languages)", len(existing))
		return nil
	}

	for _, l := range SeedLanguages {
		if _, err := s.Languages.Insert(ctx, l); err != nil {
			return fmt.Errorf("seed language %s: %w", l.Code, err)
		}
	}
	for _, a := range SeedActivities {
		if _, err := s.Activities.Insert(ctx, a); err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Title, err)
		}
	}
	for _, g := range SeedGames {
		if _, err := s.Games.Insert(ctx, g); err != nil {
			return fmt.Errorf("seed game %q: %w", g.Title, err)
		}
	}

	log.Info("seeded %d languages, %d activities, %d games", len(SeedLanguages), len(SeedActivities), len(SeedGames))
	return nil
}
