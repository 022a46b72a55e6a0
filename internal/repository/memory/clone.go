package memory

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/vytor/lingoplay/internal/models"
)

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneUser(u models.User) models.User {
	u.Avatar = cloneString(u.Avatar)
	return u
}

func cloneLanguage(l models.Language) models.Language {
	l.ImageURL = cloneString(l.ImageURL)
	return l
}

func cloneProgress(p models.UserProgress) models.UserProgress {
	p.LastActivity = cloneTime(p.LastActivity)
	return p
}

func cloneActivity(a models.Activity) models.Activity {
	a.ImageURL = cloneString(a.ImageURL)
	a.Badge = cloneString(a.Badge)
	a.Languages = slices.Clone(a.Languages)
	return a
}

func cloneGame(g models.Game) models.Game {
	g.ImageURL = cloneString(g.ImageURL)
	g.Languages = slices.Clone(g.Languages)
	return g
}

func cloneHistory(h models.ActivityHistory) models.ActivityHistory {
	h.EndTime = cloneTime(h.EndTime)
	h.Score = cloneInt(h.Score)
	if h.Feedback != nil {
		h.Feedback = append(json.RawMessage(nil), h.Feedback...)
	}
	return h
}

func cloneExtractedText(e models.ExtractedText) models.ExtractedText {
	e.ImageURL = cloneString(e.ImageURL)
	return e
}
