package models

import (
	"encoding/json"
	"time"
)

const (
	ActivityTypeImageOCR = "image-ocr"
	ActivityTypeGame     = "game"
	ActivityTypeStory    = "story"
)

type Activity struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	ImageURL    *string  `json:"imageUrl"`
	Duration    string   `json:"duration"`
	Category    string   `json:"category"`
	Badge       *string  `json:"badge"`
	Languages   []string `json:"languages"`
}

type ActivityHistory struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	ActivityID int64           `json:"activityId"`
	LanguageID int64           `json:"languageId"`
	StartTime  time.Time       `json:"startTime"`
	EndTime    *time.Time      `json:"endTime"`
	Score      *int            `json:"score"`
	Feedback   json.RawMessage `json:"feedback"`
}

// HistoryUpdate closes or amends a history entry.
type HistoryUpdate struct {
	EndTime  *time.Time      `json:"endTime"`
	Score    *int            `json:"score"`
	Feedback json.RawMessage `json:"feedback"`
}

func (u HistoryUpdate) Apply(h *ActivityHistory) {
	if u.EndTime != nil {
		t := *u.EndTime
		h.EndTime = &t
	}
	if u.Score != nil {
		s := *u.Score
		h.Score = &s
	}
	if len(u.Feedback) > 0 {
		h.Feedback = append(json.RawMessage(nil), u.Feedback...)
	}
}
