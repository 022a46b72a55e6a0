package models

import "time"

const DefaultTotalActivities = 30

type UserProgress struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"userId"`
	LanguageID          int64      `json:"languageId"`
	ReadingAccuracy     int        `json:"readingAccuracy"`
	VocabularyCount     int        `json:"vocabularyCount"`
	ActivitiesCompleted int        `json:"activitiesCompleted"`
	TotalActivities     int        `json:"totalActivities"`
	LastActivity        *time.Time `json:"lastActivity"`
	Level               int        `json:"level"`
	Stars               int        `json:"stars"`
}

// ProgressUpdate carries the fields a PATCH may change. Nil fields are left alone.
type ProgressUpdate struct {
	ReadingAccuracy     *int `json:"readingAccuracy"`
	VocabularyCount     *int `json:"vocabularyCount"`
	ActivitiesCompleted *int `json:"activitiesCompleted"`
	TotalActivities     *int `json:"totalActivities"`
	Level               *int `json:"level"`
	Stars               *int `json:"stars"`
}

// Apply copies the non-nil fields of u onto p.
func (u ProgressUpdate) Apply(p *UserProgress) {
	if u.ReadingAccuracy != nil {
		p.ReadingAccuracy = *u.ReadingAccuracy
	}
	if u.VocabularyCount != nil {
		p.VocabularyCount = *u.VocabularyCount
	}
	if u.ActivitiesCompleted != nil {
		p.ActivitiesCompleted = *u.ActivitiesCompleted
	}
	if u.TotalActivities != nil {
		p.TotalActivities = *u.TotalActivities
	}
	if u.Level != nil {
		p.Level = *u.Level
	}
	if u.Stars != nil {
		p.Stars = *u.Stars
	}
}

// Empty reports whether the update changes nothing.
func (u ProgressUpdate) Empty() bool {
	return u.ReadingAccuracy == nil && u.VocabularyCount == nil && u.ActivitiesCompleted == nil &&
		u.TotalActivities == nil && u.Level == nil && u.Stars == nil
}
