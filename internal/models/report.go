package models

import "errors"

// ActivityReport is posted once per completed game to record progress.
type ActivityReport struct {
	UserID       int64  `json:"userId"`
	ActivityType string `json:"activityType"`
	ActivityID   int64  `json:"activityId"`
	Score        int    `json:"score"`
	Total        int    `json:"total"`
	LanguageCode string `json:"languageCode"`
	Completed    bool   `json:"completed"`
}

func (r ActivityReport) Validate() error {
	var errs []error
	if r.UserID <= 0 {
		errs = append(errs, errors.New("userId must be positive"))
	}
	if r.ActivityID <= 0 {
		errs = append(errs, errors.New("activityId must be positive"))
	}
	if r.Score < 0 {
		errs = append(errs, errors.New("score cannot be negative"))
	}
	if r.Total < 0 {
		errs = append(errs, errors.New("total cannot be negative"))
	}
	return errors.Join(errs...)
}

// Ratio is score over total, capped at 1. Rapid Fire scores include bonuses
// and can exceed the word count.
func (r ActivityReport) Ratio() float64 {
	if r.Total <= 0 {
		return 0
	}
	ratio := float64(r.Score) / float64(r.Total)
	if ratio > 1 {
		return 1
	}
	return ratio
}
