package models

import "time"

type ExtractedText struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	LanguageID int64     `json:"languageId"`
	Text       string    `json:"text"`
	ImageURL   *string   `json:"imageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}
