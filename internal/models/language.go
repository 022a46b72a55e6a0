package models

type Language struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	ImageURL *string `json:"imageUrl"`
}
