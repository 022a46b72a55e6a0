package models

// Game is a catalog entry. Kind names the playable state machine behind it.
type Game struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Difficulty  string   `json:"difficulty"`
	Kind        string   `json:"kind"`
	Languages   []string `json:"languages"`
}
