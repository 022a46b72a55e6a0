package dataset

import (
	"regexp"
	"strconv"
)

// Difficulty selects a dataset tier.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// WordPair is a Word Match concept. Word and meaning share the same id.
type WordPair struct {
	ID      int    `yaml:"id" json:"id"`
	Word    string `yaml:"word" json:"word"`
	Meaning string `yaml:"meaning" json:"meaning"`
}

// Sentence is a Sentence Builder item. Words holds the same tokens as CorrectOrder.
type Sentence struct {
	ID           int      `yaml:"id" json:"id"`
	Words        []string `yaml:"-" json:"words"`
	CorrectOrder []string `yaml:"correct_order" json:"correctOrder"`
	Meaning      string   `yaml:"meaning" json:"meaning"`
}

// Word is a Rapid Fire target.
type Word struct {
	ID      int    `yaml:"id" json:"id"`
	Text    string `yaml:"text" json:"text"`
	Meaning string `yaml:"meaning" json:"meaning"`
}

// Blank is a multiple-choice slot inside a story.
type Blank struct {
	ID           int      `yaml:"id" json:"id"`
	Options      []string `yaml:"options" json:"options"`
	CorrectIndex int      `yaml:"correct_index" json:"correctIndex"`
}

// Story is a Story Completion segment. Text embeds $BLANK_<id> markers.
type Story struct {
	ID     int     `yaml:"id" json:"id"`
	Text   string  `yaml:"text" json:"text"`
	Blanks []Blank `yaml:"blanks" json:"blanks"`
}

// Part is a piece of story text. Blank is -1 for literal text, otherwise
// the index into Story.Blanks the marker refers to.
type Part struct {
	Text  string
	Blank int
}

var blankMarker = regexp.MustCompile(`\$BLANK_(\d+)`)

// Parts splits the story text on blank markers. Markers whose id has no
// matching blank are kept as literal text.
func (s Story) Parts() []Part {
	byID := make(map[int]int, len(s.Blanks))
	for i, b := range s.Blanks {
		byID[b.ID] = i
	}

	var parts []Part
	last := 0
	for _, m := range blankMarker.FindAllStringSubmatchIndex(s.Text, -1) {
		id, err := strconv.Atoi(s.Text[m[2]:m[3]])
		idx, ok := byID[id]
		if err != nil || !ok {
			continue
		}
		if m[0] > last {
			parts = append(parts, Part{Text: s.Text[last:m[0]], Blank: -1})
		}
		parts = append(parts, Part{Blank: idx})
		last = m[1]
	}
	if last < len(s.Text) {
		parts = append(parts, Part{Text: s.Text[last:], Blank: -1})
	}
	return parts
}
