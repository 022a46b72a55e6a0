package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoplay/internal/dataset"
)

func TestStoryParts(t *testing.T) {
	story := dataset.Story{
		ID:   1,
		Text: "The $BLANK_0 sat on the $BLANK_1.",
		Blanks: []dataset.Blank{
			{ID: 0, Options: []string{"cat", "dog"}, CorrectIndex: 0},
			{ID: 1, Options: []string{"mat", "hat"}, CorrectIndex: 0},
		},
	}

	parts := story.Parts()

	require.Len(t, parts, 5)
	assert.Equal(t, dataset.Part{Text: "The ", Blank: -1}, parts[0])
	assert.Equal(t, dataset.Part{Blank: 0}, parts[1])
	assert.Equal(t, dataset.Part{Text: " sat on the ", Blank: -1}, parts[2])
	assert.Equal(t, dataset.Part{Blank: 1}, parts[3])
	assert.Equal(t, dataset.Part{Text: ".", Blank: -1}, parts[4])
	assert.NoError(t, dataset.ValidateStory(story))
}

func TestValidateStory_Failures(t *testing.T) {
	tests := []struct {
		name  string
		story dataset.Story
	}{
		{
			name: "marker without blank",
			story: dataset.Story{ID: 1, Text: "a $BLANK_0 b $BLANK_1", Blanks: []dataset.Blank{
				{ID: 0, Options: []string{"x"}, CorrectIndex: 0},
			}},
		},
		{
			name: "blank without marker",
			story: dataset.Story{ID: 2, Text: "no markers", Blanks: []dataset.Blank{
				{ID: 0, Options: []string{"x"}, CorrectIndex: 0},
			}},
		},
		{
			name: "correct index out of range",
			story: dataset.Story{ID: 3, Text: "$BLANK_0", Blanks: []dataset.Blank{
				{ID: 0, Options: []string{"x", "y"}, CorrectIndex: 2},
			}},
		},
		{
			name: "markers out of order",
			story: dataset.Story{ID: 4, Text: "$BLANK_1 then $BLANK_0", Blanks: []dataset.Blank{
				{ID: 0, Options: []string{"x"}, CorrectIndex: 0},
				{ID: 1, Options: []string{"y"}, CorrectIndex: 0},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, dataset.ValidateStory(tt.story))
		})
	}
}
