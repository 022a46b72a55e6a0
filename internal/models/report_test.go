package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivityReportValidate(t *testing.T) {
	valid := ActivityReport{UserID: 1, ActivityType: ActivityTypeGame, ActivityID: 3, Score: 7, Total: 5, LanguageCode: "te", Completed: true}
	assert.NoError(t, valid.Validate(), "bonus scores may exceed the total")

	err := ActivityReport{Score: -1, Total: -2}.Validate()
	assert.ErrorContains(t, err, "userId")
	assert.ErrorContains(t, err, "activityId")
	assert.ErrorContains(t, err, "score cannot be negative")
	assert.ErrorContains(t, err, "total cannot be negative")
}

func TestActivityReportRatio(t *testing.T) {
	assert.Equal(t, 0.0, ActivityReport{Score: 3}.Ratio())
	assert.Equal(t, 0.5, ActivityReport{Score: 2, Total: 4}.Ratio())
	assert.Equal(t, 1.0, ActivityReport{Score: 9, Total: 4}.Ratio())
}

func TestProgressUpdateApply(t *testing.T) {
	stars := 4
	level := 2
	p := UserProgress{Stars: 1, Level: 1, VocabularyCount: 10}
	u := ProgressUpdate{Stars: &stars, Level: &level}
	assert.False(t, u.Empty())
	u.Apply(&p)
	assert.Equal(t, 4, p.Stars)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 10, p.VocabularyCount)
	assert.True(t, ProgressUpdate{}.Empty())
}
