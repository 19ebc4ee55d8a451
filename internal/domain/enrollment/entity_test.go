package enrollment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusActive, ParseStatus("active"))
	assert.Equal(t, StatusCompleted, ParseStatus("completed"))
	assert.Equal(t, StatusPaused, ParseStatus("paused"))
	assert.Equal(t, StatusArchived, ParseStatus("archived"))

	// Unrecognized raw values fail loudly instead of passing through.
	assert.Equal(t, StatusUnknown, ParseStatus("COMPLETED"))
	assert.Equal(t, StatusUnknown, ParseStatus("enrolled"))
	assert.Equal(t, StatusUnknown, ParseStatus(""))
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusActive.IsEnrolled())
	assert.True(t, StatusCompleted.IsEnrolled())
	assert.True(t, StatusCompleted.IsCompleted())
	assert.False(t, StatusArchived.IsEnrolled())
	assert.False(t, StatusUnknown.IsValid())
}

func TestCompletionEvent_Validate(t *testing.T) {
	valid := CompletionEvent{
		EnrollmentID:     "enr-1",
		ModuleID:         "m1",
		LessonID:         "l1",
		OccurredAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		TimeSpentMinutes: 30,
	}
	assert.NoError(t, valid.Validate())

	missingModule := valid
	missingModule.ModuleID = ""
	assert.Error(t, missingModule.Validate())

	zeroTime := valid
	zeroTime.OccurredAt = time.Time{}
	assert.Error(t, zeroTime.Validate())

	negativeMinutes := valid
	negativeMinutes.TimeSpentMinutes = -5
	assert.Error(t, negativeMinutes.Validate())
}

func TestCompletionEvent_UnitKey(t *testing.T) {
	moduleLevel := CompletionEvent{ModuleID: "m1"}
	lessonLevel := CompletionEvent{ModuleID: "m1", LessonID: "l1"}
	assert.NotEqual(t, moduleLevel.UnitKey(), lessonLevel.UnitKey())
}

func TestSummary_Validate(t *testing.T) {
	valid := Summary{
		ID:       "enr-1",
		UserID:   "user-1",
		CourseID: "course-1",
		Status:   StatusActive,
	}
	assert.NoError(t, valid.Validate())

	unknown := valid
	unknown.Status = StatusUnknown
	assert.Error(t, unknown.Validate())

	negative := valid
	negative.TotalTimeSpentMinutes = -1
	assert.Error(t, negative.Validate())
}
