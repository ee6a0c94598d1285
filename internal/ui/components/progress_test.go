package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionTrack_Cells(t *testing.T) {
	// Question 1 clean, question 2 retried, now on question 3 of 5.
	view := NewQuestionTrack(2, 5, []int{0, 1}, []int{1}, 60).View()

	assert.Contains(t, view, "Question 3 of 5")
	assert.Equal(t, 2, strings.Count(view, cellDone))
	assert.Equal(t, 1, strings.Count(view, cellCurrent))
	assert.Equal(t, 2, strings.Count(view, cellAhead))
}

func TestQuestionTrack_AnsweredCurrentIsDone(t *testing.T) {
	// Correct answer showing, auto-advance pending.
	view := NewQuestionTrack(0, 3, []int{0}, nil, 60).View()
	assert.Equal(t, 1, strings.Count(view, cellDone))
	assert.Equal(t, 0, strings.Count(view, cellCurrent))
}

func TestQuestionTrack_FallsBackToBar(t *testing.T) {
	view := NewQuestionTrack(10, 40, nil, nil, 40).View()
	assert.Contains(t, view, "Question 11 of 40")
	assert.NotContains(t, view, cellAhead)
}
