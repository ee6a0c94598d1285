package session

import "math"

// Verdict thresholds, in percent.
const (
	excellentPercent = 80
	goodPercent      = 60
)

// Summary holds the data displayed when a category is complete.
type Summary struct {
	CategoryID  string
	DisplayName string
	Score       int
	MaxScore    int
	Correct     int

	// FirstTry counts questions answered correctly without a miss. Percent
	// and Verdict are based on it.
	FirstTry int
	Total    int
	Percent  int
	Verdict  string
}

// Verdict returns the message for a percentage score.
func Verdict(percent int) string {
	switch {
	case percent >= excellentPercent:
		return "Excellent performance!"
	case percent >= goodPercent:
		return "Good job!"
	default:
		return "Keep practicing!"
	}
}

// buildSummary computes a Summary from a state and the category display name.
func buildSummary(st State, displayName string) Summary {
	maxScore := MaxScore(st.TotalQuestions)
	var percent int
	if maxScore > 0 {
		percent = int(math.Round(float64(st.FirstTry()) / float64(st.TotalQuestions) * 100))
	}
	if displayName == "" {
		displayName = st.CategoryID
	}
	return Summary{
		CategoryID:  st.CategoryID,
		DisplayName: displayName,
		Score:       st.TotalScore,
		MaxScore:    maxScore,
		Correct:     len(st.Attempted),
		FirstTry:    st.FirstTry(),
		Total:       st.TotalQuestions,
		Percent:     percent,
		Verdict:     Verdict(percent),
	}
}
