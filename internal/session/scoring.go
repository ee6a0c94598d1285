package session

// PointsPerCorrect is awarded for each question answered correctly.
const PointsPerCorrect = 10

// Score returns the points for a single answer.
func Score(correct bool) int {
	if correct {
		return PointsPerCorrect
	}
	return 0
}

// MaxScore is the best achievable score for n questions.
func MaxScore(n int) int {
	return n * PointsPerCorrect
}
