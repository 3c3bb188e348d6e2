// Package scoring computes contest points for a finalized submission.
package scoring

import (
	"time"

	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
)

// PointsFunc computes the points awarded for an accepted-or-not finalized
// submission within a contest window. Pure: same inputs, same points.
type PointsFunc func(contestID, userID, problemID string, difficulty model.ProblemDifficulty, contestStart, contestEnd time.Time) int

const decayFloor = 0.5

// BasePoints returns the full score of a problem by difficulty.
func BasePoints(difficulty model.ProblemDifficulty) int {
	switch difficulty {
	case model.DifficultyEasy:
		return 250
	case model.DifficultyMedium:
		return 500
	case model.DifficultyHard:
		return 1000
	}
	return 0
}

// ComputePoints is the default PointsFunc: the difficulty's base points,
// decaying linearly from 100% at contest start to 50% at contest end.
// Before the window the full score applies, after it the floor.
func ComputePoints(contestID, userID, problemID string, difficulty model.ProblemDifficulty, contestStart, contestEnd time.Time) int {
	return computePointsAt(difficulty, contestStart, contestEnd, time.Now())
}

func computePointsAt(difficulty model.ProblemDifficulty, contestStart, contestEnd, now time.Time) int {
	base := float64(BasePoints(difficulty))

	window := contestEnd.Sub(contestStart)
	if window <= 0 {
		return int(base)
	}

	elapsed := now.Sub(contestStart)
	if elapsed < 0 {
		elapsed = 0
	}
	fraction := float64(elapsed) / float64(window)
	if fraction > 1 {
		fraction = 1
	}

	return int(base * (1 - (1-decayFloor)*fraction))
}
