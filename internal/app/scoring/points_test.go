package scoring

import (
	"testing"
	"time"

	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
)

func TestBasePointsByDifficulty(t *testing.T) {
	t.Parallel()
	if BasePoints(model.DifficultyEasy) != 250 {
		t.Fatalf("easy base points changed")
	}
	if BasePoints(model.DifficultyMedium) != 500 {
		t.Fatalf("medium base points changed")
	}
	if BasePoints(model.DifficultyHard) != 1000 {
		t.Fatalf("hard base points changed")
	}
	if BasePoints("UNKNOWN") != 0 {
		t.Fatalf("unknown difficulty must score zero")
	}
}

func TestComputePointsDecaysOverWindow(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	if got := computePointsAt(model.DifficultyHard, start, end, start); got != 1000 {
		t.Fatalf("at contest start: got %d, want 1000", got)
	}
	if got := computePointsAt(model.DifficultyHard, start, end, start.Add(time.Hour)); got != 750 {
		t.Fatalf("at midpoint: got %d, want 750", got)
	}
	if got := computePointsAt(model.DifficultyHard, start, end, end); got != 500 {
		t.Fatalf("at contest end: got %d, want floor 500", got)
	}
}

func TestComputePointsClampsOutsideWindow(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	if got := computePointsAt(model.DifficultyMedium, start, end, start.Add(-time.Hour)); got != 500 {
		t.Fatalf("before the window: got %d, want full 500", got)
	}
	if got := computePointsAt(model.DifficultyMedium, start, end, end.Add(time.Hour)); got != 250 {
		t.Fatalf("after the window: got %d, want floor 250", got)
	}
}

func TestComputePointsDegenerateWindow(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := computePointsAt(model.DifficultyEasy, at, at, at); got != 250 {
		t.Fatalf("zero-length window: got %d, want base 250", got)
	}
}
