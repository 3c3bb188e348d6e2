package model

import "time"

type Contest struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// IsLiveAt reports whether t falls inside the [StartTime, EndTime)
// contest window.
func (c *Contest) IsLiveAt(t time.Time) bool {
	return !t.Before(c.StartTime) && t.Before(c.EndTime)
}

// ContestSubmission is the scoring record for a (contest, user, problem)
// triple. There is at most one row per key; a later finalized submission
// for the same key overwrites points and submission_id.
type ContestSubmission struct {
	ContestID    string    `json:"contest_id"`
	UserID       string    `json:"user_id"`
	ProblemID    string    `json:"problem_id"`
	SubmissionID string    `json:"submission_id"`
	Points       int       `json:"points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type LeaderboardRow struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}
