package model

import "time"

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionAccepted SubmissionStatus = "AC"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

type TestCaseStatus string

const (
	TestCasePending             TestCaseStatus = "PENDING"
	TestCaseAccepted            TestCaseStatus = "AC"
	TestCaseWrongAnswer         TestCaseStatus = "WA"
	TestCaseTimeLimitExceeded   TestCaseStatus = "TLE"
	TestCaseMemoryLimitExceeded TestCaseStatus = "MLE"
	TestCaseRuntimeError        TestCaseStatus = "RE"
	TestCaseCompilationError    TestCaseStatus = "CE"
	TestCaseInternalError       TestCaseStatus = "IE"
)

type Submission struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	ProblemID       string           `json:"problem_id"`
	LanguageID      string           `json:"language_id"`
	Code            string           `json:"code"`
	Status          SubmissionStatus `json:"status"`
	Time            *float64         `json:"time,omitempty"`   // Max over test cases, seconds
	Memory          *int             `json:"memory,omitempty"` // Max over test cases, KB
	ActiveContestID *string          `json:"active_contest_id,omitempty"`
	SubmittedAt     time.Time        `json:"submitted_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	TestCases     []TestCase `json:"test_cases,omitempty"`
	Problem       *Problem   `json:"problem,omitempty"`        // Joined on finalization
	ActiveContest *Contest   `json:"active_contest,omitempty"` // Joined on finalization
}

// TestCase is one judged unit of a submission. TrackingToken is the
// opaque identifier the judge engine hands back at dispatch time; it is
// the sole correlation key for incoming verdicts and never changes once
// assigned.
type TestCase struct {
	ID            string         `json:"id"`
	SubmissionID  string         `json:"submission_id"`
	ProblemTestID string         `json:"problem_test_id"`
	TrackingToken *string        `json:"-"`
	Status        TestCaseStatus `json:"status"`
	Time          *float64       `json:"time,omitempty"`
	Memory        *int           `json:"memory,omitempty"`
	SortOrder     int            `json:"sort_order"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
