package service

import "github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"

// Outcome is the derived grading state of a submission's full test case
// set. When Pending is true the remaining fields are meaningless.
type Outcome struct {
	Pending bool
	Status  model.SubmissionStatus
	Time    float64 // Max over test cases, seconds
	Memory  int     // Max over test cases, KB
}

// DeriveOutcome re-computes a submission's grading state from its full
// sibling test case set. It is the single source of truth for "is
// grading done": callers re-read the set from storage on every delivered
// verdict and call this, so finalization is order-independent and safe
// under duplicate deliveries without any per-submission lock or counter.
//
// Status is AC only when every test case is AC; anything else, including
// a mix of AC and errors, is REJECTED. Time and memory are the maxima
// over all cases, with never-graded values counting as 0 (matches the
// judge's own reduction). An empty set derives as a vacuous AC.
func DeriveOutcome(cases []model.TestCase) Outcome {
	allPassed := true
	var maxTime float64
	var maxMemory int

	for _, tc := range cases {
		if tc.Status == model.TestCasePending {
			return Outcome{Pending: true}
		}
		if tc.Status != model.TestCaseAccepted {
			allPassed = false
		}
		if tc.Time != nil && *tc.Time > maxTime {
			maxTime = *tc.Time
		}
		if tc.Memory != nil && *tc.Memory > maxMemory {
			maxMemory = *tc.Memory
		}
	}

	status := model.SubmissionRejected
	if allPassed {
		status = model.SubmissionAccepted
	}
	return Outcome{Status: status, Time: maxTime, Memory: maxMemory}
}
