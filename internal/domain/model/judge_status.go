package model

// JudgeVerdict is the status block of a judge engine callback, Judge0
// vocabulary: a numeric status ID plus a human-readable description.
type JudgeVerdict struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// TestCaseStatusFromJudge translates the judge engine's status
// description into the internal test case vocabulary. The table is
// exhaustive over the engine's catalog; ok is false for anything else so
// callers fail loudly instead of coercing an unknown verdict.
func TestCaseStatusFromJudge(description string) (TestCaseStatus, bool) {
	switch description {
	case "In Queue", "Processing":
		return TestCasePending, true
	case "Accepted":
		return TestCaseAccepted, true
	case "Wrong Answer":
		return TestCaseWrongAnswer, true
	case "Time Limit Exceeded":
		return TestCaseTimeLimitExceeded, true
	case "Memory Limit Exceeded":
		return TestCaseMemoryLimitExceeded, true
	case "Compilation Error":
		return TestCaseCompilationError, true
	case "Runtime Error (SIGSEGV)",
		"Runtime Error (SIGXFSZ)",
		"Runtime Error (SIGFPE)",
		"Runtime Error (SIGABRT)",
		"Runtime Error (NZEC)",
		"Runtime Error (Other)":
		return TestCaseRuntimeError, true
	case "Internal Error", "Exec Format Error":
		return TestCaseInternalError, true
	}
	return "", false
}
