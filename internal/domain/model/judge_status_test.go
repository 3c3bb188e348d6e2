package model_test

import (
	"testing"

	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
)

func TestTestCaseStatusFromJudgeCoversEngineCatalog(t *testing.T) {
	t.Parallel()
	cases := map[string]model.TestCaseStatus{
		"In Queue":                model.TestCasePending,
		"Processing":              model.TestCasePending,
		"Accepted":                model.TestCaseAccepted,
		"Wrong Answer":            model.TestCaseWrongAnswer,
		"Time Limit Exceeded":     model.TestCaseTimeLimitExceeded,
		"Memory Limit Exceeded":   model.TestCaseMemoryLimitExceeded,
		"Compilation Error":       model.TestCaseCompilationError,
		"Runtime Error (SIGSEGV)": model.TestCaseRuntimeError,
		"Runtime Error (SIGXFSZ)": model.TestCaseRuntimeError,
		"Runtime Error (SIGFPE)":  model.TestCaseRuntimeError,
		"Runtime Error (SIGABRT)": model.TestCaseRuntimeError,
		"Runtime Error (NZEC)":    model.TestCaseRuntimeError,
		"Runtime Error (Other)":   model.TestCaseRuntimeError,
		"Internal Error":          model.TestCaseInternalError,
		"Exec Format Error":       model.TestCaseInternalError,
	}
	for description, want := range cases {
		got, ok := model.TestCaseStatusFromJudge(description)
		if !ok {
			t.Fatalf("%q: expected a mapping", description)
		}
		if got != want {
			t.Fatalf("%q: got %s, want %s", description, got, want)
		}
	}
}

func TestTestCaseStatusFromJudgeRejectsUnknownDescriptions(t *testing.T) {
	t.Parallel()
	for _, description := range []string{"", "accepted", "Segfault", "AC"} {
		if got, ok := model.TestCaseStatusFromJudge(description); ok {
			t.Fatalf("%q: expected no mapping, got %s", description, got)
		}
	}
}
