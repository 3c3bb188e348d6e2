package service_test

import (
	"testing"

	"github.com/TanmayDhobale/algorithmic-arena/internal/app/service"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func TestDeriveOutcomeStillPendingWhileAnyCasePending(t *testing.T) {
	t.Parallel()
	cases := []model.TestCase{
		{Status: model.TestCaseAccepted, Time: f(0.5), Memory: i(1024)},
		{Status: model.TestCasePending},
		{Status: model.TestCaseWrongAnswer, Time: f(0.1), Memory: i(512)},
	}
	outcome := service.DeriveOutcome(cases)
	if !outcome.Pending {
		t.Fatalf("expected pending outcome, got %+v", outcome)
	}
}

func TestDeriveOutcomeAcceptedOnlyWhenAllCasesAccepted(t *testing.T) {
	t.Parallel()
	all := []model.TestCase{
		{Status: model.TestCaseAccepted, Time: f(0.2), Memory: i(2048)},
		{Status: model.TestCaseAccepted, Time: f(0.4), Memory: i(1024)},
	}
	outcome := service.DeriveOutcome(all)
	if outcome.Pending || outcome.Status != model.SubmissionAccepted {
		t.Fatalf("expected AC, got %+v", outcome)
	}

	for _, bad := range []model.TestCaseStatus{
		model.TestCaseWrongAnswer,
		model.TestCaseTimeLimitExceeded,
		model.TestCaseMemoryLimitExceeded,
		model.TestCaseRuntimeError,
		model.TestCaseCompilationError,
		model.TestCaseInternalError,
	} {
		mixed := append([]model.TestCase{}, all...)
		mixed = append(mixed, model.TestCase{Status: bad})
		outcome := service.DeriveOutcome(mixed)
		if outcome.Pending || outcome.Status != model.SubmissionRejected {
			t.Fatalf("status %s: expected REJECTED, got %+v", bad, outcome)
		}
	}
}

func TestDeriveOutcomeMaxAggregationTreatsUnsetAsZero(t *testing.T) {
	t.Parallel()
	cases := []model.TestCase{
		{Status: model.TestCaseAccepted, Time: f(0.25), Memory: i(4096)},
		{Status: model.TestCaseWrongAnswer}, // graded, but judge reported no time/memory
		{Status: model.TestCaseAccepted, Time: f(1.75), Memory: i(1024)},
	}
	outcome := service.DeriveOutcome(cases)
	if outcome.Pending {
		t.Fatalf("expected graded outcome")
	}
	if outcome.Status != model.SubmissionRejected {
		t.Fatalf("expected REJECTED, got %s", outcome.Status)
	}
	if outcome.Time != 1.75 {
		t.Fatalf("expected max time 1.75, got %v", outcome.Time)
	}
	if outcome.Memory != 4096 {
		t.Fatalf("expected max memory 4096, got %v", outcome.Memory)
	}
}

func TestDeriveOutcomeOrderIndependent(t *testing.T) {
	t.Parallel()
	cases := []model.TestCase{
		{Status: model.TestCaseAccepted, Time: f(0.3), Memory: i(2000)},
		{Status: model.TestCaseTimeLimitExceeded, Time: f(2.0), Memory: i(500)},
		{Status: model.TestCaseAccepted, Time: f(0.1), Memory: i(9000)},
	}
	want := service.DeriveOutcome(cases)

	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, perm := range perms {
		shuffled := make([]model.TestCase, len(cases))
		for i, j := range perm {
			shuffled[i] = cases[j]
		}
		got := service.DeriveOutcome(shuffled)
		if got != want {
			t.Fatalf("permutation %v: got %+v, want %+v", perm, got, want)
		}
	}
}

func TestDeriveOutcomeEmptySetFinalizesVacuouslyAccepted(t *testing.T) {
	t.Parallel()
	outcome := service.DeriveOutcome(nil)
	if outcome.Pending {
		t.Fatalf("expected graded outcome for empty set")
	}
	if outcome.Status != model.SubmissionAccepted || outcome.Time != 0 || outcome.Memory != 0 {
		t.Fatalf("expected vacuous AC with zero time/memory, got %+v", outcome)
	}
}
