package handler_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TanmayDhobale/algorithmic-arena/internal/api/handler"
	"github.com/TanmayDhobale/algorithmic-arena/internal/app/service"
	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// Minimal fakes: a single submission with two test cases addressed by
// token, enough to drive the handler through its response contract.

type tokenTestCaseRepo struct {
	cases map[string]*model.TestCase // by token
}

func (r *tokenTestCaseRepo) CreateBatch(ctx context.Context, tx *sql.Tx, cases []model.TestCase) error {
	return nil
}

func (r *tokenTestCaseRepo) AssignTrackingToken(ctx context.Context, tx *sql.Tx, testCaseID, token string) error {
	return nil
}

func (r *tokenTestCaseRepo) UpdateByTrackingToken(ctx context.Context, token string, status model.TestCaseStatus, timeSec *float64, memoryKb *int) (*model.TestCase, error) {
	tc, ok := r.cases[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	tc.Status = status
	tc.Time = timeSec
	tc.Memory = memoryKb
	copied := *tc
	return &copied, nil
}

func (r *tokenTestCaseRepo) ListBySubmissionID(ctx context.Context, submissionID string) ([]model.TestCase, error) {
	var out []model.TestCase
	for _, tc := range r.cases {
		if tc.SubmissionID == submissionID {
			out = append(out, *tc)
		}
	}
	return out, nil
}

type singleSubmissionRepo struct {
	sub *model.Submission
}

func (r *singleSubmissionRepo) Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	return nil
}

func (r *singleSubmissionRepo) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	if r.sub == nil || r.sub.ID != id {
		return nil, common.ErrNotFound
	}
	return r.sub, nil
}

func (r *singleSubmissionRepo) Finalize(ctx context.Context, id string, status model.SubmissionStatus, timeSec float64, memoryKb int) (*model.Submission, error) {
	if r.sub == nil || r.sub.ID != id {
		return nil, common.ErrNotFound
	}
	r.sub.Status = status
	r.sub.Time = &timeSec
	r.sub.Memory = &memoryKb
	return r.sub, nil
}

func (r *singleSubmissionRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, error) {
	return nil, nil
}

type noopContestRepo struct{}

func (noopContestRepo) FindByID(ctx context.Context, id string) (*model.Contest, error) {
	return nil, common.ErrNotFound
}

func (noopContestRepo) FindActiveForProblem(ctx context.Context, problemID string, now time.Time) (*model.Contest, error) {
	return nil, common.ErrNotFound
}

func (noopContestRepo) UpsertContestSubmission(ctx context.Context, cs *model.ContestSubmission) error {
	return nil
}

func (noopContestRepo) GetLeaderboard(ctx context.Context, contestID string, limit int) ([]model.LeaderboardRow, error) {
	return nil, nil
}

func newCallbackRouter() (http.Handler, *singleSubmissionRepo) {
	tok1, tok2 := "tok-1", "tok-2"
	tcRepo := &tokenTestCaseRepo{cases: map[string]*model.TestCase{
		tok1: {ID: "tc-1", SubmissionID: "sub-1", TrackingToken: &tok1, Status: model.TestCasePending},
		tok2: {ID: "tc-2", SubmissionID: "sub-1", TrackingToken: &tok2, Status: model.TestCasePending},
	}}
	subRepo := &singleSubmissionRepo{sub: &model.Submission{
		ID:      "sub-1",
		UserID:  "user-1",
		Status:  model.SubmissionPending,
		Problem: &model.Problem{ID: "prob-1", Difficulty: model.DifficultyEasy},
	}}
	points := func(string, string, string, model.ProblemDifficulty, time.Time, time.Time) int { return 0 }
	svc := service.NewJudgeCallbackService(tcRepo, subRepo, noopContestRepo{}, points)

	r := chi.NewRouter()
	handler.NewJudgeCallbackHandler(svc).RegisterRoutes(r)
	return r, subRepo
}

func putCallback(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/submission-callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCallbackEndpointAcknowledgesProcessedVerdict(t *testing.T) {
	router, subRepo := newCallbackRouter()

	rec := putCallback(t, router, `{"token":"tok-1","status":{"id":3,"description":"Accepted"},"time":"0.012","memory":912}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp common.MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Message != "Received" {
		t.Fatalf("expected Received acknowledgment, got %s", rec.Body.String())
	}
	if subRepo.sub.Status != model.SubmissionPending {
		t.Fatalf("one of two verdicts must not finalize the submission")
	}
}

func TestCallbackEndpointSameAckOnFinalizingVerdict(t *testing.T) {
	router, subRepo := newCallbackRouter()

	first := putCallback(t, router, `{"token":"tok-1","status":{"id":3,"description":"Accepted"},"time":"0.012","memory":912}`)
	second := putCallback(t, router, `{"token":"tok-2","status":{"id":4,"description":"Wrong Answer"},"time":"0.040","memory":700}`)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200 for both deliveries, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("acknowledgment must not leak grading state: %s vs %s", first.Body.String(), second.Body.String())
	}
	if subRepo.sub.Status != model.SubmissionRejected {
		t.Fatalf("expected finalized REJECTED, got %s", subRepo.sub.Status)
	}
}

func TestCallbackEndpointUnknownTokenIsNotFound(t *testing.T) {
	router, subRepo := newCallbackRouter()

	rec := putCallback(t, router, `{"token":"gone","status":{"id":3,"description":"Accepted"},"time":"0.012","memory":912}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if subRepo.sub.Status != model.SubmissionPending {
		t.Fatalf("unresolved token must not touch the submission")
	}
}

func TestCallbackEndpointRejectsMalformedPayload(t *testing.T) {
	router, _ := newCallbackRouter()

	for _, body := range []string{`not json`, `{"status":{"description":"Accepted"}}`} {
		rec := putCallback(t, router, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestCallbackEndpointUnknownStatusIsInternalError(t *testing.T) {
	router, _ := newCallbackRouter()

	rec := putCallback(t, router, `{"token":"tok-1","status":{"id":99,"description":"Mystery Verdict"},"time":"0.012","memory":912}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for vocabulary mismatch, got %d: %s", rec.Code, rec.Body.String())
	}
}
