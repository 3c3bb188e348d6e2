package worker_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/TanmayDhobale/algorithmic-arena/internal/app/worker"
	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/repository"
	"github.com/TanmayDhobale/algorithmic-arena/internal/platform/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeSubmissionRepo struct {
	repository.SubmissionRepository
	sub *model.Submission
}

func (r *fakeSubmissionRepo) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	if r.sub == nil || r.sub.ID != id {
		return nil, common.ErrNotFound
	}
	return r.sub, nil
}

type fakeProblemRepo struct {
	repository.ProblemRepository
	language *model.Language
	tests    []model.ProblemTest
}

func (r *fakeProblemRepo) GetLanguageByID(ctx context.Context, id string) (*model.Language, error) {
	if r.language == nil || r.language.ID != id {
		return nil, common.ErrNotFound
	}
	return r.language, nil
}

func (r *fakeProblemRepo) GetTestsByProblemID(ctx context.Context, problemID string) ([]model.ProblemTest, error) {
	return r.tests, nil
}

type fakeTestCaseRepo struct {
	repository.TestCaseRepository
	mu     sync.Mutex
	cases  []model.TestCase
	tokens map[string]string // test case ID -> token
}

func (r *fakeTestCaseRepo) ListBySubmissionID(ctx context.Context, submissionID string) ([]model.TestCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.TestCase, len(r.cases))
	copy(out, r.cases)
	return out, nil
}

func (r *fakeTestCaseRepo) AssignTrackingToken(ctx context.Context, tx *sql.Tx, testCaseID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.tokens[testCaseID]; dup {
		return common.ErrNotFound
	}
	r.tokens[testCaseID] = token
	for i := range r.cases {
		if r.cases[i].ID == testCaseID {
			t := token
			r.cases[i].TrackingToken = &t
		}
	}
	return nil
}

func (r *fakeTestCaseRepo) assignedTokens() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.tokens))
	for k, v := range r.tokens {
		out[k] = v
	}
	return out
}

type judgeBatchRequest struct {
	Submissions []worker.JudgeBatchEntry `json:"submissions"`
}

func newJudgeServer(t *testing.T, tokens []string, gotBatches *[]judgeBatchRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req judgeBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("judge received undecodable batch: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		*gotBatches = append(*gotBatches, req)

		out := make([]map[string]string, 0, len(req.Submissions))
		for i := range req.Submissions {
			if i < len(tokens) {
				out = append(out, map[string]string{"token": tokens[i]})
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}))
}

func fixtureRepos() (*fakeSubmissionRepo, *fakeProblemRepo, *fakeTestCaseRepo) {
	subRepo := &fakeSubmissionRepo{sub: &model.Submission{
		ID:         "sub-1",
		UserID:     "user-1",
		ProblemID:  "prob-1",
		LanguageID: "lang-1",
		Code:       "print(input())",
		Status:     model.SubmissionPending,
	}}
	probRepo := &fakeProblemRepo{
		language: &model.Language{ID: "lang-1", Slug: "python", Judge0ID: 71, IsActive: true},
		tests: []model.ProblemTest{
			{ID: "pt-1", ProblemID: "prob-1", Input: "1", ExpectedOutput: "1", SortOrder: 0},
			{ID: "pt-2", ProblemID: "prob-1", Input: "2", ExpectedOutput: "2", SortOrder: 1},
		},
	}
	tcRepo := &fakeTestCaseRepo{
		cases: []model.TestCase{
			{ID: "tc-1", SubmissionID: "sub-1", ProblemTestID: "pt-1", Status: model.TestCasePending, SortOrder: 0},
			{ID: "tc-2", SubmissionID: "sub-1", ProblemTestID: "pt-2", Status: model.TestCasePending, SortOrder: 1},
		},
		tokens: make(map[string]string),
	}
	return subRepo, probRepo, tcRepo
}

func testConfig(judgeURL string) {
	config.AppConfig = &config.Config{
		DispatchQueueName: "submission_dispatch_queue",
		JudgeBaseURL:      judgeURL,
		JudgeCallbackURL:  "http://backend:3001/submission-callback",
		JudgeTimeoutSec:   5,
	}
}

func TestDispatchSubmissionBindsTokensInOrder(t *testing.T) {
	var batches []judgeBatchRequest
	judge := newJudgeServer(t, []string{"tok-a", "tok-b"}, &batches)
	defer judge.Close()
	testConfig(judge.URL)

	subRepo, probRepo, tcRepo := fixtureRepos()
	w := worker.NewDispatchWorker(nil, subRepo, tcRepo, probRepo)

	if err := w.DispatchSubmission(context.Background(), "sub-1"); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	tokens := tcRepo.assignedTokens()
	if tokens["tc-1"] != "tok-a" || tokens["tc-2"] != "tok-b" {
		t.Fatalf("tokens not bound in batch order: %v", tokens)
	}

	if len(batches) != 1 || len(batches[0].Submissions) != 2 {
		t.Fatalf("expected one batch of two entries, got %+v", batches)
	}
	entry := batches[0].Submissions[0]
	if entry.LanguageID != 71 || entry.Stdin != "1" || entry.ExpectedOutput != "1" {
		t.Fatalf("unexpected batch entry: %+v", entry)
	}
	if entry.CallbackURL != config.AppConfig.JudgeCallbackURL {
		t.Fatalf("batch entry missing callback URL: %+v", entry)
	}
}

func TestDispatchSubmissionSkipsAlreadyDispatchedCases(t *testing.T) {
	var batches []judgeBatchRequest
	judge := newJudgeServer(t, []string{"tok-new"}, &batches)
	defer judge.Close()
	testConfig(judge.URL)

	subRepo, probRepo, tcRepo := fixtureRepos()
	existing := "tok-old"
	tcRepo.cases[0].TrackingToken = &existing
	tcRepo.tokens["tc-1"] = existing

	w := worker.NewDispatchWorker(nil, subRepo, tcRepo, probRepo)
	if err := w.DispatchSubmission(context.Background(), "sub-1"); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if len(batches) != 1 || len(batches[0].Submissions) != 1 {
		t.Fatalf("expected a single-entry batch for the undispatched case, got %+v", batches)
	}
	tokens := tcRepo.assignedTokens()
	if tokens["tc-1"] != "tok-old" || tokens["tc-2"] != "tok-new" {
		t.Fatalf("re-dispatch must not re-bind existing tokens: %v", tokens)
	}
}

func TestDispatchSubmissionFailsOnTokenCountMismatch(t *testing.T) {
	var batches []judgeBatchRequest
	judge := newJudgeServer(t, []string{"only-one"}, &batches)
	defer judge.Close()
	testConfig(judge.URL)

	subRepo, probRepo, tcRepo := fixtureRepos()
	w := worker.NewDispatchWorker(nil, subRepo, tcRepo, probRepo)

	if err := w.DispatchSubmission(context.Background(), "sub-1"); err == nil {
		t.Fatalf("expected error when judge returns fewer tokens than entries")
	}
	if len(tcRepo.assignedTokens()) != 0 {
		t.Fatalf("no tokens may be bound on a mismatched batch")
	}
}

func TestWorkerDrainsDispatchQueue(t *testing.T) {
	var batches []judgeBatchRequest
	judge := newJudgeServer(t, []string{"tok-a", "tok-b"}, &batches)
	defer judge.Close()
	testConfig(judge.URL)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	subRepo, probRepo, tcRepo := fixtureRepos()
	w := worker.NewDispatchWorker(rdb, subRepo, tcRepo, probRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	if err := rdb.LPush(context.Background(), config.AppConfig.DispatchQueueName, "sub-1").Err(); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(tcRepo.assignedTokens()) == 2 {
			cancel()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("worker did not dispatch the queued submission in time; tokens: %v", tcRepo.assignedTokens())
}
