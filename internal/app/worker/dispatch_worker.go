package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/repository"
	"github.com/TanmayDhobale/algorithmic-arena/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// DispatchWorker drains the submission dispatch queue and hands each
// submission to the judge engine as one batch entry per test case. The
// judge answers with one tracking token per entry; those tokens are
// stored on the test case rows and are what the callback path later
// resolves verdicts against.
type DispatchWorker struct {
	rdb            *redis.Client
	submissionRepo repository.SubmissionRepository
	testCaseRepo   repository.TestCaseRepository
	problemRepo    repository.ProblemRepository
	httpClient     *http.Client
}

func NewDispatchWorker(
	rdb *redis.Client,
	subRepo repository.SubmissionRepository,
	tcRepo repository.TestCaseRepository,
	probRepo repository.ProblemRepository,
) *DispatchWorker {
	return &DispatchWorker{
		rdb:            rdb,
		submissionRepo: subRepo,
		testCaseRepo:   tcRepo,
		problemRepo:    probRepo,
		httpClient:     &http.Client{Timeout: time.Duration(config.AppConfig.JudgeTimeoutSec) * time.Second},
	}
}

// JudgeBatchEntry is one entry of the judge engine's batch submission
// API (Judge0 shape).
type JudgeBatchEntry struct {
	LanguageID     int    `json:"language_id"`
	SourceCode     string `json:"source_code"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
	CallbackURL    string `json:"callback_url"`
}

type judgeBatchRequest struct {
	Submissions []JudgeBatchEntry `json:"submissions"`
}

type judgeBatchToken struct {
	Token string `json:"token"`
}

func (w *DispatchWorker) Start(ctx context.Context) {
	log.Println("Dispatch worker started, listening to queue:", config.AppConfig.DispatchQueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Dispatch worker stopping...")
			return
		default:
			popped, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.DispatchQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Printf("Worker BRPop exiting or timed out: %v", err)
					time.Sleep(1 * time.Second)
					continue
				}
				log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", config.AppConfig.DispatchQueueName, err)
				time.Sleep(5 * time.Second)
				continue
			}

			// popped is [queueName, value]
			if len(popped) < 2 || popped[1] == "" {
				log.Println("WARN: BRPop returned empty submission ID.")
				continue
			}
			submissionID := popped[1]
			log.Printf("Worker picked up submission ID: %s", submissionID)

			if err := w.DispatchSubmission(ctx, submissionID); err != nil {
				log.Printf("ERROR: Failed to dispatch submission %s: %v", submissionID, err)
				w.requeue(ctx, submissionID)
				time.Sleep(2 * time.Second)
			}
		}
	}
}

// DispatchSubmission loads the submission's code and test inputs, sends
// the batch to the judge, and binds the returned tokens to the test case
// rows in order. A token is written at most once per test case, so a
// re-dispatched submission cannot re-bind cases that already went out.
func (w *DispatchWorker) DispatchSubmission(ctx context.Context, submissionID string) error {
	submission, err := w.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("load submission: %w", err)
	}

	language, err := w.problemRepo.GetLanguageByID(ctx, submission.LanguageID)
	if err != nil {
		return fmt.Errorf("load language %s: %w", submission.LanguageID, err)
	}

	tests, err := w.problemRepo.GetTestsByProblemID(ctx, submission.ProblemID)
	if err != nil {
		return fmt.Errorf("load problem tests: %w", err)
	}
	testsByID := make(map[string]model.ProblemTest, len(tests))
	for _, t := range tests {
		testsByID[t.ID] = t
	}

	cases, err := w.testCaseRepo.ListBySubmissionID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("load test cases: %w", err)
	}

	var pending []model.TestCase
	entries := make([]JudgeBatchEntry, 0, len(cases))
	for _, tc := range cases {
		if tc.TrackingToken != nil {
			continue // already dispatched
		}
		t, ok := testsByID[tc.ProblemTestID]
		if !ok {
			return fmt.Errorf("test case %s references missing problem test %s", tc.ID, tc.ProblemTestID)
		}
		pending = append(pending, tc)
		entries = append(entries, JudgeBatchEntry{
			LanguageID:     language.Judge0ID,
			SourceCode:     submission.Code,
			Stdin:          t.Input,
			ExpectedOutput: t.ExpectedOutput,
			CallbackURL:    config.AppConfig.JudgeCallbackURL,
		})
	}
	if len(entries) == 0 {
		log.Printf("WARN: Submission %s has no undispatched test cases, nothing to send.", submissionID)
		return nil
	}

	tokens, err := w.sendBatch(ctx, entries)
	if err != nil {
		return err
	}
	if len(tokens) != len(pending) {
		return fmt.Errorf("judge returned %d tokens for %d entries", len(tokens), len(pending))
	}

	for i, tc := range pending {
		if err := w.testCaseRepo.AssignTrackingToken(ctx, nil, tc.ID, tokens[i]); err != nil {
			return fmt.Errorf("assign token to test case %s: %w", tc.ID, err)
		}
	}

	log.Printf("Submission %s dispatched: %d test cases sent to judge.", submissionID, len(pending))
	return nil
}

func (w *DispatchWorker) sendBatch(ctx context.Context, entries []JudgeBatchEntry) ([]string, error) {
	body, err := json.Marshal(judgeBatchRequest{Submissions: entries})
	if err != nil {
		return nil, fmt.Errorf("marshal batch request: %w", err)
	}

	url := config.AppConfig.JudgeBaseURL + "/submissions/batch?base64_encoded=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post batch to judge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("judge returned status %d", resp.StatusCode)
	}

	var created []judgeBatchToken
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}

	tokens := make([]string, 0, len(created))
	for _, c := range created {
		if c.Token == "" {
			return nil, fmt.Errorf("judge returned an entry without a token")
		}
		tokens = append(tokens, c.Token)
	}
	return tokens, nil
}

func (w *DispatchWorker) requeue(ctx context.Context, submissionID string) {
	if err := w.rdb.LPush(ctx, config.AppConfig.DispatchQueueName, submissionID).Err(); err != nil {
		log.Printf("ERROR: Failed to requeue submission %s: %v", submissionID, err)
	}
}
