package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/repository"
	"github.com/TanmayDhobale/algorithmic-arena/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	testCaseRepo   repository.TestCaseRepository
	problemRepo    repository.ProblemRepository
	contestRepo    repository.ContestRepository
	rdb            *redis.Client
	db             *sql.DB // For transactions
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	tcRepo repository.TestCaseRepository,
	probRepo repository.ProblemRepository,
	contestRepo repository.ContestRepository,
	rdb *redis.Client,
	db *sql.DB,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: subRepo,
		testCaseRepo:   tcRepo,
		problemRepo:    probRepo,
		contestRepo:    contestRepo,
		rdb:            rdb,
		db:             db,
	}
}

type CreateSubmissionRequest struct {
	ProblemID  string `json:"problem_id"`
	LanguageID string `json:"language_id"`
	Code       string `json:"code"`
}

// CreateSubmission records a PENDING submission with one PENDING test
// case per problem test, pins the live contest (if any) at submit time,
// and enqueues the submission for dispatch to the judge engine.
// Tracking tokens are assigned later, when the dispatch worker hands the
// batch to the judge.
func (s *SubmissionService) CreateSubmission(ctx context.Context, userID string, req CreateSubmissionRequest) (*model.Submission, error) {
	if req.ProblemID == "" || req.LanguageID == "" || req.Code == "" {
		return nil, common.ErrBadRequest
	}

	problem, err := s.problemRepo.FindProblemByID(ctx, req.ProblemID)
	if err != nil {
		return nil, common.Errorf("problem not found: %w", err)
	}
	if problem.Status != model.ProblemPublished {
		return nil, common.Errorf("problem is not published: %w", common.ErrForbidden)
	}

	language, err := s.problemRepo.GetLanguageByID(ctx, req.LanguageID)
	if err != nil || !language.IsActive {
		return nil, common.Errorf("language not found or inactive: %w", common.ErrBadRequest)
	}

	tests, err := s.problemRepo.GetTestsByProblemID(ctx, problem.ID)
	if err != nil {
		return nil, common.Errorf("failed to load problem tests: %w", err)
	}

	submission := &model.Submission{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProblemID:  problem.ID,
		LanguageID: language.ID,
		Code:       req.Code,
		Status:     model.SubmissionPending,
	}

	// Pin the contest at submit time so the callback path scores against
	// the window that was live when the user submitted.
	contest, err := s.contestRepo.FindActiveForProblem(ctx, problem.ID, time.Now())
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, common.Errorf("failed to resolve active contest: %w", err)
	}
	if contest != nil {
		submission.ActiveContestID = &contest.ID
	}

	cases := make([]model.TestCase, 0, len(tests))
	for i, t := range tests {
		cases = append(cases, model.TestCase{
			ID:            uuid.NewString(),
			SubmissionID:  submission.ID,
			ProblemTestID: t.ID,
			Status:        model.TestCasePending,
			SortOrder:     i,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.submissionRepo.Create(ctx, tx, submission); err != nil {
		return nil, common.Errorf("failed to create submission: %w", err)
	}
	if err := s.testCaseRepo.CreateBatch(ctx, tx, cases); err != nil {
		return nil, common.Errorf("failed to create test cases: %w", err)
	}

	if err := s.rdb.LPush(ctx, config.AppConfig.DispatchQueueName, submission.ID).Err(); err != nil {
		return nil, common.Errorf("failed to enqueue submission for dispatch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Submission %s created with %d test cases and enqueued for dispatch.", submission.ID, len(cases))
	submission.TestCases = cases
	return submission, nil
}

// GetSubmission returns a submission with its test case results. Only
// the owner may read it.
func (s *SubmissionService) GetSubmission(ctx context.Context, userID, submissionID string) (*model.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, common.Errorf("submission not found: %w", err)
	}
	if submission.UserID != userID {
		return nil, common.ErrForbidden
	}

	cases, err := s.testCaseRepo.ListBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, common.Errorf("failed to load test cases: %w", err)
	}
	submission.TestCases = cases
	return submission, nil
}

func (s *SubmissionService) ListMySubmissions(ctx context.Context, userID string, limit, offset int) ([]model.Submission, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	subs, err := s.submissionRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, common.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}
