package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/TanmayDhobale/algorithmic-arena/internal/app/scoring"
	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/repository"
)

// JudgeCallbackService aggregates the judge engine's asynchronous
// per-test-case verdicts into a submission-level verdict. Verdicts for
// the same submission arrive concurrently, out of order and possibly
// duplicated; every delivery re-reads the full sibling set and
// re-derives completeness, which is what makes finalization converge
// exactly once per true completion without a per-submission lock.
type JudgeCallbackService struct {
	testCaseRepo   repository.TestCaseRepository
	submissionRepo repository.SubmissionRepository
	contestRepo    repository.ContestRepository
	points         scoring.PointsFunc
}

func NewJudgeCallbackService(
	tcRepo repository.TestCaseRepository,
	subRepo repository.SubmissionRepository,
	contestRepo repository.ContestRepository,
	points scoring.PointsFunc,
) *JudgeCallbackService {
	return &JudgeCallbackService{
		testCaseRepo:   tcRepo,
		submissionRepo: subRepo,
		contestRepo:    contestRepo,
		points:         points,
	}
}

// SubmissionCallbackPayload is what the judge engine PUTs back for a
// single test case. Time arrives as a decimal string.
type SubmissionCallbackPayload struct {
	Token  string             `json:"token"`
	Status model.JudgeVerdict `json:"status"`
	Time   json.Number        `json:"time"`
	Memory *int               `json:"memory"`
}

// HandleSubmissionCallback processes one delivered verdict end to end:
// apply it to the test case addressed by the token, re-derive the
// submission's grading state from a fresh read of all its test cases,
// finalize if nothing is pending, and record contest points when the
// submission belongs to a contest.
//
// common.ErrNotFound means the token resolved to no live test case —
// a duplicate delivery or a racing update that lost the row. That is
// fatal to this delivery only, never to the process. Errors after the
// test case write are not rolled back: the next delivered verdict
// re-derives the same state and converges.
func (s *JudgeCallbackService) HandleSubmissionCallback(ctx context.Context, payload SubmissionCallbackPayload) error {
	status, ok := model.TestCaseStatusFromJudge(payload.Status.Description)
	if !ok {
		return common.Errorf("status %q has no mapping: %w", payload.Status.Description, common.ErrUnknownJudgeStatus)
	}

	var timeSec *float64
	if payload.Time != "" {
		v, err := payload.Time.Float64()
		if err != nil {
			return common.Errorf("unparseable time %q: %w", payload.Time.String(), common.ErrBadRequest)
		}
		timeSec = &v
	}

	testCase, err := s.testCaseRepo.UpdateByTrackingToken(ctx, payload.Token, status, timeSec, payload.Memory)
	if err != nil {
		return common.Errorf("update test case by token: %w", err)
	}

	siblings, err := s.testCaseRepo.ListBySubmissionID(ctx, testCase.SubmissionID)
	if err != nil {
		return common.Errorf("list test cases for submission %s: %w", testCase.SubmissionID, err)
	}

	outcome := DeriveOutcome(siblings)
	if outcome.Pending {
		return nil
	}

	submission, err := s.submissionRepo.Finalize(ctx, testCase.SubmissionID, outcome.Status, outcome.Time, outcome.Memory)
	if err != nil {
		return common.Errorf("finalize submission %s: %w", testCase.SubmissionID, err)
	}
	log.Printf("Submission %s finalized with status %s (time=%.3fs, memory=%dKB)",
		submission.ID, submission.Status, outcome.Time, outcome.Memory)

	if submission.ActiveContestID == nil || submission.ActiveContest == nil {
		return nil
	}

	points := s.points(
		*submission.ActiveContestID,
		submission.UserID,
		submission.ProblemID,
		submission.Problem.Difficulty,
		submission.ActiveContest.StartTime,
		submission.ActiveContest.EndTime,
	)

	record := &model.ContestSubmission{
		ContestID:    *submission.ActiveContestID,
		UserID:       submission.UserID,
		ProblemID:    submission.ProblemID,
		SubmissionID: submission.ID,
		Points:       points,
	}
	if err := s.contestRepo.UpsertContestSubmission(ctx, record); err != nil {
		return common.Errorf("record contest points for submission %s: %w", submission.ID, err)
	}
	log.Printf("Contest %s: %d points recorded for user %s on problem %s",
		record.ContestID, points, record.UserID, record.ProblemID)
	return nil
}
