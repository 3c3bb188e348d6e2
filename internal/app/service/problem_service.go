package service

import (
	"context"
	"database/sql"
	"log"

	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
	db          *sql.DB
}

func NewProblemService(problemRepo repository.ProblemRepository, db *sql.DB) *ProblemService {
	return &ProblemService{problemRepo: problemRepo, db: db}
}

type CreateProblemRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Difficulty  model.ProblemDifficulty `json:"difficulty"`
	Tests       []ProblemTestInput      `json:"tests"`
}

type ProblemTestInput struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

func (s *ProblemService) CreateProblem(ctx context.Context, creatorID string, req CreateProblemRequest) (*model.Problem, error) {
	if req.Title == "" || req.Description == "" {
		return nil, common.ErrBadRequest
	}
	switch req.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return nil, common.Errorf("invalid difficulty %q: %w", req.Difficulty, common.ErrValidation)
	}

	problem := &model.Problem{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Difficulty:  req.Difficulty,
		Status:      model.ProblemPublished,
		CreatedByID: &creatorID,
	}

	tests := make([]model.ProblemTest, 0, len(req.Tests))
	for i, t := range req.Tests {
		tests = append(tests, model.ProblemTest{
			ID:             uuid.NewString(),
			ProblemID:      problem.ID,
			Input:          t.Input,
			ExpectedOutput: t.ExpectedOutput,
			SortOrder:      i,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.problemRepo.CreateProblem(ctx, tx, problem); err != nil {
		return nil, common.Errorf("failed to create problem: %w", err)
	}
	if err := s.problemRepo.AddTestsToProblem(ctx, tx, problem.ID, tests); err != nil {
		return nil, common.Errorf("failed to add problem tests: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Problem %s (%s) created with %d tests.", problem.ID, problem.Slug, len(tests))
	problem.Tests = tests
	return problem, nil
}

func (s *ProblemService) GetProblemBySlug(ctx context.Context, problemSlug string) (*model.Problem, error) {
	problem, err := s.problemRepo.FindProblemBySlug(ctx, problemSlug)
	if err != nil {
		return nil, common.Errorf("problem not found: %w", err)
	}
	return problem, nil
}

func (s *ProblemService) ListProblems(ctx context.Context, limit, offset int) ([]model.Problem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	problems, err := s.problemRepo.ListProblems(ctx, model.ProblemPublished, limit, offset)
	if err != nil {
		return nil, common.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

func (s *ProblemService) ListLanguages(ctx context.Context) ([]model.Language, error) {
	langs, err := s.problemRepo.ListLanguages(ctx)
	if err != nil {
		return nil, common.Errorf("failed to list languages: %w", err)
	}
	return langs, nil
}
