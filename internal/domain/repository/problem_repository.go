package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProblemRepository interface {
	CreateProblem(ctx context.Context, tx *sql.Tx, problem *model.Problem) error
	FindProblemByID(ctx context.Context, id string) (*model.Problem, error)
	FindProblemBySlug(ctx context.Context, slug string) (*model.Problem, error)
	ListProblems(ctx context.Context, status model.ProblemStatus, limit, offset int) ([]model.Problem, error)

	AddTestsToProblem(ctx context.Context, tx *sql.Tx, problemID string, tests []model.ProblemTest) error
	GetTestsByProblemID(ctx context.Context, problemID string) ([]model.ProblemTest, error)

	GetLanguageByID(ctx context.Context, id string) (*model.Language, error)
	ListLanguages(ctx context.Context) ([]model.Language, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) CreateProblem(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	query := `INSERT INTO problems (id, title, slug, description, difficulty, status, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, p.ID, p.Title, p.Slug, p.Description, p.Difficulty, p.Status, p.CreatedByID)
	} else {
		_, err = r.db.ExecContext(ctx, query, p.ID, p.Title, p.Slug, p.Description, p.Difficulty, p.Status, p.CreatedByID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("problem with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.CreateProblem: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	return r.findProblemBy(ctx, "id", id)
}

func (r *pgProblemRepository) FindProblemBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	return r.findProblemBy(ctx, "slug", slug)
}

func (r *pgProblemRepository) findProblemBy(ctx context.Context, column, value string) (*model.Problem, error) {
	query := `SELECT id, title, slug, description, difficulty, status, created_by, created_at, updated_at
	          FROM problems WHERE ` + column + ` = $1`

	problem := &model.Problem{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&problem.ID, &problem.Title, &problem.Slug, &problem.Description, &problem.Difficulty,
		&problem.Status, &problem.CreatedByID, &problem.CreatedAt, &problem.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.findProblemBy %s: %w", column, err)
	}
	return problem, nil
}

func (r *pgProblemRepository) ListProblems(ctx context.Context, status model.ProblemStatus, limit, offset int) ([]model.Problem, error) {
	query := `SELECT id, title, slug, description, difficulty, status, created_by, created_at, updated_at
	          FROM problems WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListProblems: %w", err)
	}
	defer rows.Close()

	var problems []model.Problem
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Description, &p.Difficulty,
			&p.Status, &p.CreatedByID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListProblems scan: %w", err)
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListProblems rows: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) AddTestsToProblem(ctx context.Context, tx *sql.Tx, problemID string, tests []model.ProblemTest) error {
	query := `INSERT INTO problem_tests (id, problem_id, input, expected_output, sort_order)
	          VALUES ($1, $2, $3, $4, $5)`
	for _, t := range tests {
		var err error
		if tx != nil {
			_, err = tx.ExecContext(ctx, query, t.ID, problemID, t.Input, t.ExpectedOutput, t.SortOrder)
		} else {
			_, err = r.db.ExecContext(ctx, query, t.ID, problemID, t.Input, t.ExpectedOutput, t.SortOrder)
		}
		if err != nil {
			return fmt.Errorf("pgProblemRepository.AddTestsToProblem: %w", err)
		}
	}
	return nil
}

func (r *pgProblemRepository) GetTestsByProblemID(ctx context.Context, problemID string) ([]model.ProblemTest, error) {
	query := `SELECT id, problem_id, input, expected_output, sort_order, created_at
	          FROM problem_tests WHERE problem_id = $1 ORDER BY sort_order`

	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.GetTestsByProblemID: %w", err)
	}
	defer rows.Close()

	var tests []model.ProblemTest
	for rows.Next() {
		var t model.ProblemTest
		if err := rows.Scan(&t.ID, &t.ProblemID, &t.Input, &t.ExpectedOutput, &t.SortOrder, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.GetTestsByProblemID scan: %w", err)
		}
		tests = append(tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.GetTestsByProblemID rows: %w", err)
	}
	return tests, nil
}

func (r *pgProblemRepository) GetLanguageByID(ctx context.Context, id string) (*model.Language, error) {
	query := `SELECT id, name, slug, judge0_id, is_active, created_at FROM languages WHERE id = $1`

	lang := &model.Language{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lang.ID, &lang.Name, &lang.Slug, &lang.Judge0ID, &lang.IsActive, &lang.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.GetLanguageByID: %w", err)
	}
	return lang, nil
}

func (r *pgProblemRepository) ListLanguages(ctx context.Context) ([]model.Language, error) {
	query := `SELECT id, name, slug, judge0_id, is_active, created_at FROM languages WHERE is_active = TRUE ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListLanguages: %w", err)
	}
	defer rows.Close()

	var langs []model.Language
	for rows.Next() {
		var lang model.Language
		if err := rows.Scan(&lang.ID, &lang.Name, &lang.Slug, &lang.Judge0ID, &lang.IsActive, &lang.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListLanguages scan: %w", err)
		}
		langs = append(langs, lang)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListLanguages rows: %w", err)
	}
	return langs, nil
}
