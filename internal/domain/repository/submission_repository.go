package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)

	// Finalize writes the terminal status and aggregate time/memory and
	// returns the submission together with its problem and, when the
	// submission was made during a contest, the contest window.
	// common.ErrNotFound if the submission row vanished concurrently.
	Finalize(ctx context.Context, id string, status model.SubmissionStatus, timeSec float64, memoryKb int) (*model.Submission, error)

	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	query := `INSERT INTO submissions (id, user_id, problem_id, language_id, code, status, active_contest_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, sub.ID, sub.UserID, sub.ProblemID, sub.LanguageID, sub.Code, sub.Status, sub.ActiveContestID)
	} else {
		_, err = r.db.ExecContext(ctx, query, sub.ID, sub.UserID, sub.ProblemID, sub.LanguageID, sub.Code, sub.Status, sub.ActiveContestID)
	}
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT id, user_id, problem_id, language_id, code, status, time, memory, active_contest_id, submitted_at, updated_at
	          FROM submissions WHERE id = $1`

	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.LanguageID, &sub.Code, &sub.Status,
		&sub.Time, &sub.Memory, &sub.ActiveContestID, &sub.SubmittedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) Finalize(ctx context.Context, id string, status model.SubmissionStatus, timeSec float64, memoryKb int) (*model.Submission, error) {
	update := `UPDATE submissions SET status = $1, time = $2, memory = $3, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $4`
	res, err := r.db.ExecContext(ctx, update, status, timeSec, memoryKb, id)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.Finalize update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.ErrNotFound
	}

	query := `SELECT s.id, s.user_id, s.problem_id, s.language_id, s.code, s.status, s.time, s.memory,
	                 s.active_contest_id, s.submitted_at, s.updated_at,
	                 p.id, p.title, p.slug, p.difficulty,
	                 c.id, c.title, c.start_time, c.end_time
	          FROM submissions s
	          JOIN problems p ON s.problem_id = p.id
	          LEFT JOIN contests c ON s.active_contest_id = c.id
	          WHERE s.id = $1`

	sub := &model.Submission{Problem: &model.Problem{}}
	var contestID, contestTitle sql.NullString
	var contestStart, contestEnd sql.NullTime
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.LanguageID, &sub.Code, &sub.Status,
		&sub.Time, &sub.Memory, &sub.ActiveContestID, &sub.SubmittedAt, &sub.UpdatedAt,
		&sub.Problem.ID, &sub.Problem.Title, &sub.Problem.Slug, &sub.Problem.Difficulty,
		&contestID, &contestTitle, &contestStart, &contestEnd,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.Finalize reload: %w", err)
	}
	if contestID.Valid {
		sub.ActiveContest = &model.Contest{
			ID:        contestID.String,
			Title:     contestTitle.String,
			StartTime: contestStart.Time,
			EndTime:   contestEnd.Time,
		}
	}
	return sub, nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, error) {
	query := `SELECT id, user_id, problem_id, language_id, status, time, memory, active_contest_id, submitted_at, updated_at
	          FROM submissions WHERE user_id = $1
	          ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var sub model.Submission
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.ProblemID, &sub.LanguageID, &sub.Status,
			&sub.Time, &sub.Memory, &sub.ActiveContestID, &sub.SubmittedAt, &sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByUser scan: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser rows: %w", err)
	}
	return subs, nil
}
