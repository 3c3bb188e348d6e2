package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
)

type ContestRepository interface {
	FindByID(ctx context.Context, id string) (*model.Contest, error)

	// FindActiveForProblem returns the contest that includes problemID and
	// whose window covers now. common.ErrNotFound when the problem is not
	// part of any live contest.
	FindActiveForProblem(ctx context.Context, problemID string, now time.Time) (*model.Contest, error)

	// UpsertContestSubmission converges the scoring record for the
	// (contest, user, problem) key: insert on first finalization,
	// overwrite points and submission_id on any later one.
	UpsertContestSubmission(ctx context.Context, cs *model.ContestSubmission) error

	GetLeaderboard(ctx context.Context, contestID string, limit int) ([]model.LeaderboardRow, error)
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

func (r *pgContestRepository) FindByID(ctx context.Context, id string) (*model.Contest, error) {
	query := `SELECT id, title, start_time, end_time, created_at FROM contests WHERE id = $1`

	contest := &model.Contest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&contest.ID, &contest.Title, &contest.StartTime, &contest.EndTime, &contest.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.FindByID: %w", err)
	}
	return contest, nil
}

func (r *pgContestRepository) FindActiveForProblem(ctx context.Context, problemID string, now time.Time) (*model.Contest, error) {
	query := `SELECT c.id, c.title, c.start_time, c.end_time, c.created_at
	          FROM contests c
	          JOIN contest_problems cp ON cp.contest_id = c.id
	          WHERE cp.problem_id = $1 AND c.start_time <= $2 AND c.end_time > $2
	          ORDER BY c.start_time DESC LIMIT 1`

	contest := &model.Contest{}
	err := r.db.QueryRowContext(ctx, query, problemID, now).Scan(
		&contest.ID, &contest.Title, &contest.StartTime, &contest.EndTime, &contest.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.FindActiveForProblem: %w", err)
	}
	return contest, nil
}

func (r *pgContestRepository) UpsertContestSubmission(ctx context.Context, cs *model.ContestSubmission) error {
	query := `INSERT INTO contest_submissions (contest_id, user_id, problem_id, submission_id, points)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (contest_id, user_id, problem_id)
	          DO UPDATE SET points = EXCLUDED.points, submission_id = EXCLUDED.submission_id, updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.ExecContext(ctx, query, cs.ContestID, cs.UserID, cs.ProblemID, cs.SubmissionID, cs.Points)
	if err != nil {
		return fmt.Errorf("pgContestRepository.UpsertContestSubmission: %w", err)
	}
	return nil
}

func (r *pgContestRepository) GetLeaderboard(ctx context.Context, contestID string, limit int) ([]model.LeaderboardRow, error) {
	query := `SELECT cs.user_id, u.username, SUM(cs.points) AS total_points
	          FROM contest_submissions cs
	          JOIN users u ON cs.user_id = u.id
	          WHERE cs.contest_id = $1
	          GROUP BY cs.user_id, u.username
	          ORDER BY total_points DESC, u.username
	          LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, contestID, limit)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.GetLeaderboard: %w", err)
	}
	defer rows.Close()

	var board []model.LeaderboardRow
	rank := 0
	for rows.Next() {
		var row model.LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.Username, &row.Points); err != nil {
			return nil, fmt.Errorf("pgContestRepository.GetLeaderboard scan: %w", err)
		}
		rank++
		row.Rank = rank
		board = append(board, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgContestRepository.GetLeaderboard rows: %w", err)
	}
	return board, nil
}
