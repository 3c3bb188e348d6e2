package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
)

type TestCaseRepository interface {
	CreateBatch(ctx context.Context, tx *sql.Tx, cases []model.TestCase) error

	// AssignTrackingToken stores the token the judge returned at dispatch
	// time. Tokens are written once and never changed afterwards.
	AssignTrackingToken(ctx context.Context, tx *sql.Tx, testCaseID, token string) error

	// UpdateByTrackingToken applies a delivered verdict to the single test
	// case carrying the token, atomically at the row level, and returns
	// the updated row. common.ErrNotFound if no row carries the token.
	UpdateByTrackingToken(ctx context.Context, token string, status model.TestCaseStatus, timeSec *float64, memoryKb *int) (*model.TestCase, error)

	ListBySubmissionID(ctx context.Context, submissionID string) ([]model.TestCase, error)
}

type pgTestCaseRepository struct {
	db *sql.DB
}

func NewPgTestCaseRepository(db *sql.DB) TestCaseRepository {
	return &pgTestCaseRepository{db: db}
}

func (r *pgTestCaseRepository) CreateBatch(ctx context.Context, tx *sql.Tx, cases []model.TestCase) error {
	query := `INSERT INTO test_cases (id, submission_id, problem_test_id, status, sort_order)
	          VALUES ($1, $2, $3, $4, $5)`
	for _, tc := range cases {
		var err error
		if tx != nil {
			_, err = tx.ExecContext(ctx, query, tc.ID, tc.SubmissionID, tc.ProblemTestID, tc.Status, tc.SortOrder)
		} else {
			_, err = r.db.ExecContext(ctx, query, tc.ID, tc.SubmissionID, tc.ProblemTestID, tc.Status, tc.SortOrder)
		}
		if err != nil {
			return fmt.Errorf("pgTestCaseRepository.CreateBatch: %w", err)
		}
	}
	return nil
}

func (r *pgTestCaseRepository) AssignTrackingToken(ctx context.Context, tx *sql.Tx, testCaseID, token string) error {
	query := `UPDATE test_cases SET tracking_token = $1, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $2 AND tracking_token IS NULL`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, token, testCaseID)
	} else {
		res, err = r.db.ExecContext(ctx, query, token, testCaseID)
	}
	if err != nil {
		return fmt.Errorf("pgTestCaseRepository.AssignTrackingToken: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("test case %s missing or already dispatched: %w", testCaseID, common.ErrNotFound)
	}
	return nil
}

func (r *pgTestCaseRepository) UpdateByTrackingToken(ctx context.Context, token string, status model.TestCaseStatus, timeSec *float64, memoryKb *int) (*model.TestCase, error) {
	query := `UPDATE test_cases
	          SET status = $1, time = $2, memory = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE tracking_token = $4
	          RETURNING id, submission_id, problem_test_id, tracking_token, status, time, memory, sort_order, created_at, updated_at`

	tc := &model.TestCase{}
	err := r.db.QueryRowContext(ctx, query, status, timeSec, memoryKb, token).Scan(
		&tc.ID, &tc.SubmissionID, &tc.ProblemTestID, &tc.TrackingToken, &tc.Status,
		&tc.Time, &tc.Memory, &tc.SortOrder, &tc.CreatedAt, &tc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTestCaseRepository.UpdateByTrackingToken: %w", err)
	}
	return tc, nil
}

func (r *pgTestCaseRepository) ListBySubmissionID(ctx context.Context, submissionID string) ([]model.TestCase, error) {
	query := `SELECT id, submission_id, problem_test_id, tracking_token, status, time, memory, sort_order, created_at, updated_at
	          FROM test_cases WHERE submission_id = $1 ORDER BY sort_order`

	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("pgTestCaseRepository.ListBySubmissionID: %w", err)
	}
	defer rows.Close()

	var cases []model.TestCase
	for rows.Next() {
		var tc model.TestCase
		if err := rows.Scan(
			&tc.ID, &tc.SubmissionID, &tc.ProblemTestID, &tc.TrackingToken, &tc.Status,
			&tc.Time, &tc.Memory, &tc.SortOrder, &tc.CreatedAt, &tc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgTestCaseRepository.ListBySubmissionID scan: %w", err)
		}
		cases = append(cases, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTestCaseRepository.ListBySubmissionID rows: %w", err)
	}
	return cases, nil
}
