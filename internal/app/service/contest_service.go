package service

import (
	"context"

	"github.com/TanmayDhobale/algorithmic-arena/internal/common"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/model"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/repository"
	"github.com/TanmayDhobale/algorithmic-arena/internal/platform/config"
)

// ContestService is read-only: contest lifecycle (creation, windows) is
// managed elsewhere; this service only exposes standings built from the
// contest_submissions scoring records.
type ContestService struct {
	contestRepo repository.ContestRepository
}

func NewContestService(contestRepo repository.ContestRepository) *ContestService {
	return &ContestService{contestRepo: contestRepo}
}

func (s *ContestService) GetContest(ctx context.Context, contestID string) (*model.Contest, error) {
	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		return nil, common.Errorf("contest not found: %w", err)
	}
	return contest, nil
}

func (s *ContestService) GetLeaderboard(ctx context.Context, contestID string) ([]model.LeaderboardRow, error) {
	if _, err := s.contestRepo.FindByID(ctx, contestID); err != nil {
		return nil, common.Errorf("contest not found: %w", err)
	}
	board, err := s.contestRepo.GetLeaderboard(ctx, contestID, config.AppConfig.LeaderboardLimit)
	if err != nil {
		return nil, common.Errorf("failed to load leaderboard: %w", err)
	}
	return board, nil
}
