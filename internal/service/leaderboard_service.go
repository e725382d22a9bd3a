package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/dto"
	"github.com/noah-isme/lastresort-api/internal/repository"
)

const leaderboardKeyPrefix = "leaderboard:"

// LeaderboardService serves per-competition standings with a cache-aside
// layer in front of the derived leaderboard table.
type LeaderboardService interface {
	LeaderboardInvalidator
	Get(ctx context.Context, competitionID string) ([]dto.LeaderboardEntryResponse, error)
	Refresh(ctx context.Context) error
}

type leaderboardService struct {
	leaderboard  repository.LeaderboardRepository
	competitions repository.CompetitionRepository
	cache        *redis.Client
	ttl          time.Duration
	logger       zerolog.Logger
}

// NewLeaderboardService constructs the service. cache may be nil, in which
// case every read hits the database.
func NewLeaderboardService(leaderboard repository.LeaderboardRepository, competitions repository.CompetitionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) LeaderboardService {
	return &leaderboardService{
		leaderboard:  leaderboard,
		competitions: competitions,
		cache:        cache,
		ttl:          ttl,
		logger:       logger.With().Str("component", "leaderboard_service").Logger(),
	}
}

func (s *leaderboardService) Get(ctx context.Context, competitionID string) ([]dto.LeaderboardEntryResponse, error) {
	if _, err := s.competitions.GetByID(ctx, competitionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}

	key := leaderboardKeyPrefix + competitionID

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var entries []dto.LeaderboardEntryResponse
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("leaderboard cache read failed")
		}
	}

	rows, err := s.leaderboard.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	entries := dto.NewLeaderboardEntryResponseSlice(rows)

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("leaderboard cache write failed")
			}
		}
	}

	return entries, nil
}

// Refresh recomputes the standings from scratch. Safe to call repeatedly.
func (s *leaderboardService) Refresh(ctx context.Context) error {
	return s.leaderboard.Refresh(ctx)
}

// Invalidate drops the cached view for one competition.
func (s *leaderboardService) Invalidate(ctx context.Context, competitionID string) error {
	if s.cache == nil {
		return nil
	}

	return s.cache.Del(ctx, leaderboardKeyPrefix+competitionID).Err()
}
