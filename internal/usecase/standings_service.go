package usecase

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
)

// StandingsService is the read side over stored score and winner records.
type StandingsService struct {
	standingsRepo standings.Repository
}

type WeeklyStandingsView struct {
	Key     game.WeekKey               `json:"key"`
	Rows    []standings.WeeklyStanding `json:"rows"`
	Winners []standings.WeeklyWinner   `json:"winners"`
}

type SeasonStandingsView struct {
	Season int                        `json:"season"`
	Rows   []standings.SeasonStanding `json:"rows"`
}

func NewStandingsService(standingsRepo standings.Repository) *StandingsService {
	return &StandingsService{standingsRepo: standingsRepo}
}

func (s *StandingsService) WeeklyStandings(ctx context.Context, key game.WeekKey) (WeeklyStandingsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.WeeklyStandings")
	defer span.End()

	if err := validateWeekKey(key); err != nil {
		return WeeklyStandingsView{}, err
	}

	scores, err := s.standingsRepo.ListWeeklyScores(ctx, key)
	if err != nil {
		return WeeklyStandingsView{}, crerr.Wrapf(err, "list weekly scores week=%s", key)
	}
	winners, err := s.standingsRepo.ListWeeklyWinners(ctx, key)
	if err != nil {
		return WeeklyStandingsView{}, crerr.Wrapf(err, "list weekly winners week=%s", key)
	}
	if winners == nil {
		winners = []standings.WeeklyWinner{}
	}

	return WeeklyStandingsView{
		Key:     key,
		Rows:    standings.RankWeek(scores, winners),
		Winners: winners,
	}, nil
}

func (s *StandingsService) SeasonStandings(ctx context.Context, season int) (SeasonStandingsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.SeasonStandings")
	defer span.End()

	if season <= 0 {
		return SeasonStandingsView{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}

	scores, err := s.standingsRepo.ListWeeklyScoresBySeason(ctx, season)
	if err != nil {
		return SeasonStandingsView{}, crerr.Wrapf(err, "list weekly scores season=%d", season)
	}
	winners, err := s.standingsRepo.ListWeeklyWinnersBySeason(ctx, season)
	if err != nil {
		return SeasonStandingsView{}, crerr.Wrapf(err, "list weekly winners season=%d", season)
	}

	return SeasonStandingsView{
		Season: season,
		Rows:   standings.AggregateSeason(season, scores, winners),
	}, nil
}
