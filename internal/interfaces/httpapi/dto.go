package httpapi

import (
	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/usecase"
)

type scoringRunRequest struct {
	Season  int    `json:"season" validate:"required,gt=0"`
	Week    int    `json:"week" validate:"required,gt=0"`
	Trigger string `json:"trigger" validate:"omitempty,oneof=sweep live admin"`
}

func (r scoringRunRequest) key() game.WeekKey {
	return game.WeekKey{Season: r.Season, Week: r.Week}
}

func (r scoringRunRequest) trigger() recalc.Trigger {
	if r.Trigger == "" {
		return recalc.TriggerAdmin
	}
	return recalc.Trigger(r.Trigger)
}

type runOutcomeDTO struct {
	Key          string            `json:"key"`
	Trigger      string            `json:"trigger"`
	Ran          bool              `json:"ran"`
	Skipped      bool              `json:"skipped"`
	Reason       string            `json:"reason"`
	WeekComplete *bool             `json:"week_complete,omitempty"`
	Participants *int              `json:"participants,omitempty"`
	Winners      []string          `json:"winners,omitempty"`
	Record       *recalc.RunRecord `json:"record,omitempty"`
}

type verifyResponseDTO struct {
	Key           string                  `json:"key"`
	Consistent    bool                    `json:"consistent"`
	Discrepancies []standings.Discrepancy `json:"discrepancies"`
}

type weeklyStandingsDTO struct {
	Key     string                     `json:"key"`
	Rows    []standings.WeeklyStanding `json:"rows"`
	Winners []standings.WeeklyWinner   `json:"winners"`
}

func runOutcomeToDTO(out usecase.RunOutcome) runOutcomeDTO {
	dto := runOutcomeDTO{
		Key:     out.Key.String(),
		Trigger: string(out.Trigger),
		Ran:     out.Ran,
		Skipped: out.Skipped,
		Reason:  out.Reason,
		Record:  out.Record,
	}
	if out.Result != nil {
		complete := out.Result.WeekComplete()
		participants := len(out.Result.Scores)
		dto.WeekComplete = &complete
		dto.Participants = &participants
		for _, winner := range out.Result.Winners {
			dto.Winners = append(dto.Winners, winner.UserID)
		}
	}
	return dto
}

func weeklyStandingsToDTO(view usecase.WeeklyStandingsView) weeklyStandingsDTO {
	rows := view.Rows
	if rows == nil {
		rows = []standings.WeeklyStanding{}
	}
	return weeklyStandingsDTO{
		Key:     view.Key.String(),
		Rows:    rows,
		Winners: view.Winners,
	}
}
