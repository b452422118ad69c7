package recalc

import (
	"time"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
)

type Trigger string

const (
	TriggerSweep Trigger = "sweep"
	TriggerLive  Trigger = "live"
	TriggerAdmin Trigger = "admin"
)

func ParseTrigger(value string) (Trigger, bool) {
	switch Trigger(value) {
	case TriggerSweep, TriggerLive, TriggerAdmin:
		return Trigger(value), true
	default:
		return "", false
	}
}

// RunState follows Idle -> Running -> Succeeded|Failed -> Idle per week key.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateRunning   RunState = "running"
	StateSucceeded RunState = "succeeded"
	StateFailed    RunState = "failed"
)

// RunRecord describes the last finished calculation of a week key.
type RunRecord struct {
	RunID          string        `json:"run_id"`
	Key            game.WeekKey  `json:"key"`
	Trigger        Trigger       `json:"trigger"`
	State          RunState      `json:"state"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	Error          string        `json:"error,omitempty"`
	ScoresWritten  int           `json:"scores_written"`
	WinnersWritten int           `json:"winners_written"`
	Discrepancies  int           `json:"discrepancies"`
}

func (r RunRecord) Succeeded() bool {
	return r.State == StateSucceeded
}

// ErrorEntry is one line of the bounded diagnostic error log.
type ErrorEntry struct {
	RunID      string       `json:"run_id,omitempty"`
	Key        game.WeekKey `json:"key"`
	Trigger    Trigger      `json:"trigger"`
	OccurredAt time.Time    `json:"occurred_at"`
	Message    string       `json:"message"`
}

const (
	FlagReasonDrift     = "drift"
	FlagReasonRunFailed = "run_failed"
)

// FlaggedWeek is a week key that needs another calculation.
type FlaggedWeek struct {
	Key       game.WeekKey `json:"key"`
	Reason    string       `json:"reason"`
	FlaggedAt time.Time    `json:"flagged_at"`
}

// HealthStatus is the operator-facing view of recalculation activity.
type HealthStatus struct {
	Healthy      bool           `json:"healthy"`
	LastRun      *RunRecord     `json:"last_run,omitempty"`
	Runs         []RunRecord    `json:"runs"`
	RecentErrors []ErrorEntry   `json:"recent_errors"`
	FlaggedWeeks []FlaggedWeek  `json:"flagged_weeks"`
	Running      []game.WeekKey `json:"running"`
	CircuitState string         `json:"circuit_state"`
}
