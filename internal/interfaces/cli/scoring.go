package cli

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/pickem-standings/internal/app"
	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/usecase"
)

// ErrDriftDetected is returned by verify --fail-on-drift so scripts can gate
// on a non-zero exit.
var ErrDriftDetected = crerr.New("stored scores drifted from recomputation")

type runOutput struct {
	Outcome      usecase.RunOutcome       `json:"outcome"`
	WeekComplete bool                     `json:"week_complete"`
	Participants int                      `json:"participants"`
	Winners      []standings.WeeklyWinner `json:"winners"`
}

func newRunOutput(outcome usecase.RunOutcome) runOutput {
	out := runOutput{Outcome: outcome, Winners: []standings.WeeklyWinner{}}
	if outcome.Result != nil {
		out.WeekComplete = outcome.Result.WeekComplete()
		out.Participants = len(outcome.Result.Scores)
		if outcome.Result.Winners != nil {
			out.Winners = outcome.Result.Winners
		}
	}
	return out
}

func parseTrigger(raw string) (recalc.Trigger, error) {
	trigger := recalc.Trigger(raw)
	switch trigger {
	case recalc.TriggerSweep, recalc.TriggerLive, recalc.TriggerAdmin:
		return trigger, nil
	default:
		return "", fmt.Errorf("invalid trigger %q: must be sweep, live or admin", raw)
	}
}

func newCalculateCommand(opts *RootOptions) *cobra.Command {
	var trigger string
	cmd := &cobra.Command{
		Use:   "calculate <season>-W<week>",
		Short: "Recalculate one week now, regardless of its stored state",
		Example: `  scorer calculate 2025-W01
  scorer calculate 2025-W03 --trigger sweep`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := game.ParseWeekKey(args[0])
			if err != nil {
				return err
			}
			t, err := parseTrigger(trigger)
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				outcome, err := a.Coordinator.CalculateNow(ctx, key, t)
				if err != nil {
					return err
				}
				return opts.printJSON(cmd, newRunOutput(outcome))
			})
		},
	}
	cmd.Flags().StringVar(&trigger, "trigger", string(recalc.TriggerAdmin), "trigger recorded on the run (sweep|live|admin)")
	return cmd
}

func newEnsureCommand(opts *RootOptions) *cobra.Command {
	var trigger string
	cmd := &cobra.Command{
		Use:   "ensure <season>-W<week>",
		Short: "Recalculate a week only when its stored scores are missing or stale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := game.ParseWeekKey(args[0])
			if err != nil {
				return err
			}
			t, err := parseTrigger(trigger)
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				outcome, err := a.Coordinator.EnsureScored(ctx, key, t)
				if err != nil {
					return err
				}
				return opts.printJSON(cmd, newRunOutput(outcome))
			})
		},
	}
	cmd.Flags().StringVar(&trigger, "trigger", string(recalc.TriggerAdmin), "trigger recorded on the run (sweep|live|admin)")
	return cmd
}

func newVerifyCommand(opts *RootOptions) *cobra.Command {
	var failOnDrift bool
	cmd := &cobra.Command{
		Use:   "verify <season>-W<week>",
		Short: "Compare stored scores against a recomputation without writing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := game.ParseWeekKey(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				discrepancies, err := a.Coordinator.Verify(ctx, key)
				if err != nil {
					return err
				}
				if discrepancies == nil {
					discrepancies = []standings.Discrepancy{}
				}
				if err := opts.printJSON(cmd, map[string]any{
					"key":           key,
					"consistent":    len(discrepancies) == 0,
					"discrepancies": discrepancies,
				}); err != nil {
					return err
				}
				if failOnDrift && len(discrepancies) > 0 {
					return ErrDriftDetected
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&failOnDrift, "fail-on-drift", false, "exit non-zero when discrepancies are found")
	return cmd
}

func newSweepCommand(opts *RootOptions) *cobra.Command {
	var (
		seasons []int
		live    bool
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Ensure every week of the configured seasons once",
		Long: `Ensure every week of the configured seasons once, the same pass the
scheduler runs. With --live only weeks that have games in progress or just
finished are checked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				targets := seasons
				if len(targets) == 0 {
					targets = a.Config.ScoringSeasons
				}
				results := make([]usecase.SweepResult, 0, len(targets))
				for _, season := range targets {
					var (
						result usecase.SweepResult
						err    error
					)
					if live {
						result, err = a.Coordinator.PollLive(ctx, season)
					} else {
						result, err = a.Coordinator.SweepSeason(ctx, season)
					}
					if err != nil {
						return fmt.Errorf("season %d: %w", season, err)
					}
					results = append(results, result)
				}
				return opts.printJSON(cmd, results)
			})
		},
	}
	cmd.Flags().IntSliceVar(&seasons, "season", nil, "seasons to sweep (defaults to SCORING_SEASONS)")
	cmd.Flags().BoolVar(&live, "live", false, "only check weeks with live or recently started games")
	return cmd
}

func newHealthCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the latest run per week, recent errors and flagged weeks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				status, err := a.Coordinator.Health(ctx)
				if err != nil {
					return err
				}
				return opts.printJSON(cmd, status)
			})
		},
	}
}
