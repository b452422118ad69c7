package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/pickem-standings/internal/app"
	"github.com/riskibarqy/pickem-standings/internal/domain/game"
)

func newStandingsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Read stored weekly or season standings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "week <season>-W<week>",
		Short: "Ranked scores and winners of one week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := game.ParseWeekKey(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				view, err := a.Standings.WeeklyStandings(ctx, key)
				if err != nil {
					return err
				}
				return opts.printJSON(cmd, view)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "season <season>",
		Short: "Season totals aggregated from weekly scores and wins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid season %q: %w", args[0], err)
			}
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				view, err := a.Standings.SeasonStandings(ctx, season)
				if err != nil {
					return err
				}
				return opts.printJSON(cmd, view)
			})
		},
	})
	return cmd
}
