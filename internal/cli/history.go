package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ai-buddy/buddy/internal/domain"
	"github.com/ai-buddy/buddy/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent check-ins and activity totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDaemon()
			if err != nil {
				return err
			}
			defer d.Close()

			stats, err := d.Service.ActivityStats(cmd.Context(), d.Service.Now())
			if err != nil {
				return friendly(err)
			}
			acts, err := d.Service.History(cmd.Context(), limit)
			if err != nil {
				return friendly(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Check-in history"))
			fmt.Fprintf(out, "%s  %s  %s  %s\n",
				ui.LabelValue("Total", stats.Total),
				ui.LabelValue("This week", stats.ThisWeek),
				ui.LabelValue("This month", stats.ThisMonth),
				ui.LabelValue("Tools", stats.DistinctTools))
			if len(acts) == 0 {
				fmt.Fprintln(out, "No check-ins yet. Run 'buddy checkin --use <tool>:<usage>:<impact>'.")
				return nil
			}
			fmt.Fprintln(out, "")

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tPOINTS\tTOOLS\tNOTES")
			for _, a := range acts {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", a.Date, a.PointsEarned, describeTools(a.Tools), a.Notes)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of check-ins to show (0 for all)")
	return cmd
}

func describeTools(tools []domain.ToolUsage) string {
	parts := make([]string, len(tools))
	for i, t := range tools {
		parts[i] = fmt.Sprintf("%s(%s)", t.Tool, t.Impact)
	}
	return strings.Join(parts, " ")
}

func newLeaderboardCmd() *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the local leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDaemon()
			if err != nil {
				return err
			}
			defer d.Close()

			t := domain.LeaderboardType(strings.ToLower(board))
			entries, err := d.Service.Leaderboard(cmd.Context(), t, d.Service.Now())
			if err != nil {
				return friendly(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Leaderboard ("+string(t)+")"))
			if len(entries) == 0 {
				fmt.Fprintln(out, "Nobody here yet.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tNAME\tPOINTS\tLEVEL\tSTREAK\tACHIEVEMENTS")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\n", e.Rank, e.UserName, e.Points, e.Level, e.Streak, e.AchievementCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&board, "type", "t", string(domain.LeaderboardOverall), "overall, weekly, streak or achievements")
	return cmd
}
