package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ai-buddy/buddy/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your buddy's stats, level and streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDaemon()
			if err != nil {
				return err
			}
			defer d.Close()

			st, err := d.Service.Status(cmd.Context(), d.Service.Now())
			if err != nil {
				return friendly(err)
			}

			out := cmd.OutOrStdout()
			b := st.Buddy
			fmt.Fprintln(out, ui.Heading(st.StageInfo.Emoji, fmt.Sprintf("%s the %s", b.Name, st.StageInfo.Name)))
			fmt.Fprintln(out, ui.Muted.Render(st.StageInfo.Description))
			fmt.Fprintln(out, "")

			level := fmt.Sprintf("%d (%d XP, %.0f%%)", b.Level, b.Experience, st.LevelProgress)
			if st.AtMaxLevel {
				level = fmt.Sprintf("%d (%d XP, max level)", b.Level, b.Experience)
			} else {
				level += ui.Muted.Render(fmt.Sprintf(" %d XP to next", st.XPToNextLevel))
			}
			fmt.Fprintln(out, ui.LabelValue("Level", level))
			fmt.Fprintln(out, ui.LabelValue("Mood", ui.MoodText(b.Mood)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconChart+" Stats"))
			fmt.Fprintf(out, "  Happiness %s\n", ui.StatBar(b.Stats.Happiness))
			fmt.Fprintf(out, "  Health    %s\n", ui.StatBar(b.Stats.Health))
			fmt.Fprintf(out, "  Energy    %s\n", ui.StatBar(b.Stats.Energy))
			fmt.Fprintf(out, "  Overall   %s\n", ui.StatBar(b.Stats.Overall))
			fmt.Fprintln(out, "")

			streak := fmt.Sprintf("%s %s (best %d)", ui.IconFire, plural(b.CurrentCareStreak, "day"), b.LongestCareStreak)
			if st.NextMilestone > 0 {
				streak += ui.Muted.Render(fmt.Sprintf(", next milestone at %d", st.NextMilestone))
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", streak))
			fmt.Fprintln(out, ui.LabelValue("Points", st.User.TotalPoints))
			if st.CheckedInToday {
				fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" Checked in today"))
			} else {
				fmt.Fprintln(out, ui.Warn.Render("Not checked in today ("+st.Today+")"))
				if b.DaysNeglected > 0 {
					fmt.Fprintln(out, ui.Bad.Render(fmt.Sprintf("%s neglected, stats will decay at the next check-in", plural(b.DaysNeglected, "day"))))
				}
			}
			return nil
		},
	}
}
