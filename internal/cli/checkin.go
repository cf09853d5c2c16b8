package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ai-buddy/buddy/internal/app/gamification"
	"github.com/ai-buddy/buddy/internal/domain"
	"github.com/ai-buddy/buddy/internal/ui"
)

func newCheckinCmd() *cobra.Command {
	var (
		uses  []string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Log today's AI tool usage and care for your buddy",
		Long: `Log today's AI tool usage. Repeat --use for each tool:

  buddy checkin --use claude-code:debugging,refactoring:high --use chatgpt:learning

Tools:  ` + joinValues(domain.AllTools) + `
Usage:  ` + joinValues(domain.AllUsageTypes) + `
Impact: ` + joinValues(domain.AllImpacts) + ` (default medium)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := gamification.CheckInRequest{Notes: notes}
			for _, u := range uses {
				usage, err := parseToolUsage(u)
				if err != nil {
					return err
				}
				req.Tools = append(req.Tools, usage)
			}
			if len(req.Tools) == 0 {
				return fmt.Errorf("%w, pass --use tool:usage:impact", domain.ErrNoTools)
			}

			d, err := openDaemon()
			if err != nil {
				return err
			}
			defer d.Close()

			res, err := d.Service.CheckIn(cmd.Context(), req)
			if err != nil {
				return friendly(err)
			}
			printCheckIn(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&uses, "use", "u", nil, "Tool usage as tool:usage[,usage]:impact (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional notes for today")
	return cmd
}

func printCheckIn(out io.Writer, res *gamification.CheckInResult) {
	b := res.Buddy
	fmt.Fprintln(out, ui.Heading(ui.IconSparkle, fmt.Sprintf("%s was cared for!", b.Name)))
	if res.DecayApplied {
		fmt.Fprintln(out, ui.Warn.Render(fmt.Sprintf("%s missed you for %s; stats decayed first.",
			b.Name, plural(res.Streak.DaysNeglected, "day"))))
	}
	fmt.Fprintf(out, "%s +%d  %s +%d  %s +%d  %s\n",
		ui.Key.Render("Happiness"), res.Benefits.Happiness,
		ui.Key.Render("Health"), res.Benefits.Health,
		ui.Key.Render("Energy"), res.Benefits.Energy,
		ui.Gold.Render(fmt.Sprintf("+%d XP", res.XPGained)))

	streak := fmt.Sprintf("%s %s", ui.IconFire, plural(res.Streak.NewStreak, "day"))
	if res.Streak.StreakBroken {
		streak += ui.Muted.Render(" (streak restarted)")
	}
	fmt.Fprintln(out, ui.LabelValue("Streak", streak))
	if res.StreakBonus != nil {
		fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("Streak milestone! +%d happiness, +%d health, +%d XP",
			res.StreakBonus.Happiness, res.StreakBonus.Health, res.StreakBonus.XP)))
	}

	if res.LevelUp.LeveledUp {
		fmt.Fprintf(out, "%s %s level %d\n", ui.IconBolt, ui.BadgeLevelUp, res.LevelUp.NewLevel)
	}
	if res.LevelUp.StageChanged {
		stage := gamification.StageDetails(res.LevelUp.NewStage)
		fmt.Fprintf(out, "%s %s evolved into %s %s!\n", stage.Emoji, b.Name, ui.Gold.Render(stage.Name), ui.Muted.Render("("+stage.Description+")"))
	}
	for _, a := range res.NewAchievements {
		fmt.Fprintf(out, "%s %s %s %s\n", ui.IconTrophy, ui.Gold.Render(a.Name), ui.RarityText(a.Rarity), ui.Muted.Render(fmt.Sprintf("+%d XP", a.RewardXP)))
	}
	fmt.Fprintln(out, ui.LabelValue("Mood", ui.MoodText(b.Mood)))
}

func joinValues[T ~string](vals []T) string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}
