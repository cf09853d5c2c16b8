package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ai-buddy/buddy/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	var lockedOnly bool

	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"ach"},
		Short:   "List achievements and your progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDaemon()
			if err != nil {
				return err
			}
			defer d.Close()

			list, err := d.Service.Achievements(cmd.Context())
			if err != nil {
				return friendly(err)
			}

			unlocked := 0
			for _, a := range list {
				if a.Unlocked {
					unlocked++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, fmt.Sprintf("Achievements %d/%d", unlocked, len(list))))
			for _, a := range list {
				if lockedOnly && a.Unlocked {
					continue
				}
				mark := ui.IconLock
				name := ui.Muted.Render(a.Achievement.Name)
				detail := ui.Muted.Render(fmt.Sprintf("%d/%d", a.Progress, a.Target))
				if a.Unlocked {
					mark = a.Achievement.Icon
					name = ui.Gold.Render(a.Achievement.Name)
					detail = ui.Good.Render("unlocked")
					if a.UnlockedAt != nil {
						detail += ui.Muted.Render(" " + a.UnlockedAt.Local().Format("2006-01-02"))
					}
				}
				fmt.Fprintf(out, "%s %s %s %s\n", mark, name, ui.RarityText(a.Achievement.Rarity), detail)
				fmt.Fprintf(out, "   %s %s\n", a.Achievement.Description, ui.Muted.Render(fmt.Sprintf("(+%d XP)", a.Achievement.RewardXP)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&lockedOnly, "locked", false, "Only show achievements still to earn")
	return cmd
}
