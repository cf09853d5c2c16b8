package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ai-buddy/buddy/internal/app/gamification"
	"github.com/ai-buddy/buddy/internal/ui"
)

func newInitCmd() *cobra.Command {
	var req gamification.OnboardRequest

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create your profile and adopt a buddy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDaemon()
			if err != nil {
				return err
			}
			defer d.Close()

			res, err := d.Service.Onboard(cmd.Context(), req, d.Service.Now())
			if err != nil {
				return friendly(err)
			}

			out := cmd.OutOrStdout()
			stage := gamification.StageDetails(res.Buddy.Stage)
			fmt.Fprintln(out, ui.Heading(ui.IconBuddy, "Welcome, "+res.User.Name))
			fmt.Fprintf(out, "Meet %s, a %s %s (%s).\n", ui.Gold.Render(res.Buddy.Name), stage.Emoji, stage.Name, stage.Description)
			for _, a := range res.Achievements {
				fmt.Fprintf(out, "%s %s %s\n", ui.IconTrophy, ui.Gold.Render(a.Name), ui.Muted.Render(fmt.Sprintf("+%d XP", a.RewardXP)))
			}
			fmt.Fprintln(out, ui.Muted.Render("Check in daily with: buddy checkin --use claude-code:debugging:high"))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.UserName, "name", "", "Your display name")
	cmd.Flags().StringVar(&req.BuddyName, "buddy-name", "", "Your buddy's name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Optional email")
	return cmd
}
