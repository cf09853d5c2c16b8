package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ai-buddy/buddy/internal/ui"
)

func newNotificationsCmd() *cobra.Command {
	var (
		limit int
		keep  bool
	)

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Show unread level-ups, evolutions and achievements",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDaemon()
			if err != nil {
				return err
			}
			defer d.Close()

			notes, err := d.Service.Notifications(cmd.Context(), limit)
			if err != nil {
				return friendly(err)
			}

			out := cmd.OutOrStdout()
			if len(notes) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No new notifications."))
				return nil
			}
			fmt.Fprintln(out, ui.Heading(ui.IconBell, fmt.Sprintf("%d new", len(notes))))
			for _, n := range notes {
				fmt.Fprintf(out, "%s %s\n", ui.Gold.Render(n.Title), ui.Muted.Render(n.CreatedAt.Local().Format("2006-01-02 15:04")))
				if n.Body != "" {
					fmt.Fprintf(out, "   %s\n", n.Body)
				}
				if keep {
					continue
				}
				if err := d.Service.MarkNotificationShown(cmd.Context(), n.ID); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum notifications to show")
	cmd.Flags().BoolVar(&keep, "keep", false, "Leave notifications unread")
	return cmd
}
