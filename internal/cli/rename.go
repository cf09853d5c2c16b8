package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ai-buddy/buddy/internal/ui"
)

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Give your buddy a new name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDaemon()
			if err != nil {
				return err
			}
			defer d.Close()

			b, err := d.Service.RenameBuddy(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Your buddy is now called %s.\n", ui.IconBuddy, ui.Gold.Render(b.Name))
			return nil
		},
	}
}
