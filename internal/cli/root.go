// Package cli implements the Buddy command-line interface using Cobra.
// Each subcommand maps to one gamification operation (checkin, status, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Commands are constructed fresh so flag
// state never leaks between executions.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "buddy",
		Short: "Buddy, a virtual pet that grows with your AI tool usage",
		Long: `Buddy turns your daily AI tool usage into care for a virtual pet.
Check in once a day with the tools you used; your buddy gains stats and XP,
keeps a care streak, levels up, evolves and unlocks achievements.

Data lives in ~/.buddy (override with BUDDY_HOME).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInitCmd(),
		newCheckinCmd(),
		newStatusCmd(),
		newAchievementsCmd(),
		newHistoryCmd(),
		newLeaderboardCmd(),
		newRenameCmd(),
		newNotificationsCmd(),
		newServeCmd(),
	)
	return root
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd := NewRootCmd()
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
