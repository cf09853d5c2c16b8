package cli

import (
	"github.com/spf13/cobra"

	"github.com/ai-buddy/buddy/internal/daemon"
)

func newServeCmd() *cobra.Command {
	var (
		host    string
		port    int
		console bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Buddy API server",
		Long:  `Start the JSON API server (default localhost:7878) used by dashboards and editor plugins.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := daemon.LoadConfig()
			if err != nil {
				return err
			}

			// Override config from flags
			if host != "" {
				cfg.API.Host = host
			}
			if port > 0 {
				cfg.API.Port = port
			}
			if console {
				cfg.Logging.Console = true
			}

			d, err := daemon.NewWithConfig(cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			return d.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host to listen on (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides config)")
	cmd.Flags().BoolVar(&console, "log-console", false, "Also write logs to stderr")
	return cmd
}
