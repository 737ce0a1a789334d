package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/canvastack/internal/config"
	"github.com/matzehuels/canvastack/internal/server"
	canvasio "github.com/matzehuels/canvastack/pkg/io"
)

// serveCommand creates the serve command, which runs the canvas state
// server until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		statePath  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the canvas state server",
		Long: `Run the canvas state server.

The server owns the authoritative container state. Canvas clients
subscribe to /events for declarative commands, post acknowledgments to
/api/ack, and collaborators drive mutations through /api/command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			c.Logger.Info("starting canvas server",
				"addr", cfg.Server.Addr,
				"canvas", cfg.CanvasSize(),
				"ack_ttl", cfg.Sync.AckTTL.Duration,
			)

			srv := server.New(cfg, c.Logger)
			if statePath != "" {
				snap, err := canvasio.ImportJSON(statePath)
				if err != nil {
					return err
				}
				if err := srv.Seed(cmd.Context(), snap); err != nil {
					return err
				}
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&statePath, "state", "", "seed the canvas from a snapshot JSON file")

	return cmd
}
