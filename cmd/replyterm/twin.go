package main

import (
	"fmt"

	"replyterm/internal/config"
	"replyterm/internal/twin"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTwinCmd(a *app) *cobra.Command {
	var (
		port int
		cfg  twin.Config
	)

	cmd := &cobra.Command{
		Use:   "twin",
		Short: "Serve a local stand-in for the reply generation service",
		Long: `Serves POST /api/email/generate with a canned or templated reply so the
form can be exercised without the real service. Failures can be injected
through POST /admin/fault.`,
		Args: cobra.NoArgs,
		// The twin does not talk to the generation service, so it skips
		// config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			out := a.logOutput
			if out == "" {
				out = "stderr"
			}
			return a.buildLogger(a.v.GetBool(config.KeyVerbose), out)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := twin.New(cfg, a.logger)
			addr := fmt.Sprintf(":%d", port)
			a.logger.Info("twin listening", zap.String("addr", addr))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	cmd.Flags().StringVar(&cfg.Reply, "reply", "", "answer every request with this text instead of the template")
	cmd.Flags().StringVar(&cfg.AllowedOrigin, "allowed-origin", "*", "CORS origin allowed to call the twin")
	cmd.Flags().DurationVar(&cfg.Latency, "latency", 0, "delay every reply by this long")
	return cmd
}
