package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"replyterm/internal/config"
	"replyterm/internal/reply"
	"replyterm/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v         *viper.Viper
	configDir string
	envFile   string

	cfg    config.Config
	logger *zap.Logger

	// Overridable in tests.
	clipboard  reply.Clipboard
	httpClient *http.Client
	logOutput  string
}

func newApp() *app {
	return &app{
		v:         config.NewViper(),
		clipboard: reply.SystemClipboard{},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "replyterm",
		Short: "Draft email replies from the terminal",
		Long: `replyterm sends an email you received, an optional tone and optional
hints to a reply generation service and shows the reply it writes.

Run without arguments to open the interactive form.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runTUI,
	}

	flags := root.PersistentFlags()
	flags.String("api-url", "", "base URL of the reply generation service (default "+config.DefaultAPIURL+")")
	flags.BoolP("verbose", "v", false, "log at debug level")
	flags.StringVar(&a.configDir, "config-dir", "", "directory holding config.yaml and replyterm.log (default ~/.config/replyterm)")
	flags.StringVar(&a.envFile, "env-file", "", "load environment variables from this file instead of .env")

	_ = a.v.BindPFlag(config.KeyAPIURL, flags.Lookup("api-url"))
	_ = a.v.BindPFlag(config.KeyVerbose, flags.Lookup("verbose"))

	root.AddCommand(newGenerateCmd(a), newTwinCmd(a))
	return root
}

// setup loads configuration and builds the logger. The interactive form owns
// the terminal, so it logs to a file; subcommands log to stderr.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.configDir == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		a.configDir = dir
	}

	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}
	cfg, err := config.Load(a.v, a.configDir, envFiles...)
	if err != nil {
		return err
	}
	a.cfg = cfg

	out := a.logOutput
	if out == "" {
		out = "stderr"
		if cmd == cmd.Root() {
			if err := os.MkdirAll(cfg.ConfigDir, 0o700); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			out = cfg.LogPath()
		}
	}
	return a.buildLogger(cfg.Verbose, out)
}

func (a *app) buildLogger(verbose bool, output string) error {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.OutputPaths = []string{output}
	zc.ErrorOutputPaths = []string{output}

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) newController() (*reply.Controller, error) {
	client, err := reply.NewClient(a.cfg.APIURL, a.httpClient, a.logger)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("using generation service", zap.String("endpoint", client.Endpoint()))
	return reply.NewController(client, a.clipboard, a.logger), nil
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	ctrl, err := a.newController()
	if err != nil {
		return err
	}

	appModel := tui.NewAppModel(ctrl)
	p := tea.NewProgram(&appModel, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
