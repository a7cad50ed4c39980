// Package main is the brainboard CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/cli"
	"github.com/hyperjump/brainboard/internal/config"
	"github.com/hyperjump/brainboard/pkg/utils"
)

// version is set at build time via ldflags.
var version = "dev"

// options are the resolved persistent flags.
type options struct {
	v      *viper.Viper
	config *config.Config
	path   string
	logger *zap.Logger
	format cli.OutputFormat
}

func newRootCmd() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "brainboard",
		Short: "Text intelligence for kanban brainstorming boards",
		Long: `brainboard analyzes the cards on a brainstorming board: mood, clusters,
search, follow-up suggestions and summaries. Run it as an HTTP server, as an
MCP tool server, or one command at a time against a file of cards.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: ./brainboard.yaml or ~/.config/brainboard/config.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.StringP("output", "o", string(cli.OutputText), "output format: text or json")
	flags.String("server", "", "send analysis commands to a running brainboard server at this URL")
	_ = opts.v.BindPFlags(flags)
	opts.v.SetEnvPrefix(config.EnvPrefix)
	opts.v.AutomaticEnv()

	root.AddCommand(
		newServerCmd(opts),
		newMCPCmd(opts),
		newMoodCmd(opts),
		newClusterCmd(opts),
		newSearchCmd(opts),
		newSuggestCmd(opts),
		newSummarizeCmd(opts),
		newImportCmd(opts),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// load resolves the config file, builds the config and the logger. Long-running
// commands always log; one-shot commands only log with --debug.
func (o *options) load(cmd *cobra.Command) error {
	format, err := cli.ParseFormat(o.v.GetString("output"))
	if err != nil {
		return err
	}
	o.format = format

	o.path = resolveConfigPath(o.v.GetString("config"))
	cfg, err := config.Load(o.path)
	if err != nil {
		return err
	}
	if o.v.GetBool("debug") {
		cfg.Debug = true
	}
	o.config = cfg

	switch {
	case cmd.Annotations["long-running"] == "true" || cfg.Debug:
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		o.logger = logger
	default:
		o.logger = zap.NewNop()
	}
	o.logger.Debug("config loaded", zap.String("config_path", o.path), zap.Bool("debug", cfg.Debug))
	return nil
}

// resolveConfigPath returns explicit when set, otherwise the first of
// ./brainboard.yaml and ~/.config/brainboard/config.yaml that exists. An empty
// result means defaults plus environment.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []string{"brainboard.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "brainboard", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
