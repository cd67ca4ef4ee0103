package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bankcap-dev/bankcap/internal/buildinfo"
	"github.com/bankcap-dev/bankcap/internal/config"
	"github.com/bankcap-dev/bankcap/internal/logger"
	"github.com/bankcap-dev/bankcap/internal/pipeline"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	dir        string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Without a subcommand it runs the whole pipeline.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	var skipDownload bool

	rootCmd := &cobra.Command{
		Use:     "bankcap",
		Short:   "Largest banks by market cap, converted to GBP, EUR and INR",
		Version: buildinfo.String(),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, skipDownload)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a bankcap.yaml file")
	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "directory that relative file paths resolve against")
	rootCmd.Flags().BoolVar(&skipDownload, "skip-download", false, "reuse the local exchange-rate file")

	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newFetchRatesCommand(opts))
	rootCmd.AddCommand(newQueryCommand(opts))
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

// newRunner loads the configuration (defaults, then the config file, then
// .env and BANKCAP_* variables), resolves it against --dir and returns a
// pipeline runner printing to the command's output.
func newRunner(cmd *cobra.Command, opts *globalOptions) (*pipeline.Runner, error) {
	absDir, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if err := config.LoadEnvFile(filepath.Join(absDir, ".env")); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	cfg = cfg.Resolve(absDir)

	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel, uuid.NewString())
	log.Debug("configuration loaded",
		slog.String("dir", absDir),
		slog.String("source", cfg.Source.URL),
		slog.String("database", cfg.Output.Database),
	)

	return pipeline.New(cfg, cmd.OutOrStdout(), log), nil
}

func runPipeline(cmd *cobra.Command, opts *globalOptions, skipDownload bool) error {
	r, err := newRunner(cmd, opts)
	if err != nil {
		return err
	}
	if skipDownload {
		r.Config.Rates.Download = false
	}
	return r.Run(cmd.Context())
}
