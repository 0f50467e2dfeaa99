package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazuruo/histprune/internal/app"
	"github.com/chazuruo/histprune/internal/config"
	hperrors "github.com/chazuruo/histprune/internal/errors"
	"github.com/chazuruo/histprune/internal/history"
	"github.com/chazuruo/histprune/internal/logging"
	"github.com/chazuruo/histprune/internal/report"
	"github.com/chazuruo/histprune/internal/tui"
)

// CleanOptions contains the flag values of the root command.
type CleanOptions struct {
	File         string
	ExitFile     string
	ExitMode     string
	BackupSuffix string
	Similarity   float64
	RareThresh   int
	RemoveRare   bool
	DryRun       bool
	Quiet        bool
	Format       string
	Review       bool
	Yes          bool
}

// NewRootCommand creates the histprune command: cleaning is the root action,
// with config and version as subcommands.
func NewRootCommand(build BuildInfo) *cobra.Command {
	opts := &CleanOptions{}
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "histprune",
		Short: "Remove duplicates and typos from zsh history",
		Long: `histprune cleans a zsh extended history file in place.

It removes:
- repeated commands, keeping the first occurrence
- failed commands that are a prefix of, or look like, a command that
  succeeded more often
- with --remove-rare, rarely used commands that look like a far more
  common one

Exit codes come from a sidecar file of "<timestamp>:<code>" lines
(~/.zsh_history_exits) or from "###EXIT:<code>" markers on the history
lines themselves. A backup is written before the file is changed.`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHint(runClean(cmd, opts))
		},
	}

	AddGlobalFlags(cmd)

	f := cmd.Flags()
	f.StringVar(&opts.File, "file", "", "history file (default $HISTFILE or ~/.zsh_history)")
	f.StringVar(&opts.ExitFile, "exit-file", "", "exit code sidecar file (default <file>_exits)")
	f.StringVar(&opts.ExitMode, "exit-mode", defaults.History.ExitMode, "exit code source: auto, sidecar, inline")
	f.StringVar(&opts.BackupSuffix, "backup-suffix", defaults.History.BackupSuffix, "suffix appended to the file name for the backup")
	f.Float64Var(&opts.Similarity, "similarity", defaults.Prune.Similarity, "similarity threshold (0-1)")
	f.IntVar(&opts.RareThresh, "rare-threshold", defaults.Prune.RareThreshold, "max occurrences to consider a command rare")
	f.BoolVar(&opts.RemoveRare, "remove-rare", defaults.Prune.RemoveRare, "remove rare variants of common commands")
	f.BoolVar(&opts.DryRun, "dry-run", false, "show what would be removed without changing anything")
	f.BoolVarP(&opts.Quiet, "quiet", "q", defaults.Output.Quiet, "suppress output")
	f.StringVar(&opts.Format, "format", defaults.Output.Format, "report format: text, json, yaml")
	f.BoolVar(&opts.Review, "review", false, "review removals interactively before writing")
	f.BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewVersionCommand(build))

	return cmd
}

func runClean(cmd *cobra.Command, opts *CleanOptions) error {
	cfg, err := loadConfig(GetConfigPath())
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	if err := setupLogging(cfg, IsVerbose()); err != nil {
		return err
	}
	defer logging.Shutdown()

	mode, err := history.ParseExitMode(cfg.History.ExitMode)
	if err != nil {
		return err
	}

	logging.Info("starting clean",
		"history", cfg.History.Path,
		"exit_mode", mode,
		"dry_run", opts.DryRun,
		"similarity", cfg.Prune.Similarity,
		"remove_rare", cfg.Prune.RemoveRare,
	)

	cleanOpts := app.CleanOptions{
		HistoryPath:  cfg.History.Path,
		ExitPath:     cfg.History.ExitPath,
		ExitMode:     mode,
		BackupSuffix: cfg.History.BackupSuffix,
		Settings:     cfg.Settings(),
		DryRun:       opts.DryRun,
	}

	if opts.Review {
		if IsNoTUI() {
			return fmt.Errorf("%w: --review cannot be combined with --no-tui", hperrors.ErrInvalid)
		}
		cleanOpts.Review = tui.Review
	}

	if cfg.Prune.Confirm && !opts.Yes && !opts.DryRun {
		if IsNoTUI() {
			return fmt.Errorf("%w: confirmation is enabled; pass --yes to run without a prompt", hperrors.ErrInvalid)
		}
		cleanOpts.Confirm = tui.ConfirmRewrite
	}

	res, err := app.Clean(cmd.Context(), cleanOpts)
	if err != nil {
		if hperrors.IsCanceled(err) {
			logging.Warn("clean canceled", "error", err)
		} else {
			logging.Error("clean failed", "error", err)
		}
		return err
	}

	w := report.New(cmd.OutOrStdout(), report.ParseFormat(cfg.Output.Format), cfg.Output.Quiet)
	if err := w.Write(report.Build(res, cfg.Output.SampleSize)); err != nil {
		return hperrors.Wrap(err, "write report")
	}
	return nil
}

// withHint appends a remedy to errors the user can fix.
func withHint(err error) error {
	if err == nil {
		return nil
	}

	if he, ok := hperrors.AsHistoryError(err); ok {
		switch {
		case he.Op == "read" && hperrors.IsNotFound(err):
			return fmt.Errorf("%w\nhint: pass --file or set $HISTFILE", err)
		case he.Op == "rewrite" && hperrors.IsIO(err):
			return fmt.Errorf("%w\nhint: %s was left unchanged", err, he.Path)
		}
	}

	if ce, ok := hperrors.AsConfigError(err); ok && ce.Path != "" && hperrors.IsInvalid(err) {
		return fmt.Errorf("%w\nhint: fix %s or run 'histprune config --init --force'", err, ce.Path)
	}

	return err
}

// ErrorMessage is the text printed for an error returned by the root command.
func ErrorMessage(err error) string {
	if hperrors.IsCanceled(err) {
		return "canceled"
	}
	return err.Error()
}

// loadConfig loads path, or the default config location when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(config.ExpandHome(path))
	}
	return config.LoadWithDefaults()
}

// applyFlags copies explicitly set flags over the config, so that flags beat
// the environment, which beats the file.
func applyFlags(cmd *cobra.Command, opts *CleanOptions, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("file") {
		cfg.History.Path = config.ExpandHome(opts.File)
	}
	if changed("exit-file") {
		cfg.History.ExitPath = config.ExpandHome(opts.ExitFile)
	}
	if changed("exit-mode") {
		cfg.History.ExitMode = opts.ExitMode
	}
	if changed("backup-suffix") {
		cfg.History.BackupSuffix = opts.BackupSuffix
	}
	if changed("similarity") {
		cfg.Prune.Similarity = opts.Similarity
	}
	if changed("rare-threshold") {
		cfg.Prune.RareThreshold = opts.RareThresh
	}
	if changed("remove-rare") {
		cfg.Prune.RemoveRare = opts.RemoveRare
	}
	if changed("quiet") {
		cfg.Output.Quiet = opts.Quiet
	}
	if changed("format") {
		cfg.Output.Format = opts.Format
	}
}

func setupLogging(cfg *config.Config, verbose bool) error {
	lc := logging.Config{
		FilePath:   cfg.Log.File,
		Level:      logging.ParseLevel(cfg.Log.Level),
		Format:     logging.ParseFormat(cfg.Log.Format),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}
	if verbose {
		lc.Console = os.Stderr
		lc.Level = logging.ParseLevel("debug")
	}
	if err := logging.Init(lc); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logging.Debug("logging initialized", "file", lc.FilePath, "level", lc.Level.String())
	return nil
}
