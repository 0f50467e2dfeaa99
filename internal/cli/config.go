package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazuruo/histprune/internal/config"
)

// ConfigOptions contains the options for the config command.
type ConfigOptions struct {
	Init  bool
	Force bool
}

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	opts := &ConfigOptions{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
		Long: `Print the effective configuration as TOML, after the config file and
HISTPRUNE_<SECTION>_<FIELD> environment overrides are applied.

With --init, write the default configuration to the config path instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Init {
				return runConfigInit(cmd, opts)
			}
			return runConfigShow(cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Init, "init", false, "write the default config file")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file with --init")

	return cmd
}

func runConfigShow(cmd *cobra.Command) error {
	cfg, err := loadConfig(GetConfigPath())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), data)
	return err
}

func runConfigInit(cmd *cobra.Command, opts *ConfigOptions) error {
	path := config.ExpandHome(GetConfigPath())
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if path == "" {
		return fmt.Errorf("cannot determine config path; pass --config")
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	if err := config.Write(path, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
