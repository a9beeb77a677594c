package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/gitrelease/internal/config"
	clierrors "github.com/ariel-frischer/gitrelease/internal/errors"
	"github.com/ariel-frischer/gitrelease/internal/output"
)

var (
	configInitForce bool
	configInitUser  bool
	migrateDryRun   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration gitrelease would run with, after merging defaults,
the user config, the project config, GITRELEASE_* environment variables and
command line flags.`,
	Example: `  # Effective configuration for the current repository
  gitrelease config

  # With a subdirectory override applied
  gitrelease config --subdir services/api`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		return enc.Close()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write a commented .gitrelease.yml with the default values to the
repository directory, or to ~/.config/gitrelease/config.yml with --user.

An existing file is left untouched unless --force is given.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initTargetPath()
		if err != nil {
			return err
		}

		written, err := config.WriteDefaultConfig(path, configInitForce)
		if err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		if !written {
			output.PrintNotice(cmd.OutOrStdout(), fmt.Sprintf("%s already exists (use --force to overwrite)", path))
			return nil
		}
		output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s", path))
		return nil
	},
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a legacy .gitrelease.json into .gitrelease.yml",
	Long: `Convert the legacy JSON project config into .gitrelease.yml. The JSON file
is kept as .gitrelease.json.bak after a successful migration.`,
	Example: `  # See what would happen
  gitrelease config migrate --dry-run

  # Migrate
  gitrelease config migrate`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := repoDir()
		result, err := config.MigrateProjectConfig(dir, migrateDryRun)
		if err != nil {
			return clierrors.Wrap(err, clierrors.Configuration)
		}

		if !result.Success {
			output.PrintNotice(cmd.OutOrStdout(), result.Message)
			return nil
		}
		if err := config.RemoveLegacyConfig(result.SourcePath, migrateDryRun); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		if migrateDryRun {
			output.PrintNotice(cmd.OutOrStdout(), result.Message)
			return nil
		}
		output.PrintSuccess(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configInitCmd.Flags().BoolVar(&configInitUser, "user", false, "Write the user config instead of the project config")
	configMigrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Show what would be migrated without writing")

	configCmd.AddCommand(configInitCmd, configMigrateCmd)
	rootCmd.AddCommand(configCmd)
}

// repoDir is the directory given with --dir, or the current directory.
func repoDir() string {
	if dirFlag != "" {
		return dirFlag
	}
	return "."
}

func initTargetPath() (string, error) {
	if configInitUser {
		path, err := config.UserConfigPath()
		if err != nil {
			return "", clierrors.Wrap(err, clierrors.Configuration)
		}
		return path, nil
	}
	if configFlag != "" {
		return configFlag, nil
	}
	return config.ProjectConfigPath(repoDir()), nil
}
