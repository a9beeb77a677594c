package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitrelease/internal/release"
)

var nextTagFlag bool

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next release version",
	Long: `Print the version the next release would get, computed from the
conventional commits made since the last release tag.

With --tag the full tag name is printed instead, including the scope
prefix used with --subdir or --submodule.`,
	Example: `  # Next version of the repository
  gitrelease next

  # Tag name to create for a monorepo package
  gitrelease next --subdir services/api --tag`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNext(cmd)
	},
}

func init() {
	nextCmd.Flags().BoolVar(&nextTagFlag, "tag", false, "Print the tag name, including the scope prefix")
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	summary, err := generateSummary(cmd, cfg)
	if err != nil {
		return err
	}

	if nextTagFlag {
		fmt.Fprintln(cmd.OutOrStdout(), release.TagName(release.TagScope(cfg.Subdir, cfg.Submodule), summary.Version))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary.Version)
	return nil
}
