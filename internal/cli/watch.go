package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitrelease/internal/changelog"
	"github.com/ariel-frischer/gitrelease/internal/config"
	clierrors "github.com/ariel-frischer/gitrelease/internal/errors"
	"github.com/ariel-frischer/gitrelease/internal/output"
	"github.com/ariel-frischer/gitrelease/internal/watch"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the release summary whenever HEAD or tags change",
	Long: `Print the release summary, then print it again after every commit,
checkout, or tag change in the repository. On a terminal the screen is cleared
before each render.

Errors from a render, such as a malformed release tag, are reported and the
watch continues. Press Ctrl+C to stop.`,
	Example: `  # Keep a preview of the next release open while working
  gitrelease watch --preview

  # Follow the next version of one package
  gitrelease watch --subdir services/api --format text`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	watchCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: markdown, text, yaml or json (default: markdown)")
	watchCmd.Flags().BoolVar(&previewFlag, "preview", false, "Render markdown for the terminal when stdout is a TTY")
	watchCmd.Flags().BoolVar(&omitFooterFlag, "omit-footer", false, "Leave the closing credit line out of the summary")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Wait this long for reference updates to settle")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := changelog.ParseFormat(cfg.Format)
	if err != nil {
		return clierrors.InvalidFormat(cfg.Format)
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}

	w, err := watch.New(repo.GitDir(), watch.WithDebounce(watchDebounce))
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	defer w.Close()

	return w.Run(cmd.Context(), func(ctx context.Context) error {
		renderWatched(cmd, cfg, format)
		return nil
	})
}

// renderWatched prints one summary. Failures are printed and do not stop the watch.
func renderWatched(cmd *cobra.Command, cfg *config.Configuration, format changelog.Format) {
	out := cmd.OutOrStdout()
	if output.IsTerminal(out) {
		fmt.Fprint(out, clearScreen)
	}

	summary, err := generateSummary(cmd, cfg)
	if err == nil {
		err = writeSummary(out, summary, cfg, format)
	}
	if err != nil {
		clierrors.FprintError(cmd.ErrOrStderr(), clierrors.FromError(err))
		return
	}

	output.PrintNotice(cmd.ErrOrStderr(), fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", cfg.Dir))
}
