package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitrelease/internal/changelog"
	"github.com/ariel-frischer/gitrelease/internal/config"
	clierrors "github.com/ariel-frischer/gitrelease/internal/errors"
	"github.com/ariel-frischer/gitrelease/internal/git"
	"github.com/ariel-frischer/gitrelease/internal/output"
	"github.com/ariel-frischer/gitrelease/internal/progress"
	"github.com/ariel-frischer/gitrelease/internal/release"
)

var (
	configFlag     string
	debugFlag      bool
	dirFlag        string
	subdirFlag     string
	submoduleFlag  string
	repoURLFlag    string
	remoteFlag     string
	snapshotFlag   bool
	formatFlag     string
	previewFlag    bool
	omitFooterFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "gitrelease",
	Short: "Generate a release summary from conventional commits",
	Long: `Generate a release summary from the conventional commits made since the
last release tag.

gitrelease finds the most recent release tag reachable from HEAD, parses the
commits made since then, computes the next semantic version and prints a
summary suitable for a release pull request body.

Configuration is read from ~/.config/gitrelease/config.yml, the project's
.gitrelease.yml and GITRELEASE_* environment variables. Flags win over all.`,
	Example: `  # Summary for the whole repository
  gitrelease

  # Summary for one package of a monorepo, tagged as services/api-v1.2.3
  gitrelease --subdir services/api

  # Only commits scoped to "docs", tagged as docs-v1.2.3
  gitrelease --submodule docs

  # Machine readable output
  gitrelease --format json

  # Just the next version
  gitrelease next`,
	Args:          noArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			enableDebugLogging(cmd.ErrOrStderr())
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(cmd)
	},
}

func init() {
	rootCmd.SetFlagErrorFunc(flagError)

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to project config file (default: <dir>/.gitrelease.yml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Log repository and locator decisions to stderr")
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "Path inside the repository (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&subdirFlag, "subdir", "", "Restrict changed files and tag scope to this subdirectory")
	rootCmd.PersistentFlags().StringVar(&submoduleFlag, "submodule", "", "Only include commits with this conventional commit scope")
	rootCmd.PersistentFlags().StringVar(&repoURLFlag, "repo-url", "", "Browsable repository URL for links (default: derived from the remote)")
	rootCmd.PersistentFlags().StringVar(&remoteFlag, "remote", "", "Remote used to derive the repository URL (default: origin)")
	rootCmd.PersistentFlags().BoolVar(&snapshotFlag, "snapshot", false, "Append -SNAPSHOT to the next version")

	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: markdown, text, yaml or json (default: markdown)")
	rootCmd.Flags().BoolVar(&previewFlag, "preview", false, "Render markdown for the terminal when stdout is a TTY")
	rootCmd.Flags().BoolVar(&omitFooterFlag, "omit-footer", false, "Leave the closing credit line out of the summary")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, rootCmd)
}

// run executes cmd and prints any error in its structured form.
func run(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var reported *exitError
	if !errors.As(err, &reported) {
		clierrors.FprintError(cmd.ErrOrStderr(), clierrors.FromError(err))
	}
	return ExitCode(err)
}

// noArgs rejects positional arguments with a usage hint.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return clierrors.UnexpectedArguments(cmd.CommandPath(), args)
	}
	return nil
}

// flagError turns pflag parse failures into argument errors.
func flagError(cmd *cobra.Command, err error) error {
	return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
		fmt.Sprintf("Run '%s --help' for the list of flags", cmd.CommandPath()))
}

// enableDebugLogging routes release and git debug output to w.
func enableDebugLogging(w io.Writer) {
	logger := log.New(w, "[gitrelease] ", log.Ltime)
	release.SetDebugLogger(logger.Printf)
	git.SetDebugLogger(logger.Printf)
}

// flagOverride maps a command line flag onto its configuration key.
type flagOverride struct {
	flag  string
	key   string
	value func() any
}

var flagOverrides = []flagOverride{
	{flag: "dir", key: "dir", value: func() any { return dirFlag }},
	{flag: "subdir", key: "subdir", value: func() any { return subdirFlag }},
	{flag: "submodule", key: "submodule", value: func() any { return submoduleFlag }},
	{flag: "repo-url", key: "repo_url", value: func() any { return repoURLFlag }},
	{flag: "remote", key: "remote", value: func() any { return remoteFlag }},
	{flag: "snapshot", key: "snapshot", value: func() any { return snapshotFlag }},
	{flag: "format", key: "format", value: func() any { return formatFlag }},
	{flag: "preview", key: "preview", value: func() any { return previewFlag }},
	{flag: "omit-footer", key: "omit_footer", value: func() any { return omitFooterFlag }},
}

// loadConfig loads the layered configuration. Only flags set on the command
// line override lower layers.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	overrides := make(map[string]any)
	for _, o := range flagOverrides {
		if f := cmd.Flags().Lookup(o.flag); f != nil && f.Changed {
			overrides[o.key] = o.value()
		}
	}

	if f, ok := overrides["format"].(string); ok {
		if _, err := changelog.ParseFormat(f); err != nil {
			return nil, clierrors.InvalidFormat(f)
		}
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		Dir:               dirFlag,
		ProjectConfigPath: configFlag,
		Overrides:         overrides,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, err.Error(),
			"Check .gitrelease.yml and GITRELEASE_* environment variables",
			"Show the effective configuration: gitrelease config",
		)
	}
	return cfg, nil
}

// openRepository opens the repository containing cfg.Dir.
func openRepository(cfg *config.Configuration) (*git.Repository, error) {
	repo, err := git.Open(cfg.Dir)
	if err != nil {
		if git.IsNotRepository(err) {
			return nil, clierrors.NotAGitRepository(cfg.Dir, err)
		}
		return nil, clierrors.Wrap(err, clierrors.Access)
	}
	return repo, nil
}

// generateSummary opens the repository and runs the release pipeline.
func generateSummary(cmd *cobra.Command, cfg *config.Configuration) (*release.ReleaseSummary, error) {
	repo, err := openRepository(cfg)
	if err != nil {
		return nil, err
	}

	indicator := newIndicator(cmd.ErrOrStderr())
	indicator.Start("Reading commits since the last release")

	summary, err := release.Generate(cmd.Context(), repo, release.Options{
		Subdir:       cfg.Subdir,
		Submodule:    cfg.Submodule,
		SkipPrefixes: cfg.SkipPrefixes,
		RepoURL:      cfg.RepoURL,
		Remote:       cfg.Remote,
		Snapshot:     cfg.Snapshot,
		NormalizeURL: git.NormalizeRemoteURL,
	})
	if err != nil {
		indicator.Fail("Could not build the release summary")
		if git.IsEmptyRepository(err) {
			return nil, clierrors.EmptyRepository(err)
		}
		return nil, err
	}

	indicator.Succeed(fmt.Sprintf("%s (%s, %d commits)", summary.Version, summary.Bump, len(summary.Commits)))
	return summary, nil
}

// newIndicator returns a progress indicator that is only active when w is a terminal.
func newIndicator(w io.Writer) *progress.Indicator {
	var caps progress.TerminalCapabilities
	if f, ok := w.(*os.File); ok {
		caps = progress.DetectCapabilities(f)
	}
	return progress.NewIndicator(w, caps)
}

func runSummary(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := changelog.ParseFormat(cfg.Format)
	if err != nil {
		return clierrors.InvalidFormat(cfg.Format)
	}

	summary, err := generateSummary(cmd, cfg)
	if err != nil {
		return err
	}
	return writeSummary(cmd.OutOrStdout(), summary, cfg, format)
}

// writeSummary renders the summary in format and writes it to out. Markdown
// goes through the terminal renderer when preview is on and out is a TTY.
func writeSummary(out io.Writer, summary *release.ReleaseSummary, cfg *config.Configuration, format changelog.Format) error {
	isTTY := output.IsTerminal(out)

	var buf bytes.Buffer
	err := changelog.Write(summary, &buf, format, changelog.WriteOptions{
		Render: changelog.RenderOptions{
			Banner:     cfg.Banner,
			Footer:     cfg.Footer,
			OmitFooter: cfg.OmitFooter,
		},
		Format: changelog.FormatOptions{
			Plain: !isTTY || color.NoColor,
		},
	})
	if err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	text := buf.String()
	if cfg.Preview && format == changelog.FormatMarkdown && isTTY {
		text, err = changelog.Preview(text, output.GetTerminalWidth())
		if err != nil {
			return fmt.Errorf("rendering preview: %w", err)
		}
	}

	_, err = io.WriteString(out, text)
	return err
}
