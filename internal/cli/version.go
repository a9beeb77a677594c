package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitrelease/internal/build"
)

var (
	versionPlain bool
	versionJSON  bool
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for gitrelease",
	Example: `  # Show version info
  gitrelease version

  # Plain output (for scripts)
  gitrelease version --plain`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := build.Current()
		out := cmd.OutOrStdout()
		switch {
		case versionJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case versionPlain:
			printPlainVersion(out, info)
		default:
			printPrettyVersion(out, info)
		}
		return nil
	},
}

var sauceCmd = &cobra.Command{
	Use:   "sauce",
	Short: "Display the source URL",
	Long:  "Display the source URL for the gitrelease project",
	Args:  noArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(build.SourceURL)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(versionCmd, sauceCmd)

	// gitrelease -v/--version prints the same lines as "version --plain".
	cobra.AddTemplateFunc("plainVersion", func() string {
		var b strings.Builder
		printPlainVersion(&b, build.Current())
		return b.String()
	})
	rootCmd.Version = build.Version
	rootCmd.SetVersionTemplate("{{plainVersion}}")
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(out io.Writer, info build.Info) {
	fmt.Fprintf(out, "gitrelease %s\n", info.Version)
	fmt.Fprintf(out, "commit: %s\n", info.Commit)
	fmt.Fprintf(out, "built: %s\n", info.BuildDate)
	fmt.Fprintf(out, "go: %s\n", info.GoVersion)
	fmt.Fprintf(out, "platform: %s\n", info.Platform)
}

// printPrettyVersion prints aligned, colored label/value lines
func printPrettyVersion(out io.Writer, info build.Info) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Fprintf(out, "%s %s\n\n", cyan("gitrelease"), white(info.Version))

	rows := []struct {
		label string
		value string
	}{
		{"Commit", build.ShortCommit()},
		{"Built", info.BuildDate},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
		{"Source", build.SourceURL},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "  %s  %s\n", yellow(fmt.Sprintf("%-8s", r.label)), r.value)
	}
}
