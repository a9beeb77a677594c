package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitrelease/internal/changelog"
	clierrors "github.com/ariel-frischer/gitrelease/internal/errors"
)

var filesCmd = &cobra.Command{
	Use:   "files [summary.md]",
	Short: "List the files edited in a rendered summary",
	Long: `Read a markdown summary produced by gitrelease and print the paths listed
under "Files edited since last release:", one per line.

The summary is read from the given file, or from stdin when the argument is
omitted or "-".`,
	Example: `  # Files of a saved summary
  gitrelease files release.md

  # From a pull request body
  gh pr view 42 --json body -q .body | gitrelease files`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return clierrors.UnexpectedArguments(cmd.CommandPath(), args[1:])
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFiles(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	name := "-"
	if len(args) == 1 {
		name = args[0]
	}

	data, err := readInput(cmd, name)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Argument, fmt.Sprintf("reading %s: %v", displayName(name), err))
	}

	files, err := changelog.ParseFilesEdited(data)
	if err != nil {
		if errors.Is(err, changelog.ErrNoFilesBlock) {
			return clierrors.WrapWithMessage(err, clierrors.Argument,
				fmt.Sprintf("%s does not contain a files edited section", displayName(name)),
				"Pass a summary rendered with the markdown format")
		}
		return err
	}

	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func displayName(name string) string {
	if name == "-" {
		return "stdin"
	}
	return name
}
