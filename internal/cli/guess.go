package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/upstreamer/pkg/extract/extractors"
	upio "github.com/matzehuels/upstreamer/pkg/io"
	"github.com/matzehuels/upstreamer/pkg/source/local"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// guessCommand creates the guess command, the main entry point.
func (c *CLI) guessCommand() *cobra.Command {
	var (
		flags   runFlags
		format  string
		output  string
		guesses bool
	)

	cmd := &cobra.Command{
		Use:   "guess [dir]",
		Short: "Guess the upstream metadata of a project",
		Long: `Guess the upstream metadata of a project.

The directory (default ".") is scanned for manifests, changelogs, watch
files, READMEs and build rules. Every guess they yield is normalized and
the best guess per field wins. Use --from-json to read an artifact set
written by 'upstreamer artifacts' instead of a directory.

Extracted guesses are cached per artifact; --refresh ignores the cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			return c.runGuess(cmd.Context(), dirArg(args), &flags, format, output, guesses)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&guesses, "guesses", false, "print every guess instead of the record (json, yaml)")

	return cmd
}

func (c *CLI) runGuess(ctx context.Context, dir string, flags *runFlags, format, output string, guesses bool) error {
	result, err := c.runPipeline(ctx, dir, flags)
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter(c.Out, output)
	if err != nil {
		return err
	}
	defer closeFn()

	switch {
	case format != formatText && guesses:
		return writeData(w, format, result.Guesses)
	case format != formatText:
		return writeData(w, format, result.Record)
	}

	if result.Record.Len() == 0 {
		printInfo(w, "No upstream metadata found in %d artifacts", len(result.Artifacts))
		return nil
	}
	fmt.Fprintln(w, recordTable(result.Record))
	printStats(w, result)
	printProblems(w, result.Problems)
	if output != "" {
		printFile(c.Out, output)
	}
	return nil
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Report problems with a project's upstream metadata",
		Long: `Report problems with a project's upstream metadata.

Problems include invalid SPDX license expressions, repository URLs that
do not look like a repository, and fields that disagree with each other.
The command fails when any problem is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.runPipeline(cmd.Context(), dirArg(args), &flags)
			if err != nil {
				return err
			}
			if len(result.Problems) == 0 {
				printSuccess(c.Out, "No problems in %d fields", result.Record.Len())
				return nil
			}
			printProblems(c.Out, result.Problems)
			return fmt.Errorf("%d problems found", len(result.Problems))
		},
	}

	flags.register(cmd)
	return cmd
}

// artifactsCommand creates the artifacts command, which dumps what the
// loader found so it can be edited and fed back with --from-json.
func (c *CLI) artifactsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "artifacts [dir]",
		Short: "Dump the artifacts found in a project as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := &local.Loader{Logger: c.Logger}
			set, err := loader.Load(cmd.Context(), dirArg(args))
			if err != nil {
				return err
			}
			if output != "" {
				if err := upio.ExportJSON(set, output); err != nil {
					return err
				}
				printSuccess(c.Out, "Wrote %d artifacts", len(set))
				printFile(c.Out, output)
				return nil
			}
			return upio.WriteJSON(set, c.Out)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// fieldsCommand creates the fields command.
func (c *CLI) fieldsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the metadata fields and the extractors that fill them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			type fieldInfo struct {
				Name string `json:"name"`
				Kind string `json:"kind"`
			}
			var fields []fieldInfo
			for _, f := range upstream.Fields() {
				fields = append(fields, fieldInfo{Name: f.String(), Kind: f.Kind().String()})
			}
			if format != formatText {
				return writeData(c.Out, format, map[string]any{
					"fields":     fields,
					"extractors": extractors.Names(),
				})
			}
			for _, f := range fields {
				fmt.Fprintf(c.Out, "%-22s %s\n", f.Name, StyleDim.Render(f.Kind))
			}
			fmt.Fprintln(c.Out)
			printInfo(c.Out, "Extractors: %s", StyleDim.Render(fmt.Sprint(extractors.Names())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}
