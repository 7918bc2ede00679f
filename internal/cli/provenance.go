package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/upstreamer/pkg/render/provenance"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// provenanceOpts holds the flags of the provenance command.
type provenanceOpts struct {
	format   string // "dot" or "svg"
	output   string // output file path (stdout if empty)
	detailed bool   // label edges with the guessed values
	fields   []string
}

// provenanceCommand creates the provenance command.
func (c *CLI) provenanceCommand() *cobra.Command {
	var flags runFlags
	opts := provenanceOpts{format: "svg"}

	cmd := &cobra.Command{
		Use:   "provenance [dir]",
		Short: "Draw which artifacts each metadata field came from",
		Long: `Draw which artifacts each metadata field came from.

Artifacts are grouped by origin class, strongest first. Solid edges lead
to the value that won; dashed edges to the guesses it beat. SVG output
needs no external tools; DOT output can be fed to Graphviz directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "dot" && opts.format != "svg" {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			return c.runProvenance(cmd.Context(), dirArg(args), &flags, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show guessed values on edges")
	cmd.Flags().StringSliceVar(&opts.fields, "field", nil, "only draw these fields (comma-separated)")

	return cmd
}

func (c *CLI) runProvenance(ctx context.Context, dir string, flags *runFlags, opts provenanceOpts) error {
	renderOpts := provenance.Options{Detailed: opts.detailed}
	for _, name := range opts.fields {
		f, err := upstream.ParseField(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		renderOpts.Fields = append(renderOpts.Fields, f)
	}

	result, err := c.runPipeline(ctx, dir, flags)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	data := []byte(provenance.ToDOT(result.Record, result.Guesses, renderOpts))
	if opts.format == "svg" {
		if data, err = provenance.RenderSVG(ctx, string(data)); err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	if opts.output == "" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	prog.done("Wrote " + opts.output)
	printFile(c.Out, opts.output)
	return nil
}
