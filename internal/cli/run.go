package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/upstreamer/pkg/extract"
	upio "github.com/matzehuels/upstreamer/pkg/io"
	"github.com/matzehuels/upstreamer/pkg/pipeline"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// runPipeline builds pipeline options from flags and config, runs the
// pipeline with a spinner and returns the result.
func (c *CLI) runPipeline(ctx context.Context, dir string, flags *runFlags) (*pipeline.Result, error) {
	opts, err := c.pipelineOptions(dir, flags)
	if err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, c.Logger.GetLevel() > LogDebug, "Reading "+source(opts)+"...")
	spinner.Start()

	result, err := runner.Run(ctx, opts)
	if err != nil {
		spinner.StopWithError("Extraction failed")
		return nil, err
	}
	spinner.Stop()
	return result, nil
}

func (c *CLI) pipelineOptions(dir string, flags *runFlags) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Dir:              dir,
		MinimumCertainty: cfg.Minimum(),
		Disabled:         disabledExtractors(cfg, flags.disable),
		Refresh:          flags.refresh,
		Seed: upstream.Context{
			Name:     flags.name,
			Homepage: flags.homepage,
		},
	}
	if flags.repository != "" {
		opts.Seed.Repository = upstream.VCS{URL: flags.repository}
	}
	if flags.minCertainty != "" {
		if opts.MinimumCertainty, err = upstream.ParseCertainty(flags.minCertainty); err != nil {
			return pipeline.Options{}, err
		}
	}
	if flags.fromJSON != "" {
		set, err := upio.ImportJSON(flags.fromJSON)
		if err != nil {
			return pipeline.Options{}, err
		}
		if set == nil {
			set = extract.Set{}
		}
		opts.Dir, opts.Artifacts = "", set
	}
	return opts, nil
}

func source(opts pipeline.Options) string {
	if opts.Artifacts != nil {
		return fmt.Sprintf("%d artifacts", len(opts.Artifacts))
	}
	return opts.Dir
}
