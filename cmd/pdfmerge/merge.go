package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alnah/go-pdfmerge"
	"github.com/alnah/go-pdfmerge/internal/config"
)

// Merger is the part of *pdfmerge.Merger the CLI uses.
type Merger interface {
	Merge(ctx context.Context, req pdfmerge.MergeRequest) (*pdfmerge.Result, error)
}

// Compile-time interface implementation check.
var _ Merger = (*pdfmerge.Merger)(nil)

// mergeJob is one manifest to merge into one output file.
type mergeJob struct {
	Source   string // manifest path, or "" for command-line files
	Manifest *config.Manifest
	Output   string // requested output file or directory
}

// JobResult holds the outcome of a single merge.
type JobResult struct {
	Source     string
	OutputPath string
	Pages      int
	Skipped    []string
	Err        error
	Duration   time.Duration
}

// runMerge merges files from the command line or one manifest.
func runMerge(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseMergeFlags(args, env.Stderr)
	if err != nil {
		return flagError(err)
	}

	if flags.manifest != "" && len(positional) > 0 {
		return ErrConflictingInput
	}
	if flags.manifest == "" && len(positional) == 0 {
		return fmt.Errorf("%w: pass files or --manifest", ErrNoInput)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	job := mergeJob{Manifest: manifestFromArgs(positional)}
	if flags.manifest != "" {
		job.Source = flags.manifest
		if job.Manifest, err = config.LoadManifest(flags.manifest); err != nil {
			return err
		}
	}

	output := flags.output
	if output == "" {
		output = job.Manifest.Output
	}
	s, err := resolveSettings(flags.engine, output, 0, envCfg, cfg)
	if err != nil {
		return err
	}
	job.Output = s.output

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	merger, err := pdfmerge.NewMerger(s.mergerOptions(logger, env.MergerOptions)...)
	if err != nil {
		return err
	}

	result := runJob(ctx, merger, job, env.Now)
	if result.Err != nil {
		return result.Err
	}
	printResults([]JobResult{result}, flags.common.quiet, flags.common.verbose, env)
	return nil
}

// runJob reads the job's sources, merges them and writes the output.
func runJob(ctx context.Context, merger Merger, job mergeJob, now func() time.Time) JobResult {
	start := now()
	result := JobResult{Source: job.Source}
	finish := func(err error) JobResult {
		result.Err = err
		result.Duration = now().Sub(start)
		return result
	}

	files, err := readSources(ctx, job.Manifest)
	if err != nil {
		return finish(err)
	}

	dir, name := splitOutput(job.Output)
	res, err := merger.Merge(ctx, pdfmerge.MergeRequest{
		Files:  files,
		Output: name,
	})
	if err != nil {
		return finish(err)
	}

	// The merger sanitizes the name and guarantees a .pdf extension.
	result.OutputPath = filepath.Join(dir, res.Filename)
	result.Pages = res.PageCount
	for _, b := range res.Batches {
		if b.Skipped {
			result.Skipped = append(result.Skipped, b.Name)
		}
	}

	return finish(writePDF(result.OutputPath, res.PDF))
}

// printResults outputs merge results and returns the number of failures.
func printResults(results []JobResult, quiet, verbose bool, env *Environment) int {
	failed := 0
	for _, r := range results {
		label := r.Source
		if label == "" {
			label = "merge"
		}

		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", label, r.Err)
			continue
		}

		for _, name := range r.Skipped {
			fmt.Fprintf(env.Stderr, "warning: skipped unsupported file %q\n", name)
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n", label, r.OutputPath, pageCount(r.Pages), r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s (%s)\n", r.OutputPath, pageCount(r.Pages))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}

func pageCount(n int) string {
	if n == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", n)
}
