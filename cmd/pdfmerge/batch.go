package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-pdfmerge"
	"github.com/alnah/go-pdfmerge/internal/config"
)

// Pool abstracts merger pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (*pdfmerge.Merger, error)
	Release(*pdfmerge.Merger)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*pdfmerge.MergerPool)(nil)

// runBatch merges several manifests concurrently.
func runBatch(ctx context.Context, args []string, env *Environment) error {
	flags, manifests, err := parseBatchFlags(args, env.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(manifests) == 0 {
		return fmt.Errorf("%w: pass one or more manifests", ErrNoInput)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	s, err := resolveSettings(flags.engine, "", flags.workers, envCfg, cfg)
	if err != nil {
		return err
	}

	outputDir := firstNonEmpty(envCfg.Output, cfg.Output.Dir)
	jobs, err := loadBatchJobs(manifests, outputDir)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	size := pdfmerge.ResolvePoolSize(s.workers)
	logger.WithField("workers", size).Debug("starting batch")

	pool := pdfmerge.NewMergerPool(size, s.mergerOptions(logger, env.MergerOptions)...)
	defer func() { _ = pool.Close() }()

	results := mergeBatch(ctx, pool, jobs, env, logger)
	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return batchError(results, failed)
	}
	return nil
}

// loadBatchJobs loads each manifest and assigns distinct output paths.
// A manifest without output writes <manifest stem>.pdf into outputDir,
// or next to the manifest when outputDir is empty.
func loadBatchJobs(paths []string, outputDir string) ([]mergeJob, error) {
	jobs := make([]mergeJob, 0, len(paths))
	seen := make(map[string]string, len(paths))

	for _, path := range paths {
		m, err := config.LoadManifest(path)
		if err != nil {
			return nil, err
		}

		output := m.Output
		if output == "" {
			dir := outputDir
			if dir == "" {
				dir = filepath.Dir(path)
			}
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			output = filepath.Join(dir, stem+".pdf")
		}

		key := filepath.Clean(output)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateOutput, prev, path, output)
		}
		seen[key] = path

		jobs = append(jobs, mergeJob{Source: path, Manifest: m, Output: output})
	}
	return jobs, nil
}

// mergeBatch runs jobs with at most pool.Size() in flight. A failed job
// does not stop the others; each result keeps its own error.
func mergeBatch(ctx context.Context, pool Pool, jobs []mergeJob, env *Environment, logger logrus.FieldLogger) []JobResult {
	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(pool.Size())

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = JobResult{Source: job.Source, Err: err}
				return nil
			}

			merger, err := pool.Acquire(ctx)
			if err != nil {
				results[i] = JobResult{Source: job.Source, Err: err}
				return nil
			}
			defer pool.Release(merger)

			results[i] = runJob(ctx, merger, job, env.Now)
			if results[i].Err != nil {
				logger.WithError(results[i].Err).WithField("manifest", job.Source).Debug("batch job failed")
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// batchError summarizes failures while keeping the first error wrapped,
// so the exit code reflects it.
func batchError(results []JobResult, failed int) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%d of %d merge(s) failed: %w", failed, len(results), r.Err)
		}
	}
	return nil
}
