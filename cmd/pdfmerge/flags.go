package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// engineFlags hold the converter settings shared by merge and batch.
type engineFlags struct {
	timeout    string
	officePath string
	tempDir    string
}

// mergeFlags holds all flags for the merge command.
type mergeFlags struct {
	common   commonFlags
	engine   engineFlags
	output   string
	manifest string
}

// batchFlags holds all flags for the batch command.
type batchFlags struct {
	common  commonFlags
	engine  engineFlags
	workers int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging and timings")
}

// addEngineFlags adds converter flags to a FlagSet.
func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-conversion timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.officePath, "office", "", "office suite executable (default: soffice)")
	fs.StringVar(&f.tempDir, "temp-dir", "", "parent directory for scratch files")
}

// parseMergeFlags parses merge command flags and returns positional args.
func parseMergeFlags(args []string, usage io.Writer) (*mergeFlags, []string, error) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &mergeFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.manifest, "manifest", "m", "", "merge manifest (YAML)")
	addEngineFlags(fs, &f.engine)
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printMergeUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseBatchFlags parses batch command flags and returns positional args.
func parseBatchFlags(args []string, usage io.Writer) (*batchFlags, []string, error) {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &batchFlags{}

	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent merges (0 = auto)")
	addEngineFlags(fs, &f.engine)
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printBatchUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// flagError maps a parse error to ErrUsage. A help request is not an error.
func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
