package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfmerge <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  merge      Merge images, PDFs and word documents into one PDF")
	fmt.Fprintln(w, "  batch      Merge several manifests concurrently")
	fmt.Fprintln(w, "  doctor     Check the office suite, browser and temp directory")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfmerge help <command>' for details on a specific command.")
}

// printEngineUsage prints the converter flags shared by merge and batch.
func printEngineUsage(w io.Writer) {
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-conversion timeout (default: 2m)")
	fmt.Fprintln(w, "      --office <path>       Office suite executable (default: soffice)")
	fmt.Fprintln(w, "      --temp-dir <dir>      Parent directory for scratch files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging and timings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  PDFMERGE_CONFIG, PDFMERGE_TIMEOUT, PDFMERGE_OUTPUT, PDFMERGE_WORKERS,")
	fmt.Fprintln(w, "  PDFMERGE_TEMP_DIR, PDFMERGE_OFFICE_PATH, LOG_LEVEL")
}

// printMergeUsage prints usage for the merge command.
func printMergeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfmerge merge [flags] <file>...")
	fmt.Fprintln(w, "       pdfmerge merge [flags] --manifest <merge.yaml>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge files into one PDF, in the order given. Images become one page")
	fmt.Fprintln(w, "each, PDFs keep their pages, word documents (.docx) are converted.")
	fmt.Fprintln(w, "Unsupported files are skipped with a warning.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (default: merged.pdf)")
	fmt.Fprintln(w, "  -m, --manifest <path>     YAML manifest listing files and output")
	fmt.Fprintln(w)
	printEngineUsage(w)
}

// printBatchUsage prints usage for the batch command.
func printBatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfmerge batch [flags] <manifest>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge each manifest into its own PDF. A manifest without output")
	fmt.Fprintln(w, "writes <manifest name>.pdf next to itself (or into output.dir).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Concurrency:")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent merges (default: auto)")
	fmt.Fprintln(w)
	printEngineUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdMerge:
		printMergeUsage(env.Stdout)
	case cmdBatch:
		printBatchUsage(env.Stdout)
	case cmdDoctor:
		fmt.Fprintln(env.Stdout, "Usage: pdfmerge doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that word documents can be converted on this system.")
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: pdfmerge version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: pdfmerge help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
