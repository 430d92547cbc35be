package main

import (
	"context"
	"fmt"
)

// Command names.
const (
	cmdMerge   = "merge"
	cmdBatch   = "batch"
	cmdDoctor  = "doctor"
	cmdVersion = "version"
	cmdHelp    = "help"
)

// runMain dispatches args[1:] to a command and returns the exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	cmd, rest := args[1], args[2:]
	switch cmd {
	case cmdMerge:
		return report(runMerge(ctx, rest, env), env)
	case cmdBatch:
		return report(runBatch(ctx, rest, env), env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "pdfmerge %s\n", Version)
		return ExitSuccess
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// report prints a command error and maps it to an exit code.
func report(err error, env *Environment) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}
