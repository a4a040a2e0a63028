package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Console streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitFailure
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "split":
		return runSplit(cmdArgs)
	case "validate":
		return runValidate(cmdArgs)
	case "delete":
		return runDelete(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintln(stderr, errorStyle.Render(fmt.Sprintf("Unknown command: %s", command)))
		printUsage()
		return ExitFailure
	}
}

func printUsage() {
	fmt.Fprintln(stderr, `Usage: splitter <command> [options]

Commands:
  split     Split a binary file into numbered fixed-size chunk files
  validate  Check that a chunk set is complete and sizes are consistent
  delete    Remove a chunk set from a directory

Run 'splitter <command> -h' for command-specific help.`)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(onSignal func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			if onSignal != nil {
				onSignal()
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// fail prints an error line in the error style and returns ExitFailure.
func fail(format string, args ...any) int {
	fmt.Fprintln(stderr, errorStyle.Render("Error: "+fmt.Sprintf(format, args...)))
	return ExitFailure
}
