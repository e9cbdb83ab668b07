// Command sparkify loads the song catalog and listening logs into the star
// schema, row by row (local), through warehouse staging tables (warehouse)
// or as partitioned Parquet (lake).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var pf *parseFailures
		if errors.As(err, &pf) {
			for _, e := range pf.errs.Errors {
				fmt.Fprintf(stderr, "skipped: %v\n", e)
			}
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
