// Command kanny is a terminal client for kanban boards.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kanny/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	exitCode := cli.Run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args, os.Environ())
	stop()
	os.Exit(exitCode)
}
