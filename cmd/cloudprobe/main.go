// Package main is the entry point for the cloudprobe CLI.
//
// cloudprobe exercises the lifecycle of an EC2 instance, an S3 bucket and
// an SQS FIFO queue: it creates them, lists them, uploads an object, sends
// and receives a message, deletes everything and verifies the cleanup.
//
// Commands: run, list, destroy, doctor, init.
//
// For detailed usage information, run:
//
//	cloudprobe --help
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudprobe/cloudprobe/cmd/cloudprobe/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitInterrupted follows the shell convention for SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		// Cleanup keeps running after the first signal; a second one
		// falls through to the default handler and kills the process.
		stop()
	}()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		if errors.Is(err, context.Canceled) {
			os.Exit(exitInterrupted)
		}
		os.Exit(1)
	}
}
