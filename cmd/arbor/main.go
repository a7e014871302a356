// Package main is the arbor command: a terminal viewer for a shared growth
// tree.
//
// Usage:
//
//	arbor                 # viewer when stdout is a terminal, watch otherwise
//	arbor watch           # headless, logs stage changes and milestones
//	arbor stats           # usage statistics as YAML
//	arbor check           # verify every configured stage image
//	arbor demo            # local demo backend
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "arbor: %v\n", err)
		return 1
	}
	return 0
}
