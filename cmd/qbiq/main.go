// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// qbiq is the command-line client for qBiq sensors.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ubiqweus/qbiq-client/cmd/qbiq/cli"
	"github.com/ubiqweus/qbiq-client/cmd/qbiq/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Run(commands.NewApp(ctx), os.Args[1:])
	stop()
	if err != nil {
		if !cli.IsSilent(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(cli.ExitCodeOf(err))
	}
}
