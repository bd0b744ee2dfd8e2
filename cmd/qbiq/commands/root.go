// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the qbiq command tree.
package commands

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/ubiqweus/qbiq-client/cmd/qbiq/cli"
)

// Root returns the top-level command.
func Root(app *App) *cli.Command {
	return &cli.Command{
		Name:    "qbiq",
		Summary: "qBiq sensor client",
		Description: `qbiq talks to the qBiq auth and device servers: log in, list and
manage devices, read observations, and organize devices into groups.

Global flags (before the command):
  --config path     configuration file (default: $QBIQ_CONFIG)
  --log-level lvl   debug, info, warn or error`,
		HelpOutput: app.Stderr,
		Subcommands: []*cli.Command{
			loginCommand(app),
			logoutCommand(app),
			whoamiCommand(app),
			registerCommand(app),
			passwordCommand(app),
			metaCommand(app),
			deviceCommand(app),
			groupCommand(app),
			rawCommand(app),
			encodeCommand(app),
			sessionCommand(app),
		},
	}
}

// Run parses the global flags in args, executes the command they
// precede, and waits for background work.
func Run(app *App, args []string) error {
	global := pflag.NewFlagSet("qbiq", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	global.StringVar(&app.ConfigPath, "config", app.ConfigPath, "configuration file")
	global.StringVar(&app.LogLevel, "log-level", app.LogLevel, "log level")
	if err := global.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return Root(app).Execute([]string{"--help"})
		}
		return cli.Usage("%v", err)
	}
	defer app.Close()
	return Root(app).Execute(global.Args())
}
