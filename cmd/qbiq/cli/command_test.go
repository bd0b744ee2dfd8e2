// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func testTree(called *string, receivedArgs *[]string) *Command {
	var params struct {
		Name  string `flag:"name,n" desc:"new name"`
		Force bool   `flag:"force" desc:"skip checks"`
	}
	return &Command{
		Name:       "qbiq",
		HelpOutput: &bytes.Buffer{},
		Subcommands: []*Command{
			{
				Name:    "device",
				Summary: "manage devices",
				Subcommands: []*Command{
					{
						Name:    "rename",
						Summary: "rename a device",
						Flags: func() *pflag.FlagSet {
							return FlagsFromParams("rename", &params)
						},
						Run: func(args []string) error {
							*called = "device rename " + params.Name
							*receivedArgs = args
							return nil
						},
					},
					{
						Name: "list",
						Run: func(args []string) error {
							*called = "device list"
							return nil
						},
					},
				},
			},
			{
				Name: "logout",
				Run: func(args []string) error {
					*called = "logout"
					return nil
				},
			},
		},
	}
}

func TestExecute_Dispatch(t *testing.T) {
	var called string
	var receivedArgs []string
	root := testTree(&called, &receivedArgs)

	if err := root.Execute([]string{"device", "rename", "--name", "hall", "urn:1"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "device rename hall" {
		t.Errorf("called %q", called)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "urn:1" {
		t.Errorf("args = %v", receivedArgs)
	}

	if err := root.Execute([]string{"logout"}); err != nil || called != "logout" {
		t.Errorf("logout: called %q, err %v", called, err)
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown command suggests", args: []string{"devcie"}, want: `did you mean "device"`},
		{name: "unknown command far away", args: []string{"zzzzzzzz"}, want: `unknown command "zzzzzzzz"`},
		{name: "subcommand required", args: []string{"device"}, want: "subcommand required"},
		{name: "unknown flag suggests", args: []string{"device", "rename", "--nmae", "x"}, want: "did you mean --name"},
		{name: "bad flag value", args: []string{"device", "rename", "--force=maybe"}, want: "Run 'qbiq device rename --help'"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var called string
			var receivedArgs []string
			err := testTree(&called, &receivedArgs).Execute(test.args)
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %v, want it to contain %q", err, test.want)
			}
			if called != "" {
				t.Errorf("ran %q on error", called)
			}
		})
	}
}

func TestExecute_Help(t *testing.T) {
	var called string
	var receivedArgs []string
	root := testTree(&called, &receivedArgs)
	output := &bytes.Buffer{}
	root.HelpOutput = output

	for _, args := range [][]string{{"--help"}, {"device", "help"}, {"device", "rename", "-h"}} {
		output.Reset()
		if err := root.Execute(args); err != nil {
			t.Errorf("Execute(%v): %v", args, err)
		}
		if !strings.Contains(output.String(), "Usage:") {
			t.Errorf("Execute(%v) printed no usage:\n%s", args, output)
		}
	}
	if called != "" {
		t.Errorf("help ran %q", called)
	}

	output.Reset()
	root.PrintHelp(output)
	for _, want := range []string{"Commands:", "device", "manage devices", "Run 'qbiq <command> --help'"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("root help missing %q:\n%s", want, output)
		}
	}
}

func TestRequireArgs(t *testing.T) {
	if err := RequireArgs([]string{"a", "b"}, "device", "name"); err != nil {
		t.Errorf("RequireArgs: %v", err)
	}
	err := RequireArgs([]string{"a"}, "device", "name")
	if err == nil || !strings.Contains(err.Error(), "<device> <name>") {
		t.Fatalf("error = %v", err)
	}
	if ExitCodeOf(err) != ExitUsage {
		t.Errorf("exit code = %d, want %d", ExitCodeOf(err), ExitUsage)
	}
}
