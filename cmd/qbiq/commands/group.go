// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/ubiqweus/qbiq-client/cmd/qbiq/cli"
	"github.com/ubiqweus/qbiq-client/lib/devices"
	"github.com/ubiqweus/qbiq-client/lib/result"
	"github.com/ubiqweus/qbiq-client/lib/session"
)

func parseGroupID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, cli.Usage("group id %q: %v", arg, err)
	}
	return id, nil
}

func groupCommand(app *App) *cli.Command {
	var listParams, devicesParams, createParams struct {
		cli.JSONOutput
	}

	return &cli.Command{
		Name:    "group",
		Summary: "Organize devices into groups",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Summary: "List your groups",
				Flags: func() *pflag.FlagSet {
					return cli.FlagsFromParams("list", &listParams)
				},
				Run: func(args []string) error {
					return app.withSession(func(current *session.Session) error {
						groups, err := await(func(done func(result.Result[[]devices.Group])) error {
							return app.devices.ListGroups(app.Context, current, done)
						})
						if err != nil {
							return err
						}
						if done, err := listParams.EmitJSON(app.Stdout, groups); done {
							return err
						}
						table := tabwriter.NewWriter(app.Stdout, 2, 0, 2, ' ', 0)
						fmt.Fprintln(table, "ID\tNAME")
						for _, group := range groups {
							fmt.Fprintf(table, "%s\t%s\n", group.ID, group.Name)
						}
						return table.Flush()
					})
				},
			},
			{
				Name:    "devices",
				Summary: "List the devices in a group",
				Usage:   "qbiq group devices <group-id> [flags]",
				Flags: func() *pflag.FlagSet {
					return cli.FlagsFromParams("devices", &devicesParams)
				},
				Run: func(args []string) error {
					if err := cli.RequireArgs(args, "group-id"); err != nil {
						return err
					}
					groupID, err := parseGroupID(args[0])
					if err != nil {
						return err
					}
					return app.withSession(func(current *session.Session) error {
						members, err := await(func(done func(result.Result[[]devices.Device])) error {
							return app.devices.GroupDevices(app.Context, current, groupID, done)
						})
						if err != nil {
							return err
						}
						if done, err := devicesParams.EmitJSON(app.Stdout, members); done {
							return err
						}
						for _, device := range members {
							fmt.Fprintf(app.Stdout, "%s  %s\n", device.ID, device.Name)
						}
						return nil
					})
				},
			},
			{
				Name:    "create",
				Summary: "Create a group",
				Usage:   "qbiq group create <name> [flags]",
				Flags: func() *pflag.FlagSet {
					return cli.FlagsFromParams("create", &createParams)
				},
				Run: func(args []string) error {
					if err := cli.RequireArgs(args, "name"); err != nil {
						return err
					}
					return app.withSession(func(current *session.Session) error {
						group, err := await(func(done func(result.Result[devices.Group])) error {
							return app.devices.CreateGroup(app.Context, current, args[0], done)
						})
						if err != nil {
							return err
						}
						if done, err := createParams.EmitJSON(app.Stdout, group); done {
							return err
						}
						fmt.Fprintf(app.Stdout, "Created group %s (%s)\n", group.Name, group.ID)
						return nil
					})
				},
			},
			{
				Name:    "rename",
				Summary: "Rename a group",
				Usage:   "qbiq group rename <group-id> <name>",
				Run: func(args []string) error {
					if err := cli.RequireArgs(args, "group-id", "name"); err != nil {
						return err
					}
					return groupAction(app, args[0], "Renamed group", func(current *session.Session, id uuid.UUID, done func(result.Result[devices.EmptyReply])) error {
						return app.devices.RenameGroup(app.Context, current, id, args[1], done)
					})
				},
			},
			{
				Name:    "delete",
				Summary: "Delete a group (its devices are kept)",
				Usage:   "qbiq group delete <group-id>",
				Run: func(args []string) error {
					if err := cli.RequireArgs(args, "group-id"); err != nil {
						return err
					}
					return groupAction(app, args[0], "Deleted group", func(current *session.Session, id uuid.UUID, done func(result.Result[devices.EmptyReply])) error {
						return app.devices.DeleteGroup(app.Context, current, id, done)
					})
				},
			},
			{
				Name:    "add",
				Summary: "Add a device to a group",
				Usage:   "qbiq group add <group-id> <device-id>",
				Run: func(args []string) error {
					if err := cli.RequireArgs(args, "group-id", "device-id"); err != nil {
						return err
					}
					return groupAction(app, args[0], "Added "+args[1]+" to group", func(current *session.Session, id uuid.UUID, done func(result.Result[devices.EmptyReply])) error {
						return app.devices.AddGroupDevice(app.Context, current, id, devices.DeviceURN(args[1]), done)
					})
				},
			},
			{
				Name:    "remove",
				Summary: "Remove a device from a group",
				Usage:   "qbiq group remove <group-id> <device-id>",
				Run: func(args []string) error {
					if err := cli.RequireArgs(args, "group-id", "device-id"); err != nil {
						return err
					}
					return groupAction(app, args[0], "Removed "+args[1]+" from group", func(current *session.Session, id uuid.UUID, done func(result.Result[devices.EmptyReply])) error {
						return app.devices.RemoveGroupDevice(app.Context, current, id, devices.DeviceURN(args[1]), done)
					})
				},
			},
		},
	}
}

// groupAction runs an operation on the group named by arg and reports
// success.
func groupAction(app *App, arg, report string, run func(*session.Session, uuid.UUID, func(result.Result[devices.EmptyReply])) error) error {
	groupID, err := parseGroupID(arg)
	if err != nil {
		return err
	}
	return app.withSession(func(current *session.Session) error {
		if _, err := await(func(done func(result.Result[devices.EmptyReply])) error {
			return run(current, groupID, done)
		}); err != nil {
			return err
		}
		fmt.Fprintf(app.Stdout, "%s %s\n", report, groupID)
		return nil
	})
}
