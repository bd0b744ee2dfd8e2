// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/ubiqweus/qbiq-client/cmd/qbiq/cli"
	"github.com/ubiqweus/qbiq-client/lib/devices"
	"github.com/ubiqweus/qbiq-client/lib/result"
	"github.com/ubiqweus/qbiq-client/lib/session"
)

// withSession runs one operation with the saved session. A session the
// server rejects is forgotten.
func (app *App) withSession(run func(current *session.Session) error) error {
	current, err := app.currentSession()
	if err != nil {
		return err
	}
	if err := run(current); err != nil {
		return app.forgetIfExpired(err)
	}
	return nil
}

func deviceCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "device",
		Summary: "Manage qBiq devices",
		Subcommands: []*cli.Command{
			deviceListCommand(app),
			deviceInfoCommand(app),
			deviceRenameCommand(app),
			deviceRegisterCommand(app),
			deviceIDCommand(app, "unregister", "Release a device you own", "Unregistered",
				func(current *session.Session, id devices.DeviceURN, done func(result.Result[devices.EmptyReply])) error {
					return app.devices.UnregisterDevice(app.Context, current, id, done)
				}),
			deviceShareCommand(app),
			deviceIDCommand(app, "unshare", "Remove a shared device from your list", "Unshared",
				func(current *session.Session, id devices.DeviceURN, done func(result.Result[devices.EmptyReply])) error {
					return app.devices.UnshareDevice(app.Context, current, id, done)
				}),
			deviceShareTokenCommand(app),
			deviceObsCommand(app),
			deviceIDCommand(app, "obs-delete", "Delete every stored observation of a device", "Deleted observations of",
				func(current *session.Session, id devices.DeviceURN, done func(result.Result[[]devices.EmptyReply])) error {
					return app.devices.DeleteObservations(app.Context, current, id, done)
				}),
			deviceFlagsCommand(app),
			deviceLimitsCommand(app),
		},
	}
}

// deviceIDCommand builds a command whose only input is a device ID and
// whose reply carries nothing worth showing.
func deviceIDCommand[T any](app *App, name, summary, report string, run func(*session.Session, devices.DeviceURN, func(result.Result[T])) error) *cli.Command {
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   "qbiq device " + name + " <device-id>",
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "device-id"); err != nil {
				return err
			}
			id := devices.DeviceURN(args[0])
			return app.withSession(func(current *session.Session) error {
				if _, err := await(func(done func(result.Result[T])) error {
					return run(current, id, done)
				}); err != nil {
					return err
				}
				fmt.Fprintf(app.Stdout, "%s %s\n", report, id)
				return nil
			})
		},
	}
}

func deviceListCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "list",
		Summary: "List your devices and devices shared with you",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(args []string) error {
			return app.withSession(func(current *session.Session) error {
				items, err := await(func(done func(result.Result[[]devices.DeviceListItem])) error {
					return app.devices.ListDevices(app.Context, current, done)
				})
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(app.Stdout, items); done {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(app.Stdout, "No devices")
					return nil
				}
				table := tabwriter.NewWriter(app.Stdout, 2, 0, 2, ' ', 0)
				fmt.Fprintln(table, "ID\tNAME\tSHARES\tLAST READING\tTEMP")
				for _, item := range items {
					last, temp := "-", "-"
					if observation := item.LastObservation; observation != nil {
						last = observation.Time().Format("2006-01-02 15:04")
						temp = fmt.Sprintf("%.1f", observation.Temp)
					}
					fmt.Fprintf(table, "%s\t%s\t%d\t%s\t%s\n", item.Device.ID, item.Device.Name, item.ShareCount, last, temp)
				}
				return table.Flush()
			})
		},
	}
}

func deviceInfoCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "info",
		Summary: "Show one or more devices",
		Usage:   "qbiq device info <device-id>... [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("info", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Usage("expected at least one <device-id>")
			}
			ids := make([]devices.DeviceURN, len(args))
			for index, arg := range args {
				ids[index] = devices.DeviceURN(arg)
			}
			return app.withSession(func(current *session.Session) error {
				found, err := app.devices.DeviceInfos(app.Context, current, ids)
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(app.Stdout, found); done {
					return err
				}
				for _, device := range found {
					printDevice(app, device)
				}
				return nil
			})
		},
	}
}

func printDevice(app *App, device devices.Device) {
	fmt.Fprintf(app.Stdout, "%s  %s\n", device.ID, device.Name)
	if device.OwnerID != nil {
		fmt.Fprintf(app.Stdout, "  owner:    %s\n", device.OwnerID)
	}
	fmt.Fprintf(app.Stdout, "  locked:   %t\n", device.Flags&devices.DeviceFlagLocked != 0)
	if device.Latitude != nil && device.Longitude != nil {
		fmt.Fprintf(app.Stdout, "  location: %.5f, %.5f\n", *device.Latitude, *device.Longitude)
	}
}

func deviceRenameCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "rename",
		Summary: "Rename a device",
		Usage:   "qbiq device rename <device-id> <name>",
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "device-id", "name"); err != nil {
				return err
			}
			id := devices.DeviceURN(args[0])
			return app.withSession(func(current *session.Session) error {
				if _, err := await(func(done func(result.Result[devices.EmptyReply])) error {
					return app.devices.RenameDevice(app.Context, current, id, args[1], done)
				}); err != nil {
					return err
				}
				fmt.Fprintf(app.Stdout, "Renamed %s to %q\n", id, args[1])
				return nil
			})
		},
	}
}

func deviceRegisterCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "register",
		Summary: "Claim a device",
		Usage:   "qbiq device register <device-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("register", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "device-id"); err != nil {
				return err
			}
			return app.withSession(func(current *session.Session) error {
				device, err := await(func(done func(result.Result[devices.Device])) error {
					return app.devices.RegisterDevice(app.Context, current, devices.DeviceURN(args[0]), done)
				})
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(app.Stdout, device); done {
					return err
				}
				printDevice(app, device)
				return nil
			})
		},
	}
}

func deviceShareCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
		Token string `flag:"token" desc:"share token from the device owner"`
	}
	return &cli.Command{
		Name:    "share",
		Summary: "Add a device someone else owns to your list",
		Usage:   "qbiq device share <device-id> [--token TOKEN]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("share", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "device-id"); err != nil {
				return err
			}
			var token *uuid.UUID
			if params.Token != "" {
				parsed, err := uuid.Parse(params.Token)
				if err != nil {
					return cli.Usage("--token: %v", err)
				}
				token = &parsed
			}
			return app.withSession(func(current *session.Session) error {
				device, err := await(func(done func(result.Result[devices.Device])) error {
					return app.devices.ShareDevice(app.Context, current, devices.DeviceURN(args[0]), token, done)
				})
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(app.Stdout, device); done {
					return err
				}
				printDevice(app, device)
				return nil
			})
		},
	}
}

func deviceShareTokenCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "share-token",
		Summary: "Issue a token that lets another user share a device",
		Usage:   "qbiq device share-token <device-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("share-token", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "device-id"); err != nil {
				return err
			}
			return app.withSession(func(current *session.Session) error {
				reply, err := await(func(done func(result.Result[devices.ShareTokenResponse])) error {
					return app.devices.ShareDeviceToken(app.Context, current, devices.DeviceURN(args[0]), done)
				})
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(app.Stdout, reply); done {
					return err
				}
				fmt.Fprintln(app.Stdout, reply.Token)
				return nil
			})
		},
	}
}

func deviceObsCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
		Interval string `flag:"interval" desc:"all, live, month or day" default:"day"`
	}
	return &cli.Command{
		Name:    "obs",
		Summary: "Show a device's observations",
		Usage:   "qbiq device obs <device-id> [--interval all|live|month|day] [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("obs", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "device-id"); err != nil {
				return err
			}
			interval, err := devices.ParseObsInterval(params.Interval)
			if err != nil {
				return cli.Usage("--interval: %v", err)
			}
			return app.withSession(func(current *session.Session) error {
				observations, err := await(func(done func(result.Result[[]devices.Observation])) error {
					return app.devices.DeviceObservations(app.Context, current, devices.DeviceURN(args[0]), interval, done)
				})
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(app.Stdout, observations); done {
					return err
				}
				table := tabwriter.NewWriter(app.Stdout, 2, 0, 2, ' ', 0)
				fmt.Fprintln(table, "TIME\tTEMP\tHUMIDITY\tLIGHT\tBATTERY")
				for _, observation := range observations {
					fmt.Fprintf(table, "%s\t%.1f\t%d\t%d\t%.2f\n",
						observation.Time().Format("2006-01-02 15:04:05"),
						observation.Temp, observation.Humidity, observation.Light, observation.Battery)
				}
				return table.Flush()
			})
		},
	}
}

func deviceFlagsCommand(app *App) *cli.Command {
	var params struct {
		Locked     bool `flag:"locked" desc:"prevent other users from registering the device"`
		Fahrenheit bool `flag:"fahrenheit" desc:"show temperatures in Fahrenheit"`
	}
	return &cli.Command{
		Name:        "flags",
		Summary:     "Replace a device's flags",
		Description: "Set the device's flag mask. Flags not given are cleared.",
		Usage:       "qbiq device flags <device-id> [--locked] [--fahrenheit]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("flags", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "device-id"); err != nil {
				return err
			}
			var flags devices.DeviceFlag
			if params.Locked {
				flags |= devices.DeviceFlagLocked
			}
			if params.Fahrenheit {
				flags |= devices.DeviceFlagFahrenheit
			}
			return app.withSession(func(current *session.Session) error {
				if _, err := await(func(done func(result.Result[devices.EmptyReply])) error {
					return app.devices.SetDeviceFlags(app.Context, current, devices.DeviceURN(args[0]), flags, done)
				}); err != nil {
					return err
				}
				fmt.Fprintf(app.Stdout, "Flags of %s set to %d\n", args[0], flags)
				return nil
			})
		},
	}
}

func deviceLimitsCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
		File string `flag:"file,f" desc:"JSONC file holding the list of limits ('-' for stdin)"`
	}
	return &cli.Command{
		Name:    "limits",
		Summary: "Replace a device's alert limits",
		Usage:   "qbiq device limits <device-id> --file limits.jsonc [flags]",
		Examples: []cli.Example{{
			Description: "Alert above 30 degrees and report every five minutes",
			Command:     `qbiq device limits urn:qbiq:00A1 -f limits.jsonc  # [{"limitType": 0, "limitValue": 30}, {"limitType": 7, "limitValue": 300},]`,
		}},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("limits", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "device-id"); err != nil {
				return err
			}
			if params.File == "" {
				return cli.Usage("--file is required")
			}
			data, err := app.readInput(params.File)
			if err != nil {
				return err
			}
			var limits []devices.DeviceLimit
			if err := json.Unmarshal(jsonc.ToJSON(data), &limits); err != nil {
				return fmt.Errorf("parsing %s: %w", params.File, err)
			}
			return app.withSession(func(current *session.Session) error {
				stored, err := await(func(done func(result.Result[devices.DeviceLimitsResponse])) error {
					return app.devices.SetDeviceLimits(app.Context, current, devices.DeviceURN(args[0]), limits, done)
				})
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(app.Stdout, stored); done {
					return err
				}
				fmt.Fprintf(app.Stdout, "%s now has %d limit(s)\n", stored.DeviceID, len(stored.Limits))
				return nil
			})
		},
	}
}

// readInput reads path, or stdin for "-".
func (app *App) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(app.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
