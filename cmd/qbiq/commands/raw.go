// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/ubiqweus/qbiq-client/cmd/qbiq/cli"
	"github.com/ubiqweus/qbiq-client/lib/apiclient"
	"github.com/ubiqweus/qbiq-client/lib/codec"
	"github.com/ubiqweus/qbiq-client/lib/form"
	"github.com/ubiqweus/qbiq-client/lib/session"
)

// parsePairs turns key=value arguments into an ordered list.
func parsePairs(args []string) (form.Parameters, error) {
	params := form.Parameters{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, cli.Usage("argument %q is not key=value", arg)
		}
		params.Add(key, value)
	}
	return params, nil
}

// orderedJSON renders params as a JSON object of strings, keeping their
// order. A repeated key is written each time.
func orderedJSON(params form.Parameters) ([]byte, error) {
	var builder strings.Builder
	builder.WriteByte('{')
	for index, pair := range params {
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		if index > 0 {
			builder.WriteByte(',')
		}
		builder.Write(key)
		builder.WriteByte(':')
		builder.Write(value)
	}
	builder.WriteByte('}')
	return []byte(builder.String()), nil
}

func rawCommand(app *App) *cli.Command {
	var params struct {
		Server   string `flag:"server" desc:"api or auth" default:"api"`
		Method   string `flag:"method,X" desc:"HTTP method" default:"GET"`
		BodyFile string `flag:"body-file,d" desc:"JSONC request body ('-' for stdin); POST only"`
		NoAuth   bool   `flag:"no-auth" desc:"send the request without the saved session"`
	}
	return &cli.Command{
		Name:    "raw",
		Summary: "Send a request to any endpoint",
		Description: `Send one request and print the reply body. GET parameters are given
as key=value arguments and sent in the query. POST bodies come from
--body-file, which may contain comments and trailing commas, or from
key=value arguments as a JSON object of strings.`,
		Usage: "qbiq raw <path> [key=value...] [flags]",
		Examples: []cli.Example{
			{Description: "Fetch the last day of observations", Command: "qbiq raw device/obs deviceId=urn:qbiq:00A1 interval=3"},
			{Description: "Call the auth server", Command: "qbiq raw --server auth api/v1/a/me"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("raw", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Usage("expected <path>")
			}
			pairs, err := parsePairs(args[1:])
			if err != nil {
				return err
			}
			method := strings.ToUpper(params.Method)
			if method != http.MethodGet && method != http.MethodPost {
				return cli.Usage("--method must be GET or POST")
			}
			if params.BodyFile != "" && method != http.MethodPost {
				return cli.Usage("--body-file needs --method POST")
			}
			if err := app.setup(); err != nil {
				return err
			}

			var client *apiclient.Client
			switch params.Server {
			case "api":
				client = app.deviceAPI
			case "auth":
				client = app.authAPI
			default:
				return cli.Usage("--server must be api or auth")
			}

			var payload apiclient.Payload = apiclient.NewParameters(pairs)
			switch {
			case params.BodyFile != "":
				data, err := app.readInput(params.BodyFile)
				if err != nil {
					return err
				}
				body := jsonc.ToJSON(data)
				if !json.Valid(body) {
					return fmt.Errorf("%s is not valid JSON", params.BodyFile)
				}
				payload = apiclient.RawParameters(string(body))
			case method == http.MethodPost:
				body, err := orderedJSON(pairs)
				if err != nil {
					return err
				}
				payload = apiclient.RawParameters(string(body))
			}

			call := apiclient.Call{
				Endpoint: apiclient.Endpoint{Path: "/" + strings.TrimLeft(args[0], "/"), Method: method},
				Params:   payload,
			}
			if !params.NoAuth {
				current, err := app.currentSession()
				if err != nil {
					return err
				}
				call.Session = current
			}

			request, err := client.Prepare(call)
			if err != nil {
				return err
			}
			body, err := client.Send(app.Context, request).Resolve()
			if err != nil {
				if call.Session != nil {
					return app.forgetIfExpired(err)
				}
				return err
			}
			return cli.WriteJSONBytes(app.Stdout, body)
		},
	}
}

func encodeCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
		Parse string `flag:"parse" desc:"decode this query string instead of encoding arguments"`
	}
	return &cli.Command{
		Name:    "encode",
		Summary: "Show how parameters are sent",
		Description: `Print the query string and JSON body that key=value arguments become
when sent to the server, or decode a query string with --parse.`,
		Usage: "qbiq encode key=value... | qbiq encode --parse QUERY",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("encode", &params)
		},
		Run: func(args []string) error {
			var pairs form.Parameters
			var err error
			if params.Parse != "" {
				if len(args) > 0 {
					return cli.Usage("--parse takes no arguments")
				}
				pairs, err = form.Parse(params.Parse)
			} else {
				pairs, err = parsePairs(args)
			}
			if err != nil {
				return err
			}

			query, err := pairs.Encode()
			if err != nil {
				return err
			}
			body, err := orderedJSON(pairs)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(app.Stdout, map[string]any{
				"query": query,
				"json":  json.RawMessage(body),
				"pairs": pairs,
			}); done {
				return err
			}
			fmt.Fprintf(app.Stdout, "query: %s\n", query)
			fmt.Fprintf(app.Stdout, "json:  %s\n", body)
			return nil
		},
	}
}

func sessionCommand(app *App) *cli.Command {
	var showParams struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "session",
		Summary: "Inspect the saved session",
		Subcommands: []*cli.Command{
			{
				Name:    "show",
				Summary: "Show where the session is stored and whose it is",
				Flags: func() *pflag.FlagSet {
					return cli.FlagsFromParams("show", &showParams)
				},
				Run: func(args []string) error {
					current, err := app.currentSession()
					if err != nil {
						return err
					}
					summary := summarize(current)
					summary.SessionFile = app.store.Path()
					if done, err := showParams.EmitJSON(app.Stdout, struct {
						accountSummary
						Sealed bool `json:"sealed"`
					}{summary, app.store.Sealed()}); done {
						return err
					}
					fmt.Fprintf(app.Stdout, "file:    %s\n", summary.SessionFile)
					fmt.Fprintf(app.Stdout, "sealed:  %t\n", app.store.Sealed())
					fmt.Fprintf(app.Stdout, "session: %s\n", summary.Fingerprint)
					if summary.Email != "" {
						fmt.Fprintf(app.Stdout, "account: %s (%s)\n", summary.Email, summary.ID)
					}
					return nil
				},
			},
			{
				Name:        "dump",
				Summary:     "Print the session file in CBOR diagnostic notation",
				Description: "Print the stored session file in CBOR diagnostic notation. The token\nis included: do not share the output.",
				Run: func(args []string) error {
					if err := app.setup(); err != nil {
						return err
					}
					data, err := app.store.ReadRaw()
					if err != nil {
						if errors.Is(err, session.ErrNoSession) {
							return fmt.Errorf("no saved session at %s", app.store.Path())
						}
						return err
					}
					notation, err := codec.Diagnose(data)
					if err != nil {
						return fmt.Errorf("session file: %w", err)
					}
					fmt.Fprintln(app.Stdout, notation)
					return nil
				},
			},
		},
	}
}
