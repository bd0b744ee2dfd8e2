// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/ubiqweus/qbiq-client/cmd/qbiq/cli"
	"github.com/ubiqweus/qbiq-client/lib/result"
	"github.com/ubiqweus/qbiq-client/lib/session"
)

// PasswordSource is embedded by commands that read a password.
type PasswordSource struct {
	PasswordFile string `flag:"password-file" desc:"read the password from this file instead of prompting"`
}

type accountSummary struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"email,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	Fingerprint string `json:"session"`
	SessionFile string `json:"sessionFile,omitempty"`
}

func summarize(current *session.Session) accountSummary {
	summary := accountSummary{ID: current.UserID(), Fingerprint: current.Fingerprint()}
	if account := current.Account; account != nil {
		summary.Email = account.Email
		if account.Meta != nil {
			summary.FullName = account.Meta.FullName
		}
	}
	return summary
}

// establish saves a newly issued session, fetching its account first if
// the server did not include it.
func (app *App) establish(issued *session.Session) (*session.Session, error) {
	if issued.Account == nil {
		account, err := await(func(done func(result.Result[*session.Account])) error {
			return app.auth.Me(app.Context, issued, done)
		})
		if err != nil {
			app.logger.Warn("fetching account after login failed", "error", err)
		} else {
			issued = issued.WithAccount(account)
		}
	}
	if err := app.store.Save(issued); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return issued, nil
}

func loginCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
		PasswordSource
	}
	return &cli.Command{
		Name:    "login",
		Summary: "Log in and save the session",
		Usage:   "qbiq login <email> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("login", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "email"); err != nil {
				return err
			}
			if err := app.setup(); err != nil {
				return err
			}
			password, err := cli.ReadSecret(params.PasswordFile, "Password: ", app.Password)
			if err != nil {
				return err
			}
			issued, err := await(func(done func(result.Result[*session.Session])) error {
				return app.auth.Login(app.Context, args[0], password, done)
			})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			saved, err := app.establish(issued)
			if err != nil {
				return err
			}

			summary := summarize(saved)
			summary.SessionFile = app.store.Path()
			if done, err := params.EmitJSON(app.Stdout, summary); done {
				return err
			}
			fmt.Fprintf(app.Stdout, "Logged in as %s\n", args[0])
			fmt.Fprintf(app.Stdout, "Session saved to %s\n", app.store.Path())
			return nil
		},
	}
}

func logoutCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "logout",
		Summary: "Forget the saved session",
		Run: func(args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			if err := app.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(app.Stdout, "Logged out")
			return nil
		},
	}
}

func whoamiCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:        "whoami",
		Summary:     "Show the logged-in account",
		Description: "Fetch the account behind the saved session. A session the server\nrejects is removed.",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("whoami", &params)
		},
		Run: func(args []string) error {
			current, err := app.currentSession()
			if err != nil {
				return err
			}
			account, err := await(func(done func(result.Result[*session.Account])) error {
				return app.auth.Me(app.Context, current, done)
			})
			if err != nil {
				return app.forgetIfExpired(err)
			}
			current = current.WithAccount(account)
			if err := app.store.Save(current); err != nil {
				return err
			}

			summary := summarize(current)
			if done, err := params.EmitJSON(app.Stdout, summary); done {
				return err
			}
			fmt.Fprintf(app.Stdout, "%s (%s)\n", summary.Email, summary.ID)
			if summary.FullName != "" {
				fmt.Fprintf(app.Stdout, "Name: %s\n", summary.FullName)
			}
			fmt.Fprintf(app.Stdout, "Session: %s\n", summary.Fingerprint)
			return nil
		},
	}
}

func registerCommand(app *App) *cli.Command {
	var params struct {
		cli.JSONOutput
		PasswordSource
		FullName string `flag:"name" desc:"full name for the account"`
	}
	return &cli.Command{
		Name:    "register",
		Summary: "Create an account",
		Usage:   "qbiq register <email> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("register", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, "email"); err != nil {
				return err
			}
			if err := app.setup(); err != nil {
				return err
			}
			password, err := cli.ReadSecret(params.PasswordFile, "New password: ", app.Password)
			if err != nil {
				return err
			}
			brief, err := await(func(done func(result.Result[session.AliasBrief])) error {
				return app.auth.Register(app.Context, args[0], password, params.FullName, done)
			})
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			if done, err := params.EmitJSON(app.Stdout, brief); done {
				return err
			}
			fmt.Fprintf(app.Stdout, "Registered %s (account %s)\n", brief.Address, brief.Account)
			fmt.Fprintln(app.Stdout, "Run 'qbiq login' to start a session.")
			return nil
		},
	}
}

func passwordCommand(app *App) *cli.Command {
	var completeParams struct {
		PasswordSource
		Token string `flag:"token" desc:"reset code from the reset email"`
	}
	var changeParams PasswordSource

	return &cli.Command{
		Name:    "password",
		Summary: "Reset or change the account password",
		Subcommands: []*cli.Command{
			{
				Name:    "reset",
				Summary: "Email a reset code",
				Usage:   "qbiq password reset <email>",
				Run: func(args []string) error {
					if err := cli.RequireArgs(args, "email"); err != nil {
						return err
					}
					if err := app.setup(); err != nil {
						return err
					}
					if _, err := await(func(done func(result.Result[struct{}])) error {
						return app.auth.StartPasswordReset(app.Context, args[0], done)
					}); err != nil {
						return fmt.Errorf("password reset: %w", err)
					}
					fmt.Fprintf(app.Stdout, "Reset code sent to %s\n", args[0])
					return nil
				},
			},
			{
				Name:    "complete",
				Summary: "Set a new password with a reset code and log in",
				Usage:   "qbiq password complete <email> --token CODE [flags]",
				Flags: func() *pflag.FlagSet {
					return cli.FlagsFromParams("complete", &completeParams)
				},
				Run: func(args []string) error {
					if err := cli.RequireArgs(args, "email"); err != nil {
						return err
					}
					if completeParams.Token == "" {
						return cli.Usage("--token is required")
					}
					if err := app.setup(); err != nil {
						return err
					}
					password, err := cli.ReadSecret(completeParams.PasswordFile, "New password: ", app.Password)
					if err != nil {
						return err
					}
					issued, err := await(func(done func(result.Result[*session.Session])) error {
						return app.auth.CompletePasswordReset(app.Context, args[0], password, completeParams.Token, done)
					})
					if err != nil {
						return fmt.Errorf("password reset: %w", err)
					}
					if _, err := app.establish(issued); err != nil {
						return err
					}
					fmt.Fprintf(app.Stdout, "Password changed; logged in as %s\n", args[0])
					return nil
				},
			},
			{
				Name:    "change",
				Summary: "Change the logged-in account's password",
				Flags: func() *pflag.FlagSet {
					return cli.FlagsFromParams("change", &changeParams)
				},
				Run: func(args []string) error {
					current, err := app.currentSession()
					if err != nil {
						return err
					}
					password, err := cli.ReadSecret(changeParams.PasswordFile, "New password: ", app.Password)
					if err != nil {
						return err
					}
					if _, err := await(func(done func(result.Result[struct{}])) error {
						return app.auth.ChangePassword(app.Context, current, password, done)
					}); err != nil {
						return app.forgetIfExpired(err)
					}
					fmt.Fprintln(app.Stdout, "Password changed")
					return nil
				},
			},
		},
	}
}

func metaCommand(app *App) *cli.Command {
	var getParams struct {
		cli.JSONOutput
	}
	var setParams struct {
		FullName string `flag:"name" desc:"full name"`
	}

	return &cli.Command{
		Name:    "meta",
		Summary: "Read or update account metadata",
		Subcommands: []*cli.Command{
			{
				Name:    "get",
				Summary: "Show account metadata",
				Flags: func() *pflag.FlagSet {
					return cli.FlagsFromParams("get", &getParams)
				},
				Run: func(args []string) error {
					current, err := app.currentSession()
					if err != nil {
						return err
					}
					meta, err := await(func(done func(result.Result[session.AccountPublicMeta])) error {
						return app.auth.GetMeta(app.Context, current, done)
					})
					if err != nil {
						return app.forgetIfExpired(err)
					}
					if done, err := getParams.EmitJSON(app.Stdout, meta); done {
						return err
					}
					fmt.Fprintf(app.Stdout, "Name: %s\n", meta.FullName)
					return nil
				},
			},
			{
				Name:    "set",
				Summary: "Replace account metadata",
				Usage:   "qbiq meta set --name NAME",
				Flags: func() *pflag.FlagSet {
					return cli.FlagsFromParams("set", &setParams)
				},
				Run: func(args []string) error {
					current, err := app.currentSession()
					if err != nil {
						return err
					}
					meta := session.AccountPublicMeta{FullName: setParams.FullName}
					if _, err := await(func(done func(result.Result[struct{}])) error {
						return app.auth.PutMeta(app.Context, current, meta, done)
					}); err != nil {
						return app.forgetIfExpired(err)
					}
					fmt.Fprintln(app.Stdout, "Metadata updated")
					return nil
				},
			},
		},
	}
}
