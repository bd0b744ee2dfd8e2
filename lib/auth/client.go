// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth is the client for the qBiq auth server: account login and
// registration, password reset, account metadata, push device
// registration, and the server half of OAuth login.
//
// Operations follow the apiclient callback convention. A method returns
// an error only when the request could not be built; everything that
// happens after that, including "not logged in", reaches the callback
// as a failed Result, on another goroutine. Use apiclient.Await to call
// them synchronously.
//
// Operations that establish a session (Login, CompletePasswordReset,
// UpgradeOAuth) return it rather than storing it. When the client is
// configured with a push device ID, each of them also registers that
// device with the account in the background; Wait blocks until those
// registrations finish.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ubiqweus/qbiq-client/lib/apiclient"
	"github.com/ubiqweus/qbiq-client/lib/result"
	"github.com/ubiqweus/qbiq-client/lib/session"
)

// DefaultDeviceType is reported with push device registrations.
const DefaultDeviceType = "ios"

// ErrNoToken is the failure for a login-type response that decoded but
// carried no token.
var ErrNoToken = errors.New("auth: server response contained no token")

// Config holds configuration for creating a Client.
type Config struct {
	// API is the transport client, pointed at the auth server. Required.
	API *apiclient.Client

	// PushDeviceID is this installation's push notification ID. When
	// set, it is registered with the account after every successful
	// login and sent with password reset requests.
	PushDeviceID string

	// DeviceType accompanies PushDeviceID. Defaults to DefaultDeviceType.
	DeviceType string

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the auth server. Safe for concurrent use.
type Client struct {
	api          *apiclient.Client
	pushDeviceID string
	deviceType   string
	logger       *slog.Logger

	background sync.WaitGroup
}

// NewClient creates an auth client from the given configuration.
func NewClient(config Config) (*Client, error) {
	if config.API == nil {
		return nil, errors.New("auth: API client is required")
	}
	deviceType := config.DeviceType
	if deviceType == "" {
		deviceType = DefaultDeviceType
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:          config.API,
		pushDeviceID: config.PushDeviceID,
		deviceType:   deviceType,
		logger:       logger,
	}, nil
}

// Wait blocks until background push device registrations started by
// this client have finished.
func (client *Client) Wait() {
	client.background.Wait()
}

// Login authenticates with email and password. The server expects the
// credentials as query parameters on a GET.
func (client *Client) Login(ctx context.Context, email, password string, callback func(result.Result[*session.Session])) error {
	return client.acquire(ctx, apiclient.Call{
		Endpoint: endpointLogin,
		Params:   apiclient.NewParameters(loginRequest{Email: email, Password: password}),
	}, callback)
}

// Register creates an account. It does not log in.
func (client *Client) Register(ctx context.Context, email, password, fullName string, callback func(result.Result[session.AliasBrief])) error {
	return apiclient.Go(ctx, client.api, apiclient.Call{
		Endpoint: endpointRegister,
		Params:   apiclient.NewParameters(registerRequest{Email: email, Password: password, FullName: fullName}),
	}, callback)
}

// Me fetches the account that current belongs to.
func (client *Client) Me(ctx context.Context, current *session.Session, callback func(result.Result[*session.Account])) error {
	if err := session.Require(current); err != nil {
		failLater(callback, err)
		return nil
	}
	return apiclient.Go(ctx, client.api, apiclient.Call{
		Endpoint: endpointMe,
		Session:  current,
	}, func(outcome result.Result[session.Account]) {
		callback(result.Map(outcome, func(account session.Account) *session.Account { return &account }))
	})
}

// CheckLoggedIn reports whether current is a usable session. A session
// that already carries its account is trusted without a request; a
// token-only session (restored from disk) is checked with Me. Failures
// of that check, of any kind, report false.
func (client *Client) CheckLoggedIn(ctx context.Context, current *session.Session, callback func(result.Result[bool])) error {
	switch {
	case !current.Authenticated():
		go callback(result.Ok(false))
		return nil
	case current.Account != nil:
		go callback(result.Ok(true))
		return nil
	}
	return client.Me(ctx, current, func(outcome result.Result[*session.Account]) {
		callback(result.Ok(outcome.OK()))
	})
}

// StartPasswordReset asks the server to send a reset code to address.
func (client *Client) StartPasswordReset(ctx context.Context, address string, callback func(result.Result[struct{}])) error {
	request := passwordResetRequest{Address: address}
	if client.pushDeviceID != "" {
		request.DeviceID = &client.pushDeviceID
	}
	return client.api.Dispatch(ctx, apiclient.Call{
		Endpoint: endpointStartPasswordReset,
		Params:   apiclient.NewParameters(request),
	}, discard(callback))
}

// CompletePasswordReset sets a new password using the code from
// StartPasswordReset and logs in.
func (client *Client) CompletePasswordReset(ctx context.Context, address, password, resetToken string, callback func(result.Result[*session.Session])) error {
	return client.acquire(ctx, apiclient.Call{
		Endpoint: endpointCompletePasswordReset,
		Params: apiclient.NewParameters(passwordResetCompleteRequest{
			Address:   address,
			Password:  password,
			AuthToken: resetToken,
		}),
	}, callback)
}

// ChangePassword sets a new password for the logged-in account.
func (client *Client) ChangePassword(ctx context.Context, current *session.Session, newPassword string, callback func(result.Result[struct{}])) error {
	if err := session.Require(current); err != nil {
		failLater(callback, err)
		return nil
	}
	return client.api.Dispatch(ctx, apiclient.Call{
		Endpoint: endpointChangePassword,
		Session:  current,
		Params:   apiclient.NewParameters(changePasswordRequest{Password: newPassword}),
	}, discard(callback))
}

// GetMeta fetches the account's public metadata.
func (client *Client) GetMeta(ctx context.Context, current *session.Session, callback func(result.Result[session.AccountPublicMeta])) error {
	if err := session.Require(current); err != nil {
		failLater(callback, err)
		return nil
	}
	return apiclient.Go(ctx, client.api, apiclient.Call{
		Endpoint: endpointGetMeta,
		Session:  current,
	}, callback)
}

// PutMeta replaces the account's public metadata. The reply must be
// JSON but its content is not interpreted.
func (client *Client) PutMeta(ctx context.Context, current *session.Session, meta session.AccountPublicMeta, callback func(result.Result[struct{}])) error {
	if err := session.Require(current); err != nil {
		failLater(callback, err)
		return nil
	}
	return client.api.Dispatch(ctx, apiclient.Call{
		Endpoint: endpointPutMeta,
		Session:  current,
		Params:   apiclient.NewParameters(meta),
	}, func(body result.Result[[]byte]) {
		callback(apiclient.Decode(body, requireJSON))
	})
}

// AddDeviceID registers a push notification device with the account.
func (client *Client) AddDeviceID(ctx context.Context, current *session.Session, deviceID string, callback func(result.Result[struct{}])) error {
	if err := session.Require(current); err != nil {
		failLater(callback, err)
		return nil
	}
	return client.api.Dispatch(ctx, client.addDeviceIDCall(current, deviceID), discard(callback))
}

func (client *Client) addDeviceIDCall(current *session.Session, deviceID string) apiclient.Call {
	return apiclient.Call{
		Endpoint: endpointAddDeviceID,
		Session:  current,
		Params:   apiclient.NewParameters(addMobileDeviceRequest{DeviceID: deviceID, DeviceType: client.deviceType}),
	}
}

// UpgradeOAuth exchanges a token from a completed OAuth provider flow
// ("google", "facebook", "linkedin") for a qBiq session. current may be
// nil; when set, the provider login is linked to that account.
func (client *Client) UpgradeOAuth(ctx context.Context, current *session.Session, provider, providerToken string, callback func(result.Result[*session.Session])) error {
	if provider == "" || providerToken == "" {
		return errors.New("auth: OAuth upgrade needs a provider and a token")
	}
	return client.acquire(ctx, apiclient.Call{
		Endpoint: endpointOAuthUpgrade,
		Session:  current,
		Params:   apiclient.NewParameters(struct{}{}, provider, providerToken),
	}, callback)
}

// acquire dispatches a call whose reply is a token-acquired response
// and, on success, starts the push device registration.
func (client *Client) acquire(ctx context.Context, call apiclient.Call, callback func(result.Result[*session.Session])) error {
	return apiclient.Go(ctx, client.api, call, func(outcome result.Result[session.Session]) {
		acquired := result.Then(outcome, func(issued session.Session) (*session.Session, error) {
			if issued.Token == "" {
				return nil, ErrNoToken
			}
			return &issued, nil
		})
		if issued, err := acquired.Resolve(); err == nil {
			client.registerPushDevice(ctx, issued)
		}
		callback(acquired)
	})
}

// registerPushDevice sends the configured push device ID in the
// background. The outcome is only logged: a failed registration does
// not invalidate the login.
func (client *Client) registerPushDevice(ctx context.Context, issued *session.Session) {
	if client.pushDeviceID == "" {
		return
	}
	client.background.Add(1)
	go func() {
		defer client.background.Done()
		call := client.addDeviceIDCall(issued, client.pushDeviceID)
		err := apiclient.Fetch[json.RawMessage](context.WithoutCancel(ctx), client.api, call).Err()
		if err != nil {
			client.logger.Warn("push device registration failed",
				"session", issued.Fingerprint(),
				"error", err,
			)
			return
		}
		client.logger.Debug("push device registered", "session", issued.Fingerprint())
	}()
}

// discard adapts a callback that only cares about success to the raw
// body callback.
func discard(callback func(result.Result[struct{}])) func(result.Result[[]byte]) {
	return func(body result.Result[[]byte]) {
		callback(result.Discard(body))
	}
}

func requireJSON(body []byte) (struct{}, error) {
	if !json.Valid(body) {
		return struct{}{}, fmt.Errorf("auth: reply is not JSON: %q", truncate(body, 64))
	}
	return struct{}{}, nil
}

func truncate(body []byte, limit int) []byte {
	if len(body) <= limit {
		return body
	}
	return body[:limit]
}

// failLater delivers err to callback on a new goroutine, so callers see
// the same asynchronous delivery whether or not a request was sent.
func failLater[T any](callback func(result.Result[T]), err error) {
	go callback(result.Fail[T](err))
}
