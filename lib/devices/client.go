// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package devices is the client for the qBiq device API: the devices a
// user owns or has been shared, their observations and alert limits,
// and the groups they are organized into.
//
// Every operation needs a logged-in session. Like package auth, a
// method returns an error only when the request cannot be built (an
// empty device ID, for example); a missing session and every server or
// transport failure reach the callback.
package devices

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ubiqweus/qbiq-client/lib/apiclient"
	"github.com/ubiqweus/qbiq-client/lib/result"
	"github.com/ubiqweus/qbiq-client/lib/session"
)

// DefaultInfoConcurrency bounds the requests DeviceInfos has in flight.
const DefaultInfoConcurrency = 4

// Config holds configuration for creating a Client.
type Config struct {
	// API is the transport client, pointed at {server}/{APIVersion}.
	// Required.
	API *apiclient.Client

	// InfoConcurrency overrides DefaultInfoConcurrency.
	InfoConcurrency int

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the device API. Safe for concurrent use.
type Client struct {
	api             *apiclient.Client
	infoConcurrency int
	logger          *slog.Logger
}

// NewClient creates a device client from the given configuration.
func NewClient(config Config) (*Client, error) {
	if config.API == nil {
		return nil, errors.New("devices: API client is required")
	}
	concurrency := config.InfoConcurrency
	if concurrency <= 0 {
		concurrency = DefaultInfoConcurrency
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: config.API, infoConcurrency: concurrency, logger: logger}, nil
}

// ListDevices returns every device the user owns or has been shared.
func (client *Client) ListDevices(ctx context.Context, current *session.Session, callback func(result.Result[[]DeviceListItem])) error {
	return send(ctx, client, current, endpointDeviceList, nil, callback)
}

// RenameDevice changes a device's display name.
func (client *Client) RenameDevice(ctx context.Context, current *session.Session, deviceID DeviceURN, name string, callback func(result.Result[EmptyReply])) error {
	if err := deviceID.Validate(); err != nil {
		return err
	}
	return send(ctx, client, current, endpointDeviceUpdate,
		apiclient.NewParameters(updateRequest{DeviceID: deviceID, Name: &name}), callback)
}

// SetDeviceFlags replaces a device's flag mask.
func (client *Client) SetDeviceFlags(ctx context.Context, current *session.Session, deviceID DeviceURN, flags DeviceFlag, callback func(result.Result[EmptyReply])) error {
	if err := deviceID.Validate(); err != nil {
		return err
	}
	return send(ctx, client, current, endpointDeviceUpdate,
		apiclient.NewParameters(updateRequest{DeviceID: deviceID, Flags: &flags}), callback)
}

// RegisterDevice claims a device for the user.
func (client *Client) RegisterDevice(ctx context.Context, current *session.Session, deviceID DeviceURN, callback func(result.Result[Device])) error {
	return sendDevice(ctx, client, current, endpointDeviceRegister, deviceID, callback)
}

// UnregisterDevice releases a device the user owns.
func (client *Client) UnregisterDevice(ctx context.Context, current *session.Session, deviceID DeviceURN, callback func(result.Result[EmptyReply])) error {
	return sendDevice(ctx, client, current, endpointDeviceUnregister, deviceID, callback)
}

// ShareDevice adds a device owned by someone else to the user's list.
// token is the share token the owner obtained with ShareDeviceToken;
// nil works only for devices that are not locked.
func (client *Client) ShareDevice(ctx context.Context, current *session.Session, deviceID DeviceURN, token *uuid.UUID, callback func(result.Result[Device])) error {
	if err := deviceID.Validate(); err != nil {
		return err
	}
	return send(ctx, client, current, endpointDeviceShare,
		apiclient.NewParameters(shareRequest{DeviceID: deviceID, Token: token}), callback)
}

// UnshareDevice removes a shared device from the user's list.
func (client *Client) UnshareDevice(ctx context.Context, current *session.Session, deviceID DeviceURN, callback func(result.Result[EmptyReply])) error {
	return sendDevice(ctx, client, current, endpointDeviceUnshare, deviceID, callback)
}

// ShareDeviceToken issues a token another user can pass to ShareDevice.
func (client *Client) ShareDeviceToken(ctx context.Context, current *session.Session, deviceID DeviceURN, callback func(result.Result[ShareTokenResponse])) error {
	return sendDevice(ctx, client, current, endpointDeviceShareToken, deviceID, callback)
}

// DeviceInfo fetches one device.
func (client *Client) DeviceInfo(ctx context.Context, current *session.Session, deviceID DeviceURN, callback func(result.Result[Device])) error {
	return sendDevice(ctx, client, current, endpointDeviceInfo, deviceID, callback)
}

// DeviceObservations fetches the device's readings for interval.
func (client *Client) DeviceObservations(ctx context.Context, current *session.Session, deviceID DeviceURN, interval ObsInterval, callback func(result.Result[[]Observation])) error {
	if err := deviceID.Validate(); err != nil {
		return err
	}
	return send(ctx, client, current, endpointDeviceObs,
		apiclient.NewParameters(obsRequest{DeviceID: deviceID, Interval: interval}), callback)
}

// DeleteObservations removes every stored reading for the device.
func (client *Client) DeleteObservations(ctx context.Context, current *session.Session, deviceID DeviceURN, callback func(result.Result[[]EmptyReply])) error {
	return sendDevice(ctx, client, current, endpointDeviceObsDelete, deviceID, callback)
}

// SetDeviceLimits replaces the device's limits and returns what the
// server stored.
func (client *Client) SetDeviceLimits(ctx context.Context, current *session.Session, deviceID DeviceURN, limits []DeviceLimit, callback func(result.Result[DeviceLimitsResponse])) error {
	if err := deviceID.Validate(); err != nil {
		return err
	}
	if limits == nil {
		limits = []DeviceLimit{}
	}
	return send(ctx, client, current, endpointDeviceLimits,
		apiclient.NewParameters(limitsRequest{DeviceID: deviceID, Limits: limits}), callback)
}

// DeviceInfos fetches several devices concurrently and returns them in
// the order of ids. The first failure cancels the rest and is returned.
func (client *Client) DeviceInfos(ctx context.Context, current *session.Session, ids []DeviceURN) ([]Device, error) {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
	}
	if err := session.Require(current); err != nil {
		return nil, err
	}

	found := make([]Device, len(ids))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(client.infoConcurrency)
	for index, id := range ids {
		group.Go(func() error {
			device, err := apiclient.Await(func(done func(result.Result[Device])) error {
				return client.DeviceInfo(groupCtx, current, id, done)
			}).Resolve()
			if err != nil {
				client.logger.Debug("device info failed", "device", string(id), "error", err)
				return err
			}
			found[index] = device
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

// ListGroups returns the user's device groups.
func (client *Client) ListGroups(ctx context.Context, current *session.Session, callback func(result.Result[[]Group])) error {
	return send(ctx, client, current, endpointGroupList, nil, callback)
}

// GroupDevices returns the devices in a group.
func (client *Client) GroupDevices(ctx context.Context, current *session.Session, groupID uuid.UUID, callback func(result.Result[[]Device])) error {
	return send(ctx, client, current, endpointGroupDeviceList,
		apiclient.NewParameters(groupRequest{GroupID: groupID}), callback)
}

// CreateGroup creates an empty group.
func (client *Client) CreateGroup(ctx context.Context, current *session.Session, name string, callback func(result.Result[Group])) error {
	return send(ctx, client, current, endpointGroupCreate,
		apiclient.NewParameters(groupCreateRequest{Name: name}), callback)
}

// RenameGroup changes a group's name.
func (client *Client) RenameGroup(ctx context.Context, current *session.Session, groupID uuid.UUID, name string, callback func(result.Result[EmptyReply])) error {
	return send(ctx, client, current, endpointGroupUpdate,
		apiclient.NewParameters(groupUpdateRequest{GroupID: groupID, Name: name}), callback)
}

// DeleteGroup deletes a group. Its devices are not affected.
func (client *Client) DeleteGroup(ctx context.Context, current *session.Session, groupID uuid.UUID, callback func(result.Result[EmptyReply])) error {
	return send(ctx, client, current, endpointGroupDelete,
		apiclient.NewParameters(groupRequest{GroupID: groupID}), callback)
}

// AddGroupDevice puts a device in a group.
func (client *Client) AddGroupDevice(ctx context.Context, current *session.Session, groupID uuid.UUID, deviceID DeviceURN, callback func(result.Result[EmptyReply])) error {
	return client.withGroupDevice(ctx, current, endpointGroupDeviceAdd, groupID, deviceID, callback)
}

// RemoveGroupDevice takes a device out of a group.
func (client *Client) RemoveGroupDevice(ctx context.Context, current *session.Session, groupID uuid.UUID, deviceID DeviceURN, callback func(result.Result[EmptyReply])) error {
	return client.withGroupDevice(ctx, current, endpointGroupDeviceRemove, groupID, deviceID, callback)
}

func (client *Client) withGroupDevice(ctx context.Context, current *session.Session, endpoint apiclient.Endpoint, groupID uuid.UUID, deviceID DeviceURN, callback func(result.Result[EmptyReply])) error {
	if err := deviceID.Validate(); err != nil {
		return err
	}
	return send(ctx, client, current, endpoint,
		apiclient.NewParameters(groupDeviceRequest{GroupID: groupID, DeviceID: deviceID}), callback)
}

// sendDevice sends the bodies that carry nothing but a device ID.
func sendDevice[T any](ctx context.Context, client *Client, current *session.Session, endpoint apiclient.Endpoint, deviceID DeviceURN, callback func(result.Result[T])) error {
	if err := deviceID.Validate(); err != nil {
		return err
	}
	return send(ctx, client, current, endpoint, apiclient.NewParameters(deviceRequest{DeviceID: deviceID}), callback)
}

// send checks for a session and dispatches. A missing session fails
// through the callback, on another goroutine.
func send[T any](ctx context.Context, client *Client, current *session.Session, endpoint apiclient.Endpoint, params apiclient.Payload, callback func(result.Result[T])) error {
	if err := session.Require(current); err != nil {
		go callback(result.Fail[T](err))
		return nil
	}
	return apiclient.Go(ctx, client.api, apiclient.Call{
		Endpoint: endpoint,
		Session:  current,
		Params:   params,
	}, callback)
}
