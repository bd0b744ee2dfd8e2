// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package devices

import (
	"github.com/google/uuid"

	"github.com/ubiqweus/qbiq-client/lib/form"
)

// Request bodies. GET bodies travel in the query and implement
// form.Encoder; POST bodies travel as JSON.

type deviceRequest struct {
	DeviceID DeviceURN `json:"deviceId"`
}

func (request deviceRequest) EncodeForm(fields *form.Fields) error {
	fields.Value("deviceId", request.DeviceID)
	return nil
}

type updateRequest struct {
	DeviceID DeviceURN   `json:"deviceId"`
	Name     *string     `json:"name,omitempty"`
	Flags    *DeviceFlag `json:"flags,omitempty"`
}

type shareRequest struct {
	DeviceID DeviceURN  `json:"deviceId"`
	Token    *uuid.UUID `json:"token,omitempty"`
}

type obsRequest struct {
	DeviceID DeviceURN   `json:"deviceId"`
	Interval ObsInterval `json:"interval"`
}

func (request obsRequest) EncodeForm(fields *form.Fields) error {
	fields.Value("deviceId", request.DeviceID)
	fields.Value("interval", request.Interval)
	return nil
}

type limitsRequest struct {
	DeviceID DeviceURN     `json:"deviceId"`
	Limits   []DeviceLimit `json:"limits"`
}

type groupRequest struct {
	GroupID uuid.UUID `json:"groupId"`
}

func (request groupRequest) EncodeForm(fields *form.Fields) error {
	fields.Value("groupId", request.GroupID)
	return nil
}

type groupCreateRequest struct {
	Name string `json:"name"`
}

type groupUpdateRequest struct {
	GroupID uuid.UUID `json:"groupId"`
	Name    string    `json:"name"`
}

type groupDeviceRequest struct {
	GroupID  uuid.UUID `json:"groupId"`
	DeviceID DeviceURN `json:"deviceId"`
}
