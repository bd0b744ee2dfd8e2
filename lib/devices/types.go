// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package devices

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ubiqweus/qbiq-client/lib/form"
)

// DeviceURN identifies a qBiq device. The server calls it the bixid.
type DeviceURN string

// Validate rejects the empty URN.
func (urn DeviceURN) Validate() error {
	if strings.TrimSpace(string(urn)) == "" {
		return errors.New("devices: device id is empty")
	}
	return nil
}

// MarshalFormValue writes the URN as a single query value.
func (urn DeviceURN) MarshalFormValue(writer *form.ValueWriter) error {
	if err := urn.Validate(); err != nil {
		return err
	}
	writer.String(string(urn))
	return nil
}

// DeviceFlag is the device state bitmask.
type DeviceFlag uint

const (
	// DeviceFlagLocked prevents other users from registering the device.
	DeviceFlagLocked DeviceFlag = 1 << iota
	// DeviceFlagFahrenheit shows temperatures in Fahrenheit.
	DeviceFlagFahrenheit
)

// MarshalFormValue writes the mask as a base-10 integer.
func (flag DeviceFlag) MarshalFormValue(writer *form.ValueWriter) error {
	writer.Uint(uint64(flag))
	return nil
}

// ObsInterval selects the window of observations to fetch.
type ObsInterval int

const (
	ObsIntervalAll ObsInterval = iota
	ObsIntervalLive
	ObsIntervalMonth
	ObsIntervalDay
)

var obsIntervalNames = []string{"all", "live", "month", "day"}

func (interval ObsInterval) String() string {
	if interval >= 0 && int(interval) < len(obsIntervalNames) {
		return obsIntervalNames[interval]
	}
	return "ObsInterval(" + strconv.Itoa(int(interval)) + ")"
}

// ParseObsInterval accepts an interval name ("all", "live", "month",
// "day").
func ParseObsInterval(name string) (ObsInterval, error) {
	for index, candidate := range obsIntervalNames {
		if strings.EqualFold(name, candidate) {
			return ObsInterval(index), nil
		}
	}
	return 0, fmt.Errorf("devices: unknown observation interval %q (want one of %s)",
		name, strings.Join(obsIntervalNames, ", "))
}

// MarshalFormValue writes the interval as the server's integer code.
// Out-of-range values are rejected rather than sent.
func (interval ObsInterval) MarshalFormValue(writer *form.ValueWriter) error {
	if interval < 0 || int(interval) >= len(obsIntervalNames) {
		return fmt.Errorf("devices: invalid observation interval %d", int(interval))
	}
	writer.Int(int64(interval))
	return nil
}

// Device is a registered qBiq sensor.
type Device struct {
	ID        DeviceURN  `json:"id"`
	Name      string     `json:"name"`
	OwnerID   *uuid.UUID `json:"ownerId,omitempty"`
	Flags     DeviceFlag `json:"flags,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
}

// DeviceListItem is one entry of the device list: the device plus what
// the server knows about it for this user.
type DeviceListItem struct {
	Device          Device        `json:"device"`
	ShareCount      int           `json:"shareCount,omitempty"`
	LastObservation *Observation  `json:"lastObservation,omitempty"`
	Limits          []DeviceLimit `json:"limits,omitempty"`
}

// Observation is one sensor reading.
type Observation struct {
	ID       int64     `json:"id"`
	DeviceID DeviceURN `json:"bixid"`
	ObsTime  float64   `json:"obstime"`
	Charging int       `json:"charging"`
	Firmware string    `json:"firmware"`
	Battery  float64   `json:"battery"`
	Temp     float64   `json:"temp"`
	Light    int       `json:"light"`
	Humidity int       `json:"humidity"`
	XAcc     int       `json:"xacc"`
	YAcc     int       `json:"yacc"`
	ZAcc     int       `json:"zacc"`
}

// Time returns the observation time. ObsTime is milliseconds since the
// Unix epoch.
func (observation Observation) Time() time.Time {
	return time.UnixMilli(int64(observation.ObsTime)).UTC()
}

// DeviceLimitType names what a DeviceLimit constrains.
type DeviceLimitType uint8

const (
	LimitTempHigh DeviceLimitType = iota
	LimitTempLow
	LimitMovementLevel
	LimitBatteryLevel
	LimitNotifications
	LimitTempScale
	LimitColour
	LimitInterval
	LimitReportFormat
	LimitReportBufferCapacity
)

// DeviceLimit is one alert threshold or device setting.
type DeviceLimit struct {
	Type        DeviceLimitType `json:"limitType"`
	Value       float64         `json:"limitValue"`
	ValueString *string         `json:"limitValueString,omitempty"`
}

// DeviceLimitsResponse is the server's view of a device's limits after
// an update.
type DeviceLimitsResponse struct {
	DeviceID DeviceURN     `json:"deviceId"`
	Limits   []DeviceLimit `json:"limits"`
}

// Group is a named set of devices.
type Group struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"ownerId"`
	Name    string    `json:"name"`
}

// ShareTokenResponse carries a token another user can redeem with
// ShareDevice to gain access to a device.
type ShareTokenResponse struct {
	Token uuid.UUID `json:"token"`
}

// EmptyReply is the "{}" the server sends when an operation has nothing
// to report.
type EmptyReply struct{}
