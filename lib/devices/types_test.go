// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package devices

import (
	"testing"
	"time"

	"github.com/ubiqweus/qbiq-client/lib/form"
)

func TestObsInterval(t *testing.T) {
	for _, interval := range []ObsInterval{ObsIntervalAll, ObsIntervalLive, ObsIntervalMonth, ObsIntervalDay} {
		parsed, err := ParseObsInterval(interval.String())
		if err != nil || parsed != interval {
			t.Errorf("ParseObsInterval(%q) = %v, %v", interval.String(), parsed, err)
		}
	}
	if parsed, err := ParseObsInterval("DAY"); err != nil || parsed != ObsIntervalDay {
		t.Errorf("ParseObsInterval(%q) = %v, %v", "DAY", parsed, err)
	}
	if _, err := ParseObsInterval("week"); err == nil {
		t.Error("expected error for unknown interval")
	}
	if got := ObsInterval(9).String(); got != "ObsInterval(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestFormValues(t *testing.T) {
	params, err := form.Marshal(obsRequest{DeviceID: "urn:a b", Interval: ObsIntervalLive})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	encoded, err := params.Encode()
	if err != nil || encoded != "deviceId=urn%3Aa%20b&interval=1" {
		t.Errorf("encoded = %q, %v", encoded, err)
	}

	if _, err := form.Marshal(obsRequest{DeviceID: "urn:a", Interval: ObsInterval(-1)}); !form.IsEncodingError(err) {
		t.Errorf("invalid interval error = %v, want EncodingError", err)
	}
	if _, err := form.Marshal(deviceRequest{}); !form.IsEncodingError(err) {
		t.Errorf("empty device error = %v, want EncodingError", err)
	}

	flags, err := form.Marshal(struct {
		Flags DeviceFlag `json:"flags"`
	}{Flags: DeviceFlagLocked | DeviceFlagFahrenheit})
	if err != nil {
		t.Fatalf("Marshal flags: %v", err)
	}
	if value, _ := flags.Get("flags"); value != "3" {
		t.Errorf("flags = %q, want 3", value)
	}
}

func TestObservationTime(t *testing.T) {
	observation := Observation{ObsTime: 1700000000123}
	want := time.Date(2023, 11, 14, 22, 13, 20, 123_000_000, time.UTC)
	if got := observation.Time(); !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}
