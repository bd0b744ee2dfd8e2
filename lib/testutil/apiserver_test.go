// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestAPIServer(t *testing.T) {
	fake := NewAPIServer(t)
	fake.Reply("GET /v1/device/list", `[]`)
	fake.ReplyStatus("POST /v1/device/register", http.StatusConflict, `{"status":409,"description":"taken"}`)

	response, err := http.Get(fake.URL + "/v1/device/list?x=1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(response.Body)
	response.Body.Close()
	if response.StatusCode != http.StatusOK || string(body) != "[]" {
		t.Errorf("got %d %q", response.StatusCode, body)
	}

	response, err = http.Post(fake.URL+"/v1/device/register", "application/json", strings.NewReader(`{"deviceId":"d"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusConflict {
		t.Errorf("status = %d", response.StatusCode)
	}

	response, err = http.Get(fake.URL + "/v1/unknown")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusNotFound {
		t.Errorf("unregistered route status = %d", response.StatusCode)
	}

	if got := fake.Last(t, "GET /v1/device/list").Query; got != "x=1" {
		t.Errorf("query = %q", got)
	}
	if got := fake.Last(t, "POST /v1/device/register"); got.Body != `{"deviceId":"d"}` || got.ContentType != "application/json" {
		t.Errorf("got %+v", got)
	}
	if fake.Count("GET /v1/device/list") != 1 || len(fake.Requests()) != 3 {
		t.Errorf("requests = %+v", fake.Requests())
	}
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 5
	if got := RequireReceive(t, ch, DefaultTimeout, "value"); got != 5 {
		t.Errorf("got %d", got)
	}
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		args []any
		want string
	}{
		{args: nil, want: "(no message)"},
		{args: []any{"plain"}, want: "plain"},
		{args: []any{"device %s #%d", "d", 2}, want: "device d #2"},
		{args: []any{42}, want: "42"},
	}
	for _, test := range tests {
		if got := formatMessage(test.args); got != test.want {
			t.Errorf("formatMessage(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
