// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"device", "device", 0},
		{"devcie", "device", 2},
		{"grup", "group", 1},
		{"kitten", "sitting", 3},
		{"café", "cafe", 1},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if got := levenshtein(test.b, test.a); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.b, test.a, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("x", pflag.ContinueOnError)
	flagSet.String("interval", "", "")
	flagSet.BoolP("json", "j", false, "")

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"--intervl", "day"}, want: "--interval"},
		{args: []string{"--jsno"}, want: "--json"},
		{args: []string{"--json", "--intreval=day"}, want: "--interval"},
		{args: []string{"--completely-different"}, want: ""},
		{args: []string{"--", "--intervl"}, want: ""},
		{args: []string{"-j", "--intervl"}, want: "--interval"},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
