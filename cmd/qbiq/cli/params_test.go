// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type sampleParams struct {
	JSONOutput
	Name     string        `flag:"name,n" desc:"device name" default:"kitchen"`
	Locked   bool          `flag:"locked" desc:"lock device"`
	Count    int           `flag:"count" default:"3"`
	Offset   int64         `flag:"offset"`
	Value    float64       `flag:"value" default:"1.5"`
	Timeout  time.Duration `flag:"timeout" default:"5s"`
	Tags     []string      `flag:"tag" default:"a,b"`
	Untagged string
}

func TestFlagsFromParams_Defaults(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Name != "kitchen" || params.Count != 3 || params.Value != 1.5 || params.Timeout != 5*time.Second {
		t.Errorf("defaults not applied: %+v", params)
	}
	if len(params.Tags) != 2 || params.Tags[1] != "b" {
		t.Errorf("tags = %v", params.Tags)
	}
	if flagSet.Lookup("Untagged") != nil {
		t.Error("untagged field bound")
	}
	if flagSet.Lookup("json") == nil {
		t.Error("embedded JSONOutput not bound")
	}
}

func TestFlagsFromParams_Parse(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	err := flagSet.Parse([]string{"-n", "hall", "--locked", "--count=7", "--offset", "-2",
		"--timeout", "1m", "--tag", "x", "--json", "rest"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Name != "hall" || !params.Locked || params.Count != 7 || params.Offset != -2 {
		t.Errorf("params = %+v", params)
	}
	if params.Timeout != time.Minute || len(params.Tags) != 1 || !params.OutputJSON {
		t.Errorf("params = %+v", params)
	}
	if args := flagSet.Args(); len(args) != 1 || args[0] != "rest" {
		t.Errorf("args = %v", args)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	flagSet := pflag.NewFlagSet("x", pflag.ContinueOnError)
	if err := BindFlags(sampleParams{}, flagSet); err == nil {
		t.Error("expected error for non-pointer")
	}

	var unsupported struct {
		Values map[string]string `flag:"values"`
	}
	if err := BindFlags(&unsupported, flagSet); err == nil {
		t.Error("expected error for unsupported type")
	}

	var badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	if err := BindFlags(&badDefault, pflag.NewFlagSet("y", pflag.ContinueOnError)); err == nil {
		t.Error("expected error for unparsable default")
	}

	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams did not panic")
		}
	}()
	FlagsFromParams("z", &unsupported)
}
