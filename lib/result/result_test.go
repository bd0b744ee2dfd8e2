// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package result

import (
	"errors"
	"strconv"
	"testing"
)

func TestOk(t *testing.T) {
	r := Ok(42)
	value, err := r.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 42 {
		t.Errorf("got %d, want 42", value)
	}
	if !r.OK() || r.Err() != nil {
		t.Error("Ok result reports failure")
	}
}

func TestFail(t *testing.T) {
	sentinel := errors.New("connection refused")
	r := Fail[string](sentinel)

	value, err := r.Resolve()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if value != "" {
		t.Errorf("expected zero value, got %q", value)
	}
	if r.OK() {
		t.Error("failed result reports OK")
	}
}

func TestFail_NilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil error")
		}
	}()
	Fail[int](nil)
}

func TestResolve_Repeatable(t *testing.T) {
	sentinel := errors.New("boom")
	r := Fail[int](sentinel)
	for range 3 {
		if _, err := r.Resolve(); !errors.Is(err, sentinel) {
			t.Fatalf("resolution changed: %v", err)
		}
	}

	ok := Ok("same")
	for range 3 {
		if value, _ := ok.Resolve(); value != "same" {
			t.Fatalf("resolution changed: %q", value)
		}
	}
}

func TestFrom(t *testing.T) {
	if value, err := From(5, nil).Resolve(); err != nil || value != 5 {
		t.Errorf("From(5, nil) = %d, %v", value, err)
	}
	sentinel := errors.New("bad")
	if value, err := From(5, sentinel).Resolve(); !errors.Is(err, sentinel) || value != 0 {
		t.Errorf("From(5, err) = %d, %v", value, err)
	}
}

func TestThen(t *testing.T) {
	t.Run("success chains", func(t *testing.T) {
		r := Then(Ok("12"), strconv.Atoi)
		if value, err := r.Resolve(); err != nil || value != 12 {
			t.Errorf("got %d, %v", value, err)
		}
	})

	t.Run("failure passes through unchanged", func(t *testing.T) {
		sentinel := errors.New("transport down")
		called := false
		r := Then(Fail[string](sentinel), func(s string) (int, error) {
			called = true
			return 0, nil
		})
		if called {
			t.Error("next called on failed result")
		}
		if _, err := r.Resolve(); err != sentinel {
			t.Errorf("expected identical error, got %v", err)
		}
	})

	t.Run("step error captured", func(t *testing.T) {
		r := Then(Ok("x"), strconv.Atoi)
		var numErr *strconv.NumError
		if _, err := r.Resolve(); !errors.As(err, &numErr) {
			t.Errorf("expected *strconv.NumError, got %v", err)
		}
	})
}

func TestMapAndDiscard(t *testing.T) {
	doubled := Map(Ok(4), func(v int) int { return v * 2 })
	if value, _ := doubled.Resolve(); value != 8 {
		t.Errorf("got %d, want 8", value)
	}

	sentinel := errors.New("nope")
	if err := Discard(Fail[int](sentinel)).Err(); err != sentinel {
		t.Errorf("Discard lost error: %v", err)
	}
	if !Discard(Ok(1)).OK() {
		t.Error("Discard of success failed")
	}
}
