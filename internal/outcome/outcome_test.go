// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package outcome_test

import (
	"encoding/json"
	"testing"

	"code.hybscloud.com/shoplist/internal/outcome"
)

func TestMatchFail(t *testing.T) {
	o := outcome.Fail[string, int]("boom")

	got := outcome.Match(o,
		func(e string) string { return "fail:" + e },
		func(int) string { return "ok" },
		func(string, int) string { return "both" },
	)
	if got != "fail:boom" {
		t.Fatalf("got %q, want %q", got, "fail:boom")
	}
}

func TestMatchOK(t *testing.T) {
	o := outcome.OK[string](42)

	got := outcome.Match(o,
		func(string) int { return -1 },
		func(v int) int { return v },
		func(string, int) int { return -2 },
	)
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestMatchBoth(t *testing.T) {
	o := outcome.Both("stale", 7)

	gotErr, ok := o.Err()
	if !ok || gotErr != "stale" {
		t.Fatalf("got error (%q, %v), want (stale, true)", gotErr, ok)
	}
	gotVal, ok := o.Value()
	if !ok || gotVal != 7 {
		t.Fatalf("got value (%d, %v), want (7, true)", gotVal, ok)
	}
	if !o.IsBoth() || o.IsOK() || o.IsFail() {
		t.Fatal("Both must report exactly one shape")
	}
}

func TestMapValuePreservesShape(t *testing.T) {
	double := func(v int) int { return v * 2 }

	o := outcome.MapValue(outcome.OK[string](21), double)
	if v, _ := o.Value(); v != 42 {
		t.Fatalf("got %d, want 42", v)
	}

	b := outcome.MapValue(outcome.Both("warn", 3), double)
	if !b.IsBoth() {
		t.Fatal("expected Both after MapValue, got different shape")
	}
	if v, _ := b.Value(); v != 6 {
		t.Fatalf("got %d, want 6", v)
	}
	if e, _ := b.Err(); e != "warn" {
		t.Fatalf("got %q, want %q", e, "warn")
	}

	f := outcome.MapValue(outcome.Fail[string, int]("nope"), double)
	if !f.IsFail() {
		t.Fatal("expected Fail after MapValue, got different shape")
	}
}

func TestMapError(t *testing.T) {
	upper := func(e string) string { return "E:" + e }

	f := outcome.MapError(outcome.Fail[string, int]("x"), upper)
	if e, _ := f.Err(); e != "E:x" {
		t.Fatalf("got %q, want %q", e, "E:x")
	}

	b := outcome.MapError(outcome.Both("y", 1), upper)
	if !b.IsBoth() {
		t.Fatal("expected Both after MapError")
	}
	if e, _ := b.Err(); e != "E:y" {
		t.Fatalf("got %q, want %q", e, "E:y")
	}

	o := outcome.MapError(outcome.OK[string](5), upper)
	if !o.IsOK() {
		t.Fatal("expected OK after MapError")
	}
}

func TestOrElseRecoversOnlyFail(t *testing.T) {
	recover := func(e string) outcome.Outcome[string, int] {
		return outcome.OK[string](99)
	}

	f := outcome.OrElse(outcome.Fail[string, int]("x"), recover)
	if v, _ := f.Value(); v != 99 {
		t.Fatalf("got %d, want 99", v)
	}

	o := outcome.OrElse(outcome.OK[string](1), recover)
	if v, _ := o.Value(); v != 1 {
		t.Fatalf("got %d, want 1", v)
	}

	b := outcome.OrElse(outcome.Both("warn", 2), recover)
	if !b.IsBoth() {
		t.Fatal("Both must pass through OrElse unchanged")
	}
}

func TestFlatMapShortCircuit(t *testing.T) {
	called := false
	step := func(v int) outcome.Outcome[string, int] {
		called = true
		return outcome.OK[string](v + 1)
	}

	f := outcome.FlatMap(outcome.Fail[string, int]("x"), step)
	if !f.IsFail() {
		t.Fatal("expected Fail to short-circuit FlatMap")
	}
	if called {
		t.Fatal("FlatMap must not call f on Fail")
	}
}

func TestFlatMapBothKeepsError(t *testing.T) {
	o := outcome.FlatMap(outcome.Both("warn", 1), func(v int) outcome.Outcome[string, int] {
		return outcome.OK[string](v + 1)
	})
	if !o.IsBoth() {
		t.Fatal("expected Both to survive a successful FlatMap")
	}
	if e, _ := o.Err(); e != "warn" {
		t.Fatalf("got %q, want %q", e, "warn")
	}
	if v, _ := o.Value(); v != 2 {
		t.Fatalf("got %d, want 2", v)
	}
}

func TestMarshalJSONEnvelope(t *testing.T) {
	tests := []struct {
		name string
		o    outcome.Outcome[string, int]
		want string
	}{
		{"fail", outcome.Fail[string, int]("bad"), `{"_tag":"Left","left":"bad"}`},
		{"ok", outcome.OK[string](3), `{"_tag":"Right","right":3}`},
		{"both", outcome.Both("bad", 3), `{"_tag":"Both","left":"bad","right":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.o)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(raw) != tt.want {
				t.Fatalf("got %s, want %s", raw, tt.want)
			}
		})
	}
}
