package format_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/format"
)

func TestBuiltinsRoundTrip(t *testing.T) {
	reg := format.NewDefaultRegistry()

	cases := []struct {
		name    string
		typ     string
		raw     string
		display string
	}{
		{name: "num fraction", typ: format.TypeNum, raw: "1234.5", display: "1,234.5"},
		{name: "num negative", typ: format.TypeNum, raw: "-1234567", display: "-1,234,567"},
		{name: "num small", typ: format.TypeNum, raw: "999", display: "999"},
		{name: "num zero fraction kept", typ: format.TypeNum, raw: "1000.50", display: "1,000.50"},
		{name: "date", typ: format.TypeYMD, raw: "20250210", display: "2025/02/10"},
		{name: "time", typ: format.TypeHMS, raw: "093000", display: "09:30:00"},
		{name: "upper", typ: format.TypeUpper, raw: "ABC", display: "ABC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			display := reg.Format(tc.typ, tc.raw)
			if display != tc.display {
				t.Fatalf("Format(%q) = %q, want %q", tc.raw, display, tc.display)
			}
			if back := reg.Unformat(tc.typ, display); back != tc.raw {
				t.Fatalf("Unformat(%q) = %q, want %q", display, back, tc.raw)
			}
		})
	}
}

func TestBuiltinsPassThroughOutsideDomain(t *testing.T) {
	reg := format.NewDefaultRegistry()

	cases := []struct {
		typ   string
		value string
	}{
		{typ: format.TypeNum, value: "abc"},
		{typ: format.TypeNum, value: "012"},
		{typ: format.TypeNum, value: ""},
		{typ: format.TypeYMD, value: "20250230"},
		{typ: format.TypeYMD, value: "tomorrow"},
		{typ: format.TypeHMS, value: "9:30"},
		{typ: format.TypeUpper, value: "   "},
	}

	for _, tc := range cases {
		if got, ok := reg.TryFormat(tc.typ, tc.value); ok || got != tc.value {
			t.Errorf("TryFormat(%s, %q) = (%q, %v), want passthrough", tc.typ, tc.value, got, ok)
		}
		if got, ok := reg.TryUnformat(tc.typ, tc.value); ok || got != tc.value {
			t.Errorf("TryUnformat(%s, %q) = (%q, %v), want passthrough", tc.typ, tc.value, got, ok)
		}
	}
}

func TestUpperFormatsLowerCase(t *testing.T) {
	if got := format.Default().Format(format.TypeUpper, "ab-c"); got != "AB-C" {
		t.Fatalf("upper format = %q", got)
	}
}

func TestRegistryUnknownTypePassesThrough(t *testing.T) {
	reg := format.NewDefaultRegistry()
	if got := reg.Format("missing", "1234"); got != "1234" {
		t.Fatalf("unknown type should pass through, got %q", got)
	}
	if got := reg.Unformat("", "1,234"); got != "1,234" {
		t.Fatalf("empty type should pass through, got %q", got)
	}
	var nilReg *format.Registry
	if got := nilReg.Format(format.TypeNum, "1234"); got != "1234" {
		t.Fatalf("nil registry should pass through, got %q", got)
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := format.NewRegistry()
	lower := format.Pair{
		FormatFunc: func(raw string) (string, bool) { return strings.ToLower(raw), true },
	}

	if err := reg.Register("lower", lower); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("lower", lower); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(" ", lower); err == nil {
		t.Fatalf("expected blank name error")
	}
	if err := reg.Register("nil", nil); err == nil {
		t.Fatalf("expected nil type error")
	}
	if !reg.Has("lower") {
		t.Fatalf("expected lower to be registered")
	}
	if _, err := reg.Get("upper"); err == nil {
		t.Fatalf("expected empty registry to miss built-ins")
	}
	if got := reg.Format("lower", "ABC"); got != "abc" {
		t.Fatalf("custom format = %q", got)
	}
	if got := reg.Unformat("lower", "ABC"); got != "ABC" {
		t.Fatalf("missing unformat func should pass through, got %q", got)
	}

	want := []string{format.TypeHMS, format.TypeNum, format.TypeUpper, format.TypeYMD}
	if diff := cmp.Diff(want, format.NewDefaultRegistry().List()); diff != "" {
		t.Fatalf("built-in list mismatch (-want +got):\n%s", diff)
	}
}
