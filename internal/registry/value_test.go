package registry

import (
	"errors"
	"testing"
)

func TestValueOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw  any
		want Value
	}{
		{raw: "dbhost", want: String("dbhost")},
		{raw: true, want: Bool(true)},
		{raw: 30, want: Int(30)},
		{raw: int64(-1), want: Int(-1)},
		{raw: uint64(7), want: Int(7)},
		{raw: float64(5), want: Int(5)},
		{raw: Bool(false), want: Bool(false)},
	}

	for _, tc := range testCases {
		got, err := ValueOf(tc.raw)
		if err != nil {
			t.Fatalf("ValueOf(%v) returned error: %v", tc.raw, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ValueOf(%v) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestValueOfRejectsUnsupported(t *testing.T) {
	t.Parallel()

	for _, raw := range []any{1.5, []any{"a"}, map[string]any{}, nil} {
		if _, err := ValueOf(raw); !errors.Is(err, ErrUnsupportedValue) {
			t.Fatalf("expected ErrUnsupportedValue for %#v, got %v", raw, err)
		}
	}
}

func TestValueText(t *testing.T) {
	t.Parallel()

	if got := String("wp").Text(); got != "wp" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := Bool(false).Text(); got != "false" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := Int(42).Text(); got != "42" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := String("a b").String(); got != `"a b"` {
		t.Fatalf("unexpected quoted form %q", got)
	}
	if (Value{}).Interface() != nil {
		t.Fatalf("expected nil interface for zero value")
	}
	if KindBool.String() != "bool" || Kind(99).String() != "invalid" {
		t.Fatalf("unexpected kind names")
	}
}
