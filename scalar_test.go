package yamlbind_test

import (
	"errors"
	"math"
	"testing"

	"github.com/reoring/yamlbind"
)

func TestScalar_ToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"123", 123},
		{"-123", -123},
		{"+7", 7},
		{"0x11", 17},
		{"-0x11", -17},
		{"0o11", 9},
		{"-0o11", -9},
		{"9223372036854775807", math.MaxInt64},
	}
	for _, c := range cases {
		got, err := scalar(c.in).ToInt64()
		if err != nil || got != c.want {
			t.Fatalf("ToInt64(%q) = %d, %v; want %d", c.in, got, err, c.want)
		}
	}
}

func TestScalar_ToIntRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.5", "0x", "0b101", "1_000", " 1", "9223372036854775808"} {
		if _, err := scalar(in).ToInt64(); err == nil {
			t.Fatalf("ToInt64(%q) should fail", in)
		}
	}
}

func TestScalar_IntegerWidths(t *testing.T) {
	if v, err := scalar("-128").ToInt8(); err != nil || v != -128 {
		t.Fatalf("ToInt8(-128) = %d, %v", v, err)
	}
	_, err := scalar("128").ToInt8()
	var sf *yamlbind.ScalarFormatError
	if !errors.As(err, &sf) {
		t.Fatalf("expected ScalarFormatError, got %v", err)
	}
	if sf.Message() != "Value '128' is not a valid byte value." {
		t.Fatalf("unexpected message %q", sf.Message())
	}
	if _, err := scalar("40000").ToInt16(); err == nil || err.(yamlbind.Diagnostic).Message() != "Value '40000' is not a valid short value." {
		t.Fatalf("unexpected short error %v", err)
	}
	if _, err := scalar("3000000000").ToInt32(); err == nil || err.(yamlbind.Diagnostic).Message() != "Value '3000000000' is not a valid integer value." {
		t.Fatalf("unexpected integer error %v", err)
	}
	if _, err := scalar("xxx").ToInt64(); err == nil || err.(yamlbind.Diagnostic).Message() != "Value 'xxx' is not a valid long value." {
		t.Fatalf("unexpected long error %v", err)
	}
	if v, err := scalar("0xff").ToUint8(); err != nil || v != 255 {
		t.Fatalf("ToUint8(0xff) = %d, %v", v, err)
	}
	if _, err := scalar("-1").ToUint32(); err == nil || err.(yamlbind.Diagnostic).Message() != "Value '-1' is not a valid unsigned integer value." {
		t.Fatalf("unexpected unsigned error %v", err)
	}
}

func TestScalar_ToFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{"1.5", 1.5},
		{"-1.5", -1.5},
		{".5", 0.5},
		{"1.", 1},
		{"1e3", 1000},
		{"1.5E-2", 0.015},
		{".inf", math.Inf(1)},
		{".Inf", math.Inf(1)},
		{".INF", math.Inf(1)},
		{"-.inf", math.Inf(-1)},
		{"-.INF", math.Inf(-1)},
	}
	for _, c := range cases {
		got, err := scalar(c.in).ToFloat64()
		if err != nil || got != c.want {
			t.Fatalf("ToFloat64(%q) = %v, %v; want %v", c.in, got, err, c.want)
		}
	}
	for _, in := range []string{".nan", ".NaN", ".NAN"} {
		got, err := scalar(in).ToFloat64()
		if err != nil || !math.IsNaN(got) {
			t.Fatalf("ToFloat64(%q) = %v, %v; want NaN", in, got, err)
		}
	}
	if v, err := scalar("1.5").ToFloat32(); err != nil || v != 1.5 {
		t.Fatalf("ToFloat32(1.5) = %v, %v", v, err)
	}
}

func TestScalar_ToFloatRejects(t *testing.T) {
	for _, in := range []string{"", "xxx", "1.5x", "inf", "NaN", "+.inf", "0x10"} {
		_, err := scalar(in).ToFloat64()
		if err == nil {
			t.Fatalf("ToFloat64(%q) should fail", in)
		}
		want := "Value '" + in + "' is not a valid floating point value."
		if got := err.(yamlbind.Diagnostic).Message(); got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}

func TestScalar_ToFloatOutOfRange(t *testing.T) {
	if v, err := scalar("1e400").ToFloat64(); err != nil || !math.IsInf(v, 1) {
		t.Fatalf("ToFloat64(1e400) = %v, %v; want +Inf", v, err)
	}
	if v, err := scalar("-1e400").ToFloat64(); err != nil || !math.IsInf(v, -1) {
		t.Fatalf("ToFloat64(-1e400) = %v, %v; want -Inf", v, err)
	}
	for _, in := range []string{"1e40", "3.5e38"} {
		v, err := scalar(in).ToFloat32()
		if err != nil || !math.IsInf(float64(v), 1) {
			t.Fatalf("ToFloat32(%q) = %v, %v; want +Inf", in, v, err)
		}
	}
	if v, err := scalar("1e-400").ToFloat64(); err != nil || v != 0 {
		t.Fatalf("ToFloat64(1e-400) = %v, %v; want 0", v, err)
	}
}

func TestScalar_ToBool(t *testing.T) {
	for _, in := range []string{"true", "True", "TRUE"} {
		if v, err := scalar(in).ToBool(); err != nil || !v {
			t.Fatalf("ToBool(%q) = %v, %v", in, v, err)
		}
	}
	for _, in := range []string{"false", "False", "FALSE"} {
		if v, err := scalar(in).ToBool(); err != nil || v {
			t.Fatalf("ToBool(%q) = %v, %v", in, v, err)
		}
	}
	for _, in := range []string{"yes", "no", "1", "tRUE", "on"} {
		_, err := scalar(in).ToBool()
		if err == nil {
			t.Fatalf("ToBool(%q) should fail", in)
		}
		want := "Value '" + in + "' is not a valid boolean, permitted choices are: true or false"
		if got := err.(yamlbind.Diagnostic).Message(); got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}

func TestScalar_ToChar(t *testing.T) {
	if r, err := scalar("x").ToChar(); err != nil || r != 'x' {
		t.Fatalf("ToChar(x) = %q, %v", r, err)
	}
	if r, err := scalar("é").ToChar(); err != nil || r != 'é' {
		t.Fatalf("ToChar(é) = %q, %v", r, err)
	}
	for _, in := range []string{"", "xy"} {
		_, err := scalar(in).ToChar()
		var sf *yamlbind.ScalarFormatError
		if !errors.As(err, &sf) || sf.Message() != "Value '"+in+"' is not a valid character value." {
			t.Fatalf("ToChar(%q): unexpected error %v", in, err)
		}
	}
}

func TestScalar_ErrorLocation(t *testing.T) {
	_, err := yamlbind.NewScalar("nope", loc(3, 9)).ToInt32()
	var d yamlbind.Diagnostic
	if !errors.As(err, &d) || d.Position() != loc(3, 9) {
		t.Fatalf("expected error at 3:9, got %v", err)
	}
	if d.Code() != yamlbind.CodeInvalidFormat {
		t.Fatalf("unexpected code %q", d.Code())
	}
}
