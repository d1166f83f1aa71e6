package recovery

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestToErrorPassesThrough(t *testing.T) {
	want := errors.New("boom")
	if got := ToError(discard(), "op", func() error { return want }); got != want {
		t.Errorf("ToError = %v, want %v", got, want)
	}
	if got := ToError(discard(), "op", func() error { return nil }); got != nil {
		t.Errorf("ToError = %v, want nil", got)
	}
}

func TestToErrorConvertsPanic(t *testing.T) {
	err := ToError(discard(), "scan", func() error { panic("bad batch") })
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want Internal", status.Code(err))
	}
}

func TestToValueConvertsPanic(t *testing.T) {
	v, err := ToValue(discard(), "info", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("ToValue = (%d, %v), want (7, nil)", v, err)
	}

	v, err = ToValue(discard(), "info", func() (int, error) { panic("bad descriptor") })
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want Internal", status.Code(err))
	}
	if v != 0 {
		t.Errorf("value after panic = %d, want zero", v)
	}
}
