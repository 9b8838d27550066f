package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestErrorCreation(t *testing.T) {
	err := E(Op("config.Load"), KindConfig, "something failed")

	if err.Op != "config.Load" {
		t.Errorf("expected Op 'config.Load', got %q", err.Op)
	}
	if err.Kind != KindConfig {
		t.Errorf("expected Kind KindConfig, got %v", err.Kind)
	}
	if err.Msg != "something failed" {
		t.Errorf("expected Msg 'something failed', got %q", err.Msg)
	}
}

func TestErrorWithWrappedError(t *testing.T) {
	underlying := fmt.Errorf("permission denied")
	err := E(Op("dataset.LoadFile"), KindIO, underlying, "failed to open input")

	if err.Err != underlying {
		t.Error("expected underlying error to be set")
	}

	errStr := err.Error()
	for _, part := range []string{"dataset.LoadFile", "failed to open input", "permission denied"} {
		if !strings.Contains(errStr, part) {
			t.Errorf("error string should contain %q, got %q", part, errStr)
		}
	}
}

func TestErrorStringFormats(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"op only", &Error{Op: "test"}, "test: "},
		{"msg only", &Error{Msg: "failed"}, "failed"},
		{"err only", &Error{Err: fmt.Errorf("root")}, "root"},
		{"op and msg", &Error{Op: "test", Msg: "failed"}, "test: failed"},
		{"all fields", &Error{Op: "test", Msg: "failed", Err: fmt.Errorf("root")}, "test: failed: root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(Op("noop"), nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if WrapMsg(Op("noop"), "msg", nil) != nil {
		t.Error("WrapMsg(nil) should return nil")
	}
}

func TestKindThroughChain(t *testing.T) {
	inner := E(Op("submission.Compose"), KindValidation, "document is invalid")
	outer := Wrap(Op("service.Submit"), inner)
	wrapped := fmt.Errorf("submit: %w", outer)

	if !IsKind(wrapped, KindValidation) {
		t.Error("expected validation kind to be found through the chain")
	}
	if GetKind(wrapped) != KindValidation {
		t.Errorf("GetKind = %v, want validation", GetKind(wrapped))
	}
	if IsKind(fmt.Errorf("plain"), KindUnknown) {
		t.Error("IsKind should never match KindUnknown")
	}
	if GetKind(nil) != KindUnknown {
		t.Error("GetKind(nil) should be unknown")
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindConfig:     "config",
		KindIO:         "io",
		KindParse:      "parse",
		KindValidation: "validation",
		KindStorage:    "storage",
		KindNetwork:    "network",
		KindUnknown:    "unknown",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}

func TestSkipCounter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sc := NewSkipCounter("assemble rows")
	sc.Report(logger)
	if buf.Len() != 0 {
		t.Error("expected no output when nothing was skipped")
	}

	sc.Skip("row 2")
	sc.Skip("row 5")
	sc.Report(logger)

	if sc.Count != 2 {
		t.Errorf("expected count 2, got %d", sc.Count)
	}
	out := buf.String()
	if !strings.Contains(out, "count=2") || !strings.Contains(out, `last="row 5"`) {
		t.Errorf("unexpected report output: %s", out)
	}
}
