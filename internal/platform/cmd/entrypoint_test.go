package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestParseConfig_RequiresTarget(t *testing.T) {
	if err := ParseConfig[struct{}](nil); err == nil {
		t.Fatalf("expected error for nil config target")
	}
}

func TestParseArgs_RequiresFlagSet(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatalf("expected error for nil flag set")
	}
}

func TestParseArgs_NilArgs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := ParseArgs(fs, nil); err != nil {
		t.Fatalf("parse args: %v", err)
	}
}

func TestRunWithTelemetry_RequiresService(t *testing.T) {
	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatalf("expected error for empty service name")
	}
}

func TestRunWithTelemetry_RequiresRun(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "server", nil); err == nil {
		t.Fatalf("expected error for nil run function")
	}
}

func TestRunWithTelemetry_PropagatesRunError(t *testing.T) {
	want := errors.New("boom")
	err := RunWithTelemetry(context.Background(), "server", func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("run error = %v, want %v", err, want)
	}
}
