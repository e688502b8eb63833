package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromReturnsDefaultWhenUnset(t *testing.T) {
	if From(context.Background()) != slog.Default() {
		t.Fatal("expected slog.Default() for a bare context")
	}
}

func TestIntoFromRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := Into(context.Background(), l)

	From(ctx).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("context logger not used, output: %q", buf.String())
	}
}
