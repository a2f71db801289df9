package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerAttachesComponentField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)}).WithComponent(ComponentWorker)

	logger.InfoContext(context.Background(), "snapshot written", FieldUserID, int64(7))

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Errorf("log line missing component field: %q", out)
	}
	if !strings.Contains(out, "user_id=7") {
		t.Errorf("log line missing caller field: %q", out)
	}
	if !strings.Contains(out, "snapshot written") {
		t.Errorf("log line missing message: %q", out)
	}
}

func TestLoggerDefaultsToAppComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)})

	logger.ErrorContext(context.Background(), "refresh failed", FieldError, "boom")

	out := buf.String()
	if !strings.Contains(out, "component=app") {
		t.Errorf("log line missing default component: %q", out)
	}
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("log line missing error level: %q", out)
	}
}
