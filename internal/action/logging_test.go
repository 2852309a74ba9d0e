package action

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"tinybot/internal/logger"
	"tinybot/internal/message"
)

func withBufferedActionLogger(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := new(bytes.Buffer)
	l := logrus.New()
	l.SetOutput(buf)
	l.SetFormatter(logger.PlainFormatter{})
	l.SetLevel(logrus.DebugLevel)

	actionLogMu.Lock()
	prevLog := actionLog
	prevConfigured := actionLogConfigured
	prevCloser := actionLogCloser
	prevPath := actionLogPath

	actionLog = logrus.NewEntry(l).WithField("component", "action")
	actionLogConfigured = true
	actionLogCloser = nil
	actionLogPath = "(test)"
	actionLogMu.Unlock()

	t.Cleanup(func() {
		actionLogMu.Lock()
		actionLog = prevLog
		actionLogConfigured = prevConfigured
		actionLogCloser = prevCloser
		actionLogPath = prevPath
		actionLogMu.Unlock()
	})

	return buf
}

func TestActionLogIncludesCallAndResult(t *testing.T) {
	buf := withBufferedActionLogger(t)

	reg := MustRegistry(map[string]Declaration{"utter_hi": Utter("hi")})
	h, err := reg.Lookup("utter_hi")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	req := &message.Request{ID: "r1", Text: "hello"}
	if _, err := Invoke(context.Background(), h, nil, nil, req); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "[action] [action=utter_hi] action_call kind=template request_id=r1") {
		t.Fatalf("missing action_call log, got:\n%s", out)
	}
	if !strings.Contains(out, "[action=utter_hi] action_result duration_ms=") {
		t.Fatalf("missing action_result log, got:\n%s", out)
	}
	if !strings.Contains(out, "responded=true") {
		t.Fatalf("expected responded=true, got:\n%s", out)
	}
}

func TestActionLogSanitizesErrors(t *testing.T) {
	buf := withBufferedActionLogger(t)

	h := NewFunction(func(context.Context, Agent, Tracker, *message.Request) (Result, error) {
		return None(), errors.New("boom\nfail")
	})
	h.name = "action_fail"
	if _, err := Invoke(context.Background(), h, nil, nil, nil); err == nil {
		t.Fatalf("expected error")
	}

	out := buf.String()
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, `error=boom\nfail`) {
		t.Fatalf("expected sanitized warning, got:\n%s", out)
	}
	if !strings.Contains(out, "request_id=-") {
		t.Fatalf("expected placeholder request id, got:\n%s", out)
	}
}

func TestSetupActionLogRetriesAfterFailure(t *testing.T) {
	actionLogMu.Lock()
	prevLog := actionLog
	prevConfigured := actionLogConfigured
	prevCloser := actionLogCloser
	prevPath := actionLogPath
	actionLogConfigured = false
	actionLogCloser = nil
	actionLogPath = ""
	actionLogMu.Unlock()
	t.Cleanup(func() {
		CloseActionLog()
		actionLogMu.Lock()
		actionLog = prevLog
		actionLogConfigured = prevConfigured
		actionLogCloser = prevCloser
		actionLogPath = prevPath
		actionLogMu.Unlock()
	})

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	bad := filepath.Join(blocker, "actions.log")
	closer, path, err := SetupActionLog(bad)
	if err == nil {
		t.Fatalf("expected error for path under a regular file")
	}
	if closer != nil {
		t.Fatalf("expected nil closer on failure")
	}
	if path != bad {
		t.Fatalf("path = %q, want %q", path, bad)
	}

	good := filepath.Join(dir, "logs", "actions.log")
	closer, path, err = SetupActionLog(good)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if closer == nil || path != good {
		t.Fatalf("retry returned closer=%v path=%q", closer, path)
	}
	if _, err := os.Stat(good); err != nil {
		t.Fatalf("action log not created: %v", err)
	}

	again, path, err := SetupActionLog(filepath.Join(dir, "other.log"))
	if err != nil || again != closer || path != good {
		t.Fatalf("second successful setup should be a no-op, got %v %q %v", again, path, err)
	}
}
