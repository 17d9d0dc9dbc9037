package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.UpstreamError("overpass", 504, errors.New("gateway timeout"))

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Fatalf("expected JSON output, got %q", out)
	}
	for _, fragment := range []string{`"msg":"upstream_error"`, `"upstream":"overpass"`, `"status":504`} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %s in %q", fragment, out)
		}
	}
}

func TestDevelopmentLoggerEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)

	log.Debug("built overpass query")

	if !strings.Contains(buf.String(), "built overpass query") {
		t.Fatalf("expected debug line in development, got %q", buf.String())
	}
}

func TestWithContextAddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-9")
	log.WithContext(ctx).Info("saved place created")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-1"`) || !strings.Contains(out, `"user_id":"user-9"`) {
		t.Fatalf("expected request and user ids in %q", out)
	}
}

func TestHTTPRequestLevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.HTTPRequest("GET", "/api/places/search", 200, 1500*time.Microsecond, "127.0.0.1")
	log.HTTPRequest("POST", "/api/saved-places", 400, time.Millisecond, "127.0.0.1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], `"level":"INFO"`) || !strings.Contains(lines[0], `"latency_ms":1.5`) {
		t.Fatalf("unexpected success line %q", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"WARN"`) {
		t.Fatalf("expected client error at warn, got %q", lines[1])
	}
}
