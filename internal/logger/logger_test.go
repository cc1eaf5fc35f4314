package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedaction(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	l.Info("login",
		"email", "ann@example.com",
		"access_token", "abc",
		"user_id", "65f0c0ffee",
		"header", jwt,
		"plan_id", "p1",
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()

	for _, k := range []string{"email", "access_token", "header"} {
		if got := fields[k]; got != redacted {
			t.Errorf("%s = %v, want redacted", k, got)
		}
	}
	if got, _ := fields["user_id"].(string); !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Errorf("user_id = %q, want a short hash", got)
	}
	if got := fields["plan_id"]; got != "p1" {
		t.Errorf("plan_id = %v, want untouched", got)
	}
}

func TestWith_Sanitizes(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("password", "hunter2")
	l.Warn("x")
	if got := logs.All()[0].ContextMap()["password"]; got != redacted {
		t.Errorf("password = %v", got)
	}
}
