package notify

import (
	"strings"
	"testing"
)

func TestTFallsBackToEnglish(t *testing.T) {
	if got := T("ar", "ban.active"); !strings.Contains(got, "%d") {
		t.Fatalf("expected parametrized arabic message, got %q", got)
	}
	if got := T("fr", "ban.active"); got != translations["en"]["ban.active"] {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := T("en", "no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key echo for unknown key, got %q", got)
	}
}

func TestRecorderCounts(t *testing.T) {
	r := &Recorder{}
	r.Error("a")
	r.Error("b")
	r.Success("c")
	if r.ErrorCount() != 2 {
		t.Fatalf("expected 2 errors, got %d", r.ErrorCount())
	}
	if len(r.Messages) != 1 {
		t.Fatalf("expected 1 success, got %d", len(r.Messages))
	}
}
