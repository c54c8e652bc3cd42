package shapejoin

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version() == "" {
		t.Error("Version() returned empty string")
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "shapejoin/") {
		t.Errorf("UserAgent() = %q, want prefix %q", ua, "shapejoin/")
	}
	if !strings.HasSuffix(ua, Version()) {
		t.Errorf("UserAgent() = %q, want suffix %q", ua, Version())
	}
}
