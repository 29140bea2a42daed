package cli

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersionString(t *testing.T) {
	s := versionString()
	if !strings.HasPrefix(s, "kelora dev") {
		t.Errorf("unexpected prefix: %q", s)
	}
	if !strings.Contains(s, runtime.Version()) {
		t.Errorf("missing go version: %q", s)
	}
}
