package tui

import (
	"strings"
	"testing"
)

func TestRenderFooterFormats(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	for i := 0; i < 3; i++ {
		press(m, " ")
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Block 3/20", "Day 3/200", "next word"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterShowsNotice(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	press(m, "y")
	if out := m.renderFooter(); !strings.Contains(out, "Copied w0-0-0-0") {
		t.Fatalf("expected copy notice, got %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
