// SPDX-License-Identifier: MPL-2.0

package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		completed, total int
		want             string
	}{
		{0, 4, "[░░░░░░░░░░░░░░░░░░░░] 0/4 (0.0%)"},
		{1, 4, "[█████░░░░░░░░░░░░░░░] 1/4 (25.0%)"},
		{1, 3, "[██████░░░░░░░░░░░░░░] 1/3 (33.3%)"},
		{4, 4, "[████████████████████] 4/4 (100.0%)"},
		{9, 4, "[████████████████████] 4/4 (100.0%)"},
		{-1, 4, "[░░░░░░░░░░░░░░░░░░░░] 0/4 (0.0%)"},
		{0, 0, "[░░░░░░░░░░░░░░░░░░░░] 0/0 (0.0%)"},
	}

	for _, tt := range tests {
		if got := Bar(tt.completed, tt.total); got != tt.want {
			t.Errorf("Bar(%d, %d) = %q, want %q", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestBarWidth(t *testing.T) {
	t.Parallel()

	if got := BarWidth(1, 2, 4); got != "[██░░] 1/2 (50.0%)" {
		t.Errorf("BarWidth(1, 2, 4) = %q", got)
	}
	if got := BarWidth(1, 2, 0); got != Bar(1, 2) {
		t.Errorf("BarWidth with zero width = %q, want default width", got)
	}
}

func TestReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, 2, PlainStyles())
	r.Start("fabric/1.20.4")
	r.Step("fabric/1.20.4", StatusDone)
	r.Step("forge/1.20.1", StatusFailed)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		Bar(0, 2) + " | fabric/1.20.4",
		Bar(1, 2) + " | fabric/1.20.4 ✔ done",
		Bar(2, 2) + " | forge/1.20.1 ✘ failed",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReporter_Concurrent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, 50, PlainStyles())
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() { r.Step("x", StatusDone) })
	}
	wg.Wait()

	if r.Completed() != 50 {
		t.Errorf("Completed() = %d, want 50", r.Completed())
	}
	if !strings.Contains(buf.String(), "50/50 (100.0%)") {
		t.Error("final line should report 50/50")
	}
}
