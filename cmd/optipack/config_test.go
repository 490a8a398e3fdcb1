// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/optipack/optipack/internal/config"
	"github.com/optipack/optipack/internal/testutil"
)

func TestConfigInitShowPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "optipack", "config.cue")
	newApp := func() *testApp { return newTestApp(t, config.NewProvider(), nil) }

	ta := newApp()
	if err := ta.run("--config", path, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !fileExists(path) || !strings.Contains(ta.stdout.String(), path) {
		t.Fatalf("config init did not report %s:\n%s", path, ta.stdout.String())
	}

	ta = newApp()
	err := ta.run("--config", path, "config", "init")
	if !errors.Is(err, config.ErrConfigExists) {
		t.Errorf("second init error = %v, want ErrConfigExists", err)
	}

	ta = newApp()
	if err := ta.run("--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}

	ta = newApp()
	if err := ta.run("--config", path, "config", "path"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(ta.stdout.String()); got != path {
		t.Errorf("config path = %q, want %q", got, path)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.cue")
	testutil.MustWriteFile(t, path, "concurrency: 12\nexport: format: \"curseforge\"\n")

	ta := newTestApp(t, config.NewProvider(), nil)
	if err := ta.run("--config", path, "config", "show"); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	out := ta.stdout.String()
	for _, want := range []string{path, "concurrency: 12", `format: "curseforge"`, `versions_dir: "versions"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShow_InvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.cue")
	testutil.MustWriteFile(t, path, "concurrency: 0\n")

	ta := newTestApp(t, config.NewProvider(), nil)
	if code := exitCode(ta.run("--config", path, "config", "show")); code == 0 {
		t.Error("config show should fail for an out-of-range value")
	}
}
