// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/optipack/optipack/internal/layout"
	"github.com/optipack/optipack/internal/packwiz"
	"github.com/optipack/optipack/internal/testutil"
)

func discover(t *testing.T, specs ...string) []layout.Target {
	t.Helper()
	base := t.TempDir()
	testutil.MustVersionsTree(t, base, specs...)
	tree, err := layout.Discover(base)
	if err != nil {
		t.Fatal(err)
	}
	return tree.Targets()
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	targets := discover(t, "fabric/1.20.4", "fabric/1.21", "forge/1.20.1")
	failing := targets[1].Dir
	fake := &testutil.FakeRunner{Handler: func(dir string, _ []string) error {
		if dir == failing {
			return errors.New("network down")
		}
		return nil
	}}

	var out bytes.Buffer
	failed, err := newService(fake, &out).Update(context.Background(), targets)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if len(failed) != 1 || failed[0].Key() != "fabric/1.21" {
		t.Errorf("Update() failed = %v, want [fabric/1.21]", failed)
	}

	calls := fake.Calls()
	if len(calls) != 3 {
		t.Fatalf("got %d calls, want 3", len(calls))
	}
	for i, c := range calls {
		if c.Dir != targets[i].Dir || c.Line() != "update --all --yes" {
			t.Errorf("call %d = %q in %s", i, c.Line(), c.Dir)
		}
	}
	if !strings.Contains(out.String(), "3/3 (100.0%) | forge/1.20.1") {
		t.Errorf("progress output:\n%s", out.String())
	}
}

func TestUpdate_Canceled(t *testing.T) {
	t.Parallel()

	targets := discover(t, "fabric/1.20.4")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fake := &testutil.FakeRunner{}
	if _, err := newService(fake, &bytes.Buffer{}).Update(ctx, targets); !errors.Is(err, context.Canceled) {
		t.Errorf("Update() error = %v, want context.Canceled", err)
	}
	if len(fake.Calls()) != 0 {
		t.Error("canceled update should not call packwiz")
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	targets := discover(t, "fabric/1.20.4", "neoforge/1.21")
	for _, tgt := range targets {
		testutil.MustWriteFile(t, filepath.Join(tgt.Dir, "Opti-old.mrpack"), "old")
		testutil.MustWriteFile(t, filepath.Join(tgt.Dir, "Opti-old.zip"), "old")
	}

	fake := &testutil.FakeRunner{}
	failed, err := newService(fake, &bytes.Buffer{}).Export(context.Background(), targets, ExportOptions{Cleanup: true})
	if err != nil || len(failed) != 0 {
		t.Fatalf("Export() = %v, %v", failed, err)
	}

	for _, tgt := range targets {
		if _, err := os.Stat(filepath.Join(tgt.Dir, "Opti-old.mrpack")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s: old .mrpack should be removed", tgt.Key())
		}
		if _, err := os.Stat(filepath.Join(tgt.Dir, "Opti-old.zip")); err != nil {
			t.Errorf("%s: .zip should survive a modrinth cleanup: %v", tgt.Key(), err)
		}
	}
	for _, c := range fake.Calls() {
		if c.Line() != "mr export" {
			t.Errorf("unexpected call %q", c.Line())
		}
	}
}

func TestExport_NoCleanupAndFailures(t *testing.T) {
	t.Parallel()

	targets := discover(t, "forge/1.20.1", "forge/1.21")
	old := filepath.Join(targets[0].Dir, "Opti-old.zip")
	testutil.MustWriteFile(t, old, "old")

	fake := &testutil.FakeRunner{Handler: func(string, []string) error { return errors.New("boom") }}
	failed, err := newService(fake, &bytes.Buffer{}).Export(context.Background(), targets,
		ExportOptions{Platform: packwiz.PlatformCurseForge})
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 2 {
		t.Errorf("Export() failed = %v, want both targets", failed)
	}
	if _, err := os.Stat(old); err != nil {
		t.Errorf("artifact removed without cleanup: %v", err)
	}
	if c := fake.Calls(); len(c) != 2 || c[0].Line() != "cf export" {
		t.Errorf("calls = %v", c)
	}
}

func TestExport_InvalidPlatform(t *testing.T) {
	t.Parallel()

	_, err := newService(&testutil.FakeRunner{}, &bytes.Buffer{}).Export(context.Background(), nil,
		ExportOptions{Platform: "github"})
	if !errors.Is(err, packwiz.ErrInvalidPlatform) {
		t.Errorf("Export() error = %v, want ErrInvalidPlatform", err)
	}
}

func TestCleanArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "a.zip"), "")
	testutil.MustWriteFile(t, filepath.Join(dir, "b.zip"), "")
	testutil.MustWriteFile(t, filepath.Join(dir, "pack.toml"), "")
	testutil.MustMkdirAll(t, filepath.Join(dir, "dir.zip"))

	n, err := CleanArtifacts(dir, packwiz.PlatformCurseForge)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CleanArtifacts() = %d, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "dir.zip")); err != nil {
		t.Errorf("directories must be left alone: %v", err)
	}
}
