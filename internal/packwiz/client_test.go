// SPDX-License-Identifier: MPL-2.0

package packwiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/optipack/optipack/internal/testutil"
)

func fastRetry() ClientOption {
	return WithRetryPolicy(RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 3})
}

func TestClient_Commands(t *testing.T) {
	t.Parallel()

	fake := &testutil.FakeRunner{}
	c := NewClient(fake)
	ctx := context.Background()

	if err := c.Install(ctx, "v1", PlatformModrinth, "sodium"); err != nil {
		t.Fatal(err)
	}
	if err := c.Export(ctx, "v1", PlatformCurseForge); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateAll(ctx, "v1"); err != nil {
		t.Fatal(err)
	}
	if err := c.Refresh(ctx, "v1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Add(ctx, "v1", PlatformModrinth, "https://modrinth.com/mod/lithium"); err != nil {
		t.Fatal(err)
	}

	var lines []string
	for _, call := range fake.Calls() {
		if call.Dir != "v1" {
			t.Errorf("call %q ran in %q, want v1", call.Line(), call.Dir)
		}
		lines = append(lines, call.Line())
	}
	want := []string{
		"-y modrinth install sodium",
		"cf export",
		"update --all --yes",
		"refresh",
		"mr add https://modrinth.com/mod/lithium --yes",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_AddRetries(t *testing.T) {
	t.Parallel()

	t.Run("succeeds on third attempt", func(t *testing.T) {
		t.Parallel()

		var n atomic.Int32
		fake := &testutil.FakeRunner{Handler: func(string, []string) error {
			if n.Add(1) < 3 {
				return errors.New("rate limited")
			}
			return nil
		}}
		attempts, err := NewClient(fake, fastRetry()).Add(context.Background(), "v", PlatformCurseForge, "https://www.curseforge.com/minecraft/mc-mods/jei")
		if err != nil {
			t.Fatalf("Add() error: %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		t.Parallel()

		fake := &testutil.FakeRunner{Handler: func(string, []string) error { return errors.New("boom") }}
		attempts, err := NewClient(fake, fastRetry()).Add(context.Background(), "v", PlatformModrinth, "u")
		if err == nil {
			t.Fatal("Add() should fail")
		}
		if attempts != 3 || len(fake.Calls()) != 3 {
			t.Errorf("attempts = %d, calls = %d, want 3", attempts, len(fake.Calls()))
		}
	})

	t.Run("missing binary is not retried", func(t *testing.T) {
		t.Parallel()

		fake := &testutil.FakeRunner{Handler: func(string, []string) error {
			return fmt.Errorf("%w: packwiz", ErrNotFound)
		}}
		attempts, err := NewClient(fake, fastRetry()).Add(context.Background(), "v", PlatformModrinth, "u")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Add() error = %v, want ErrNotFound", err)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("canceled context stops", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewClient(&testutil.FakeRunner{}, fastRetry()).Add(ctx, "v", PlatformModrinth, "u")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Add() error = %v, want context.Canceled", err)
		}
	})
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(&testutil.FakeRunner{}, WithRetryPolicy(RetryPolicy{}))
	if diff := cmp.Diff(DefaultRetryPolicy(), c.retry); diff != "" {
		t.Errorf("retry policy mismatch (-want +got):\n%s", diff)
	}
}

func TestNewBackOff_Schedule(t *testing.T) {
	t.Parallel()

	b := NewClient(&testutil.FakeRunner{}).newBackOff()
	b.Reset()
	want := []time.Duration{time.Second, 3 * time.Second, 9 * time.Second}
	for i, w := range want {
		if got := b.NextBackOff(); got != w {
			t.Errorf("delay %d = %v, want %v", i, got, w)
		}
	}
}

func TestCommandLine(t *testing.T) {
	t.Parallel()

	got := CommandLine("", "mr", "add", "https://example.com/a b", "--yes")
	if !strings.HasPrefix(got, "packwiz mr add ") || !strings.Contains(got, "'https://example.com/a b'") {
		t.Errorf("CommandLine() = %q", got)
	}
}
