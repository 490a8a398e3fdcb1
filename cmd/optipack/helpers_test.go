// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/optipack/optipack/internal/config"
	"github.com/optipack/optipack/internal/testutil"
	"github.com/optipack/optipack/pkg/types"
)

type (
	// staticProvider returns a fixed configuration.
	staticProvider struct {
		cfg *config.Config
		err error
	}

	testApp struct {
		app    *App
		fake   *testutil.FakeRunner
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (p staticProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return p.cfg, p.err
}

// testConfig returns the default configuration rooted at versionsDir with a
// single packwiz attempt so failing fakes do not wait on retries.
func testConfig(versionsDir, buildDir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.VersionsDir = types.FilesystemPath(versionsDir)
	cfg.BuildDir = types.FilesystemPath(buildDir)
	cfg.Packwiz.MaxAttempts = 1
	return cfg
}

func newTestApp(t *testing.T, provider config.Provider, fake *testutil.FakeRunner) *testApp {
	t.Helper()
	if fake == nil {
		fake = &testutil.FakeRunner{}
	}
	ta := &testApp{fake: fake, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	app, err := NewApp(Dependencies{Config: provider, Runner: fake, Stdout: ta.stdout, Stderr: ta.stderr})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	ta.app = app
	return ta
}

func (ta *testApp) run(args ...string) error {
	root := NewRootCommand(ta.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// exitCode returns the ExitError code of err, ExitSuccess for nil, and -1
// for any other error.
func exitCode(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
