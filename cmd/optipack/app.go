// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/optipack/optipack/internal/config"
	"github.com/optipack/optipack/internal/extension"
	"github.com/optipack/optipack/internal/issue"
	"github.com/optipack/optipack/internal/modpack"
	"github.com/optipack/optipack/internal/packwiz"
	"github.com/optipack/optipack/pkg/packver"
	"github.com/optipack/optipack/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and
	// delegates through it.
	App struct {
		Config config.Provider
		Runner packwiz.Runner
		stdout io.Writer
		stderr io.Writer

		// bound to the persistent root flags
		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// Runner executes packwiz. Nil means a packwiz.ExecRunner built from
		// the loaded configuration.
		Runner packwiz.Runner
		Stdout io.Writer
		Stderr io.Writer
	}

	// session is the per-invocation state derived from configuration.
	session struct {
		cfg     *config.Config
		logger  *log.Logger
		client  *packwiz.Client
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		Runner: deps.Runner,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.configPath)})
}

// newSession loads configuration and builds the logger and packwiz client
// shared by the workflow commands.
func (a *App) newSession(ctx context.Context) (*session, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return nil, err
	}

	verbose := a.verbose || cfg.UI.Verbose
	logger := newLogger(a.stderr, verbose)

	runner := a.Runner
	if runner == nil {
		runner = packwiz.ExecRunner{Binary: cfg.Packwiz.Binary.String(), Timeout: cfg.Packwiz.Timeout}
	}
	client := packwiz.NewClient(runner,
		packwiz.WithLogger(logger.WithPrefix("packwiz")),
		packwiz.WithRetryPolicy(cfg.Packwiz.RetryPolicy()),
		packwiz.WithBinaryName(cfg.Packwiz.Binary.String()),
	)

	return &session{cfg: cfg, logger: logger, client: client, verbose: verbose}, nil
}

func (s *session) service(out io.Writer) *modpack.Service {
	return modpack.New(s.client,
		modpack.WithOutput(out),
		modpack.WithLogger(s.logger.WithPrefix("modpack")),
		modpack.WithStyles(progressStyles()),
	)
}

// newLogger returns the stderr logger; verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "optipack",
		Level:  level,
	})
}

// fail renders the catalog entry matching err, if any, and returns err
// wrapped in an ExitError carrying a display-ready message.
func (a *App) fail(s *session, err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	scheme := config.ColorSchemeAuto
	verbose := a.verbose
	if s != nil {
		scheme = s.cfg.UI.ColorScheme
		verbose = s.verbose
	}
	if id, ok := issueFor(err); ok {
		a.renderIssue(id, scheme)
	}
	return &ExitError{Code: types.ExitFailure, Err: &displayError{msg: issue.FormatForDisplay(err, verbose), err: err}}
}

// displayError keeps the error chain of err while printing msg.
type displayError struct {
	msg string
	err error
}

func (e *displayError) Error() string { return e.msg }

func (e *displayError) Unwrap() error { return e.err }

func (a *App) renderIssue(id issue.Id, scheme config.ColorScheme) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(scheme.String())
	if err != nil {
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// issueFor maps well-known failure classes to their catalog entries.
func issueFor(err error) (issue.Id, bool) {
	var loadErr *extension.LoadError
	switch {
	case errors.Is(err, packwiz.ErrNotFound):
		return issue.PackwizNotFoundId, true
	case errors.Is(err, packwiz.ErrCommandFailed):
		return issue.PackwizCommandFailedId, true
	case errors.Is(err, extension.ErrVersionsDirNotFound):
		return issue.VersionsDirNotFoundId, true
	case errors.As(err, &loadErr), errors.Is(err, extension.ErrInvalidName):
		return issue.ExtensionParseErrorId, true
	case errors.Is(err, packver.ErrFormat), errors.Is(err, packver.ErrInvalidDescriptor):
		return issue.InvalidPackVersionId, true
	default:
		return 0, false
	}
}

// runCmd adapts a session-aware handler to cobra's RunE.
func (a *App) runCmd(fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.newSession(cmd.Context())
		if err != nil {
			return a.fail(nil, err)
		}
		return fn(cmd, s, args)
	}
}
