// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/optipack/optipack/internal/packwiz"
	"github.com/optipack/optipack/internal/progress"
)

// DefaultConcurrency is the number of packwiz installs run in parallel when
// no concurrency is requested.
const DefaultConcurrency = 4

type (
	// Service runs the workflows against a packwiz client.
	Service struct {
		client *packwiz.Client
		out    io.Writer
		logger *log.Logger
		styles progress.Styles
	}

	// Option configures a Service.
	Option func(*Service)
)

// WithOutput sets where progress lines are printed (default io.Discard).
func WithOutput(w io.Writer) Option {
	return func(s *Service) { s.out = w }
}

// WithLogger sets the logger for per-pack diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithStyles sets the progress marker styles.
func WithStyles(st progress.Styles) Option {
	return func(s *Service) { s.styles = st }
}

// New creates a Service.
func New(client *packwiz.Client, opts ...Option) *Service {
	s := &Service{
		client: client,
		out:    io.Discard,
		styles: progress.PlainStyles(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

func (s *Service) reporter(total int) *progress.Reporter {
	return progress.NewReporter(s.out, total, s.styles)
}

func statusOf(err error) progress.Status {
	if err != nil {
		return progress.StatusFailed
	}
	return progress.StatusDone
}
