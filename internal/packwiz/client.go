// SPDX-License-Identifier: MPL-2.0

package packwiz

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"
)

type (
	// RetryPolicy controls how Client.Add retries a failed invocation.
	// The zero value means three attempts waiting 1s then 3s.
	RetryPolicy struct {
		MaxAttempts  uint
		InitialDelay time.Duration
		Multiplier   float64
	}

	// Client issues the packwiz subcommands optipack relies on.
	Client struct {
		runner Runner
		binary string
		retry  RetryPolicy
		logger *log.Logger
	}

	// ClientOption configures a Client.
	ClientOption func(*Client)
)

// DefaultRetryPolicy waits 1s, 3s, 9s between attempts, capped at three attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second, Multiplier: 3}
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) { c.retry = p }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithBinaryName sets the binary name shown in traced command lines.
func WithBinaryName(name string) ClientOption {
	return func(c *Client) { c.binary = name }
}

// NewClient creates a Client on top of runner.
func NewClient(runner Runner, opts ...ClientOption) *Client {
	c := &Client{
		runner: runner,
		binary: DefaultBinary,
		retry:  DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.retry.MaxAttempts == 0 {
		c.retry.MaxAttempts = DefaultRetryPolicy().MaxAttempts
	}
	if c.retry.InitialDelay <= 0 {
		c.retry.InitialDelay = DefaultRetryPolicy().InitialDelay
	}
	if c.retry.Multiplier < 1 {
		c.retry.Multiplier = DefaultRetryPolicy().Multiplier
	}
	return c
}

// Install installs a project by slug: "packwiz -y <platform> install <slug>".
func (c *Client) Install(ctx context.Context, dir string, platform Platform, slug string) error {
	return c.run(ctx, dir, "-y", platform.String(), "install", slug)
}

// Add adds a project by URL with retries: "packwiz <code> add <url> --yes".
// It returns the number of attempts made.
func (c *Client) Add(ctx context.Context, dir string, platform Platform, rawURL string) (int, error) {
	attempts := 0
	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			attempts++
			err := c.run(ctx, dir, platform.Code(), "add", rawURL, "--yes")
			if errors.Is(err, ErrNotFound) {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.retry.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Debug("retrying packwiz add", "url", rawURL, "dir", dir, "in", next, "err", err)
		}),
	)
	return attempts, err
}

// Export builds the distributable artifact: "packwiz <code> export".
func (c *Client) Export(ctx context.Context, dir string, platform Platform) error {
	return c.run(ctx, dir, platform.Code(), "export")
}

// UpdateAll updates every project in the pack: "packwiz update --all --yes".
func (c *Client) UpdateAll(ctx context.Context, dir string) error {
	return c.run(ctx, dir, "update", "--all", "--yes")
}

// Refresh rebuilds the pack index: "packwiz refresh".
func (c *Client) Refresh(ctx context.Context, dir string) error {
	return c.run(ctx, dir, "refresh")
}

func (c *Client) run(ctx context.Context, dir string, args ...string) error {
	c.logger.Debug("exec", "dir", dir, "cmd", CommandLine(c.binary, args...))
	start := time.Now()
	err := c.runner.Run(ctx, dir, args...)
	if err != nil {
		c.logger.Debug("exec failed", "dir", dir, "took", time.Since(start), "err", err)
		return err
	}
	c.logger.Debug("exec done", "dir", dir, "took", time.Since(start))
	return nil
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialDelay
	b.Multiplier = c.retry.Multiplier
	b.RandomizationFactor = 0
	b.MaxInterval = time.Hour
	return b
}
