// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/optipack/optipack/internal/packwiz"
	"github.com/optipack/optipack/internal/resource"
)

// ErrNotDirectory is returned when a sync endpoint is not a directory.
var ErrNotDirectory = errors.New("not a directory")

type (
	// SyncOptions tunes Sync.
	SyncOptions struct {
		// Concurrency bounds parallel installs (default DefaultConcurrency).
		Concurrency int
		// Platform is the platform installs resolve slugs against (default modrinth).
		Platform packwiz.Platform
		// Kinds restricts the synced resource kinds (default resource.Kinds()).
		Kinds []resource.Kind
	}

	// KindResult is the outcome of syncing one resource kind.
	KindResult struct {
		Kind resource.Kind
		// Present lists source resources the target already had.
		Present []string
		// Installed lists resources newly installed into the target.
		Installed []string
		// Failed lists resources that could not be installed.
		Failed []string
	}

	// SyncReport collects the per-kind results of a Sync.
	SyncReport struct {
		Source string
		Target string
		Kinds  []KindResult
	}
)

// HasFailures reports whether any resource failed to install.
func (r *SyncReport) HasFailures() bool {
	for _, k := range r.Kinds {
		if len(k.Failed) > 0 {
			return true
		}
	}
	return false
}

// Failed returns the failed resources of kind.
func (r *SyncReport) Failed(kind resource.Kind) []string {
	for _, k := range r.Kinds {
		if k.Kind == kind {
			return k.Failed
		}
	}
	return nil
}

// Sync installs into dst every resource of src that dst lacks. Only packwiz
// metadata entries can be installed by slug; plain .jar and .zip files are
// reported as failed.
func (s *Service) Sync(ctx context.Context, src, dst string, opts SyncOptions) (*SyncReport, error) {
	for _, dir := range []string{src, dst} {
		if err := requireDir(dir); err != nil {
			return nil, err
		}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Platform == "" {
		opts.Platform = packwiz.PlatformModrinth
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = resource.Kinds()
	}

	report := &SyncReport{Source: src, Target: dst}
	for _, kind := range opts.Kinds {
		res, err := s.syncKind(ctx, src, dst, kind, opts)
		report.Kinds = append(report.Kinds, res)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *Service) syncKind(ctx context.Context, src, dst string, kind resource.Kind, opts SyncOptions) (KindResult, error) {
	res := KindResult{Kind: kind}

	want, err := resource.List(src, kind)
	if err != nil {
		return res, err
	}
	have, err := resource.List(dst, kind)
	if err != nil {
		return res, err
	}
	missing := resource.Missing(want, have)
	res.Present = resource.Missing(want, missing)
	if len(missing) == 0 {
		return res, nil
	}

	s.logger.Info("syncing resources", "kind", kind, "missing", len(missing), "target", dst)
	rep := s.reporter(len(missing))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(min(opts.Concurrency, len(missing)))
	for _, name := range missing {
		g.Go(func() error {
			err := s.installOne(ctx, dst, opts.Platform, name)
			rep.Step(name, statusOf(err))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed = append(res.Failed, name)
			} else {
				res.Installed = append(res.Installed, name)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(res.Installed)
	sort.Strings(res.Failed)
	return res, ctx.Err()
}

func (s *Service) installOne(ctx context.Context, dst string, platform packwiz.Platform, name string) error {
	if !resource.IsMetadata(name) {
		err := fmt.Errorf("%s is not a packwiz metadata file", name)
		s.logger.Warn("cannot install resource", "name", name, "err", err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.Install(ctx, dst, platform, resource.Slug(name)); err != nil {
		s.logger.Warn("install failed", "name", name, "target", dst, "err", err)
		return err
	}
	return nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotDirectory, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return nil
}
