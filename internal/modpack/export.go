// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/optipack/optipack/internal/layout"
	"github.com/optipack/optipack/internal/packwiz"
)

// ExportOptions tunes Export.
type ExportOptions struct {
	// Platform selects the artifact format (default modrinth).
	Platform packwiz.Platform
	// Cleanup removes previously exported artifacts of the same format from
	// each target before exporting.
	Cleanup bool
}

// Export runs "packwiz <format> export" in each target and returns the
// targets that failed. Cleanup, when requested, happens for every target
// before the first export.
func (s *Service) Export(ctx context.Context, targets []layout.Target, opts ExportOptions) ([]layout.Target, error) {
	if opts.Platform == "" {
		opts.Platform = packwiz.PlatformModrinth
	}
	if ok, errs := opts.Platform.IsValid(); !ok {
		return nil, errs[0]
	}

	if opts.Cleanup {
		for _, t := range targets {
			removed, err := CleanArtifacts(t.Dir, opts.Platform)
			if err != nil {
				s.logger.Warn("cleanup failed", "target", t.Key(), "err", err)
				continue
			}
			if removed > 0 {
				s.logger.Debug("removed old artifacts", "target", t.Key(), "count", removed)
			}
		}
	}

	s.logger.Info("exporting packs", "count", len(targets), "format", opts.Platform)
	rep := s.reporter(len(targets))

	var failed []layout.Target
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		rep.Start("exporting " + t.Key())
		err := s.client.Export(ctx, t.Dir, opts.Platform)
		if err != nil {
			s.logger.Warn("export failed", "target", t.Key(), "err", err)
			failed = append(failed, t)
		}
		rep.Step(t.Key(), statusOf(err))
	}
	return failed, ctx.Err()
}

// CleanArtifacts removes the top-level files of dir carrying the platform's
// artifact extension and returns how many were removed.
func CleanArtifacts(dir string, platform packwiz.Platform) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", dir, err)
	}
	ext := platform.ArtifactExt()
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return removed, fmt.Errorf("remove old artifact: %w", err)
		}
		removed++
	}
	return removed, nil
}
