// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"context"

	"github.com/optipack/optipack/internal/layout"
)

// Update runs "packwiz update --all --yes" in each target, one at a time, and
// returns the targets that failed. The error is non-nil only when ctx ends.
func (s *Service) Update(ctx context.Context, targets []layout.Target) ([]layout.Target, error) {
	s.logger.Info("updating packs", "count", len(targets))
	rep := s.reporter(len(targets))

	var failed []layout.Target
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		rep.Start("updating " + t.Key())
		err := s.client.UpdateAll(ctx, t.Dir)
		if err != nil {
			s.logger.Warn("update failed", "target", t.Key(), "err", err)
			failed = append(failed, t)
		}
		rep.Step(t.Key(), statusOf(err))
	}
	return failed, ctx.Err()
}
