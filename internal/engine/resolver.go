package engine

import (
	"context"

	"github.com/roach88/unitgate/internal/unit"
)

// resolve checks u's requirements in declaration order and reports whether
// u may run. Requirements that have not been attempted are run first when
// u.CheckRequired() is true and passed over otherwise.
//
// The caller has already written InProgress for id, so a requirement that
// leads back to u sees InProgress and a NeedOK gate closes instead of
// recursing.
func (e *Engine) resolve(ctx context.Context, u unit.Unit, id string) (bool, error) {
	strict := u.CheckRequired()

	for _, req := range u.Requirements() {
		entry := e.registry.Lookup(req.Target)

		if entry.State == NotStarted {
			if !strict || req.New == nil {
				e.logger.Debug("requirement passed over", "unit", id, "requirement", req.Target)
				continue
			}
			if _, err := e.StartTesting(ctx, req.New()); err != nil {
				return false, NewRequirementError(id, req.Target, err)
			}
			entry = e.registry.Lookup(req.Target)
		}

		if !req.NeedOK {
			continue
		}
		if entry.State != Completed || !entry.Result.OK() {
			e.logger.Info("requirement gate closed",
				"unit", id,
				"requirement", req.Target,
				"state", entry.State,
			)
			return false, nil
		}
	}
	return true, nil
}
