// Package layout turns validated requests into renderable scene plans.
//
// One driver per diagram family. Each driver positions its elements with the
// pure helpers from [geometry], delegates the step timeline to [sequence], and
// fills the plan summary with the family's result metadata. Drivers never
// perform I/O; everything downstream of a driver works from the plan alone.
//
// Layout failures surface here, before any script is emitted. The only
// fail-fast condition is empty input where the geometry is undefined; unknown
// structure kinds fall back to a generic layout and oversized inputs are
// capped with a truncation notice in the summary.
package layout

import (
	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// Build dispatches a validated request to its family driver.
func Build(req *diagram.Request) (*scene.Plan, error) {
	switch req.Kind {
	case scene.FamilyProtocol:
		return Protocol(req.Protocol)
	case scene.FamilyResolution:
		return Resolution(req.Resolution)
	case scene.FamilyStructure:
		return Structure(req.Structure)
	case scene.FamilyFlow:
		return Flow(req.Flow)
	default:
		return nil, errors.New(errors.ErrCodeInvalidKind, "no layout driver for kind %q", req.Kind)
	}
}

// errorsInternal wraps a plan validation failure. Drivers construct plans
// that always validate, so hitting this means a driver bug.
func errorsInternal(err error) error {
	return errors.Wrap(errors.ErrCodeInternal, err, "layout produced an invalid plan")
}

// stepTally counts steps per kind for the plan summary.
func stepTally(steps []scene.Step) map[string]int {
	tally := make(map[string]int)
	for _, st := range steps {
		tally[string(st.Kind)]++
	}
	return tally
}
