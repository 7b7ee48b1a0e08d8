package vkframe

import (
	"log/slog"

	"github.com/cockroachdb/errors"
)

// Stage orders owned GPU resources by construction. Resources are created in
// increasing stage order and must be destroyed in decreasing stage order.
type Stage int

const (
	StageInstance Stage = iota
	StageSurface
	StageDevice
	StageChain
	StageImageViews
	StagePipeline
	StageRenderTargets
	StageFrameSync

	numStages
)

var stageNames = [numStages]string{
	StageInstance:      "instance",
	StageSurface:       "surface",
	StageDevice:        "device",
	StageChain:         "chain",
	StageImageViews:    "image views",
	StagePipeline:      "pipeline",
	StageRenderTargets: "render targets",
	StageFrameSync:     "frame sync",
}

func (s Stage) String() string {
	if s < 0 || s >= numStages {
		return "invalid"
	}
	return stageNames[s]
}

type teardownEntry struct {
	name    string
	destroy func()
}

// Teardown is an arena of destroy calls. Entries are grouped by stage; a
// stage can only be populated while every lower stage is live, and release
// always runs from the highest stage down, last-in first-out within a stage.
type Teardown struct {
	stages   [numStages][]teardownEntry
	released []Stage
	log      *slog.Logger
}

// NewTeardown creates an empty arena
func NewTeardown(logger *slog.Logger) *Teardown {
	if logger == nil {
		logger = slog.Default()
	}
	return &Teardown{log: logger}
}

// Push registers destroy to run when stage is released
func (t *Teardown) Push(stage Stage, name string, destroy func()) error {
	if stage < 0 || stage >= numStages {
		return errors.Wrapf(ErrTeardownOrder, "%s: unknown stage %d", name, stage)
	}
	for s := StageInstance; s < stage; s++ {
		if !t.Live(s) {
			return errors.Wrapf(ErrTeardownOrder, "%s (%s) registered before %s", name, stage, s)
		}
	}
	t.stages[stage] = append(t.stages[stage], teardownEntry{name: name, destroy: destroy})
	return nil
}

// Live reports whether any entry is registered for stage
func (t *Teardown) Live(stage Stage) bool {
	return stage >= 0 && stage < numStages && len(t.stages[stage]) > 0
}

// Release destroys everything, highest stage first
func (t *Teardown) Release() {
	t.ReleaseRange(StageInstance, numStages-1)
}

// ReleaseRange destroys the stages in [from, to], highest first. Stages above
// to are left alone, so callers releasing a band under live stages must only
// do so once the GPU is idle and the band's dependents are being rebuilt.
func (t *Teardown) ReleaseRange(from, to Stage) {
	for s := to; s >= from; s-- {
		entries := t.stages[s]
		for i := len(entries) - 1; i >= 0; i-- {
			t.log.Debug("releasing", "stage", s.String(), "resource", entries[i].name)
			if entries[i].destroy != nil {
				entries[i].destroy()
			}
			t.released = append(t.released, s)
		}
		t.stages[s] = nil
	}
}

// Released returns the stage of every entry released so far, in release order
func (t *Teardown) Released() []Stage {
	return append([]Stage(nil), t.released...)
}

// CheckShutdownOrder verifies that seq never destroys a resource of a higher
// stage after one of a lower stage.
func CheckShutdownOrder(seq []Stage) error {
	for i := 1; i < len(seq); i++ {
		if seq[i] > seq[i-1] {
			return errors.Wrapf(ErrTeardownOrder, "%s destroyed after %s", seq[i], seq[i-1])
		}
	}
	return nil
}
