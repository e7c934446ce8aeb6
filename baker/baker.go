// Package baker is the top-level entry point: batch lightmap baking plus the
// per-object Real/Baked mode state machine, over a host consumed through the
// baker/host port.
package baker

import (
	"fmt"

	"github.com/Carmen-Shannon/relight-go/baker/host"
	"github.com/Carmen-Shannon/relight-go/baker/orchestrator"
	"github.com/Carmen-Shannon/relight-go/baker/shading"
	"github.com/Carmen-Shannon/relight-go/common"
)

// baker is the implementation of the Baker interface.
type baker struct {
	h    host.Host
	arch shading.Archiver
	rw   shading.Rewriter
	orch orchestrator.Orchestrator

	progress     orchestrator.ProgressFunc
	islandMargin float64
}

// Baker is the user-facing surface: batch bakes and Real/Baked mode switches.
// Every object is a two-state machine (Real, Baked; initial Real) and all
// batch variants apply their transition per object independently — one
// object's failure never blocks the others.
type Baker interface {
	// RunBatch bakes every object named in the comma-separated list, in
	// order, and transitions fully successful objects to Baked mode. Names
	// are trimmed, empties dropped, duplicates kept and processed
	// independently.
	//
	// Parameters:
	//   - objectNames: comma-separated object names, e.g. "Floor, Ceiling"
	//   - settings: the run settings
	//
	// Returns:
	//   - []common.BakeResult: one result per name, in input order
	//   - error: batch-fatal configuration error; nil otherwise
	RunBatch(objectNames string, settings common.Settings) ([]common.BakeResult, error)

	// SwitchToBaked transitions each named object Real→Baked using its
	// retained bake image. Requires a prior successful bake; objects without
	// one fail with a state error and stay Real. Already-Baked objects are a
	// no-op success.
	//
	// Parameters:
	//   - objectNames: comma-separated object names
	//
	// Returns:
	//   - []common.BakeResult: one transition outcome per name
	SwitchToBaked(objectNames string) []common.BakeResult

	// SwitchToReal transitions each named object Baked→Real by restoring its
	// archived wiring. Objects without a snapshot (including objects already
	// Real) fail with a state error.
	//
	// Parameters:
	//   - objectNames: comma-separated object names
	//
	// Returns:
	//   - []common.BakeResult: one transition outcome per name
	SwitchToReal(objectNames string) []common.BakeResult

	// Mode returns the current shading mode of an object. Unknown objects
	// are Real.
	//
	// Parameters:
	//   - object: the object name
	//
	// Returns:
	//   - common.ShadingMode: the object's current mode
	Mode(object string) common.ShadingMode
}

var _ Baker = &baker{}

// NewBaker creates a Baker over a host. Panics if the host is nil. By default
// the archiver, rewriter and orchestrator are constructed internally and share
// state; options can replace any of them.
//
// Parameters:
//   - h: the host collaborator (softhost or a real engine adapter)
//   - options: functional options to further configure the baker
//
// Returns:
//   - Baker: the newly created baker
func NewBaker(h host.Host, options ...BakerBuilderOption) Baker {
	if h == nil {
		panic("baker: NewBaker requires a non-nil Host")
	}
	b := &baker{h: h}
	for _, option := range options {
		option(b)
	}
	if b.arch == nil {
		b.arch = shading.NewArchiver()
	}
	if b.rw == nil {
		b.rw = shading.NewRewriter(shading.WithArchiver(b.arch))
	}
	if b.orch == nil {
		opts := []orchestrator.OrchestratorBuilderOption{
			orchestrator.WithShading(b.arch, b.rw),
		}
		if b.progress != nil {
			opts = append(opts, orchestrator.WithProgress(b.progress))
		}
		if b.islandMargin > 0 {
			opts = append(opts, orchestrator.WithProvisioner(
				newProvisioner(h, b.islandMargin)))
		}
		b.orch = orchestrator.NewOrchestrator(h, opts...)
	}
	return b
}

func (b *baker) RunBatch(objectNames string, settings common.Settings) ([]common.BakeResult, error) {
	return b.orch.RunBatch(common.SplitObjectNames(objectNames), settings)
}

func (b *baker) SwitchToBaked(objectNames string) []common.BakeResult {
	names := common.SplitObjectNames(objectNames)
	results := make([]common.BakeResult, 0, len(names))
	for _, name := range names {
		results = append(results, b.switchOneToBaked(name))
	}
	return results
}

func (b *baker) SwitchToReal(objectNames string) []common.BakeResult {
	names := common.SplitObjectNames(objectNames)
	results := make([]common.BakeResult, 0, len(names))
	for _, name := range names {
		results = append(results, b.switchOneToReal(name))
	}
	return results
}

func (b *baker) Mode(object string) common.ShadingMode {
	return b.arch.Mode(object)
}

func (b *baker) switchOneToBaked(name string) common.BakeResult {
	log := common.Logger()
	obj, err := b.h.ResolveObjectByName(name)
	if err != nil {
		return common.BakeResult{Object: name, Status: common.StatusFailed, Reason: err}
	}
	if b.arch.Mode(name) == common.ShadingModeBaked {
		return common.BakeResult{Object: name, Status: common.StatusSuccess}
	}
	img := b.arch.BakedImage(name)
	if img == nil {
		reason := fmt.Errorf("%s: no baked image, bake first: %w", name, shading.ErrInvalidState)
		return common.BakeResult{Object: name, Status: common.StatusFailed, Reason: reason}
	}

	snap, err := b.arch.Capture(obj)
	if err != nil {
		return common.BakeResult{Object: name, Status: common.StatusFailed, Reason: err}
	}
	// Capture succeeded but is not committed yet; an ApplyBaked failure here
	// simply discards the snapshot and the mode stays Real.
	if err := b.rw.ApplyBaked(obj); err != nil {
		return common.BakeResult{Object: name, Status: common.StatusFailed, Reason: err}
	}
	b.arch.Commit(obj, snap, img)
	log.Info("switched to baked shading", "object", name)
	return common.BakeResult{Object: name, Status: common.StatusSuccess}
}

func (b *baker) switchOneToReal(name string) common.BakeResult {
	log := common.Logger()
	obj, err := b.h.ResolveObjectByName(name)
	if err != nil {
		return common.BakeResult{Object: name, Status: common.StatusFailed, Reason: err}
	}
	if err := b.rw.RevertToOriginal(obj, nil); err != nil {
		return common.BakeResult{Object: name, Status: common.StatusFailed, Reason: err}
	}
	log.Info("switched to real shading", "object", name)
	return common.BakeResult{Object: name, Status: common.StatusSuccess}
}
