// Package orchestrator drives the batch bake: per object, in input order,
// provision UVs, allocate the bake target, run the host bake, save the image,
// and finally transition every fully-successful object to Baked mode. Objects
// fail independently; one object's failure never stops or rolls back another.
package orchestrator

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/relight-go/baker/bake_target"
	"github.com/Carmen-Shannon/relight-go/baker/host"
	"github.com/Carmen-Shannon/relight-go/baker/shading"
	"github.com/Carmen-Shannon/relight-go/baker/uv_provisioner"
	"github.com/Carmen-Shannon/relight-go/common"
)

// ErrNotBakeable marks objects that resolve but carry no bakeable surface
// type (lights, empties). Such objects are Skipped, not Failed.
var ErrNotBakeable = errors.New("object is not bakeable")

// ProgressFunc is called once per object before it is processed.
type ProgressFunc func(index, total int, object string)

// orchestrator is the implementation of the Orchestrator interface.
type orchestrator struct {
	h        host.Host
	uv       uv_provisioner.Provisioner
	alloc    bake_target.Allocator
	arch     shading.Archiver
	rw       shading.Rewriter
	progress ProgressFunc
}

// Orchestrator runs bake batches.
type Orchestrator interface {
	// RunBatch processes each name in input order. Duplicate names are
	// processed independently per occurrence. Per-object errors are captured
	// in that object's BakeResult and never abort the batch; the error return
	// is reserved for batch-fatal configuration problems detected up front
	// (invalid settings, unwritable output directory), in which case no
	// object is processed.
	//
	// After the loop, every object with at least one fully successful attempt
	// is transitioned to Baked mode atomically: the original wiring is
	// captured before the rewrite, and a rewrite failure discards the capture
	// and leaves the object Real (its successful results become Failed).
	//
	// Parameters:
	//   - names: ordered object names, duplicates kept
	//   - settings: the run settings
	//
	// Returns:
	//   - []common.BakeResult: one result per input name, in input order
	//   - error: batch-fatal configuration error, nil otherwise
	RunBatch(names []string, settings common.Settings) ([]common.BakeResult, error)
}

var _ Orchestrator = &orchestrator{}

// NewOrchestrator creates an Orchestrator bound to a host, with default
// sub-components for any not supplied via options. Panics if the host is nil.
// The Archiver and Rewriter should be shared with the mode-switch layer so
// both see the same per-object state.
//
// Parameters:
//   - h: the host collaborator
//   - options: functional options to configure the orchestrator
//
// Returns:
//   - Orchestrator: the newly created orchestrator
func NewOrchestrator(h host.Host, options ...OrchestratorBuilderOption) Orchestrator {
	if h == nil {
		panic("orchestrator: NewOrchestrator requires a non-nil Host")
	}
	o := &orchestrator{h: h}
	for _, option := range options {
		option(o)
	}
	if o.uv == nil {
		o.uv = uv_provisioner.NewProvisioner(h)
	}
	if o.alloc == nil {
		o.alloc = bake_target.NewAllocator(h)
	}
	if o.arch == nil {
		o.arch = shading.NewArchiver()
	}
	if o.rw == nil {
		o.rw = shading.NewRewriter(shading.WithArchiver(o.arch))
	}
	return o
}

func (o *orchestrator) RunBatch(names []string, settings common.Settings) ([]common.BakeResult, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bake settings: %w", err)
	}
	if err := ensureWritableDir(settings.OutputDir); err != nil {
		return nil, fmt.Errorf("output directory not writable: %w", err)
	}

	log := common.Logger()
	results := make([]common.BakeResult, 0, len(names))

	// Track, per object, the image of its most recent successful attempt and
	// the first-success order for the transition pass.
	lastImage := make(map[string]host.ImageHandle)
	var succeeded []string

	for i, name := range names {
		if o.progress != nil {
			o.progress(i, len(names), name)
		}
		res, img := o.bakeObject(name, settings)
		results = append(results, res)
		switch res.Status {
		case common.StatusSuccess:
			if _, seen := lastImage[name]; !seen {
				succeeded = append(succeeded, name)
			}
			lastImage[name] = img
			log.Info("baked", "object", name, "path", settings.OutputPath(name))
		case common.StatusSkipped:
			log.Warn("skipped", "object", name, "reason", res.Reason)
		default:
			log.Warn("bake failed", "object", name, "reason", res.Reason)
		}
	}

	// Transition pass: flip fully-successful objects to Baked. Performed
	// after all bakes so a later duplicate attempt still samples the
	// original network.
	for _, name := range succeeded {
		if err := o.transition(name, lastImage[name]); err != nil {
			log.Warn("mode transition failed", "object", name, "reason", err)
			for j := range results {
				if results[j].Object == name && results[j].Status == common.StatusSuccess {
					results[j].Status = common.StatusFailed
					results[j].Reason = err
				}
			}
		}
	}

	log.Info("batch complete", "summary", common.Summarize(results))
	return results, nil
}

// bakeObject runs one attempt for one name and returns its result plus the
// bake image on success.
func (o *orchestrator) bakeObject(name string, settings common.Settings) (common.BakeResult, host.ImageHandle) {
	failed := func(err error) (common.BakeResult, host.ImageHandle) {
		return common.BakeResult{Object: name, Status: common.StatusFailed, Reason: err}, nil
	}

	obj, err := o.h.ResolveObjectByName(name)
	if err != nil {
		return failed(err)
	}
	if !obj.Bakeable() {
		reason := fmt.Errorf("%s: %w", name, ErrNotBakeable)
		return common.BakeResult{Object: name, Status: common.StatusSkipped, Reason: reason}, nil
	}

	if _, err := o.uv.Ensure(obj); err != nil {
		return failed(err)
	}
	img, err := o.alloc.Allocate(obj, settings)
	if err != nil {
		return failed(err)
	}

	// An already-Baked object must bake through its original network, never
	// through its own lightmap. Roll the baked wiring back if the bake or
	// save fails so the object stays consistent with its Baked mode.
	wasBaked := o.arch.Mode(name) == common.ShadingModeBaked
	if wasBaked {
		if err := o.rw.ApplyOriginal(obj, o.arch.Snapshot(name)); err != nil {
			return failed(err)
		}
	}
	rollback := func() {
		if wasBaked {
			if rbErr := o.rw.ApplyBaked(obj); rbErr != nil {
				common.Logger().Warn("rollback to baked wiring failed", "object", name, "reason", rbErr)
			}
		}
	}

	req := host.BakeRequest{Type: settings.BakeType, Samples: settings.Samples, Margin: settings.Margin}
	if err := o.h.ExecuteBake(obj, req); err != nil {
		rollback()
		return failed(err)
	}
	if err := o.h.SaveImage(img, settings.OutputPath(name)); err != nil {
		rollback()
		return failed(fmt.Errorf("%s: failed to save baked image: %w", name, err))
	}
	return common.BakeResult{Object: name, Status: common.StatusSuccess}, img
}

// transition flips one successfully baked object to Baked mode: capture (or
// reuse the existing snapshot), apply the baked wiring, then commit. The
// capture is committed only after the rewrite succeeded, so a rewrite failure
// leaves no snapshot behind and the mode stays Real.
func (o *orchestrator) transition(name string, img host.ImageHandle) error {
	obj, err := o.h.ResolveObjectByName(name)
	if err != nil {
		return err
	}

	snap, err := o.arch.Capture(obj)
	if errors.Is(err, shading.ErrAlreadyCaptured) {
		snap = o.arch.Snapshot(name)
	} else if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("%s: no snapshot available: %w", name, shading.ErrInvalidState)
	}

	if err := o.rw.ApplyBaked(obj); err != nil {
		return err
	}
	o.arch.Commit(obj, snap, img)
	return nil
}

// ensureWritableDir creates the directory if absent and probes that it is
// actually writable before any object is processed.
func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".relight-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	if err := probe.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}
