package baker

import (
	"github.com/Carmen-Shannon/relight-go/baker/host"
	"github.com/Carmen-Shannon/relight-go/baker/orchestrator"
	"github.com/Carmen-Shannon/relight-go/baker/shading"
	"github.com/Carmen-Shannon/relight-go/baker/uv_provisioner"
)

// BakerBuilderOption is a functional option for configuring a Baker via NewBaker.
type BakerBuilderOption func(*baker)

// WithShading replaces the internally constructed archiver/rewriter pair.
// Both must share state; pass the archiver the rewriter was built with.
//
// Parameters:
//   - arch: the shared archiver
//   - rw: the rewriter built over the same archiver
//
// Returns:
//   - BakerBuilderOption: a function that applies the shading option to a baker
func WithShading(arch shading.Archiver, rw shading.Rewriter) BakerBuilderOption {
	return func(b *baker) {
		b.arch = arch
		b.rw = rw
	}
}

// WithOrchestrator replaces the internally constructed orchestrator. The
// orchestrator must share the baker's archiver and rewriter or mode state
// will diverge between batch bakes and mode switches.
//
// Parameters:
//   - o: the orchestrator instance
//
// Returns:
//   - BakerBuilderOption: a function that applies the orchestrator option to a baker
func WithOrchestrator(o orchestrator.Orchestrator) BakerBuilderOption {
	return func(b *baker) {
		b.orch = o
	}
}

// WithProgress sets the per-object progress callback passed to the internally
// constructed orchestrator. Ignored when WithOrchestrator is also used.
//
// Parameters:
//   - fn: the progress callback
//
// Returns:
//   - BakerBuilderOption: a function that applies the progress option to a baker
func WithProgress(fn orchestrator.ProgressFunc) BakerBuilderOption {
	return func(b *baker) {
		b.progress = fn
	}
}

// WithIslandMargin sets the UV island separation (fraction of UV space) used
// by the internally constructed provisioner when an object needs a new UV
// channel. Ignored when WithOrchestrator is also used.
//
// Parameters:
//   - margin: island separation fraction, e.g. 16.0/1024.0
//
// Returns:
//   - BakerBuilderOption: a function that applies the margin option to a baker
func WithIslandMargin(margin float64) BakerBuilderOption {
	return func(b *baker) {
		b.islandMargin = margin
	}
}

// newProvisioner builds the provisioner used by the default orchestrator when
// a custom island margin is configured.
func newProvisioner(h host.Host, margin float64) uv_provisioner.Provisioner {
	return uv_provisioner.NewProvisioner(h, uv_provisioner.WithIslandMargin(margin))
}
