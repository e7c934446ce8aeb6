package orchestrator

import (
	"github.com/Carmen-Shannon/relight-go/baker/bake_target"
	"github.com/Carmen-Shannon/relight-go/baker/shading"
	"github.com/Carmen-Shannon/relight-go/baker/uv_provisioner"
)

// OrchestratorBuilderOption is a functional option for configuring an Orchestrator via NewOrchestrator.
type OrchestratorBuilderOption func(*orchestrator)

// WithProvisioner sets the UV provisioner used per object.
//
// Parameters:
//   - p: the provisioner instance
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the provisioner option to an orchestrator
func WithProvisioner(p uv_provisioner.Provisioner) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.uv = p
	}
}

// WithAllocator sets the bake target allocator used per object.
//
// Parameters:
//   - a: the allocator instance
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the allocator option to an orchestrator
func WithAllocator(a bake_target.Allocator) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.alloc = a
	}
}

// WithShading sets the archiver and rewriter pair driving mode transitions.
// Both must share state; pass the archiver the rewriter was built with.
//
// Parameters:
//   - arch: the shared archiver
//   - rw: the rewriter built over the same archiver
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the shading option to an orchestrator
func WithShading(arch shading.Archiver, rw shading.Rewriter) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.arch = arch
		o.rw = rw
	}
}

// WithProgress sets a callback invoked once per object before processing,
// mirroring a UI progress bar.
//
// Parameters:
//   - fn: the progress callback
//
// Returns:
//   - OrchestratorBuilderOption: a function that applies the progress option to an orchestrator
func WithProgress(fn ProgressFunc) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.progress = fn
	}
}
