package shading

import (
	"fmt"

	"github.com/Carmen-Shannon/relight-go/baker/host"
)

// rewriter is the implementation of the Rewriter interface.
type rewriter struct {
	arch Archiver
}

// Rewriter redirects material output sockets between the baked lightmap
// texture and the original shading network. It is a pure graph-level tool:
// only RevertToOriginal touches mode bookkeeping, by delegating to the
// Archiver. The original network's nodes are never deleted, only the terminal
// link is redirected.
type Rewriter interface {
	// ApplyBaked connects every material graph's bound bake-target node
	// directly to the final output socket, severing whatever fed it. Fails if
	// any material has no bake target bound (Allocate must run first).
	//
	// Parameters:
	//   - obj: the object whose graphs are rewired
	//
	// Returns:
	//   - error: ErrInvalidState if a material has no bake target bound
	ApplyBaked(obj host.Object) error

	// ApplyOriginal re-applies the snapshot's recorded links without touching
	// mode state. Used to bake an already-Baked object through its original
	// network, with ApplyBaked as the rollback if the bake then fails.
	//
	// Parameters:
	//   - obj: the object whose graphs are rewired
	//   - snap: the snapshot holding the original wiring
	//
	// Returns:
	//   - error: ErrInvalidState if the snapshot is nil, or an apply failure
	ApplyOriginal(obj host.Object, snap *Snapshot) error

	// RevertToOriginal performs the full restore: recorded links re-created,
	// snapshot discarded, mode back to Real. Delegates to Archiver.Restore.
	//
	// Parameters:
	//   - obj: the object to restore
	//   - snap: the snapshot to apply; nil uses the archiver's stored snapshot
	//
	// Returns:
	//   - error: ErrInvalidState if the object is Real or has no snapshot
	RevertToOriginal(obj host.Object, snap *Snapshot) error
}

var _ Rewriter = &rewriter{}

// NewRewriter creates a Rewriter with the given options applied. A Rewriter
// used for RevertToOriginal must share the Archiver that captured the
// snapshots (WithArchiver); without one, RevertToOriginal fails.
//
// Parameters:
//   - options: functional options to configure the rewriter
//
// Returns:
//   - Rewriter: the newly created rewriter
func NewRewriter(options ...RewriterBuilderOption) Rewriter {
	r := &rewriter{}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *rewriter) ApplyBaked(obj host.Object) error {
	for _, g := range obj.Materials() {
		target, ok := g.BakeTarget()
		if !ok {
			return fmt.Errorf("%s/%s: no bake target bound: %w", obj.Name(), g.Name(), ErrInvalidState)
		}
		link := []host.Link{{FromNode: target, FromOutput: 0, ToInput: 0}}
		if err := g.SetOutputLinks(link); err != nil {
			return fmt.Errorf("%s/%s: failed to connect bake target: %w", obj.Name(), g.Name(), err)
		}
	}
	return nil
}

func (r *rewriter) ApplyOriginal(obj host.Object, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%s: no snapshot to apply: %w", obj.Name(), ErrInvalidState)
	}
	return snap.Apply(obj)
}

func (r *rewriter) RevertToOriginal(obj host.Object, snap *Snapshot) error {
	if r.arch == nil {
		return fmt.Errorf("%s: rewriter has no archiver attached: %w", obj.Name(), ErrInvalidState)
	}
	return r.arch.Restore(obj, snap)
}
