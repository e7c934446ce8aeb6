package shading

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/relight-go/baker/host"
	"github.com/Carmen-Shannon/relight-go/common"
)

var (
	// ErrAlreadyCaptured is returned by Capture when the object is already in
	// Baked mode and therefore already carries a snapshot. It is the
	// idempotence guard, not a failure: callers reuse the existing snapshot
	// instead of stacking a second one.
	ErrAlreadyCaptured = errors.New("object wiring already captured")

	// ErrInvalidState is returned for invalid mode transitions: restoring an
	// object that is already Real, or restoring with no snapshot present.
	ErrInvalidState = errors.New("invalid shading state transition")
)

// archiver is the implementation of the Archiver interface.
type archiver struct {
	mu sync.RWMutex

	modes     map[string]common.ShadingMode
	snapshots map[string]*Snapshot
	images    map[string]host.ImageHandle
}

// Archiver tracks per-object shading mode and archives original output wiring
// so it can be restored exactly. Each object carries at most one snapshot,
// existing exactly while the object is Baked. The archiver also retains the
// object→bake-image association across mode switches: restoring to Real
// discards the snapshot but keeps the image handle so a later switch back to
// Baked remains possible without re-baking.
type Archiver interface {
	// Capture records the links feeding every material's final output socket
	// while the object is in Real mode. Capture does not change mode or store
	// the snapshot; call Commit once the rewrite has succeeded, so a rewrite
	// failure simply discards the snapshot (per-object atomicity).
	//
	// Parameters:
	//   - obj: the object to capture
	//
	// Returns:
	//   - *Snapshot: the recorded wiring
	//   - error: ErrAlreadyCaptured if the object is already Baked
	Capture(obj host.Object) (*Snapshot, error)

	// Commit stores the snapshot and bake image for an object and flips its
	// mode to Baked. Committing an already-Baked object replaces the image
	// handle and keeps the single existing snapshot slot (re-bake reuse).
	//
	// Parameters:
	//   - obj: the object transitioning to Baked
	//   - snap: the snapshot to retain (must not be nil)
	//   - img: the bake image to retain; nil keeps the previous handle
	Commit(obj host.Object, snap *Snapshot, img host.ImageHandle)

	// Restore re-creates the recorded links on the object's output sockets,
	// removes the baked-texture link by replacement, discards the snapshot
	// and flips the mode back to Real. Only valid while the object is Baked.
	//
	// Parameters:
	//   - obj: the object to restore
	//   - snap: the snapshot to apply; nil uses the stored snapshot
	//
	// Returns:
	//   - error: ErrInvalidState if the object is Real or has no snapshot
	Restore(obj host.Object, snap *Snapshot) error

	// Mode returns the current shading mode of an object. Unknown objects
	// are Real.
	Mode(object string) common.ShadingMode

	// Snapshot returns the stored snapshot of a Baked object, or nil.
	Snapshot(object string) *Snapshot

	// BakedImage returns the retained bake image handle of an object, or nil
	// if the object was never successfully baked.
	BakedImage(object string) host.ImageHandle
}

var _ Archiver = &archiver{}

// NewArchiver creates an empty Archiver. All tracked objects start in Real mode.
//
// Returns:
//   - Archiver: the newly created archiver
func NewArchiver() Archiver {
	return &archiver{
		modes:     make(map[string]common.ShadingMode),
		snapshots: make(map[string]*Snapshot),
		images:    make(map[string]host.ImageHandle),
	}
}

func (a *archiver) Capture(obj host.Object) (*Snapshot, error) {
	a.mu.RLock()
	mode := a.modes[obj.Name()]
	a.mu.RUnlock()
	if mode == common.ShadingModeBaked {
		return nil, fmt.Errorf("%s: %w", obj.Name(), ErrAlreadyCaptured)
	}

	snap := &Snapshot{Object: obj.Name()}
	for _, g := range obj.Materials() {
		snap.Materials = append(snap.Materials, captureGraph(g))
	}
	return snap, nil
}

func (a *archiver) Commit(obj host.Object, snap *Snapshot, img host.ImageHandle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshots[obj.Name()] = snap
	if img != nil {
		a.images[obj.Name()] = img
	}
	a.modes[obj.Name()] = common.ShadingModeBaked
}

func (a *archiver) Restore(obj host.Object, snap *Snapshot) error {
	a.mu.Lock()
	if a.modes[obj.Name()] != common.ShadingModeBaked {
		a.mu.Unlock()
		return fmt.Errorf("%s: already in Real mode: %w", obj.Name(), ErrInvalidState)
	}
	if snap == nil {
		snap = a.snapshots[obj.Name()]
	}
	a.mu.Unlock()
	if snap == nil {
		return fmt.Errorf("%s: no snapshot to restore: %w", obj.Name(), ErrInvalidState)
	}

	if err := snap.Apply(obj); err != nil {
		return err
	}

	// Snapshot is discarded on restore; the bake image handle is kept so the
	// object can switch back to Baked without re-baking.
	a.mu.Lock()
	delete(a.snapshots, obj.Name())
	a.modes[obj.Name()] = common.ShadingModeReal
	a.mu.Unlock()
	return nil
}

func (a *archiver) Mode(object string) common.ShadingMode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.modes[object]
}

func (a *archiver) Snapshot(object string) *Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshots[object]
}

func (a *archiver) BakedImage(object string) host.ImageHandle {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.images[object]
}
