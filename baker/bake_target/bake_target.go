// Package bake_target allocates the image buffer that receives baked samples
// and binds it as the active bake target in every material of an object. All
// materials of one object share a single bake image.
package bake_target

import (
	"fmt"

	"github.com/Carmen-Shannon/relight-go/baker/host"
	"github.com/Carmen-Shannon/relight-go/common"
)

// bakingMaterialSuffix names the material created for objects that have none.
const bakingMaterialSuffix = "_BakingMat"

// allocator is the implementation of the Allocator interface.
type allocator struct {
	h host.Host
}

// Allocator provisions per-object bake image buffers.
type Allocator interface {
	// Allocate creates (or replaces) the object's square bake image, named
	// deterministically "<object>_<bakeType>" so repeated runs overwrite
	// rather than accumulate buffers, and binds it as the active bake target
	// in every material graph of the object. Objects without materials get a
	// default "<object>_BakingMat" material first. The alpha channel is
	// disabled for Combined bakes. Idempotent: calling twice replaces the
	// prior buffer and binding, never duplicates.
	//
	// Parameters:
	//   - obj: the object to allocate a target for
	//   - settings: the run settings providing resolution and bake type
	//
	// Returns:
	//   - host.ImageHandle: the bound bake image
	//   - error: error if buffer creation, material creation or binding fails
	Allocate(obj host.Object, settings common.Settings) (host.ImageHandle, error)
}

var _ Allocator = &allocator{}

// NewAllocator creates an Allocator bound to a host. Panics if the host is nil.
//
// Parameters:
//   - h: the host providing image and material creation
//
// Returns:
//   - Allocator: the newly created allocator
func NewAllocator(h host.Host) Allocator {
	if h == nil {
		panic("bake_target: NewAllocator requires a non-nil Host")
	}
	return &allocator{h: h}
}

func (a *allocator) Allocate(obj host.Object, settings common.Settings) (host.ImageHandle, error) {
	name := settings.ImageName(obj.Name())
	// No alpha for Combined, so the lightmap composites as an opaque surface.
	alpha := settings.BakeType != common.BakeTypeCombined
	img, err := a.h.CreateImageBuffer(name, settings.Resolution, alpha)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create bake image: %w", obj.Name(), err)
	}

	if len(obj.Materials()) == 0 {
		if _, err := a.h.CreateMaterial(obj, obj.Name()+bakingMaterialSuffix); err != nil {
			return nil, fmt.Errorf("%s: failed to create baking material: %w", obj.Name(), err)
		}
		common.Logger().Info("new material created", "object", obj.Name())
	}

	for _, g := range obj.Materials() {
		if _, err := a.h.BindBakeTarget(g, img); err != nil {
			return nil, fmt.Errorf("%s/%s: failed to bind bake target: %w", obj.Name(), g.Name(), err)
		}
	}
	return img, nil
}
