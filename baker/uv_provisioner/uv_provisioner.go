// Package uv_provisioner ensures every bake target object has a valid,
// non-overlapping UV channel. It only guarantees that *a* parameterization
// exists; the unwrap algorithm itself is the host's.
package uv_provisioner

import (
	"fmt"

	"github.com/Carmen-Shannon/relight-go/baker/host"
)

// DefaultIslandMargin is the island separation handed to the host unwrap when
// no option overrides it, expressed as a fraction of UV space. Matches the
// default bake margin of 16 texels at the default 1024 resolution.
const DefaultIslandMargin = 16.0 / 1024.0

// provisioner is the implementation of the Provisioner interface.
type provisioner struct {
	h            host.Host
	islandMargin float64
}

// Provisioner guarantees a bakeable UV channel per object.
type Provisioner interface {
	// Ensure returns the UV channel designated for baking. If the object
	// already has at least one channel, the first channel is returned
	// unchanged and no channel is created (idempotence). Otherwise exactly
	// one new channel is created through the host; existing channels are
	// never altered.
	//
	// Parameters:
	//   - obj: the object to provision
	//
	// Returns:
	//   - host.UVChannelRef: the channel to bake into
	//   - error: host.ErrNoGeometry if the object has no paintable surface
	Ensure(obj host.Object) (host.UVChannelRef, error)
}

var _ Provisioner = &provisioner{}

// NewProvisioner creates a Provisioner bound to a host. Panics if the host is nil.
//
// Parameters:
//   - h: the host providing CreateUVChannel
//   - options: functional options to configure the provisioner
//
// Returns:
//   - Provisioner: the newly created provisioner
func NewProvisioner(h host.Host, options ...ProvisionerBuilderOption) Provisioner {
	if h == nil {
		panic("uv_provisioner: NewProvisioner requires a non-nil Host")
	}
	p := &provisioner{
		h:            h,
		islandMargin: DefaultIslandMargin,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *provisioner) Ensure(obj host.Object) (host.UVChannelRef, error) {
	if obj.FaceCount() == 0 {
		return host.UVChannelRef{}, fmt.Errorf("%s: %w", obj.Name(), host.ErrNoGeometry)
	}
	if channels := obj.UVChannels(); len(channels) > 0 {
		return channels[0], nil
	}
	ref, err := p.h.CreateUVChannel(obj, p.islandMargin)
	if err != nil {
		return host.UVChannelRef{}, fmt.Errorf("%s: failed to create UV channel: %w", obj.Name(), err)
	}
	return ref, nil
}
