// Package host defines the capability surface the baker consumes from the
// scene-graph host. The baker never owns scene, mesh or material-graph data
// structures; it reaches them only through these interfaces, so the core logic
// runs unchanged against the bundled softhost, a test fake, or a real engine
// adapter.
package host

import (
	"errors"

	"github.com/Carmen-Shannon/relight-go/common"
)

var (
	// ErrNotFound is returned by ResolveObjectByName when the name does not
	// resolve to a scene object.
	ErrNotFound = errors.New("object not found in scene")

	// ErrNoGeometry is returned when an object has no surface to UV-map or
	// bake (zero faces, no mesh).
	ErrNoGeometry = errors.New("object has no bakeable surface")

	// ErrBakeFailed is returned by ExecuteBake when the renderer reports
	// failure: no light sources, no bound bake target, invalid settings.
	ErrBakeFailed = errors.New("host bake failed")
)

// NodeID identifies a node inside one material graph. IDs are unique per
// graph, not globally.
type NodeID string

// Link describes one connection feeding a material's final surface-output
// socket: which node's output drives which input of the output socket. The
// destination input index covers hosts whose output node has several inputs
// (surface, volume, displacement).
type Link struct {
	// FromNode is the source node.
	FromNode NodeID

	// FromOutput is the source node's output socket index.
	FromOutput int

	// ToInput is the output socket's input index the link lands on.
	ToInput int
}

// UVChannelRef identifies one UV channel on an object.
type UVChannelRef struct {
	// Index is the channel's position in the object's channel list.
	Index int

	// Name is the channel's host-side name.
	Name string
}

// BakeRequest carries the per-object bake parameters handed to the host.
type BakeRequest struct {
	// Type selects the lighting response to bake.
	Type common.BakeType

	// Samples is the per-texel sample count.
	Samples int

	// Margin is the island edge dilation in texels.
	Margin int
}

// ImageHandle references a bake image buffer held by the host's asset
// registry. The registry owns the pixel storage; the baker only routes the
// handle and never deletes it.
type ImageHandle interface {
	// Name returns the registry name of the image.
	Name() string

	// Width returns the image width in pixels.
	Width() int

	// Height returns the image height in pixels.
	Height() int
}

// Object is a live reference to a host scene object. The reference stays
// valid for the duration of the host scene; the baker never destroys it.
type Object interface {
	// Name returns the object's stable scene name.
	Name() string

	// Bakeable reports whether the object carries a surface that can receive
	// a lightmap. Non-bakeable objects (lights, empties) are skipped, not
	// failed.
	Bakeable() bool

	// FaceCount returns the number of surface faces. Zero means the object
	// cannot be UV-mapped or baked.
	FaceCount() int

	// UVChannels returns the object's UV channels in host order. The first
	// channel is the one designated for baking.
	UVChannels() []UVChannelRef

	// Materials returns the object's material graphs in slot order.
	Materials() []MaterialGraph
}

// MaterialGraph is one material's node network, exposed only as far as the
// baker needs it: the links feeding the final output socket, and the identity
// of the bound bake-target node. Interior nodes are opaque.
type MaterialGraph interface {
	// Name returns the material's name.
	Name() string

	// OutputLinks returns the links currently feeding the final surface-output
	// socket. The returned slice is a copy.
	OutputLinks() []Link

	// SetOutputLinks replaces the links feeding the final output socket.
	// Source nodes must exist in the graph.
	//
	// Parameters:
	//   - links: the new output-socket links
	//
	// Returns:
	//   - error: error if a referenced node is missing from the graph
	SetOutputLinks(links []Link) error

	// BakeTarget returns the node bound as the active bake target, if any.
	//
	// Returns:
	//   - NodeID: the bake-target node
	//   - bool: false if no bake target is bound
	BakeTarget() (NodeID, bool)

	// HasNode reports whether a node with the given ID exists in the graph.
	HasNode(id NodeID) bool
}

// Host is the full collaborator interface the baker consumes. Implemented by
// softhost and, in production, by an adapter over a real engine.
type Host interface {
	// ResolveObjectByName looks up a scene object by name.
	//
	// Parameters:
	//   - name: the object name
	//
	// Returns:
	//   - Object: the resolved object
	//   - error: ErrNotFound if no object carries the name
	ResolveObjectByName(name string) (Object, error)

	// CreateUVChannel adds a new UV channel to the object covering its full
	// surface with no islands overlapping beyond the margin tolerance.
	// Existing channels are never altered.
	//
	// Parameters:
	//   - obj: the object to unwrap
	//   - islandMargin: minimum island separation as a fraction of UV space
	//
	// Returns:
	//   - UVChannelRef: the created channel
	//   - error: ErrNoGeometry if the object has no faces
	CreateUVChannel(obj Object, islandMargin float64) (UVChannelRef, error)

	// CreateImageBuffer creates a square image buffer in the host's asset
	// registry. Creating under an existing name replaces the prior buffer.
	//
	// Parameters:
	//   - name: the registry name
	//   - size: side length in pixels
	//   - alpha: whether the buffer carries an alpha channel
	//
	// Returns:
	//   - ImageHandle: the created buffer
	//   - error: error if the size is invalid
	CreateImageBuffer(name string, size int, alpha bool) (ImageHandle, error)

	// CreateMaterial creates a new default material graph on an object that
	// has none, so a bake target can be bound.
	//
	// Parameters:
	//   - obj: the object to attach the material to
	//   - name: the material name
	//
	// Returns:
	//   - MaterialGraph: the created graph
	//   - error: error if the object cannot carry materials
	CreateMaterial(obj Object, name string) (MaterialGraph, error)

	// BindBakeTarget installs (or replaces) the image-texture node that
	// receives baked samples in a material graph and marks it the active bake
	// target. The rest of the graph is not altered.
	//
	// Parameters:
	//   - graph: the material graph
	//   - img: the image buffer to bind
	//
	// Returns:
	//   - NodeID: the bake-target node
	//   - error: error if the graph rejects the binding
	BindBakeTarget(graph MaterialGraph, img ImageHandle) (NodeID, error)

	// ExecuteBake runs the host's bake computation for one object into its
	// bound bake target. Blocking for the duration of the bake.
	//
	// Parameters:
	//   - obj: the object to bake
	//   - req: bake type, samples and margin
	//
	// Returns:
	//   - error: ErrBakeFailed (wrapped with the cause) on renderer failure
	ExecuteBake(obj Object, req BakeRequest) error

	// SaveImage writes an image buffer to disk in the host's default format.
	//
	// Parameters:
	//   - img: the image to write
	//   - path: the destination file path
	//
	// Returns:
	//   - error: error if the write fails
	SaveImage(img ImageHandle, path string) error
}
