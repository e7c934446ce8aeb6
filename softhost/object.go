package softhost

import "github.com/Carmen-Shannon/relight-go/baker/host"

// object is the implementation of the Object interface.
type object struct {
	name      string
	mesh      *Mesh
	materials []*Graph
	bakeable  bool
}

// Object is a softhost scene object: a named mesh with material graphs. It
// implements the baker's host.Object and adds the softhost-side accessors the
// baker never needs.
type Object interface {
	host.Object

	// Mesh returns the object's mesh, nil for mesh-less objects.
	Mesh() *Mesh

	// MaterialGraphs returns the object's materials with their softhost type.
	MaterialGraphs() []*Graph

	// AddMaterial appends a material slot.
	//
	// Parameters:
	//   - g: the material graph to append
	AddMaterial(g *Graph)
}

var _ Object = &object{}

// NewObject creates a scene object. Objects are bakeable by default; use
// WithBakeable(false) for helpers like light gizmos or empties.
//
// Parameters:
//   - name: the object's scene name
//   - options: functional options to configure the object
//
// Returns:
//   - Object: the newly created object
func NewObject(name string, options ...ObjectBuilderOption) Object {
	o := &object{name: name, bakeable: true}
	for _, option := range options {
		option(o)
	}
	return o
}

func (o *object) Name() string { return o.name }

func (o *object) Bakeable() bool { return o.bakeable && o.mesh != nil }

func (o *object) FaceCount() int { return o.mesh.FaceCount() }

func (o *object) UVChannels() []host.UVChannelRef {
	if o.mesh == nil {
		return nil
	}
	refs := make([]host.UVChannelRef, len(o.mesh.Channels))
	for i, ch := range o.mesh.Channels {
		refs[i] = host.UVChannelRef{Index: i, Name: ch.Name}
	}
	return refs
}

func (o *object) Materials() []host.MaterialGraph {
	graphs := make([]host.MaterialGraph, len(o.materials))
	for i, g := range o.materials {
		graphs[i] = g
	}
	return graphs
}

func (o *object) Mesh() *Mesh { return o.mesh }

func (o *object) MaterialGraphs() []*Graph { return o.materials }

func (o *object) AddMaterial(g *Graph) { o.materials = append(o.materials, g) }
