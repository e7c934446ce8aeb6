package softhost

import (
	"fmt"

	"github.com/Carmen-Shannon/relight-go/baker/host"
)

// BakeImageNodeName is the fixed name of the image-texture node installed as
// the bake target in every material.
const BakeImageNodeName = "BakeImage"

// NodeKind classifies material graph nodes.
type NodeKind int

const (
	// NodeKindShader is a surface shader node carrying color parameters.
	NodeKindShader NodeKind = iota

	// NodeKindTexture is an image-texture node sampling an image buffer.
	NodeKindTexture
)

// Node is one material graph node. The baker only ever sees NodeIDs; the
// fields here are what the softhost bake evaluates.
type Node struct {
	// ID identifies the node within its graph.
	ID host.NodeID

	// Kind classifies the node.
	Kind NodeKind

	// BaseColor is the shader albedo (RGB, linear).
	BaseColor [3]float64

	// Emissive is the shader emission (RGB, linear).
	Emissive [3]float64

	// Roughness is the shader roughness in [0,1].
	Roughness float64

	// Image is the sampled buffer for texture nodes.
	Image host.ImageHandle
}

// Graph is one material's node network. The final output socket is implicit:
// out holds the links feeding it. Node order is kept for determinism.
type Graph struct {
	name       string
	nodes      []*Node
	out        []host.Link
	bakeTarget host.NodeID
}

var _ host.MaterialGraph = &Graph{}

// NewGraph creates a material graph from the given nodes with no output links.
//
// Parameters:
//   - name: the material name
//   - nodes: the initial nodes
//
// Returns:
//   - *Graph: the new graph
func NewGraph(name string, nodes ...*Node) *Graph {
	return &Graph{name: name, nodes: nodes}
}

// NewShadedGraph creates the default material: a single shader node named
// "Shader" wired to the output socket.
//
// Parameters:
//   - name: the material name
//   - baseColor: the shader albedo
//
// Returns:
//   - *Graph: the new graph
func NewShadedGraph(name string, baseColor [3]float64) *Graph {
	g := NewGraph(name, &Node{ID: "Shader", Kind: NodeKindShader, BaseColor: baseColor, Roughness: 0.8})
	g.out = []host.Link{{FromNode: "Shader", FromOutput: 0, ToInput: 0}}
	return g
}

// Name returns the material's name.
func (g *Graph) Name() string { return g.name }

// OutputLinks returns a copy of the links feeding the output socket.
func (g *Graph) OutputLinks() []host.Link {
	out := make([]host.Link, len(g.out))
	copy(out, g.out)
	return out
}

// SetOutputLinks replaces the links feeding the output socket. Every source
// node must exist in the graph.
func (g *Graph) SetOutputLinks(links []host.Link) error {
	for _, l := range links {
		if !g.HasNode(l.FromNode) {
			return fmt.Errorf("node %q not found in material %q", l.FromNode, g.name)
		}
	}
	g.out = make([]host.Link, len(links))
	copy(g.out, links)
	return nil
}

// BakeTarget returns the active bake-target node, if one is bound.
func (g *Graph) BakeTarget() (host.NodeID, bool) {
	if g.bakeTarget == "" || !g.HasNode(g.bakeTarget) {
		return "", false
	}
	return g.bakeTarget, true
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id host.NodeID) bool {
	return g.Node(id) != nil
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id host.NodeID) *Node {
	for _, n := range g.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// AddNode appends a node. A node with the same ID is replaced in place.
func (g *Graph) AddNode(n *Node) {
	for i, existing := range g.nodes {
		if existing.ID == n.ID {
			g.nodes[i] = n
			return
		}
	}
	g.nodes = append(g.nodes, n)
}

// RemoveNode deletes a node by ID. Output links from the node are left for
// the caller to rewire; the active bake target is cleared if it was removed.
func (g *Graph) RemoveNode(id host.NodeID) {
	for i, n := range g.nodes {
		if n.ID == id {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			if g.bakeTarget == id {
				g.bakeTarget = ""
			}
			return
		}
	}
}

// bindBakeTarget removes any stale bake node, installs a fresh image-texture
// node over img and marks it the active bake target.
func (g *Graph) bindBakeTarget(img host.ImageHandle) host.NodeID {
	g.RemoveNode(BakeImageNodeName)
	n := &Node{ID: BakeImageNodeName, Kind: NodeKindTexture, Image: img}
	g.AddNode(n)
	g.bakeTarget = n.ID
	return n.ID
}

// surface resolves the node currently feeding the output socket, which is
// what a bake samples. Returns nil if the output socket is unwired.
func (g *Graph) surface() *Node {
	if len(g.out) == 0 {
		return nil
	}
	return g.Node(g.out[0].FromNode)
}
