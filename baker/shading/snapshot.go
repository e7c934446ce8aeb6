// Package shading archives and rewrites material-graph output wiring: the
// Archiver captures the links feeding each material's final output socket so
// they can be restored exactly, and the Rewriter redirects the output socket
// between the original network and the baked lightmap texture. Non-output
// nodes are never deleted; only the terminal link is redirected, which is what
// makes restoration lossless.
package shading

import (
	"fmt"

	"github.com/Carmen-Shannon/relight-go/baker/host"
)

// MaterialCapture is the archived output wiring of one material slot: the
// ordered links that fed the final output socket before rewriting, plus the
// identities of the source nodes that were bypassed.
type MaterialCapture struct {
	// Material is the material graph's name, used to re-locate the graph on restore.
	Material string

	// Links are the output-socket links exactly as recorded.
	Links []host.Link

	// Bypassed lists the source nodes the rewrite disconnected, in first-seen
	// order. The nodes stay in the graph untouched.
	Bypassed []host.NodeID
}

// Snapshot is the per-object archive of original output wiring. At most one
// snapshot exists per object, exactly while the object is in Baked mode; it is
// discarded only when the object is restored to Real.
type Snapshot struct {
	// Object is the name of the object the snapshot belongs to.
	Object string

	// Materials holds one capture per material slot, in slot order.
	Materials []MaterialCapture
}

// Apply re-creates the recorded links on every captured material's output
// socket. Any link installed after capture (such as the baked-texture link) is
// removed by the replacement. Mode bookkeeping is the caller's concern.
//
// Parameters:
//   - obj: the object whose graphs are rewired; material slots are matched by name
//
// Returns:
//   - error: error if a captured material no longer exists on the object or
//     a recorded source node is missing from its graph
func (s *Snapshot) Apply(obj host.Object) error {
	graphs := make(map[string]host.MaterialGraph)
	for _, g := range obj.Materials() {
		graphs[g.Name()] = g
	}
	for _, cap := range s.Materials {
		g, ok := graphs[cap.Material]
		if !ok {
			return fmt.Errorf("%s: material %q no longer present: %w", obj.Name(), cap.Material, ErrInvalidState)
		}
		if err := g.SetOutputLinks(cap.Links); err != nil {
			return fmt.Errorf("%s/%s: failed to restore output links: %w", obj.Name(), cap.Material, err)
		}
	}
	return nil
}

// captureGraph records a material graph's current output wiring.
func captureGraph(g host.MaterialGraph) MaterialCapture {
	links := g.OutputLinks()
	seen := make(map[host.NodeID]bool, len(links))
	var bypassed []host.NodeID
	for _, l := range links {
		if !seen[l.FromNode] {
			seen[l.FromNode] = true
			bypassed = append(bypassed, l.FromNode)
		}
	}
	return MaterialCapture{Material: g.Name(), Links: links, Bypassed: bypassed}
}
