package shading

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/relight-go/baker/host"
	"github.com/Carmen-Shannon/relight-go/common"
)

// fakeGraph is a minimal in-memory material graph for exercising the archiver
// and rewriter against arbitrary topologies.
type fakeGraph struct {
	name   string
	nodes  map[host.NodeID]bool
	links  []host.Link
	target host.NodeID
}

func newFakeGraph(name string, nodes ...host.NodeID) *fakeGraph {
	g := &fakeGraph{name: name, nodes: make(map[host.NodeID]bool)}
	for _, n := range nodes {
		g.nodes[n] = true
	}
	return g
}

func (g *fakeGraph) Name() string { return g.name }

func (g *fakeGraph) OutputLinks() []host.Link {
	return append([]host.Link(nil), g.links...)
}

func (g *fakeGraph) SetOutputLinks(links []host.Link) error {
	for _, l := range links {
		if !g.nodes[l.FromNode] {
			return fmt.Errorf("node %q not found", l.FromNode)
		}
	}
	g.links = append([]host.Link(nil), links...)
	return nil
}

func (g *fakeGraph) BakeTarget() (host.NodeID, bool) {
	return g.target, g.target != ""
}

func (g *fakeGraph) HasNode(id host.NodeID) bool { return g.nodes[id] }

// fakeObject carries fake graphs behind the host.Object interface.
type fakeObject struct {
	name   string
	graphs []*fakeGraph
}

func (o *fakeObject) Name() string                    { return o.name }
func (o *fakeObject) Bakeable() bool                  { return true }
func (o *fakeObject) FaceCount() int                  { return 1 }
func (o *fakeObject) UVChannels() []host.UVChannelRef { return nil }

func (o *fakeObject) Materials() []host.MaterialGraph {
	out := make([]host.MaterialGraph, len(o.graphs))
	for i, g := range o.graphs {
		out[i] = g
	}
	return out
}

// fakeImage satisfies host.ImageHandle.
type fakeImage struct{ name string }

func (i *fakeImage) Name() string { return i.name }
func (i *fakeImage) Width() int   { return 64 }
func (i *fakeImage) Height() int  { return 64 }

// bakedObject builds an object with one shader-wired graph carrying a bound
// bake target, ready for ApplyBaked.
func bakedObject(t *testing.T, name string) (*fakeObject, []host.Link) {
	t.Helper()
	g := newFakeGraph(name+"Mat", "Shader", "Mix", "BakeImage")
	original := []host.Link{
		{FromNode: "Shader", FromOutput: 0, ToInput: 0},
		{FromNode: "Mix", FromOutput: 1, ToInput: 2},
	}
	require.NoError(t, g.SetOutputLinks(original))
	g.target = "BakeImage"
	return &fakeObject{name: name, graphs: []*fakeGraph{g}}, original
}

func TestCaptureRecordsOutputWiring(t *testing.T) {
	obj, original := bakedObject(t, "Cube")
	arch := NewArchiver()

	snap, err := arch.Capture(obj)
	require.NoError(t, err)
	require.Len(t, snap.Materials, 1)
	assert.Equal(t, "CubeMat", snap.Materials[0].Material)
	assert.Equal(t, original, snap.Materials[0].Links)
	assert.Equal(t, []host.NodeID{"Shader", "Mix"}, snap.Materials[0].Bypassed)

	// Capture alone must not change mode or store anything.
	assert.Equal(t, common.ShadingModeReal, arch.Mode("Cube"))
	assert.Nil(t, arch.Snapshot("Cube"))
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	obj, original := bakedObject(t, "Cube")
	arch := NewArchiver()

	snap, err := arch.Capture(obj)
	require.NoError(t, err)
	arch.Commit(obj, snap, &fakeImage{name: "Cube_Combined"})

	require.NoError(t, arch.Restore(obj, snap))
	assert.Equal(t, original, obj.graphs[0].OutputLinks(), "restore must reproduce the exact link set")
	assert.Equal(t, common.ShadingModeReal, arch.Mode("Cube"))
	assert.Nil(t, arch.Snapshot("Cube"), "snapshot is discarded on restore")
	assert.NotNil(t, arch.BakedImage("Cube"), "image handle is retained across restore")
}

func TestCaptureOnBakedObjectIsIdempotenceGuard(t *testing.T) {
	obj, _ := bakedObject(t, "Cube")
	arch := NewArchiver()

	snap, err := arch.Capture(obj)
	require.NoError(t, err)
	arch.Commit(obj, snap, nil)

	_, err = arch.Capture(obj)
	assert.ErrorIs(t, err, ErrAlreadyCaptured)
	assert.Same(t, snap, arch.Snapshot("Cube"), "existing snapshot must be reused, not replaced")
}

func TestRestoreInvalidStates(t *testing.T) {
	obj, _ := bakedObject(t, "Cube")
	arch := NewArchiver()

	// Restoring an object that is still Real.
	err := arch.Restore(obj, &Snapshot{Object: "Cube"})
	assert.ErrorIs(t, err, ErrInvalidState)

	// Baked mode but snapshot lost (nil passed, nothing stored).
	snap, err := arch.Capture(obj)
	require.NoError(t, err)
	arch.Commit(obj, snap, nil)
	arch2 := arch.(*archiver)
	delete(arch2.snapshots, "Cube")
	assert.ErrorIs(t, arch.Restore(obj, nil), ErrInvalidState)
}

func TestApplyBakedRevertRoundTrip(t *testing.T) {
	obj, original := bakedObject(t, "Cube")
	arch := NewArchiver()
	rw := NewRewriter(WithArchiver(arch))

	snap, err := arch.Capture(obj)
	require.NoError(t, err)
	require.NoError(t, rw.ApplyBaked(obj))
	arch.Commit(obj, snap, &fakeImage{name: "Cube_Combined"})

	assert.Equal(t,
		[]host.Link{{FromNode: "BakeImage", FromOutput: 0, ToInput: 0}},
		obj.graphs[0].OutputLinks(),
		"baked wiring is a single link from the bake target")

	require.NoError(t, rw.RevertToOriginal(obj, nil))
	assert.Equal(t, original, obj.graphs[0].OutputLinks(),
		"full switch cycle must return the output socket to its pre-bake state")
	assert.Equal(t, common.ShadingModeReal, arch.Mode("Cube"))
}

func TestApplyBakedRequiresBoundTarget(t *testing.T) {
	g := newFakeGraph("Mat", "Shader")
	require.NoError(t, g.SetOutputLinks([]host.Link{{FromNode: "Shader"}}))
	obj := &fakeObject{name: "Cube", graphs: []*fakeGraph{g}}

	rw := NewRewriter(WithArchiver(NewArchiver()))
	assert.ErrorIs(t, rw.ApplyBaked(obj), ErrInvalidState)
}

func TestApplyOriginalLeavesModeUntouched(t *testing.T) {
	obj, original := bakedObject(t, "Cube")
	arch := NewArchiver()
	rw := NewRewriter(WithArchiver(arch))

	snap, err := arch.Capture(obj)
	require.NoError(t, err)
	require.NoError(t, rw.ApplyBaked(obj))
	arch.Commit(obj, snap, nil)

	// Re-bake path: original wiring applied while the object stays Baked.
	require.NoError(t, rw.ApplyOriginal(obj, snap))
	assert.Equal(t, original, obj.graphs[0].OutputLinks())
	assert.Equal(t, common.ShadingModeBaked, arch.Mode("Cube"))
	assert.NotNil(t, arch.Snapshot("Cube"))

	assert.ErrorIs(t, rw.ApplyOriginal(obj, nil), ErrInvalidState)
}

func TestMultiMaterialCaptureRestore(t *testing.T) {
	g1 := newFakeGraph("MatA", "Shader", "BakeImage")
	require.NoError(t, g1.SetOutputLinks([]host.Link{{FromNode: "Shader"}}))
	g1.target = "BakeImage"
	g2 := newFakeGraph("MatB", "Noise", "BakeImage")
	require.NoError(t, g2.SetOutputLinks([]host.Link{{FromNode: "Noise", FromOutput: 2}}))
	g2.target = "BakeImage"
	obj := &fakeObject{name: "Cube", graphs: []*fakeGraph{g1, g2}}

	arch := NewArchiver()
	rw := NewRewriter(WithArchiver(arch))

	snap, err := arch.Capture(obj)
	require.NoError(t, err)
	require.Len(t, snap.Materials, 2)
	require.NoError(t, rw.ApplyBaked(obj))
	arch.Commit(obj, snap, nil)

	require.NoError(t, rw.RevertToOriginal(obj, nil))
	assert.Equal(t, []host.Link{{FromNode: "Shader"}}, g1.OutputLinks())
	assert.Equal(t, []host.Link{{FromNode: "Noise", FromOutput: 2}}, g2.OutputLinks())
}
