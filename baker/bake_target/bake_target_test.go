package bake_target

import (
	"testing"

	"github.com/Carmen-Shannon/relight-go/baker/host"
	"github.com/Carmen-Shannon/relight-go/common"
)

type fakeImage struct {
	name  string
	size  int
	alpha bool
}

func (i *fakeImage) Name() string { return i.name }
func (i *fakeImage) Width() int   { return i.size }
func (i *fakeImage) Height() int  { return i.size }

type fakeGraph struct {
	name   string
	target host.NodeID
	bound  []host.ImageHandle // every image ever bound, for duplicate checks
}

func (g *fakeGraph) Name() string                     { return g.name }
func (g *fakeGraph) OutputLinks() []host.Link         { return nil }
func (g *fakeGraph) SetOutputLinks([]host.Link) error { return nil }
func (g *fakeGraph) BakeTarget() (host.NodeID, bool)  { return g.target, g.target != "" }
func (g *fakeGraph) HasNode(id host.NodeID) bool      { return id == g.target }

type fakeObject struct {
	name   string
	graphs []*fakeGraph
}

func (o *fakeObject) Name() string                    { return o.name }
func (o *fakeObject) Bakeable() bool                  { return true }
func (o *fakeObject) FaceCount() int                  { return 2 }
func (o *fakeObject) UVChannels() []host.UVChannelRef { return nil }

func (o *fakeObject) Materials() []host.MaterialGraph {
	out := make([]host.MaterialGraph, len(o.graphs))
	for i, g := range o.graphs {
		out[i] = g
	}
	return out
}

// fakeHost tracks image registry replace-by-name semantics and material creation.
type fakeHost struct {
	images    map[string]*fakeImage
	creates   int
	materials int
}

func newFakeHost() *fakeHost { return &fakeHost{images: make(map[string]*fakeImage)} }

func (h *fakeHost) ResolveObjectByName(string) (host.Object, error) { return nil, host.ErrNotFound }
func (h *fakeHost) CreateUVChannel(host.Object, float64) (host.UVChannelRef, error) {
	return host.UVChannelRef{}, nil
}

func (h *fakeHost) CreateImageBuffer(name string, size int, alpha bool) (host.ImageHandle, error) {
	h.creates++
	img := &fakeImage{name: name, size: size, alpha: alpha}
	h.images[name] = img
	return img, nil
}

func (h *fakeHost) CreateMaterial(obj host.Object, name string) (host.MaterialGraph, error) {
	h.materials++
	g := &fakeGraph{name: name}
	o := obj.(*fakeObject)
	o.graphs = append(o.graphs, g)
	return g, nil
}

func (h *fakeHost) BindBakeTarget(graph host.MaterialGraph, img host.ImageHandle) (host.NodeID, error) {
	g := graph.(*fakeGraph)
	g.target = "BakeImage"
	g.bound = append(g.bound, img)
	return g.target, nil
}

func (h *fakeHost) ExecuteBake(host.Object, host.BakeRequest) error { return nil }
func (h *fakeHost) SaveImage(host.ImageHandle, string) error        { return nil }

func settingsFor(bt common.BakeType) common.Settings {
	s := common.DefaultSettings()
	s.Resolution = 512
	s.BakeType = bt
	return s
}

func TestAllocateNamesImageDeterministically(t *testing.T) {
	h := newFakeHost()
	a := NewAllocator(h)
	obj := &fakeObject{name: "Cube", graphs: []*fakeGraph{{name: "Mat"}}}

	img, err := a.Allocate(obj, settingsFor(common.BakeTypeCombined))
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if img.Name() != "Cube_Combined" {
		t.Errorf("image name = %q, want Cube_Combined", img.Name())
	}
	if img.Width() != 512 || img.Height() != 512 {
		t.Errorf("image size = %dx%d, want 512x512", img.Width(), img.Height())
	}
}

func TestAllocateAlphaRule(t *testing.T) {
	h := newFakeHost()
	a := NewAllocator(h)
	obj := &fakeObject{name: "Cube", graphs: []*fakeGraph{{name: "Mat"}}}

	if _, err := a.Allocate(obj, settingsFor(common.BakeTypeCombined)); err != nil {
		t.Fatalf("Allocate combined: %v", err)
	}
	if h.images["Cube_Combined"].alpha {
		t.Error("Combined bake image must have no alpha channel")
	}
	if _, err := a.Allocate(obj, settingsFor(common.BakeTypeDiffuse)); err != nil {
		t.Fatalf("Allocate diffuse: %v", err)
	}
	if !h.images["Cube_Diffuse"].alpha {
		t.Error("non-Combined bake image keeps its alpha channel")
	}
}

func TestAllocateIsIdempotent(t *testing.T) {
	h := newFakeHost()
	a := NewAllocator(h)
	obj := &fakeObject{name: "Cube", graphs: []*fakeGraph{{name: "Mat"}}}
	settings := settingsFor(common.BakeTypeCombined)

	first, err := a.Allocate(obj, settings)
	if err != nil {
		t.Fatalf("first Allocate: %v", err)
	}
	second, err := a.Allocate(obj, settings)
	if err != nil {
		t.Fatalf("second Allocate: %v", err)
	}
	if first == second {
		t.Error("re-allocation must produce a fresh buffer replacing the prior one")
	}
	if len(h.images) != 1 {
		t.Errorf("registry holds %d images under distinct names, want 1 (replace, not accumulate)", len(h.images))
	}
	if got := h.images["Cube_Combined"]; got != second {
		t.Error("registry must hold the latest buffer")
	}
}

func TestAllocateCreatesMaterialWhenNoneExists(t *testing.T) {
	h := newFakeHost()
	a := NewAllocator(h)
	obj := &fakeObject{name: "Cube"}

	if _, err := a.Allocate(obj, settingsFor(common.BakeTypeCombined)); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if h.materials != 1 {
		t.Fatalf("expected one material created, got %d", h.materials)
	}
	if len(obj.graphs) != 1 || obj.graphs[0].name != "Cube_BakingMat" {
		t.Fatalf("unexpected materials %+v", obj.graphs)
	}
	if len(obj.graphs[0].bound) != 1 {
		t.Error("created material must receive the bake target binding")
	}
}

func TestAllocateBindsSharedImageToAllMaterials(t *testing.T) {
	h := newFakeHost()
	a := NewAllocator(h)
	obj := &fakeObject{name: "Cube", graphs: []*fakeGraph{{name: "MatA"}, {name: "MatB"}, {name: "MatC"}}}

	img, err := a.Allocate(obj, settingsFor(common.BakeTypeCombined))
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	for _, g := range obj.graphs {
		if len(g.bound) != 1 || g.bound[0] != img {
			t.Errorf("material %s bound %v, want the single shared image", g.name, g.bound)
		}
	}
}
