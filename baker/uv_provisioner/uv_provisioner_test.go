package uv_provisioner

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/relight-go/baker/host"
)

// fakeHost records CreateUVChannel calls and hands back sequential channels.
type fakeHost struct {
	created []float64 // island margins of each create call
}

func (h *fakeHost) ResolveObjectByName(string) (host.Object, error) { return nil, host.ErrNotFound }

func (h *fakeHost) CreateUVChannel(obj host.Object, islandMargin float64) (host.UVChannelRef, error) {
	h.created = append(h.created, islandMargin)
	o := obj.(*fakeObject)
	ref := host.UVChannelRef{Index: len(o.channels), Name: "UVMap"}
	o.channels = append(o.channels, ref)
	return ref, nil
}

func (h *fakeHost) CreateImageBuffer(string, int, bool) (host.ImageHandle, error) { return nil, nil }
func (h *fakeHost) CreateMaterial(host.Object, string) (host.MaterialGraph, error) {
	return nil, nil
}
func (h *fakeHost) BindBakeTarget(host.MaterialGraph, host.ImageHandle) (host.NodeID, error) {
	return "", nil
}
func (h *fakeHost) ExecuteBake(host.Object, host.BakeRequest) error { return nil }
func (h *fakeHost) SaveImage(host.ImageHandle, string) error        { return nil }

type fakeObject struct {
	name     string
	faces    int
	channels []host.UVChannelRef
}

func (o *fakeObject) Name() string                    { return o.name }
func (o *fakeObject) Bakeable() bool                  { return true }
func (o *fakeObject) FaceCount() int                  { return o.faces }
func (o *fakeObject) UVChannels() []host.UVChannelRef { return o.channels }
func (o *fakeObject) Materials() []host.MaterialGraph { return nil }

func TestEnsureCreatesExactlyOneChannel(t *testing.T) {
	h := &fakeHost{}
	p := NewProvisioner(h)
	obj := &fakeObject{name: "Cube", faces: 12}

	ref, err := p.Ensure(obj)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if ref.Index != 0 {
		t.Errorf("expected first channel, got index %d", ref.Index)
	}
	if len(h.created) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(h.created))
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	h := &fakeHost{}
	p := NewProvisioner(h)
	obj := &fakeObject{name: "Cube", faces: 12}

	first, err := p.Ensure(obj)
	if err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	second, err := p.Ensure(obj)
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if first != second {
		t.Errorf("second Ensure returned %+v, want %+v", second, first)
	}
	if len(h.created) != 1 {
		t.Fatalf("second Ensure must be a no-op, got %d create calls", len(h.created))
	}
	if len(obj.channels) != 1 {
		t.Fatalf("expected exactly one channel, got %d", len(obj.channels))
	}
}

func TestEnsureReturnsExistingChannelUnchanged(t *testing.T) {
	h := &fakeHost{}
	p := NewProvisioner(h)
	existing := host.UVChannelRef{Index: 0, Name: "Lightmap"}
	obj := &fakeObject{name: "Cube", faces: 12, channels: []host.UVChannelRef{existing, {Index: 1, Name: "Detail"}}}

	ref, err := p.Ensure(obj)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if ref != existing {
		t.Errorf("expected first existing channel %+v, got %+v", existing, ref)
	}
	if len(h.created) != 0 {
		t.Errorf("existing channels must not trigger creation")
	}
}

func TestEnsureNoGeometry(t *testing.T) {
	p := NewProvisioner(&fakeHost{})
	_, err := p.Ensure(&fakeObject{name: "Empty", faces: 0})
	if !errors.Is(err, host.ErrNoGeometry) {
		t.Fatalf("expected ErrNoGeometry, got %v", err)
	}
}

func TestIslandMarginOption(t *testing.T) {
	h := &fakeHost{}
	p := NewProvisioner(h, WithIslandMargin(8.0/512.0))
	if _, err := p.Ensure(&fakeObject{name: "Cube", faces: 2}); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(h.created) != 1 || h.created[0] != 8.0/512.0 {
		t.Fatalf("expected configured margin to reach the host, got %v", h.created)
	}
}
