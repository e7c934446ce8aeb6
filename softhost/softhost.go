// Package softhost is the reference implementation of the baker's host port:
// an in-memory scene graph with named objects, lights and image buffers, a
// deterministic grid unwrap, and a small CPU lightmap renderer. It exists so
// the baker has a complete collaborator for tests and examples; a production
// deployment would adapt a real engine to baker/host instead.
package softhost

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/relight-go/baker/host"
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu sync.RWMutex

	objects map[string]*object
	order   []string
	lights  []Light
	images  map[string]*Image

	// bakePool manages a bounded set of reusable goroutines for the parallel
	// texel shading phase of ExecuteBake. Workers persist across bakes.
	bakePool    worker.DynamicWorkerPool
	bakeWorkers int

	supersample int
	aoDistance  float64
}

// Scene is the softhost scene registry. It implements host.Host so a Baker
// can drive it directly.
type Scene interface {
	host.Host

	// AddObject registers an object. An object with the same name is replaced.
	//
	// Parameters:
	//   - obj: the object to register
	AddObject(obj Object)

	// AddLight appends a light to the scene.
	//
	// Parameters:
	//   - l: the light to append
	AddLight(l Light)

	// Object returns a registered object by name, or nil.
	Object(name string) Object

	// Lights returns the scene's lights.
	Lights() []Light

	// Image returns a registered image buffer by name, or nil.
	Image(name string) host.ImageHandle
}

var _ Scene = &scene{}

// NewScene creates an empty softhost scene with the given options applied.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		objects:     make(map[string]*object),
		images:      make(map[string]*Image),
		bakeWorkers: max(runtime.NumCPU()-1, 1),
		supersample: 1,
		aoDistance:  8,
	}
	for _, option := range options {
		option(s)
	}
	// Initialize the bake pool after options so WithBakeWorkers can override
	// the default.
	s.bakePool = worker.NewDynamicWorkerPool(s.bakeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) AddObject(obj Object) {
	o, ok := obj.(*object)
	if !ok {
		panic(fmt.Sprintf("softhost: foreign Object implementation %T", obj))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[o.name]; !exists {
		s.order = append(s.order, o.name)
	}
	s.objects[o.name] = o
}

func (s *scene) AddLight(l Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) Object(name string) Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[name]
	if !ok {
		return nil
	}
	return o
}

func (s *scene) Lights() []Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) Image(name string) host.ImageHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	im, ok := s.images[name]
	if !ok {
		return nil
	}
	return im
}

func (s *scene) ResolveObjectByName(name string) (host.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, host.ErrNotFound)
	}
	return o, nil
}

func (s *scene) CreateUVChannel(obj host.Object, islandMargin float64) (host.UVChannelRef, error) {
	o, err := s.own(obj)
	if err != nil {
		return host.UVChannelRef{}, err
	}
	if o.mesh.FaceCount() == 0 {
		return host.UVChannelRef{}, fmt.Errorf("%s: %w", o.name, host.ErrNoGeometry)
	}
	ch := o.mesh.GridUnwrap(o.mesh.nextChannelName(), islandMargin)
	o.mesh.Channels = append(o.mesh.Channels, ch)
	return host.UVChannelRef{Index: len(o.mesh.Channels) - 1, Name: ch.Name}, nil
}

func (s *scene) CreateImageBuffer(name string, size int, alpha bool) (host.ImageHandle, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid image size %d", size)
	}
	im := newImage(name, size, alpha)
	// Creating under an existing name replaces the prior buffer.
	s.mu.Lock()
	s.images[name] = im
	s.mu.Unlock()
	return im, nil
}

func (s *scene) CreateMaterial(obj host.Object, name string) (host.MaterialGraph, error) {
	o, err := s.own(obj)
	if err != nil {
		return nil, err
	}
	g := NewShadedGraph(name, [3]float64{0.8, 0.8, 0.8})
	o.materials = append(o.materials, g)
	return g, nil
}

func (s *scene) BindBakeTarget(graph host.MaterialGraph, img host.ImageHandle) (host.NodeID, error) {
	g, ok := graph.(*Graph)
	if !ok {
		return "", fmt.Errorf("foreign material graph %T", graph)
	}
	if img == nil {
		return "", fmt.Errorf("material %q: nil bake image", g.Name())
	}
	return g.bindBakeTarget(img), nil
}

func (s *scene) SaveImage(img host.ImageHandle, path string) error {
	im, ok := img.(*Image)
	if !ok {
		return fmt.Errorf("foreign image handle %T", img)
	}
	if err := im.SavePNG(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// own asserts that a port-level object belongs to this softhost.
func (s *scene) own(obj host.Object) (*object, error) {
	o, ok := obj.(*object)
	if !ok {
		return nil, fmt.Errorf("foreign object implementation %T", obj)
	}
	return o, nil
}
