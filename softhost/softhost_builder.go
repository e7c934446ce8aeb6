package softhost

// SceneBuilderOption is a functional option for configuring a Scene via NewScene.
type SceneBuilderOption func(*scene)

// WithObject registers an object during construction.
//
// Parameters:
//   - obj: the object to register
//
// Returns:
//   - SceneBuilderOption: a function that applies the object option to a scene
func WithObject(obj Object) SceneBuilderOption {
	return func(s *scene) {
		if o, ok := obj.(*object); ok {
			if _, exists := s.objects[o.name]; !exists {
				s.order = append(s.order, o.name)
			}
			s.objects[o.name] = o
		}
	}
}

// WithLight appends a light during construction.
//
// Parameters:
//   - l: the light to append
//
// Returns:
//   - SceneBuilderOption: a function that applies the light option to a scene
func WithLight(l Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = append(s.lights, l)
	}
}

// WithBakeWorkers sets the worker count of the bake shading pool. Values
// below one are ignored.
//
// Parameters:
//   - workers: the goroutine count for parallel texel shading
//
// Returns:
//   - SceneBuilderOption: a function that applies the workers option to a scene
func WithBakeWorkers(workers int) SceneBuilderOption {
	return func(s *scene) {
		if workers >= 1 {
			s.bakeWorkers = workers
		}
	}
}

// WithSupersample renders bakes at a multiple of the target resolution and
// downscales with a Catmull-Rom filter. Values below one are ignored.
//
// Parameters:
//   - factor: the supersampling factor (1 = off, 2 = 4 samples per texel)
//
// Returns:
//   - SceneBuilderOption: a function that applies the supersample option to a scene
func WithSupersample(factor int) SceneBuilderOption {
	return func(s *scene) {
		if factor >= 1 {
			s.supersample = factor
		}
	}
}

// WithAmbientOcclusionDistance caps the occlusion ray length used for the
// ambient term of Combined bakes. Non-positive values are ignored.
//
// Parameters:
//   - distance: the maximum occlusion distance in scene units
//
// Returns:
//   - SceneBuilderOption: a function that applies the AO distance option to a scene
func WithAmbientOcclusionDistance(distance float64) SceneBuilderOption {
	return func(s *scene) {
		if distance > 0 {
			s.aoDistance = distance
		}
	}
}
