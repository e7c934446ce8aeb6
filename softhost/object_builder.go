package softhost

// ObjectBuilderOption is a functional option for configuring an Object via NewObject.
type ObjectBuilderOption func(*object)

// WithMesh sets the object's mesh.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - ObjectBuilderOption: a function that applies the mesh option to an object
func WithMesh(m *Mesh) ObjectBuilderOption {
	return func(o *object) {
		o.mesh = m
	}
}

// WithMaterial appends a material slot to the object.
//
// Parameters:
//   - g: the material graph
//
// Returns:
//   - ObjectBuilderOption: a function that applies the material option to an object
func WithMaterial(g *Graph) ObjectBuilderOption {
	return func(o *object) {
		o.materials = append(o.materials, g)
	}
}

// WithBakeable overrides whether the object can receive a lightmap.
//
// Parameters:
//   - bakeable: false marks the object as skip-on-bake
//
// Returns:
//   - ObjectBuilderOption: a function that applies the bakeable option to an object
func WithBakeable(bakeable bool) ObjectBuilderOption {
	return func(o *object) {
		o.bakeable = bakeable
	}
}
