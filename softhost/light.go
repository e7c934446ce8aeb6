package softhost

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypePoint emits in all directions from a position, attenuating
	// with squared distance up to Range.
	LightTypePoint LightType = iota

	// LightTypeDirectional has no position, only a direction. Affects all
	// surfaces uniformly with no attenuation.
	LightTypeDirectional

	// LightTypeAmbient is a constant environment term, scaled by ambient
	// occlusion in Combined bakes.
	LightTypeAmbient
)

// Light is one scene light source.
type Light struct {
	// Type is the kind of light.
	Type LightType

	// Position is the world-space position. Meaningless for directional and
	// ambient lights.
	Position Vec3

	// Direction is the direction the light travels. Meaningless for point
	// and ambient lights.
	Direction Vec3

	// Color is the light color (RGB, linear).
	Color [3]float64

	// Intensity scales the color.
	Intensity float64

	// Range caps point light influence; zero means unlimited.
	Range float64
}

// NewPointLight creates a point light.
func NewPointLight(position Vec3, color [3]float64, intensity, lightRange float64) Light {
	return Light{Type: LightTypePoint, Position: position, Color: color, Intensity: intensity, Range: lightRange}
}

// NewDirectionalLight creates a directional light travelling along direction.
func NewDirectionalLight(direction Vec3, color [3]float64, intensity float64) Light {
	return Light{Type: LightTypeDirectional, Direction: direction.Normalize(), Color: color, Intensity: intensity}
}

// NewAmbientLight creates a constant ambient term.
func NewAmbientLight(color [3]float64, intensity float64) Light {
	return Light{Type: LightTypeAmbient, Color: color, Intensity: intensity}
}
