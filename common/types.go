// Package common contains common types that are used throughout the baker and the
// reference host. They are not interface-wrapped structs, just plain types that
// express commonly used data: bake enums, shading modes and per-object outcomes.
package common

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// BakeType selects which lighting response is baked into the lightmap.
type BakeType int

const (
	// BakeTypeCombined bakes the full lighting response: direct diffuse,
	// ambient occlusion and emission.
	BakeTypeCombined BakeType = iota

	// BakeTypeDiffuse bakes only the direct diffuse response.
	BakeTypeDiffuse

	// BakeTypeGlossy bakes only the specular highlight response.
	BakeTypeGlossy
)

// String returns the canonical name of the bake type ("Combined", "Diffuse", "Glossy").
//
// Returns:
//   - string: the bake type name, or "Unknown" for out-of-range values
func (t BakeType) String() string {
	switch t {
	case BakeTypeCombined:
		return "Combined"
	case BakeTypeDiffuse:
		return "Diffuse"
	case BakeTypeGlossy:
		return "Glossy"
	default:
		return "Unknown"
	}
}

// Valid reports whether the bake type is one of the defined values.
//
// Returns:
//   - bool: true for Combined, Diffuse or Glossy
func (t BakeType) Valid() bool {
	return t >= BakeTypeCombined && t <= BakeTypeGlossy
}

// ParseBakeType parses a bake type from its name, case-insensitively.
//
// Parameters:
//   - s: the bake type name ("combined", "Diffuse", "GLOSSY", ...)
//
// Returns:
//   - BakeType: the parsed bake type
//   - error: error if the name does not match any bake type
func ParseBakeType(s string) (BakeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "combined":
		return BakeTypeCombined, nil
	case "diffuse":
		return BakeTypeDiffuse, nil
	case "glossy":
		return BakeTypeGlossy, nil
	default:
		return BakeTypeCombined, fmt.Errorf("unknown bake type %q", s)
	}
}

// MarshalYAML encodes the bake type as its canonical name.
func (t BakeType) MarshalYAML() (any, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid bake type %d", int(t))
	}
	return t.String(), nil
}

// UnmarshalYAML decodes a bake type from its name.
func (t *BakeType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseBakeType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ShadingMode is the per-object material state: lit by the original shading
// network, or by the baked lightmap texture.
type ShadingMode int

const (
	// ShadingModeReal is the initial state: the object's original shading
	// network drives the material output.
	ShadingModeReal ShadingMode = iota

	// ShadingModeBaked means the baked lightmap texture drives the material
	// output and the original wiring is archived for restoration.
	ShadingModeBaked
)

// String returns "Real" or "Baked".
func (m ShadingMode) String() string {
	if m == ShadingModeBaked {
		return "Baked"
	}
	return "Real"
}

// BakeStatus is the outcome class of one per-object bake or mode-switch attempt.
type BakeStatus int

const (
	// StatusSuccess means the attempt completed fully.
	StatusSuccess BakeStatus = iota

	// StatusSkipped means the object resolved but is not bakeable (e.g. a
	// light or empty placed in the name list); not an error.
	StatusSkipped

	// StatusFailed means the attempt failed; Reason carries the cause.
	StatusFailed
)

// String returns "Success", "Skipped" or "Failed".
func (s BakeStatus) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Failed"
	}
}

// BakeResult records the outcome of one attempt on one object. The same record
// shape is used for bake attempts and for mode-switch attempts. Results are
// produced once per orchestration pass and never persisted.
type BakeResult struct {
	// Object is the object name as it appeared in the input list.
	Object string

	// Status classifies the outcome.
	Status BakeStatus

	// Reason carries the originating error for Failed (and, informationally,
	// Skipped) results. Nil on success.
	Reason error
}

// Summarize renders a one-line human-readable summary of a result set, e.g.
// "3 objects: 2 succeeded, 0 skipped, 1 failed".
//
// Parameters:
//   - results: the per-attempt results of one batch
//
// Returns:
//   - string: the summary line
func Summarize(results []BakeResult) string {
	var ok, skipped, failed int
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			ok++
		case StatusSkipped:
			skipped++
		default:
			failed++
		}
	}
	return fmt.Sprintf("%d objects: %d succeeded, %d skipped, %d failed", len(results), ok, skipped, failed)
}
