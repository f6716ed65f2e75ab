// Package registry is the static catalog of hosted generation models.
// Each descriptor records what one remote model expects and supports so
// the normalizer never has to guess: input image shape, resolution
// policy, literal parameter overrides and credential requirements are
// all data here, not code elsewhere.
package registry

import (
	"github.com/shopspring/decimal"

	"github.com/looplj/mediahub/internal/gen"
)

// ImageShape says how a model wants its conditioning images.
type ImageShape string

const (
	// ImageShapeNone is for pure text-to-media models.
	ImageShapeNone ImageShape = ""

	// ImageShapeSingle models take one image under a singular field.
	ImageShapeSingle ImageShape = "single"

	// ImageShapeList models take a list field, even for one image.
	ImageShapeList ImageShape = "list"
)

// ResolutionPolicy says how a model handles output dimensions.
type ResolutionPolicy string

const (
	// ResolutionArbitrary accepts any width/height pair within bounds.
	ResolutionArbitrary ResolutionPolicy = "arbitrary"

	// ResolutionFixedPresets accepts only named sizes.
	ResolutionFixedPresets ResolutionPolicy = "fixed-presets"

	// ResolutionInheritSource sends no resolution at all; the output
	// matches the source image.
	ResolutionInheritSource ResolutionPolicy = "inherit-from-source"
)

// Preset is one named size a fixed-presets model accepts.
type Preset struct {
	Name   string
	Width  int
	Height int
}

// Override is one literal field the remote endpoint requires. Overrides
// are applied to the shaped input in order, after all generic fields,
// so they win over anything the generic steps produced. Path is a
// JSON path in sjson syntax.
//
// The literal values are preserved from the providers' published
// defaults; do not tune them.
type Override struct {
	Path  string
	Value any
}

// CredentialSpec describes the user-supplied key a
// bring-your-own-credential family needs on top of the service key.
type CredentialSpec struct {
	// Field is the shaped-input field the credential is injected under.
	Field string

	// Prefix and MinLen are the local format checks applied before any
	// network call.
	Prefix string
	MinLen int

	// Strict families reject unknown fields, so the shaped input is
	// reduced to AllowedFields plus Field.
	Strict        bool
	AllowedFields []string
}

// VideoDefaults fill the video result record, because video endpoints
// do not reliably echo their settings back.
type VideoDefaults struct {
	DurationSeconds int
	Resolution      string
	AspectRatio     string
}

// Descriptor is the static metadata for one hosted model. Descriptors
// are built once at process start and never mutated.
type Descriptor struct {
	ID               string
	Mode             gen.Mode
	ImageShape       ImageShape
	ListMaxImages    int
	ResolutionPolicy ResolutionPolicy
	MinDim           int
	MaxDim           int

	// SizeField is the shaped-input field the resolution goes under.
	// Defaults to "image_size" when empty.
	SizeField string

	Presets       []Preset
	Overrides     []Override
	Credential    *CredentialSpec
	VideoDefaults *VideoDefaults

	// Endpoint is the request path joined to the upstream base URL, or
	// an absolute URL for families hosted elsewhere.
	Endpoint string

	// PricePerOutput is the per-image (or per-clip) price used for
	// usage cost accounting on credential-bearing models.
	PricePerOutput decimal.Decimal
}

// Registry answers "what does model X expect" with no network access.
type Registry struct {
	order []string
	byID  map[string]Descriptor
}

// New builds a registry from descriptors, preserving their order.
func New(descriptors []Descriptor) *Registry {
	r := &Registry{
		order: make([]string, 0, len(descriptors)),
		byID:  make(map[string]Descriptor, len(descriptors)),
	}

	for _, d := range descriptors {
		if _, dup := r.byID[d.ID]; dup {
			continue
		}

		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d
	}

	return r
}

// Lookup returns the descriptor for id. An unknown id is a
// ConfigurationError, never a defaulted descriptor.
func (r *Registry) Lookup(id string) (Descriptor, error) {
	d, ok := r.byID[id]
	if !ok {
		return Descriptor{}, &gen.ConfigurationError{ModelID: id, Detail: "model not found in registry"}
	}

	return d, nil
}

// ListByMode returns the descriptors for one generation mode in table
// order. The order is stable across calls.
func (r *Registry) ListByMode(mode gen.Mode) []Descriptor {
	var out []Descriptor

	for _, id := range r.order {
		d := r.byID[id]
		if d.Mode == mode {
			out = append(out, d)
		}
	}

	return out
}

// All returns every descriptor in table order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}

	return out
}
