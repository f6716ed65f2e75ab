// Package gen holds the unified media generation request and result
// types shared by the registry, normalizer, unifier and pipeline. The
// unified shapes are model-agnostic; everything model-specific lives in
// the registry descriptors.
package gen

// Mode is the generation mode of a model.
type Mode string

const (
	ModeTextToImage  Mode = "text-to-image"
	ModeImageToImage Mode = "image-to-image"
	ModeTextToVideo  Mode = "text-to-video"
)

// MaxSeed is the largest seed value accepted by the hosted services.
const MaxSeed int64 = 2147483647

// Request is the unified generation request. It is constructed fresh
// per call and never retained by the pipeline.
type Request struct {
	// Prompt is the text prompt. Required for every mode.
	Prompt string `json:"prompt"`

	// NegativePrompt is attached only when non-empty.
	NegativePrompt string `json:"negative_prompt,omitempty"`

	// ModelID selects the registry descriptor.
	ModelID string `json:"model_id"`

	// Seed is passed through verbatim when set. When nil the remote
	// service picks one; this layer never generates seeds.
	Seed *int64 `json:"seed,omitempty"`

	// NumOutputs is the number of images to generate. Defaults to 1.
	NumOutputs *int64 `json:"num_outputs,omitempty"`

	// SourceImages are accessible URLs of conditioning images for
	// image-to-image and image-to-video models.
	SourceImages []string `json:"source_images,omitempty"`

	// Strength controls how far an image-to-image model may drift from
	// the source, in [0.1, 1.0].
	Strength *float64 `json:"strength,omitempty"`

	// Width and Height are the requested output dimensions. How they
	// are honored depends on the descriptor's resolution policy.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// ExternalCredential is the user-supplied key for
	// bring-your-own-credential model families.
	ExternalCredential string `json:"external_credential,omitempty"`

	// RequestID identifies the request in logs. Assigned by the caller
	// or the API layer.
	RequestID string `json:"request_id,omitempty"`
}
