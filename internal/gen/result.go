package gen

import (
	"github.com/shopspring/decimal"
)

// Image is one generated image. Width and height are the dimensions
// that were requested, not decoded from the media bytes; the pipeline
// never decodes images (see the unifier for the consequences).
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Video is one generated video clip. Duration, resolution and aspect
// ratio are the settings actually sent with the request; the remote
// services do not reliably echo them back.
type Video struct {
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Resolution      string `json:"resolution,omitempty"`
	AspectRatio     string `json:"aspect_ratio,omitempty"`
}

// Usage carries the accounting a credential-bearing model reported.
// Token counts are copied through verbatim; Cost is derived from the
// descriptor's per-image price when one is declared.
type Usage struct {
	InputTokens  int64           `json:"input_tokens,omitempty"`
	OutputTokens int64           `json:"output_tokens,omitempty"`
	TotalTokens  int64           `json:"total_tokens,omitempty"`
	Cost         decimal.Decimal `json:"cost,omitempty"`
}

// PersistenceReport records the outcome of the best-effort auto-save
// that runs after a successful generation. A failed save never changes
// the generation outcome; callers that care inspect this report.
type PersistenceReport struct {
	Attempted  bool     `json:"attempted"`
	Saved      bool     `json:"saved"`
	SavedFiles []string `json:"saved_files,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

// Result is the canonical generation result. Exactly one of Images or
// Video is populated; the unifier refuses to produce a Result with
// neither.
type Result struct {
	Images []Image `json:"images,omitempty"`
	Video  *Video  `json:"video,omitempty"`

	// Seed is the seed actually used: the one echoed by the remote
	// service, or the requested one when the service stays silent.
	Seed *int64 `json:"seed,omitempty"`

	// Usage is present only for credential-bearing models.
	Usage *Usage `json:"usage,omitempty"`

	Persistence *PersistenceReport `json:"persistence,omitempty"`
}
