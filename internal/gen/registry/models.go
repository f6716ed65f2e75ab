package registry

import (
	"github.com/shopspring/decimal"

	"github.com/looplj/mediahub/internal/gen"
)

// defaultTable is the shipped model catalog. Order matters: ListByMode
// presents models to callers in this order.
//
// The literal overrides are the providers' published required values,
// carried as-is.
var defaultTable = []Descriptor{
	{
		ID:               "fal-ai/flux/dev",
		Mode:             gen.ModeTextToImage,
		ResolutionPolicy: ResolutionArbitrary,
		MinDim:           256,
		MaxDim:           1536,
		Endpoint:         "/fal-ai/flux/dev",
		Overrides: []Override{
			{Path: "num_inference_steps", Value: 28},
			{Path: "guidance_scale", Value: 3.5},
		},
	},
	{
		ID:               "fal-ai/flux-pro/v1.1-ultra",
		Mode:             gen.ModeTextToImage,
		ResolutionPolicy: ResolutionFixedPresets,
		Endpoint:         "/fal-ai/flux-pro/v1.1-ultra",
		Presets: []Preset{
			{Name: "square_hd", Width: 1024, Height: 1024},
			{Name: "portrait_4_3", Width: 768, Height: 1024},
			{Name: "portrait_16_9", Width: 720, Height: 1280},
			{Name: "landscape_4_3", Width: 1024, Height: 768},
			{Name: "landscape_16_9", Width: 1280, Height: 720},
		},
	},
	{
		ID:               "fal-ai/recraft/v3",
		Mode:             gen.ModeTextToImage,
		ResolutionPolicy: ResolutionFixedPresets,
		Endpoint:         "/fal-ai/recraft/v3",
		Presets: []Preset{
			{Name: "square_hd", Width: 1024, Height: 1024},
			{Name: "portrait_16_9", Width: 720, Height: 1280},
			{Name: "landscape_16_9", Width: 1280, Height: 720},
		},
		Overrides: []Override{
			{Path: "style", Value: "realistic_image"},
			{Path: "format", Value: "png"},
		},
	},
	{
		ID:               "fal-ai/ideogram/v3",
		Mode:             gen.ModeTextToImage,
		ResolutionPolicy: ResolutionFixedPresets,
		Endpoint:         "/fal-ai/ideogram/v3",
		Presets: []Preset{
			{Name: "square_hd", Width: 1024, Height: 1024},
			{Name: "portrait_4_3", Width: 768, Height: 1024},
			{Name: "landscape_4_3", Width: 1024, Height: 768},
		},
		Overrides: []Override{
			{Path: "rendering_speed", Value: "BALANCED"},
		},
	},
	{
		ID:               "fal-ai/flux/dev/image-to-image",
		Mode:             gen.ModeImageToImage,
		ImageShape:       ImageShapeSingle,
		ResolutionPolicy: ResolutionInheritSource,
		Endpoint:         "/fal-ai/flux/dev/image-to-image",
		Overrides: []Override{
			{Path: "num_inference_steps", Value: 40},
			{Path: "guidance_scale", Value: 3.5},
		},
	},
	{
		ID:               "fal-ai/bytedance/seedream/v4/edit",
		Mode:             gen.ModeImageToImage,
		ImageShape:       ImageShapeList,
		ListMaxImages:    6,
		ResolutionPolicy: ResolutionArbitrary,
		MinDim:           1024,
		MaxDim:           4096,
		Endpoint:         "/fal-ai/bytedance/seedream/v4/edit",
	},
	{
		ID:               "fal-ai/kling-video/v1.6/standard/image-to-video",
		Mode:             gen.ModeTextToVideo,
		ImageShape:       ImageShapeSingle,
		ResolutionPolicy: ResolutionInheritSource,
		Endpoint:         "/fal-ai/kling-video/v1.6/standard/image-to-video",
		VideoDefaults:    &VideoDefaults{DurationSeconds: 5, Resolution: "720p", AspectRatio: "16:9"},
	},
	{
		ID:               "fal-ai/minimax/video-01",
		Mode:             gen.ModeTextToVideo,
		ResolutionPolicy: ResolutionInheritSource,
		Endpoint:         "/fal-ai/minimax/video-01",
		VideoDefaults:    &VideoDefaults{DurationSeconds: 6, Resolution: "768p", AspectRatio: "16:9"},
	},
	{
		ID:               "openai/gpt-image-1",
		Mode:             gen.ModeTextToImage,
		ResolutionPolicy: ResolutionFixedPresets,
		SizeField:        "size",
		Endpoint:         "https://api.openai.com/v1/images/generations",
		Presets: []Preset{
			{Name: "1024x1024", Width: 1024, Height: 1024},
			{Name: "1024x1536", Width: 1024, Height: 1536},
			{Name: "1536x1024", Width: 1536, Height: 1024},
		},
		Credential: &CredentialSpec{
			Field:  "api_key",
			Prefix: "sk-",
			MinLen: 20,
			Strict: true,
			// This endpoint rejects unknown fields outright.
			AllowedFields: []string{"prompt", "size"},
		},
		PricePerOutput: decimal.RequireFromString("0.04"),
	},
	{
		ID:               "google/veo-3",
		Mode:             gen.ModeTextToVideo,
		ResolutionPolicy: ResolutionInheritSource,
		Endpoint:         "https://generativelanguage.googleapis.com/v1beta/models/veo-3:generate",
		VideoDefaults:    &VideoDefaults{DurationSeconds: 8, Resolution: "1080p", AspectRatio: "16:9"},
		Credential: &CredentialSpec{
			Field:  "apiKey",
			Prefix: "AIza",
			MinLen: 39,
		},
		PricePerOutput: decimal.RequireFromString("0.40"),
	},
}

// Default returns the registry built from the shipped catalog.
func Default() *Registry {
	return New(defaultTable)
}
