package normalizer

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/looplj/mediahub/internal/gen"
	"github.com/looplj/mediahub/internal/gen/registry"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()

	n, err := New(registry.Default(), Config{
		BaseURL: "https://fal.run/",
		APIKey:  "service-key",
	})
	require.NoError(t, err)

	return n
}

func TestNormalize(t *testing.T) {
	n := newTestNormalizer(t)
	reg := registry.Default()

	lookup := func(id string) registry.Descriptor {
		d, err := reg.Lookup(id)
		require.NoError(t, err)

		return d
	}

	tests := []struct {
		name     string
		modelID  string
		request  *gen.Request
		wantErr  string
		validate func(t *testing.T, body []byte)
	}{
		{
			name:    "base fields with defaults",
			modelID: "fal-ai/flux/dev",
			request: &gen.Request{Prompt: "a red fox", ModelID: "fal-ai/flux/dev"},
			validate: func(t *testing.T, body []byte) {
				require.Equal(t, "a red fox", gjson.GetBytes(body, "prompt").String())
				require.Equal(t, int64(1), gjson.GetBytes(body, "num_images").Int())
				require.True(t, gjson.GetBytes(body, "enable_safety_checker").Exists())
				require.False(t, gjson.GetBytes(body, "enable_safety_checker").Bool())
				require.False(t, gjson.GetBytes(body, "seed").Exists())
				require.False(t, gjson.GetBytes(body, "negative_prompt").Exists())
			},
		},
		{
			name:    "seed travels verbatim",
			modelID: "fal-ai/flux/dev",
			request: &gen.Request{
				Prompt: "a red fox",
				Seed:   lo.ToPtr(int64(424242)),
			},
			validate: func(t *testing.T, body []byte) {
				require.Equal(t, int64(424242), gjson.GetBytes(body, "seed").Int())
			},
		},
		{
			name:    "negative prompt only when non-empty",
			modelID: "fal-ai/flux/dev",
			request: &gen.Request{
				Prompt:         "a red fox",
				NegativePrompt: "blurry, low quality",
			},
			validate: func(t *testing.T, body []byte) {
				require.Equal(t, "blurry, low quality", gjson.GetBytes(body, "negative_prompt").String())
			},
		},
		{
			name:    "arbitrary resolution clamps into size object",
			modelID: "fal-ai/flux/dev",
			request: &gen.Request{Prompt: "a red fox", Width: 9000, Height: 100},
			validate: func(t *testing.T, body []byte) {
				require.Equal(t, int64(1536), gjson.GetBytes(body, "image_size.width").Int())
				require.Equal(t, int64(256), gjson.GetBytes(body, "image_size.height").Int())
			},
		},
		{
			name:    "preset model sends the preset name",
			modelID: "fal-ai/flux-pro/v1.1-ultra",
			request: &gen.Request{Prompt: "a red fox", Width: 1920, Height: 1080},
			validate: func(t *testing.T, body []byte) {
				require.Equal(t, "landscape_16_9", gjson.GetBytes(body, "image_size").String())
			},
		},
		{
			name:    "single image model sends image_url and strength",
			modelID: "fal-ai/flux/dev/image-to-image",
			request: &gen.Request{
				Prompt:       "make it autumn",
				SourceImages: []string{"https://example.com/in.png"},
				Strength:     lo.ToPtr(0.6),
			},
			validate: func(t *testing.T, body []byte) {
				require.Equal(t, "https://example.com/in.png", gjson.GetBytes(body, "image_url").String())
				require.InDelta(t, 0.6, gjson.GetBytes(body, "strength").Float(), 1e-9)
				require.False(t, gjson.GetBytes(body, "image_urls").Exists())

				// Inherit-from-source sends no resolution.
				require.False(t, gjson.GetBytes(body, "image_size").Exists())
			},
		},
		{
			name:    "list image model caps the list",
			modelID: "fal-ai/bytedance/seedream/v4/edit",
			request: &gen.Request{
				Prompt: "merge these",
				SourceImages: []string{
					"https://example.com/1.png",
					"https://example.com/2.png",
					"https://example.com/3.png",
					"https://example.com/4.png",
					"https://example.com/5.png",
					"https://example.com/6.png",
					"https://example.com/7.png",
				},
			},
			validate: func(t *testing.T, body []byte) {
				urls := gjson.GetBytes(body, "image_urls").Array()
				require.Len(t, urls, 6)
				require.False(t, gjson.GetBytes(body, "image_url").Exists())
			},
		},
		{
			name:    "overrides win over generic fields",
			modelID: "fal-ai/recraft/v3",
			request: &gen.Request{Prompt: "a logo", Width: 1024, Height: 1024},
			validate: func(t *testing.T, body []byte) {
				require.Equal(t, "realistic_image", gjson.GetBytes(body, "style").String())
				require.Equal(t, "png", gjson.GetBytes(body, "format").String())
			},
		},
		{
			name:    "strict credential model reduces to allowed fields",
			modelID: "openai/gpt-image-1",
			request: &gen.Request{
				Prompt:             "a red fox",
				NegativePrompt:     "blurry",
				Width:              1024,
				Height:             1024,
				ExternalCredential: "sk-0123456789abcdef01234",
			},
			validate: func(t *testing.T, body []byte) {
				require.Equal(t, "a red fox", gjson.GetBytes(body, "prompt").String())
				require.Equal(t, "1024x1024", gjson.GetBytes(body, "size").String())
				require.Equal(t, "sk-0123456789abcdef01234", gjson.GetBytes(body, "api_key").String())

				// Everything the endpoint rejects is gone.
				require.False(t, gjson.GetBytes(body, "negative_prompt").Exists())
				require.False(t, gjson.GetBytes(body, "num_images").Exists())
				require.False(t, gjson.GetBytes(body, "enable_safety_checker").Exists())
				require.False(t, gjson.GetBytes(body, "image_size").Exists())
			},
		},
		{
			name:    "empty prompt",
			modelID: "fal-ai/flux/dev",
			request: &gen.Request{Prompt: "   "},
			wantErr: "invalid prompt",
		},
		{
			name:    "seed out of range",
			modelID: "fal-ai/flux/dev",
			request: &gen.Request{Prompt: "a red fox", Seed: lo.ToPtr(gen.MaxSeed + 1)},
			wantErr: "invalid seed",
		},
		{
			name:    "strength out of range",
			modelID: "fal-ai/flux/dev/image-to-image",
			request: &gen.Request{
				Prompt:       "make it autumn",
				SourceImages: []string{"https://example.com/in.png"},
				Strength:     lo.ToPtr(0.05),
			},
			wantErr: "invalid strength",
		},
		{
			name:    "missing source image",
			modelID: "fal-ai/flux/dev/image-to-image",
			request: &gen.Request{Prompt: "make it autumn"},
			wantErr: "invalid source_images",
		},
		{
			name:    "missing credential",
			modelID: "openai/gpt-image-1",
			request: &gen.Request{Prompt: "a red fox"},
			wantErr: "required for this model",
		},
		{
			name:    "credential with wrong prefix",
			modelID: "openai/gpt-image-1",
			request: &gen.Request{Prompt: "a red fox", ExternalCredential: "pk-0123456789abcdef01234"},
			wantErr: `must start with "sk-"`,
		},
		{
			name:    "credential too short",
			modelID: "openai/gpt-image-1",
			request: &gen.Request{Prompt: "a red fox", ExternalCredential: "sk-short"},
			wantErr: "must be at least 20 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := n.Normalize(tt.request, lookup(tt.modelID))
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			tt.validate(t, body)
		})
	}
}

func TestBuildRequest(t *testing.T) {
	n := newTestNormalizer(t)
	reg := registry.Default()

	t.Run("relative endpoint joins the base URL", func(t *testing.T) {
		d, err := reg.Lookup("fal-ai/flux/dev")
		require.NoError(t, err)

		req, err := n.BuildRequest(&gen.Request{Prompt: "a red fox"}, d)
		require.NoError(t, err)
		require.Equal(t, "https://fal.run/fal-ai/flux/dev", req.URL)
		require.NotNil(t, req.Auth)
		require.Equal(t, "Authorization", req.Auth.HeaderKey)
		require.Equal(t, "Key service-key", req.Auth.APIKey)
	})

	t.Run("absolute endpoint is used as-is without service auth", func(t *testing.T) {
		d, err := reg.Lookup("openai/gpt-image-1")
		require.NoError(t, err)

		req, err := n.BuildRequest(&gen.Request{
			Prompt:             "a red fox",
			ExternalCredential: "sk-0123456789abcdef01234",
		}, d)
		require.NoError(t, err)
		require.Equal(t, "https://api.openai.com/v1/images/generations", req.URL)

		// The user's key rides in the body; the service key must not
		// leak to a foreign host.
		require.Nil(t, req.Auth)
	})

	t.Run("validation failure produces no request", func(t *testing.T) {
		d, err := reg.Lookup("openai/gpt-image-1")
		require.NoError(t, err)

		req, err := n.BuildRequest(&gen.Request{Prompt: "a red fox", ExternalCredential: "bad"}, d)
		require.Error(t, err)
		require.Nil(t, req)

		var validationErr *gen.ValidationError

		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, "external_credential", validationErr.Field)
	})
}
