// Package normalizer turns a unified gen.Request into the exact payload
// the selected model's endpoint expects.
//
// The shaping steps run in a fixed order, and later steps may overwrite
// earlier ones; that ordering is a behavioral contract, because the
// per-descriptor overrides and the strict-credential field reduction
// are defined to win over the generic fields.
package normalizer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/looplj/mediahub/internal/gen"
	"github.com/looplj/mediahub/internal/gen/registry"
	"github.com/looplj/mediahub/internal/httpclient"
)

const defaultSizeField = "image_size"

// Config holds the upstream connection settings shared by all
// relative-endpoint models.
type Config struct {
	// BaseURL is the upstream host relative descriptor endpoints are
	// joined to.
	BaseURL string `conf:"base_url" yaml:"base_url" json:"base_url"`

	// APIKey is the primary service credential.
	APIKey string `conf:"api_key" yaml:"api_key" json:"api_key"`
}

// Normalizer shapes unified requests per model descriptor.
type Normalizer struct {
	registry *registry.Registry
	config   Config
}

// New creates a Normalizer backed by reg.
func New(reg *registry.Registry, config Config) (*Normalizer, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}

	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	return &Normalizer{
		registry: reg,
		config:   strip(config),
	}, nil
}

func strip(config Config) Config {
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	return config
}

// Normalize produces the shaped input body for req against d. All
// errors are local and raised before any network call.
func (n *Normalizer) Normalize(req *gen.Request, d registry.Descriptor) ([]byte, error) {
	if req == nil {
		return nil, &gen.ValidationError{Field: "request", Rule: "must not be nil"}
	}

	if err := validate(req, d); err != nil {
		return nil, err
	}

	// Step 1: base fields. Safety filtering is disabled on purpose and
	// must stay disabled; this mirrors the product policy, not an
	// oversight.
	body := map[string]any{
		"prompt":                req.Prompt,
		"num_images":            lo.FromPtrOr(req.NumOutputs, 1),
		"enable_safety_checker": false,
	}

	// Step 2: seed travels verbatim. When absent the remote service
	// picks one; this layer never invents seeds.
	if req.Seed != nil {
		body["seed"] = *req.Seed
	}

	// Step 3: negative prompt only when non-empty.
	if req.NegativePrompt != "" {
		body["negative_prompt"] = req.NegativePrompt
	}

	// Step 4: conditioning image field, singular or list, exactly as
	// the descriptor declares. The wrong shape fails remotely, not
	// locally, so the descriptor is the single source of truth here.
	switch d.ImageShape {
	case registry.ImageShapeSingle:
		body["image_url"] = req.SourceImages[0]

		if req.Strength != nil {
			body["strength"] = *req.Strength
		}
	case registry.ImageShapeList:
		limit := d.ListMaxImages
		if limit <= 0 {
			limit = 1
		}

		urls := req.SourceImages
		if len(urls) > limit {
			urls = urls[:limit]
		}

		body["image_urls"] = urls
	case registry.ImageShapeNone:
		// Text-only model; any supplied source images are ignored.
	}

	// Step 5: resolution per policy. Inherit-from-source sends nothing.
	sizeField := d.SizeField
	if sizeField == "" {
		sizeField = defaultSizeField
	}

	switch d.ResolutionPolicy {
	case registry.ResolutionArbitrary:
		w, h := n.registry.ClampDimensions(d, req.Width, req.Height)
		body[sizeField] = map[string]any{"width": w, "height": h}
	case registry.ResolutionFixedPresets:
		body[sizeField] = n.registry.PresetFor(d, req.Width, req.Height)
	case registry.ResolutionInheritSource:
	}

	shaped, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shaped input: %w", err)
	}

	// Step 6: per-descriptor literal overrides, applied in order so
	// they win over the generic fields above.
	for _, o := range d.Overrides {
		shaped, err = sjson.SetBytes(shaped, o.Path, o.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to apply override %q: %w", o.Path, err)
		}
	}

	// Step 7: bring-your-own-credential handling, last, because strict
	// families discard every field their endpoint does not accept.
	if d.Credential != nil {
		shaped, err = injectCredential(shaped, d.Credential, req.ExternalCredential)
		if err != nil {
			return nil, err
		}
	}

	return shaped, nil
}

// BuildRequest normalizes req and wraps the result into a transport
// request for d's endpoint.
func (n *Normalizer) BuildRequest(req *gen.Request, d registry.Descriptor) (*httpclient.Request, error) {
	shaped, err := n.Normalize(req, d)
	if err != nil {
		return nil, err
	}

	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	url := d.Endpoint
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = n.config.BaseURL + url
	}

	// Credentialed families carry the user key in the body; everything
	// else authenticates with the service key.
	var auth *httpclient.AuthConfig
	if d.Credential == nil {
		auth = &httpclient.AuthConfig{
			Type:      httpclient.AuthTypeAPIKey,
			HeaderKey: "Authorization",
			APIKey:    "Key " + n.config.APIKey,
		}
	}

	return &httpclient.Request{
		Method:    http.MethodPost,
		URL:       url,
		Headers:   headers,
		Body:      shaped,
		Auth:      auth,
		RequestID: req.RequestID,
	}, nil
}

func validate(req *gen.Request, d registry.Descriptor) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return &gen.ValidationError{Field: "prompt", Rule: "must not be empty"}
	}

	if req.Seed != nil && (*req.Seed < 0 || *req.Seed > gen.MaxSeed) {
		return &gen.ValidationError{Field: "seed", Rule: fmt.Sprintf("must be in [0, %d]", gen.MaxSeed)}
	}

	if req.Strength != nil && (*req.Strength < 0.1 || *req.Strength > 1.0) {
		return &gen.ValidationError{Field: "strength", Rule: "must be in [0.1, 1.0]"}
	}

	if d.ImageShape != registry.ImageShapeNone && len(req.SourceImages) == 0 {
		return &gen.ValidationError{Field: "source_images", Rule: "required for " + string(d.Mode) + " model " + d.ID}
	}

	return nil
}

// injectCredential validates the user-supplied key, reduces the body
// for strict families, and sets the credential under the family's
// field name.
func injectCredential(shaped []byte, spec *registry.CredentialSpec, credential string) ([]byte, error) {
	if err := validateCredential(spec, credential); err != nil {
		return nil, err
	}

	if spec.Strict {
		reduced := []byte(`{}`)

		for _, field := range spec.AllowedFields {
			v := gjson.GetBytes(shaped, field)
			if !v.Exists() {
				continue
			}

			var err error

			reduced, err = sjson.SetRawBytes(reduced, field, []byte(v.Raw))
			if err != nil {
				return nil, fmt.Errorf("failed to reduce shaped input: %w", err)
			}
		}

		shaped = reduced
	}

	shaped, err := sjson.SetBytes(shaped, spec.Field, credential)
	if err != nil {
		return nil, fmt.Errorf("failed to inject credential: %w", err)
	}

	return shaped, nil
}
