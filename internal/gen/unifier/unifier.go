// Package unifier converts the heterogeneous response bodies the hosted
// models return into the one canonical gen.Result the rest of the
// system consumes.
//
// Detection is a closed tagged union: DetectShape classifies the body
// first, then Unify switches over the tag. First match wins, and the
// probe order is a contract because some shapes are structural subsets
// of others.
package unifier

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/looplj/mediahub/internal/gen"
	"github.com/looplj/mediahub/internal/gen/registry"
)

// Shape tags the known remote response layouts.
type Shape int

const (
	ShapeUnrecognized Shape = iota

	// ShapeImagesArray: {"images": [{"url": ...}, ...]}
	ShapeImagesArray

	// ShapeSingularImage: {"image": {"url": ...}} or {"image": "https://..."}
	ShapeSingularImage

	// ShapeOutput: {"output": "https://..."} or {"output": ["https://...", ...]}
	ShapeOutput

	// ShapeBareURL: {"url": "https://..."}
	ShapeBareURL

	// ShapeVideo: {"video": {"url": ...}}
	ShapeVideo
)

// Context is what the unifier needs to know about the request that was
// actually sent: missing dimensions are filled from it, and video
// settings are taken from it because the services do not echo them.
type Context struct {
	Width  int
	Height int
	Seed   *int64

	// Video carries the settings used for a video generation.
	Video *registry.VideoDefaults

	// CopyUsage is set for credential-bearing models; their usage
	// object is copied through verbatim.
	CopyUsage bool

	// PricePerOutput, when nonzero, is used to compute the usage cost
	// from the number of produced outputs.
	PricePerOutput decimal.Decimal
}

// DetectShape classifies the response body. The probe order matters and
// must not be rearranged.
func DetectShape(body []byte) Shape {
	if v := gjson.GetBytes(body, "images"); v.IsArray() {
		return ShapeImagesArray
	}

	if v := gjson.GetBytes(body, "image"); v.Exists() {
		return ShapeSingularImage
	}

	if v := gjson.GetBytes(body, "output"); v.Exists() {
		return ShapeOutput
	}

	if v := gjson.GetBytes(body, "url"); v.Type == gjson.String {
		return ShapeBareURL
	}

	if v := gjson.GetBytes(body, "video.url"); v.Type == gjson.String {
		return ShapeVideo
	}

	return ShapeUnrecognized
}

// Unify parses body into a canonical result or fails explicitly. It
// never guesses and never returns a result with neither images nor
// video.
func Unify(body []byte, uctx Context) (*gen.Result, error) {
	result := &gen.Result{}

	switch DetectShape(body) {
	case ShapeImagesArray:
		for _, e := range gjson.GetBytes(body, "images").Array() {
			img := imageFrom(e, uctx)
			if img.URL == "" {
				continue
			}

			result.Images = append(result.Images, img)
		}
	case ShapeSingularImage:
		img := imageFrom(gjson.GetBytes(body, "image"), uctx)
		if img.URL != "" {
			result.Images = []gen.Image{img}
		}
	case ShapeOutput:
		v := gjson.GetBytes(body, "output")
		if v.Type == gjson.String {
			result.Images = []gen.Image{{URL: v.String(), Width: uctx.Width, Height: uctx.Height}}
		} else if v.IsArray() {
			for _, e := range v.Array() {
				if e.Type != gjson.String {
					continue
				}

				result.Images = append(result.Images, gen.Image{URL: e.String(), Width: uctx.Width, Height: uctx.Height})
			}
		}
	case ShapeBareURL:
		result.Images = []gen.Image{{URL: gjson.GetBytes(body, "url").String(), Width: uctx.Width, Height: uctx.Height}}
	case ShapeVideo:
		video := &gen.Video{URL: gjson.GetBytes(body, "video.url").String()}
		if uctx.Video != nil {
			video.DurationSeconds = uctx.Video.DurationSeconds
			video.Resolution = uctx.Video.Resolution
			video.AspectRatio = uctx.Video.AspectRatio
		}

		result.Video = video
	case ShapeUnrecognized:
		return nil, &gen.UnrecognizedResponseShapeError{Raw: body}
	}

	// A recognized layout that still yielded nothing is treated the
	// same as an unknown one: an explicit failure, never an empty
	// success.
	if len(result.Images) == 0 && result.Video == nil {
		return nil, &gen.UnrecognizedResponseShapeError{Raw: body}
	}

	result.Seed = echoedSeed(body, uctx)

	if uctx.CopyUsage {
		result.Usage = usageFrom(body)
	}

	if !uctx.PricePerOutput.IsZero() {
		outputs := int64(len(result.Images))
		if result.Video != nil {
			outputs++
		}

		if result.Usage == nil {
			result.Usage = &gen.Usage{}
		}

		result.Usage.Cost = uctx.PricePerOutput.Mul(decimal.NewFromInt(outputs))
	}

	return result, nil
}

// imageFrom builds an image record from either an object with a url
// field or a bare URL string. Missing dimensions are filled from the
// request, not decoded from the media; the reported size can therefore
// be wrong when the service silently resizes, which is a known and
// accepted gap.
func imageFrom(v gjson.Result, uctx Context) gen.Image {
	if v.Type == gjson.String {
		return gen.Image{URL: v.String(), Width: uctx.Width, Height: uctx.Height}
	}

	img := gen.Image{
		URL:    v.Get("url").String(),
		Width:  int(v.Get("width").Int()),
		Height: int(v.Get("height").Int()),
	}

	if img.Width == 0 {
		img.Width = uctx.Width
	}

	if img.Height == 0 {
		img.Height = uctx.Height
	}

	return img
}

func echoedSeed(body []byte, uctx Context) *int64 {
	if v := gjson.GetBytes(body, "seed"); v.Exists() && v.Type == gjson.Number {
		seed := v.Int()
		return &seed
	}

	return uctx.Seed
}

// usageFrom copies the remote usage object through without
// reinterpretation.
func usageFrom(body []byte) *gen.Usage {
	v := gjson.GetBytes(body, "usage")
	if !v.Exists() {
		return nil
	}

	return &gen.Usage{
		InputTokens:  v.Get("input_tokens").Int(),
		OutputTokens: v.Get("output_tokens").Int(),
		TotalTokens:  v.Get("total_tokens").Int(),
	}
}
