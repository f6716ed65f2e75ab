package registry

import (
	"math"
)

const (
	defaultMinDim = 1
	defaultMaxDim = 4096
)

// ClampDimensions resolves the requested width/height against the
// descriptor's resolution policy.
//
// Arbitrary: each axis is clamped independently into the descriptor's
// declared bounds; a request already in range comes back unchanged.
// Fixed presets: the nearest named preset wins, matched by aspect ratio
// first and requested area second; literal pixel values are ignored.
// Inherit-from-source: the hint is returned unchanged, the normalizer
// discards it downstream.
func (r *Registry) ClampDimensions(d Descriptor, width, height int) (int, int) {
	switch d.ResolutionPolicy {
	case ResolutionFixedPresets:
		p := nearestPreset(d.Presets, width, height)
		return p.Width, p.Height
	case ResolutionInheritSource:
		return width, height
	default:
		minDim := d.MinDim
		if minDim <= 0 {
			minDim = defaultMinDim
		}

		maxDim := d.MaxDim
		if maxDim <= 0 {
			maxDim = defaultMaxDim
		}

		return clampAxis(width, minDim, maxDim), clampAxis(height, minDim, maxDim)
	}
}

// PresetFor returns the name of the preset ClampDimensions would pick.
func (r *Registry) PresetFor(d Descriptor, width, height int) string {
	if d.ResolutionPolicy != ResolutionFixedPresets {
		return ""
	}

	return nearestPreset(d.Presets, width, height).Name
}

func clampAxis(v, minDim, maxDim int) int {
	if v < minDim {
		return minDim
	}

	if v > maxDim {
		return maxDim
	}

	return v
}

func nearestPreset(presets []Preset, width, height int) Preset {
	if len(presets) == 0 {
		return Preset{}
	}

	if width <= 0 || height <= 0 {
		return presets[0]
	}

	requested := float64(width) / float64(height)

	best := presets[0]
	bestRatioDiff := math.Inf(1)
	bestAreaDiff := math.Inf(1)

	for _, p := range presets {
		ratio := float64(p.Width) / float64(p.Height)
		ratioDiff := math.Abs(math.Log(requested / ratio))
		areaDiff := math.Abs(float64(p.Width*p.Height - width*height))

		if ratioDiff < bestRatioDiff-1e-9 ||
			(math.Abs(ratioDiff-bestRatioDiff) <= 1e-9 && areaDiff < bestAreaDiff) {
			best = p
			bestRatioDiff = ratioDiff
			bestAreaDiff = areaDiff
		}
	}

	return best
}
