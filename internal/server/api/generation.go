package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/looplj/mediahub/internal/gen"
	"github.com/looplj/mediahub/internal/gen/generator"
	"github.com/looplj/mediahub/internal/gen/registry"
	"github.com/looplj/mediahub/internal/server/middleware"
)

type GenerationHandlersParams struct {
	fx.In

	Generator *generator.Generator
}

type GenerationHandlers struct {
	Generator *generator.Generator
}

func NewGenerationHandlers(params GenerationHandlersParams) *GenerationHandlers {
	return &GenerationHandlers{Generator: params.Generator}
}

// Model is the catalog entry exposed over the API. It carries what a
// front end needs to build its model picker and size controls.
type Model struct {
	ID                 string            `json:"id"`
	Mode               gen.Mode          `json:"mode"`
	ResolutionPolicy   string            `json:"resolution_policy"`
	Presets            []ModelPreset     `json:"presets,omitempty"`
	SourceImages       string            `json:"source_images,omitempty"`
	MaxSourceImages    int               `json:"max_source_images,omitempty"`
	RequiresCredential bool              `json:"requires_credential"`
	PricePerOutput     *decimal.Decimal  `json:"price_per_output,omitempty"`
}

type ModelPreset struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ModelList struct {
	Data []Model `json:"data"`
}

// ListModels returns the catalog, optionally filtered by ?mode=.
func (h *GenerationHandlers) ListModels(c *gin.Context) {
	var descriptors []registry.Descriptor

	if mode := c.Query("mode"); mode != "" {
		descriptors = h.Generator.Models(gen.Mode(mode))
	} else {
		for _, m := range []gen.Mode{gen.ModeTextToImage, gen.ModeImageToImage, gen.ModeTextToVideo} {
			descriptors = append(descriptors, h.Generator.Models(m)...)
		}
	}

	list := ModelList{Data: make([]Model, 0, len(descriptors))}

	for _, d := range descriptors {
		m := Model{
			ID:                 d.ID,
			Mode:               d.Mode,
			ResolutionPolicy:   string(d.ResolutionPolicy),
			SourceImages:       string(d.ImageShape),
			MaxSourceImages:    d.ListMaxImages,
			RequiresCredential: d.Credential != nil,
		}

		for _, p := range d.Presets {
			m.Presets = append(m.Presets, ModelPreset{Name: p.Name, Width: p.Width, Height: p.Height})
		}

		if !d.PricePerOutput.IsZero() {
			price := d.PricePerOutput
			m.PricePerOutput = &price
		}

		list.Data = append(list.Data, m)
	}

	c.JSON(http.StatusOK, list)
}

// CreateGeneration runs one generation synchronously and returns the
// unified result.
func (h *GenerationHandlers) CreateGeneration(c *gin.Context) {
	var req gen.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	req.RequestID = middleware.RequestID(c)

	result, err := h.Generator.Generate(c.Request.Context(), &req)
	if err != nil {
		GenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
