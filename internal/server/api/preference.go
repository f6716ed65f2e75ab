package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/looplj/mediahub/internal/prefs"
)

type PreferenceHandlersParams struct {
	fx.In

	Store *prefs.Store
}

type PreferenceHandlers struct {
	Store *prefs.Store
}

func NewPreferenceHandlers(params PreferenceHandlersParams) *PreferenceHandlers {
	return &PreferenceHandlers{Store: params.Store}
}

// Preferences is the settable subset of the preference store. Pointer
// fields distinguish "not sent" from a zero value on update.
type Preferences struct {
	AutoSaveEnabled        *bool   `json:"auto_save_enabled,omitempty"`
	PreferredDirectoryName *string `json:"preferred_directory_name,omitempty"`
	LastUsedSeed           *int64  `json:"last_used_seed,omitempty"`
}

// GetPreferences returns the stored preferences. Unset keys are simply
// absent from the response.
func (h *PreferenceHandlers) GetPreferences(c *gin.Context) {
	var out Preferences

	if _, ok := h.Store.Read(prefs.KeyAutoSaveEnabled); ok {
		enabled := h.Store.Bool(prefs.KeyAutoSaveEnabled, false)
		out.AutoSaveEnabled = &enabled
	}

	if name := h.Store.String(prefs.KeyPreferredDirectoryName, ""); name != "" {
		out.PreferredDirectoryName = &name
	}

	if seed, ok := h.Store.Int64(prefs.KeyLastUsedSeed); ok {
		out.LastUsedSeed = &seed
	}

	c.JSON(http.StatusOK, out)
}

// PutPreferences updates only the keys present in the request body.
func (h *PreferenceHandlers) PutPreferences(c *gin.Context) {
	var in Preferences
	if err := c.ShouldBindJSON(&in); err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()

	if in.AutoSaveEnabled != nil {
		if err := h.Store.Write(ctx, prefs.KeyAutoSaveEnabled, *in.AutoSaveEnabled); err != nil {
			JSONError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if in.PreferredDirectoryName != nil {
		if err := h.Store.Write(ctx, prefs.KeyPreferredDirectoryName, *in.PreferredDirectoryName); err != nil {
			JSONError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if in.LastUsedSeed != nil {
		if err := h.Store.Write(ctx, prefs.KeyLastUsedSeed, *in.LastUsedSeed); err != nil {
			JSONError(c, http.StatusInternalServerError, err)
			return
		}
	}

	h.GetPreferences(c)
}
