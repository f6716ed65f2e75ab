package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/looplj/mediahub/internal/autosave"
)

type StorageHandlersParams struct {
	fx.In

	Saver *autosave.Saver
}

type StorageHandlers struct {
	Saver *autosave.Saver
}

func NewStorageHandlers(params StorageHandlersParams) *StorageHandlers {
	return &StorageHandlers{Saver: params.Saver}
}

type permissionResponse struct {
	Permission autosave.Permission `json:"permission"`
}

// GetPermission probes the save target without changing anything.
func (h *StorageHandlers) GetPermission(c *gin.Context) {
	c.JSON(http.StatusOK, permissionResponse{
		Permission: h.Saver.Permission(c.Request.Context()),
	})
}

// RequestPermission creates the save target if needed and re-probes.
// This backs the front end's "allow saving" confirmation.
func (h *StorageHandlers) RequestPermission(c *gin.Context) {
	c.JSON(http.StatusOK, permissionResponse{
		Permission: h.Saver.Request(c.Request.Context()),
	})
}
