package media

import (
	"io"
	"net/http"
	"strconv"

	"artmarket-app/internal/api/respond"
	"artmarket-app/internal/infra/blob"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	blobs *blob.Store
}

func NewHandler(blobs *blob.Store) *Handler {
	return &Handler{blobs: blobs}
}

// GET /media/*key
func (h *Handler) Serve(c *gin.Context) {
	if h.blobs == nil {
		respond.Error(c, blob.ErrNotFound)
		return
	}
	obj, err := h.blobs.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	defer obj.Close()

	c.Header("Content-Type", obj.ContentType)
	c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, obj)
}
