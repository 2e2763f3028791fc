package ticket

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"

	"github.com/techdesk-io/techdesk/internal/shared/logger"
	"github.com/techdesk-io/techdesk/internal/shared/utils"
)

// AttachmentOpener opens a staged attachment by storage name.
type AttachmentOpener interface {
	Open(storageName string) (afero.File, error)
}

type AttachmentHandler struct {
	files  AttachmentOpener
	logger logger.Interface
}

func NewAttachmentHandler(files AttachmentOpener, logger logger.Interface) *AttachmentHandler {
	return &AttachmentHandler{
		files:  files,
		logger: logger,
	}
}

// ServeAttachment handles GET /uploads/:name
func (h *AttachmentHandler) ServeAttachment(c *gin.Context) {
	name := c.Param("name")

	f, err := h.files.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.logger.Warnw("failed to open attachment", "storage_name", name, "error", err)
		}
		utils.ErrorResponse(c, http.StatusNotFound, "attachment not found")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		utils.ErrorResponse(c, http.StatusNotFound, "attachment not found")
		return
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
