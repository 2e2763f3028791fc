package ticket

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techdesk-io/techdesk/internal/application/ticket/usecases"
	apperrors "github.com/techdesk-io/techdesk/internal/shared/errors"
	"github.com/techdesk-io/techdesk/internal/shared/i18n"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
	"github.com/techdesk-io/techdesk/internal/shared/utils"
)

// formOverheadBytes is the allowance for text fields and multipart framing on
// top of the attachment bytes.
const formOverheadBytes = 1 << 20

type TicketHandler struct {
	submitTicketUC usecases.SubmitTicketExecutor
	getTicketUC    usecases.GetTicketExecutor
	listTicketsUC  usecases.ListTicketsExecutor
	maxBodyBytes   int64
	logger         logger.Interface
}

// NewTicketHandler builds the handler. maxUploadBytes bounds the total size of
// the attachments a single request may carry.
func NewTicketHandler(
	submitTicketUC usecases.SubmitTicketExecutor,
	getTicketUC usecases.GetTicketExecutor,
	listTicketsUC usecases.ListTicketsExecutor,
	maxUploadBytes int64,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		submitTicketUC: submitTicketUC,
		getTicketUC:    getTicketUC,
		listTicketsUC:  listTicketsUC,
		maxBodyBytes:   maxUploadBytes + formOverheadBytes,
		logger:         logger,
	}
}

// SubmitTicket handles POST /tickets
func (h *TicketHandler) SubmitTicket(c *gin.Context) {
	lang := i18n.ParseLang(c.Query("lang"))

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var req SubmitTicketRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid ticket submission form", "error", err)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.ErrorResponseWithError(c, apperrors.NewValidationError("request body too large"))
			return
		}
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid form data"))
		return
	}

	if field, ok := unexpectedFileField(c.Request); ok {
		h.logger.Warnw("file posted under unexpected field", "field", field)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(
			fmt.Sprintf("unexpected file field %q, attachments go under %q", field, ImagesField)))
		return
	}

	cmd := req.ToCommand(lang, rawFields(c.Request), formFiles(c.Request))

	result, err := h.submitTicketUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toSubmitTicketResponse(result), result.Message)
}

// GetTicket handles GET /api/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{TicketID: ticketID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListTickets handles GET /api/tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	p := utils.ParsePagination(c)

	result, err := h.listTicketsUC.Execute(c.Request.Context(), usecases.ListTicketsQuery{
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// rawFields keeps the first value of every posted text field, including
// fields the ticket does not persist.
func rawFields(r *http.Request) map[string]string {
	fields := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields
}

// unexpectedFileField reports the first file part posted under a field other
// than ImagesField.
func unexpectedFileField(r *http.Request) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	for field, files := range r.MultipartForm.File {
		if field != ImagesField && len(files) > 0 {
			return field, true
		}
	}
	return "", false
}

func formFiles(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[ImagesField]
}
