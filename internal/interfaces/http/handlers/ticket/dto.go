package ticket

import (
	"io"
	"mime/multipart"

	"github.com/techdesk-io/techdesk/internal/application/ticket/dto"
	"github.com/techdesk-io/techdesk/internal/application/ticket/usecases"
	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/shared/i18n"
)

// ImagesField is the multipart field that carries ticket photos.
const ImagesField = "images"

// SubmitTicketRequest is the submission form. Every field is optional at
// the binding level; the problem description is enforced by the domain.
type SubmitTicketRequest struct {
	ClientName         string `form:"client_name"`
	Technician         string `form:"technician"`
	Location           string `form:"location"`
	ScheduledAt        string `form:"scheduled_at"`
	ProblemDescription string `form:"problem_description"`
	Diagnosis          string `form:"diagnosis"`
	Solution           string `form:"solution"`
	Notes              string `form:"notes"`
	EquipmentID        string `form:"equipment_id"`
}

func (r *SubmitTicketRequest) ToCommand(
	lang i18n.Lang,
	rawFields map[string]string,
	files []*multipart.FileHeader,
) usecases.SubmitTicketCommand {
	uploads := make([]ticket.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, toUpload(fh))
	}

	return usecases.SubmitTicketCommand{
		Language: lang,
		Details: ticket.Details{
			ClientName:         r.ClientName,
			Technician:         r.Technician,
			Location:           r.Location,
			ScheduledAt:        r.ScheduledAt,
			ProblemDescription: r.ProblemDescription,
			Diagnosis:          r.Diagnosis,
			Solution:           r.Solution,
			Notes:              r.Notes,
			EquipmentID:        r.EquipmentID,
		},
		RawFields: rawFields,
		Uploads:   uploads,
	}
}

func toUpload(fh *multipart.FileHeader) ticket.Upload {
	return ticket.Upload{
		OriginalName: fh.Filename,
		Size:         fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func toSubmitTicketResponse(result *usecases.SubmitTicketResult) *dto.SubmitTicketResponse {
	attachments := dto.ToAttachmentDTOs(result.Attachments)

	return &dto.SubmitTicketResponse{
		TicketID:    result.TicketID,
		CreatedAt:   result.CreatedAt,
		Language:    result.Language.String(),
		Attachments: attachments,
		Notification: dto.NotificationDTO{
			Delivered: result.Notification.Delivered,
			Reason:    result.Notification.Reason,
		},
		Message:             result.Message,
		NotificationMessage: result.NotificationMessage,
	}
}
