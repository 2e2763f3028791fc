package dto

import (
	"time"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
)

// UploadsURLPrefix is where staged attachments are served.
const UploadsURLPrefix = "/uploads/"

type TicketDTO struct {
	ID                  uint      `json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	Language            string    `json:"language"`
	ClientName          string    `json:"client_name"`
	Technician          string    `json:"technician"`
	Location            string    `json:"location"`
	ScheduledAt         string    `json:"scheduled_at"`
	ProblemDescription  string    `json:"problem_description"`
	Diagnosis           string    `json:"diagnosis"`
	Solution            string    `json:"solution"`
	Notes               string    `json:"notes"`
	EquipmentID         string    `json:"equipment_id"`
	AttachmentFilenames []string  `json:"attachment_filenames"`
	AttachmentURLs      []string  `json:"attachment_urls"`
}

type AttachmentDTO struct {
	OriginalName string `json:"original_name"`
	StorageName  string `json:"storage_name"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

type NotificationDTO struct {
	Delivered bool   `json:"delivered"`
	Reason    string `json:"reason,omitempty"`
}

// SubmitTicketResponse is the body returned for a created ticket.
type SubmitTicketResponse struct {
	TicketID            uint            `json:"ticket_id"`
	CreatedAt           time.Time       `json:"created_at"`
	Language            string          `json:"language"`
	Attachments         []AttachmentDTO `json:"attachments"`
	Notification        NotificationDTO `json:"notification"`
	Message             string          `json:"message"`
	NotificationMessage string          `json:"notification_message"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}

	d := t.Details()
	names := t.AttachmentFilenames()
	urls := make([]string, len(names))
	for i, name := range names {
		urls[i] = UploadsURLPrefix + name
	}

	return &TicketDTO{
		ID:                  t.ID(),
		CreatedAt:           t.CreatedAt(),
		Language:            t.Language().String(),
		ClientName:          d.ClientName,
		Technician:          d.Technician,
		Location:            d.Location,
		ScheduledAt:         d.ScheduledAt,
		ProblemDescription:  d.ProblemDescription,
		Diagnosis:           d.Diagnosis,
		Solution:            d.Solution,
		Notes:               d.Notes,
		EquipmentID:         d.EquipmentID,
		AttachmentFilenames: names,
		AttachmentURLs:      urls,
	}
}

func ToTicketDTOList(tickets []*ticket.Ticket) []*TicketDTO {
	out := make([]*TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ToTicketDTO(t))
	}
	return out
}

func ToAttachmentDTOs(attachments []ticket.Attachment) []AttachmentDTO {
	out := make([]AttachmentDTO, len(attachments))
	for i, a := range attachments {
		out[i] = AttachmentDTO{
			OriginalName: a.OriginalName,
			StorageName:  a.StorageName,
			ContentType:  a.ContentType,
			Size:         a.Size,
			URL:          UploadsURLPrefix + a.StorageName,
		}
	}
	return out
}
