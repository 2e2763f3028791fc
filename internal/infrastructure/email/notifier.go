package email

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/shared/i18n"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
	"github.com/techdesk-io/techdesk/internal/shared/services/markdown"
	"github.com/techdesk-io/techdesk/internal/shared/utils/textutil"
)

const subjectProblemMaxRunes = 80

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// AttachmentReader opens staged attachments by storage name.
type AttachmentReader interface {
	Open(storageName string) (io.ReadCloser, error)
}

// AttachmentReaderFunc adapts a function to AttachmentReader.
type AttachmentReaderFunc func(storageName string) (io.ReadCloser, error)

func (f AttachmentReaderFunc) Open(storageName string) (io.ReadCloser, error) {
	return f(storageName)
}

// TicketNotifier mails a stored ticket to the notification mailbox. Delivery
// problems are reported in the outcome, never as an error.
type TicketNotifier struct {
	mailer    Mailer
	files     AttachmentReader
	markdown  markdown.MarkdownService
	recipient string
	logger    logger.Interface
}

func NewTicketNotifier(
	mailer Mailer,
	files AttachmentReader,
	md markdown.MarkdownService,
	recipient string,
	log logger.Interface,
) *TicketNotifier {
	return &TicketNotifier{
		mailer:    mailer,
		files:     files,
		markdown:  md,
		recipient: recipient,
		logger:    log.With("component", "email.notifier"),
	}
}

func (n *TicketNotifier) Notify(ctx context.Context, req ticket.NotificationRequest) ticket.NotificationOutcome {
	t := req.Ticket

	msg, err := n.compose(req)
	if err != nil {
		n.logger.Errorw("failed to compose ticket notification", "ticket_id", t.ID(), "error", err)
		return ticket.NotificationFailed(err.Error())
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Warnw("ticket notification not delivered",
			"ticket_id", t.ID(),
			"recipient", n.recipient,
			"error", err,
		)
		return ticket.NotificationFailed(err.Error())
	}

	n.logger.Infow("ticket notification delivered",
		"ticket_id", t.ID(),
		"recipient", n.recipient,
		"attachments", len(req.Attachments),
	)
	return ticket.NotificationDelivered()
}

func (n *TicketNotifier) compose(req ticket.NotificationRequest) (Message, error) {
	t := req.Ticket

	plain, err := RawFieldsJSON(req.RawFields)
	if err != nil {
		return Message{}, err
	}

	html, err := n.markdown.ToHTMLSanitized(SummaryMarkdown(t, req.Attachments))
	if err != nil {
		// The JSON body still carries everything.
		n.logger.Warnw("failed to render notification summary", "ticket_id", t.ID(), "error", err)
		html = ""
	}

	attachments := make([]Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		storageName := a.StorageName
		attachments = append(attachments, Attachment{
			Filename:    a.OriginalName,
			ContentType: a.ContentType,
			Open: func() (io.ReadCloser, error) {
				return n.files.Open(storageName)
			},
		})
	}

	return Message{
		To:          n.recipient,
		Subject:     Subject(t),
		PlainBody:   plain,
		HTMLBody:    html,
		Attachments: attachments,
	}, nil
}

// Subject builds the localized subject line with the problem cut to 80 runes.
func Subject(t *ticket.Ticket) string {
	problem := textutil.Truncate(t.ProblemDescription(), subjectProblemMaxRunes)
	return i18n.NotificationSubject(t.Language(), problem, t.EquipmentID())
}

// RawFieldsJSON renders the submitted fields as indented JSON with sorted keys.
func RawFieldsJSON(fields map[string]string) (string, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode submitted fields: %w", err)
	}
	return string(out), nil
}

// SummaryMarkdown renders the stored ticket as a two-column table.
func SummaryMarkdown(t *ticket.Ticket, attachments []ticket.Attachment) string {
	labels := i18n.FieldLabels(t.Language())
	d := t.Details()

	var b strings.Builder
	fmt.Fprintf(&b, "| %s | #%d |\n|---|---|\n", labels.Ticket, t.ID())

	rows := []struct {
		label string
		value string
	}{
		{labels.Created, t.CreatedAt().Format("2006-01-02 15:04:05")},
		{labels.Client, d.ClientName},
		{labels.Technician, d.Technician},
		{labels.Location, d.Location},
		{labels.ScheduledAt, d.ScheduledAt},
		{labels.Equipment, d.EquipmentID},
		{labels.Problem, d.ProblemDescription},
		{labels.Diagnosis, d.Diagnosis},
		{labels.Solution, d.Solution},
		{labels.Notes, d.Notes},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "| **%s** | %s |\n", row.label, markdown.EscapeCell(row.value))
	}

	if len(attachments) > 0 {
		names := make([]string, len(attachments))
		for i, a := range attachments {
			names[i] = markdown.EscapeCell(a.OriginalName)
		}
		fmt.Fprintf(&b, "| **%s** | %s |\n", labels.Attachments, strings.Join(names, ", "))
	}

	return b.String()
}
