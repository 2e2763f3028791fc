package http

import (
	"github.com/techdesk-io/techdesk/internal/interfaces/http/handlers"
	ticketHandlers "github.com/techdesk-io/techdesk/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler     *handlers.HealthHandler
	ticketHandler     *ticketHandlers.TicketHandler
	attachmentHandler *ticketHandlers.AttachmentHandler
}

func (c *Container) initHandlers() {
	log := c.log.Named("http.ticket")
	maxUploadBytes := int64(c.cfg.Upload.MaxFiles) * c.cfg.Upload.MaxFileSize

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(sqlPinger{db: c.db}),
		ticketHandler: ticketHandlers.NewTicketHandler(
			c.ucs.submitTicketUC,
			c.ucs.getTicketUC,
			c.ucs.listTicketsUC,
			maxUploadBytes,
			log,
		),
		attachmentHandler: ticketHandlers.NewAttachmentHandler(c.stager, log),
	}
}
