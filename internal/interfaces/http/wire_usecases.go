package http

import (
	"github.com/techdesk-io/techdesk/internal/application/ticket/usecases"
)

// allUseCases holds the use case instances served over HTTP or run by jobs.
type allUseCases struct {
	submitTicketUC     *usecases.SubmitTicketUseCase
	getTicketUC        *usecases.GetTicketUseCase
	listTicketsUC      *usecases.ListTicketsUseCase
	auditAttachmentsUC *usecases.AuditAttachmentsUseCase
}

func (c *Container) initUseCases() {
	log := c.log.Named("ticket")

	c.ucs = &allUseCases{
		submitTicketUC: usecases.NewSubmitTicketUseCase(
			c.repos.ticketRepo,
			c.stager,
			c.notifier,
			c.metrics,
			log,
		),
		getTicketUC:   usecases.NewGetTicketUseCase(c.repos.ticketRepo, log),
		listTicketsUC: usecases.NewListTicketsUseCase(c.repos.ticketRepo, log),
		auditAttachmentsUC: usecases.NewAuditAttachmentsUseCase(
			c.repos.ticketRepo,
			c.stager,
			c.metrics,
			log,
		),
	}
}
