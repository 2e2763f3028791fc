package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/techdesk-io/techdesk/internal/interfaces/http/handlers/ticket"
)

type TicketRouteConfig struct {
	TicketHandler     *tickethandlers.TicketHandler
	AttachmentHandler *tickethandlers.AttachmentHandler
	// SubmissionLimit guards ticket creation; nil disables it.
	SubmissionLimit gin.HandlerFunc
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	submit := []gin.HandlerFunc{config.TicketHandler.SubmitTicket}
	if config.SubmissionLimit != nil {
		submit = append([]gin.HandlerFunc{config.SubmissionLimit}, submit...)
	}
	engine.POST("/tickets", submit...)

	engine.GET("/uploads/:name", config.AttachmentHandler.ServeAttachment)

	api := engine.Group("/api/tickets")
	{
		api.GET("", config.TicketHandler.ListTickets)
		api.GET("/:id", config.TicketHandler.GetTicket)
	}
}
