package http

import (
	"gorm.io/gorm"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/infrastructure/repository"
	"github.com/techdesk-io/techdesk/internal/shared/db"
)

// repositories holds the repository instances used by the application.
type repositories struct {
	ticketRepo ticket.TicketRepository
	txManager  *db.TransactionManager
}

func newRepositories(gdb *gorm.DB) *repositories {
	return &repositories{
		ticketRepo: repository.NewTicketRepository(gdb),
		txManager:  db.NewTransactionManager(gdb),
	}
}
