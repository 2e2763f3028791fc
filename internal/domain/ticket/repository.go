package ticket

import (
	"context"
	"errors"
)

var ErrTicketNotFound = errors.New("ticket not found")

type TicketRepository interface {
	// Save inserts a new ticket in one statement and marks it persisted.
	Save(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
	// ListAttachmentFilenames returns every storage name referenced by any ticket.
	ListAttachmentFilenames(ctx context.Context) ([]string, error)

	// Maintenance operations report the affected row count; zero is not an error.
	Delete(ctx context.Context, ticketID uint) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	UpdateEquipmentID(ctx context.Context, ticketID uint, equipmentID string) (int64, error)
}

type TicketFilter struct {
	Page     int
	PageSize int
}
