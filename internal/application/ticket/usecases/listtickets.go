package usecases

import (
	"context"

	"github.com/techdesk-io/techdesk/internal/application/ticket/dto"
	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/shared/db"
	"github.com/techdesk-io/techdesk/internal/shared/errors"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

type ListTicketsQuery struct {
	Page     int
	PageSize int
}

type ListTicketsResult struct {
	Tickets  []*dto.TicketDTO
	Total    int64
	Page     int
	PageSize int
}

type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// Execute returns one page of tickets, newest first.
func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	page, pageSize := db.NormalizePage(query.Page, query.PageSize)

	tickets, total, err := uc.ticketRepo.List(ctx, ticket.TicketFilter{Page: page, PageSize: pageSize})
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, errors.NewPersistenceError("failed to list tickets", err)
	}

	return &ListTicketsResult{
		Tickets:  dto.ToTicketDTOList(tickets),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
