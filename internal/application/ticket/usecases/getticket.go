package usecases

import (
	"context"
	stderrors "errors"

	"github.com/techdesk-io/techdesk/internal/application/ticket/dto"
	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/shared/errors"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketID uint
}

type GetTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewGetTicketUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	if query.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		if stderrors.Is(err, ticket.ErrTicketNotFound) {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		uc.logger.Errorw("failed to get ticket", "ticket_id", query.TicketID, "error", err)
		return nil, errors.NewPersistenceError("failed to get ticket", err)
	}

	return dto.ToTicketDTO(t), nil
}
