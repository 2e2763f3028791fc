package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/shared/errors"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

// MaintenanceResult reports what an admin operation changed. Zero affected
// rows is reported through NotFound rather than as an error.
type MaintenanceResult struct {
	RowsAffected int64
	NotFound     bool
	// LeftAttachments lists staged files that belonged to deleted tickets.
	// They stay on disk.
	LeftAttachments []string
}

func newMaintenanceResult(rows int64) *MaintenanceResult {
	return &MaintenanceResult{RowsAffected: rows, NotFound: rows == 0}
}

type DeleteTicketCommand struct {
	TicketID uint
}

type DeleteTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	txRunner   TransactionRunner
	logger     logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.TicketRepository,
	txRunner TransactionRunner,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo: ticketRepo,
		txRunner:   txRunner,
		logger:     logger,
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) (*MaintenanceResult, error) {
	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	result := &MaintenanceResult{NotFound: true}
	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			if stderrors.Is(err, ticket.ErrTicketNotFound) {
				return nil
			}
			return err
		}

		rows, err := uc.ticketRepo.Delete(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}
		result = newMaintenanceResult(rows)
		result.LeftAttachments = t.AttachmentFilenames()
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to delete ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewPersistenceError("failed to delete ticket", err)
	}

	uc.logger.Infow("delete ticket finished",
		"ticket_id", cmd.TicketID,
		"rows_affected", result.RowsAffected,
		"left_attachments", len(result.LeftAttachments),
	)
	return result, nil
}

type DeleteAllTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewDeleteAllTicketsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *DeleteAllTicketsUseCase {
	return &DeleteAllTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *DeleteAllTicketsUseCase) Execute(ctx context.Context) (*MaintenanceResult, error) {
	rows, err := uc.ticketRepo.DeleteAll(ctx)
	if err != nil {
		uc.logger.Errorw("failed to delete all tickets", "error", err)
		return nil, errors.NewPersistenceError("failed to delete tickets", err)
	}

	uc.logger.Infow("all tickets deleted", "rows_affected", rows)
	return newMaintenanceResult(rows), nil
}

type UpdateEquipmentIDCommand struct {
	TicketID    uint
	EquipmentID string
}

type UpdateEquipmentIDUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewUpdateEquipmentIDUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *UpdateEquipmentIDUseCase {
	return &UpdateEquipmentIDUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *UpdateEquipmentIDUseCase) Execute(ctx context.Context, cmd UpdateEquipmentIDCommand) (*MaintenanceResult, error) {
	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	equipmentID := strings.TrimSpace(cmd.EquipmentID)
	rows, err := uc.ticketRepo.UpdateEquipmentID(ctx, cmd.TicketID, equipmentID)
	if err != nil {
		uc.logger.Errorw("failed to update equipment id", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewPersistenceError("failed to update equipment id", err)
	}

	uc.logger.Infow("equipment id updated",
		"ticket_id", cmd.TicketID,
		"equipment_id", equipmentID,
		"rows_affected", rows,
	)
	return newMaintenanceResult(rows), nil
}
