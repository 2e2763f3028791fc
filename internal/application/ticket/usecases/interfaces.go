package usecases

import (
	"context"
	"time"

	"github.com/techdesk-io/techdesk/internal/application/ticket/dto"
	"github.com/techdesk-io/techdesk/internal/domain/ticket"
)

type SubmitTicketExecutor interface {
	Execute(ctx context.Context, cmd SubmitTicketCommand) (*SubmitTicketResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) (*MaintenanceResult, error)
}

type DeleteAllTicketsExecutor interface {
	Execute(ctx context.Context) (*MaintenanceResult, error)
}

type UpdateEquipmentIDExecutor interface {
	Execute(ctx context.Context, cmd UpdateEquipmentIDCommand) (*MaintenanceResult, error)
}

type AuditAttachmentsExecutor interface {
	Report(ctx context.Context) (*AttachmentAuditReport, error)
}

type AttachmentStager interface {
	Stage(ctx context.Context, uploads []ticket.Upload) ([]ticket.Attachment, error)
}

type TicketNotifier interface {
	Notify(ctx context.Context, req ticket.NotificationRequest) ticket.NotificationOutcome
}

// StoredAttachmentLister lists the files currently in the upload directory.
type StoredAttachmentLister interface {
	ListStored() ([]string, error)
}

type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type IntakeMetrics interface {
	ObserveSubmission(result string, elapsed time.Duration)
	AddStagedAttachments(n int)
	ObserveNotification(delivered bool)
}

type OrphanGauge interface {
	SetOrphanedAttachments(n int)
}
