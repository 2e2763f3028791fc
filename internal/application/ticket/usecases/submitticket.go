package usecases

import (
	"context"
	"time"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/shared/errors"
	"github.com/techdesk-io/techdesk/internal/shared/i18n"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

// IntakeStage names the point a submission has reached. Stages only move
// forward: Received, Staged, Persisted, then Notified or NotifyFailed, then
// Responded.
type IntakeStage string

const (
	StageReceived     IntakeStage = "received"
	StageStaged       IntakeStage = "staged"
	StagePersisted    IntakeStage = "persisted"
	StageNotified     IntakeStage = "notified"
	StageNotifyFailed IntakeStage = "notify_failed"
	StageResponded    IntakeStage = "responded"
)

// Submission results recorded in metrics.
const (
	ResultCreated          = "created"
	ResultValidationError  = "validation_error"
	ResultStagingError     = "staging_error"
	ResultPersistenceError = "persistence_error"
)

type SubmitTicketCommand struct {
	Language  i18n.Lang
	Details   ticket.Details
	RawFields map[string]string
	Uploads   []ticket.Upload
}

type SubmitTicketResult struct {
	TicketID            uint
	CreatedAt           time.Time
	Language            i18n.Lang
	Attachments         []ticket.Attachment
	Notification        ticket.NotificationOutcome
	Message             string
	NotificationMessage string
	Stage               IntakeStage
}

// SubmitTicketUseCase validates, stages, stores and announces one ticket.
type SubmitTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	stager     AttachmentStager
	notifier   TicketNotifier
	metrics    IntakeMetrics
	logger     logger.Interface
}

func NewSubmitTicketUseCase(
	ticketRepo ticket.TicketRepository,
	stager AttachmentStager,
	notifier TicketNotifier,
	metrics IntakeMetrics,
	logger logger.Interface,
) *SubmitTicketUseCase {
	return &SubmitTicketUseCase{
		ticketRepo: ticketRepo,
		stager:     stager,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute runs the pipeline on a context detached from the caller, so a
// client that disconnects mid-request does not abort a half-done submission.
// Notification failure never fails the submission.
func (uc *SubmitTicketUseCase) Execute(ctx context.Context, cmd SubmitTicketCommand) (*SubmitTicketResult, error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	stage := StageReceived

	uc.logger.Infow("executing submit ticket use case",
		"stage", stage,
		"language", cmd.Language,
		"uploads", len(cmd.Uploads),
	)

	draft, err := ticket.NewTicket(cmd.Language, cmd.Details)
	if err != nil {
		uc.logger.Warnw("invalid ticket submission", "stage", stage, "error", err)
		uc.observe(ResultValidationError, start)
		return nil, errors.NewValidationError(err.Error())
	}

	attachments, err := uc.stager.Stage(ctx, cmd.Uploads)
	if err != nil {
		return nil, uc.stagingFailure(err, start)
	}
	stage = StageStaged
	uc.metrics.AddStagedAttachments(len(attachments))

	if err := draft.AttachFiles(ticket.StorageNames(attachments)); err != nil {
		uc.logOrphans("failed to attach staged files", attachments, err)
		uc.observe(ResultStagingError, start)
		return nil, errors.NewStagingError("failed to attach staged files", err)
	}

	if err := uc.ticketRepo.Save(ctx, draft); err != nil {
		uc.logOrphans("failed to save ticket", attachments, err)
		uc.observe(ResultPersistenceError, start)
		return nil, errors.NewPersistenceError("failed to save ticket", err)
	}
	stage = StagePersisted

	uc.logger.Infow("ticket saved",
		"stage", stage,
		"ticket_id", draft.ID(),
		"attachments", len(attachments),
	)

	outcome := uc.notifier.Notify(ctx, ticket.NotificationRequest{
		Ticket:      draft,
		RawFields:   cmd.RawFields,
		Attachments: attachments,
	})
	uc.metrics.ObserveNotification(outcome.Delivered)

	lang := draft.Language()
	notificationMessage := i18n.MsgEmailSent(lang)
	if outcome.Delivered {
		stage = StageNotified
	} else {
		stage = StageNotifyFailed
		notificationMessage = i18n.MsgEmailFailed(lang, outcome.Reason)
		uc.logger.Warnw("ticket stored without notification",
			"stage", stage,
			"ticket_id", draft.ID(),
			"reason", outcome.Reason,
		)
	}

	uc.observe(ResultCreated, start)
	stage = StageResponded

	return &SubmitTicketResult{
		TicketID:            draft.ID(),
		CreatedAt:           draft.CreatedAt(),
		Language:            lang,
		Attachments:         attachments,
		Notification:        outcome,
		Message:             i18n.MsgTicketSaved(lang),
		NotificationMessage: notificationMessage,
		Stage:               stage,
	}, nil
}

func (uc *SubmitTicketUseCase) stagingFailure(err error, start time.Time) error {
	if appErr := errors.GetAppError(err); appErr != nil {
		if appErr.Type == errors.ErrorTypeValidation {
			uc.logger.Warnw("attachments rejected", "stage", StageReceived, "error", err)
			uc.observe(ResultValidationError, start)
			return appErr
		}
		uc.logger.Errorw("failed to stage attachments", "stage", StageReceived, "error", err)
		uc.observe(ResultStagingError, start)
		return appErr
	}

	uc.logger.Errorw("failed to stage attachments", "stage", StageReceived, "error", err)
	uc.observe(ResultStagingError, start)
	return errors.NewStagingError("failed to stage attachments", err)
}

// logOrphans records staged files left without a ticket. They are kept on
// disk and surface in the attachment audit.
func (uc *SubmitTicketUseCase) logOrphans(msg string, attachments []ticket.Attachment, err error) {
	uc.logger.Errorw(msg,
		"stage", StageStaged,
		"error", err,
		"orphaned_attachments", ticket.StorageNames(attachments),
	)
}

func (uc *SubmitTicketUseCase) observe(result string, start time.Time) {
	uc.metrics.ObserveSubmission(result, time.Since(start))
}
