package usecases

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

// auditGracePeriod leaves recently staged files out of the orphan list while
// their ticket insert may still be in flight.
const auditGracePeriod = 2 * time.Minute

type AttachmentAuditReport struct {
	// Orphaned files exist in the upload directory but no ticket names them.
	Orphaned []string
	// Missing names are referenced by a ticket but absent from the directory.
	Missing []string
	Stored  int
}

// AuditAttachmentsUseCase compares the upload directory with the names stored
// on tickets. It only reports; nothing is deleted. gauge may be nil.
type AuditAttachmentsUseCase struct {
	ticketRepo ticket.TicketRepository
	files      StoredAttachmentLister
	gauge      OrphanGauge
	logger     logger.Interface
	now        func() time.Time
}

func NewAuditAttachmentsUseCase(
	ticketRepo ticket.TicketRepository,
	files StoredAttachmentLister,
	gauge OrphanGauge,
	logger logger.Interface,
) *AuditAttachmentsUseCase {
	return &AuditAttachmentsUseCase{
		ticketRepo: ticketRepo,
		files:      files,
		gauge:      gauge,
		logger:     logger,
		now:        time.Now,
	}
}

func (uc *AuditAttachmentsUseCase) Report(ctx context.Context) (*AttachmentAuditReport, error) {
	// The directory is listed first: a file staged afterwards cannot show up,
	// and one staged before it is referenced once its insert commits.
	stored, err := uc.files.ListStored()
	if err != nil {
		return nil, fmt.Errorf("failed to list stored attachments: %w", err)
	}

	referenced, err := uc.ticketRepo.ListAttachmentFilenames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load referenced attachments: %w", err)
	}

	referencedSet := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		referencedSet[name] = struct{}{}
	}
	storedSet := make(map[string]struct{}, len(stored))
	for _, name := range stored {
		storedSet[name] = struct{}{}
	}

	report := &AttachmentAuditReport{
		Orphaned: []string{},
		Missing:  []string{},
		Stored:   len(stored),
	}
	cutoff := uc.now().Add(-auditGracePeriod)
	for _, name := range stored {
		if _, ok := referencedSet[name]; ok {
			continue
		}
		if stagedAt, ok := stagedTime(name); ok && stagedAt.After(cutoff) {
			continue
		}
		report.Orphaned = append(report.Orphaned, name)
	}
	for name := range referencedSet {
		if _, ok := storedSet[name]; !ok {
			report.Missing = append(report.Missing, name)
		}
	}
	sort.Strings(report.Orphaned)
	sort.Strings(report.Missing)

	if uc.gauge != nil {
		uc.gauge.SetOrphanedAttachments(len(report.Orphaned))
	}
	return report, nil
}

// Execute runs the audit as a scheduled job and returns the orphan count.
func (uc *AuditAttachmentsUseCase) Execute(ctx context.Context) (int, error) {
	report, err := uc.Report(ctx)
	if err != nil {
		return 0, err
	}

	if len(report.Orphaned) > 0 || len(report.Missing) > 0 {
		uc.logger.Warnw("attachment audit found inconsistencies",
			"orphaned", report.Orphaned,
			"missing", report.Missing,
			"stored", report.Stored,
		)
	} else {
		uc.logger.Infow("attachment audit clean", "stored", report.Stored)
	}

	return len(report.Orphaned), nil
}

// stagedTime reads the unix-millisecond prefix of a generated storage name.
func stagedTime(name string) (time.Time, bool) {
	prefix, _, found := strings.Cut(name, "-")
	if !found {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
