package ticket

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/techdesk-io/techdesk/internal/shared/i18n"
)

// MaxAttachments is the number of photos a single ticket may carry.
const MaxAttachments = 3

var (
	ErrProblemRequired  = errors.New("problem_description is required")
	ErrTooManyFiles     = fmt.Errorf("a ticket accepts at most %d attachments", MaxAttachments)
	ErrAlreadyPersisted = errors.New("ticket is already persisted")
)

// Details are the free-text fields captured by the submission form.
type Details struct {
	ClientName         string
	Technician         string
	Location           string
	ScheduledAt        string
	ProblemDescription string
	Diagnosis          string
	Solution           string
	Notes              string
	EquipmentID        string
}

// Ticket is the durable record of one reported service issue. It is never
// modified after creation apart from the equipment id and deletion, both of
// which go straight through the repository.
type Ticket struct {
	id          uint
	language    i18n.Lang
	details     Details
	attachments []string
	createdAt   time.Time
}

// NewTicket builds an unsaved ticket. The problem description is the only
// required field.
func NewTicket(lang i18n.Lang, details Details) (*Ticket, error) {
	details.ProblemDescription = strings.TrimSpace(details.ProblemDescription)
	if details.ProblemDescription == "" {
		return nil, ErrProblemRequired
	}
	if !lang.IsValid() {
		lang = i18n.Default
	}

	return &Ticket{
		language:    lang,
		details:     details,
		attachments: []string{},
	}, nil
}

func ReconstructTicket(
	id uint,
	lang i18n.Lang,
	details Details,
	attachments []string,
	createdAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if len(attachments) > MaxAttachments {
		return nil, ErrTooManyFiles
	}
	if !lang.IsValid() {
		lang = i18n.Default
	}
	if attachments == nil {
		attachments = []string{}
	}

	return &Ticket{
		id:          id,
		language:    lang,
		details:     details,
		attachments: attachments,
		createdAt:   createdAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Language() i18n.Lang {
	return t.language
}

func (t *Ticket) Details() Details {
	return t.details
}

func (t *Ticket) ProblemDescription() string {
	return t.details.ProblemDescription
}

func (t *Ticket) EquipmentID() string {
	return t.details.EquipmentID
}

// AttachmentFilenames returns the storage names in upload order.
func (t *Ticket) AttachmentFilenames() []string {
	names := make([]string, len(t.attachments))
	copy(names, t.attachments)
	return names
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) IsPersisted() bool {
	return t.id != 0
}

// AttachFiles records the storage names of staged attachments, keeping their
// order. Only allowed before the ticket is saved.
func (t *Ticket) AttachFiles(storageNames []string) error {
	if t.IsPersisted() {
		return ErrAlreadyPersisted
	}
	if len(storageNames) > MaxAttachments {
		return ErrTooManyFiles
	}
	for _, name := range storageNames {
		if err := validateStorageName(name); err != nil {
			return err
		}
	}

	t.attachments = make([]string, len(storageNames))
	copy(t.attachments, storageNames)
	return nil
}

// MarkPersisted records the identity and timestamp assigned by the store.
func (t *Ticket) MarkPersisted(id uint, createdAt time.Time) error {
	if t.IsPersisted() {
		return ErrAlreadyPersisted
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	t.createdAt = createdAt
	return nil
}
