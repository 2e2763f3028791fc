package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
)

type mockTicketRepository struct {
	SaveFunc                    func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc                 func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	ListFunc                    func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error)
	ListAttachmentFilenamesFunc func(ctx context.Context) ([]string, error)
	DeleteFunc                  func(ctx context.Context, ticketID uint) (int64, error)
	DeleteAllFunc               func(ctx context.Context) (int64, error)
	UpdateEquipmentIDFunc       func(ctx context.Context, ticketID uint, equipmentID string) (int64, error)

	saveCalls int
}

func (m *mockTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	m.saveCalls++
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, t)
	}
	return t.MarkPersisted(1, time.Now())
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, ticket.ErrTicketNotFound
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) ListAttachmentFilenames(ctx context.Context) ([]string, error) {
	if m.ListAttachmentFilenamesFunc != nil {
		return m.ListAttachmentFilenamesFunc(ctx)
	}
	return nil, nil
}

func (m *mockTicketRepository) Delete(ctx context.Context, ticketID uint) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ticketID)
	}
	return 0, nil
}

func (m *mockTicketRepository) DeleteAll(ctx context.Context) (int64, error) {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return 0, nil
}

func (m *mockTicketRepository) UpdateEquipmentID(ctx context.Context, ticketID uint, equipmentID string) (int64, error) {
	if m.UpdateEquipmentIDFunc != nil {
		return m.UpdateEquipmentIDFunc(ctx, ticketID, equipmentID)
	}
	return 0, nil
}

type mockStager struct {
	StageFunc func(ctx context.Context, uploads []ticket.Upload) ([]ticket.Attachment, error)

	calls int
}

func (m *mockStager) Stage(ctx context.Context, uploads []ticket.Upload) ([]ticket.Attachment, error) {
	m.calls++
	if m.StageFunc != nil {
		return m.StageFunc(ctx, uploads)
	}
	atts := make([]ticket.Attachment, len(uploads))
	for i, u := range uploads {
		atts[i] = ticket.Attachment{
			OriginalName: u.OriginalName,
			StorageName:  "1700000000000-" + string(rune('a'+i)) + ".png",
			ContentType:  "image/png",
			Size:         u.Size,
		}
	}
	return atts, nil
}

type mockNotifier struct {
	NotifyFunc func(ctx context.Context, req ticket.NotificationRequest) ticket.NotificationOutcome

	requests []ticket.NotificationRequest
}

func (m *mockNotifier) Notify(ctx context.Context, req ticket.NotificationRequest) ticket.NotificationOutcome {
	m.requests = append(m.requests, req)
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, req)
	}
	return ticket.NotificationDelivered()
}

type mockMetrics struct {
	mu            sync.Mutex
	results       []string
	staged        int
	notifications []bool
	orphans       int
}

func (m *mockMetrics) ObserveSubmission(result string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

func (m *mockMetrics) AddStagedAttachments(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged += n
}

func (m *mockMetrics) ObserveNotification(delivered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, delivered)
}

func (m *mockMetrics) SetOrphanedAttachments(n int) {
	m.orphans = n
}

type mockLister struct {
	names  []string
	err    error
	listed bool
}

func (m *mockLister) ListStored() ([]string, error) {
	m.listed = true
	return m.names, m.err
}

// inlineTx runs fn directly, standing in for a database transaction.
type inlineTx struct {
	calls int
}

func (m *inlineTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
