package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	apperrors "github.com/techdesk-io/techdesk/internal/shared/errors"
	"github.com/techdesk-io/techdesk/internal/shared/i18n"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

func reconstructed(t *testing.T, id uint, attachments ...string) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.ReconstructTicket(id, i18n.EN, ticket.Details{
		ProblemDescription: "Printer jam",
		EquipmentID:        "EQ-12",
	}, attachments, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return tk
}

func TestGetTicketUseCase(t *testing.T) {
	tests := []struct {
		name     string
		id       uint
		repoErr  error
		wantType apperrors.ErrorType
	}{
		{name: "found", id: 5},
		{name: "zero id", id: 0, wantType: apperrors.ErrorTypeValidation},
		{name: "not found", id: 9, repoErr: ticket.ErrTicketNotFound, wantType: apperrors.ErrorTypeNotFound},
		{name: "storage failure", id: 9, repoErr: errors.New("disk I/O error"), wantType: apperrors.ErrorTypePersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTicketRepository{
				GetByIDFunc: func(_ context.Context, id uint) (*ticket.Ticket, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return reconstructed(t, id, "1-a.png"), nil
				},
			}
			uc := NewGetTicketUseCase(repo, logger.NewNop())

			got, err := uc.Execute(context.Background(), GetTicketQuery{TicketID: tt.id})
			if tt.wantType != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantType, apperrors.GetAppError(err).Type)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, got.ID)
			assert.Equal(t, "EQ-12", got.EquipmentID)
			assert.Equal(t, []string{"1-a.png"}, got.AttachmentFilenames)
			assert.Equal(t, []string{"/uploads/1-a.png"}, got.AttachmentURLs)
		})
	}
}

func TestListTicketsUseCase(t *testing.T) {
	var gotFilter ticket.TicketFilter
	repo := &mockTicketRepository{
		ListFunc: func(_ context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
			gotFilter = filter
			return []*ticket.Ticket{reconstructed(t, 2), reconstructed(t, 1)}, 2, nil
		},
	}
	uc := NewListTicketsUseCase(repo, logger.NewNop())

	result, err := uc.Execute(context.Background(), ListTicketsQuery{Page: 0, PageSize: 500})
	require.NoError(t, err)

	assert.Equal(t, ticket.TicketFilter{Page: 1, PageSize: 100}, gotFilter)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, result.PageSize)
	require.Len(t, result.Tickets, 2)
	assert.Equal(t, uint(2), result.Tickets[0].ID)
}

func TestListTicketsUseCase_Error(t *testing.T) {
	repo := &mockTicketRepository{
		ListFunc: func(context.Context, ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
			return nil, 0, errors.New("boom")
		},
	}
	_, err := NewListTicketsUseCase(repo, logger.NewNop()).Execute(context.Background(), ListTicketsQuery{})
	assert.True(t, apperrors.IsPersistenceError(err))
}
