package mappers

import (
	"fmt"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/infrastructure/persistence/models"
	"github.com/techdesk-io/techdesk/internal/shared/i18n"
)

// TicketMapper converts between the ticket entity and its row.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	ToDomainList(list []models.TicketModel) ([]*ticket.Ticket, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

// ToModel leaves ID and CreatedAt zero for unsaved tickets so the database
// assigns both.
func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	d := t.Details()
	model := &models.TicketModel{
		ID:                  t.ID(),
		Language:            t.Language().String(),
		ClientName:          d.ClientName,
		Technician:          d.Technician,
		Location:            d.Location,
		ScheduledAt:         d.ScheduledAt,
		ProblemDescription:  d.ProblemDescription,
		Diagnosis:           d.Diagnosis,
		Solution:            d.Solution,
		Notes:               d.Notes,
		EquipmentID:         d.EquipmentID,
		AttachmentFilenames: ticket.JoinFilenames(t.AttachmentFilenames()),
	}
	if t.IsPersisted() {
		model.CreatedAt = t.CreatedAt()
	}
	return model
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}

	details := ticket.Details{
		ClientName:         model.ClientName,
		Technician:         model.Technician,
		Location:           model.Location,
		ScheduledAt:        model.ScheduledAt,
		ProblemDescription: model.ProblemDescription,
		Diagnosis:          model.Diagnosis,
		Solution:           model.Solution,
		Notes:              model.Notes,
		EquipmentID:        model.EquipmentID,
	}

	t, err := ticket.ReconstructTicket(
		model.ID,
		i18n.Lang(model.Language),
		details,
		ticket.SplitFilenames(model.AttachmentFilenames),
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct ticket (id=%d): %w", model.ID, err)
	}
	return t, nil
}

func (m *TicketMapperImpl) ToDomainList(list []models.TicketModel) ([]*ticket.Ticket, error) {
	tickets := make([]*ticket.Ticket, 0, len(list))
	for i := range list {
		t, err := m.ToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}
