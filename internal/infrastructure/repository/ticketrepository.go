package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/infrastructure/persistence/mappers"
	"github.com/techdesk-io/techdesk/internal/infrastructure/persistence/models"
	db "github.com/techdesk-io/techdesk/internal/shared/db"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save ticket: %w", err)
	}

	return t.MarkPersisted(model.ID, model.CreatedAt)
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.TicketModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	var ticketModels []models.TicketModel
	if err := query.
		Scopes(db.NewestFirst(), db.Paginate(filter.Page, filter.PageSize)).
		Find(&ticketModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets, err := r.mapper.ToDomainList(ticketModels)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *TicketRepository) ListAttachmentFilenames(ctx context.Context) ([]string, error) {
	var lists []string
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Model(&models.TicketModel{}).
		Where("attachment_filenames <> ''").
		Pluck("attachment_filenames", &lists).Error; err != nil {
		return nil, fmt.Errorf("failed to list attachment filenames: %w", err)
	}

	var names []string
	for _, joined := range lists {
		names = append(names, ticket.SplitFilenames(joined)...)
	}
	return names, nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.TicketModel{}, ticketID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete ticket: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteAll removes every ticket. Identifiers are not reset, so later tickets
// never reuse a deleted id.
func (r *TicketRepository) DeleteAll(ctx context.Context) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.TicketModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete tickets: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *TicketRepository) UpdateEquipmentID(ctx context.Context, ticketID uint, equipmentID string) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.TicketModel{}).
		Where("id = ?", ticketID).
		Update("equipment_id", equipmentID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update equipment id: %w", result.Error)
	}
	return result.RowsAffected, nil
}

var _ ticket.TicketRepository = (*TicketRepository)(nil)
