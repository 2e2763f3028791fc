package models

import "time"

// Free-text columns are unbounded; the form does not limit their length.
type TicketModel struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement"`
	Language            string    `gorm:"size:8;not null;default:es"`
	ClientName          string    `gorm:"type:text;not null"`
	Technician          string    `gorm:"type:text;not null"`
	Location            string    `gorm:"type:text;not null"`
	ScheduledAt         string    `gorm:"type:text;not null"`
	ProblemDescription  string    `gorm:"type:text;not null"`
	Diagnosis           string    `gorm:"type:text;not null"`
	Solution            string    `gorm:"type:text;not null"`
	Notes               string    `gorm:"type:text;not null"`
	EquipmentID         string    `gorm:"type:text;not null;index:idx_tickets_equipment_id,length:191"`
	AttachmentFilenames string    `gorm:"type:text;not null"`
	CreatedAt           time.Time `gorm:"autoCreateTime;not null;index"`
}

func (TicketModel) TableName() string {
	return "tickets"
}
