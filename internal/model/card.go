package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card is a single item on a board. Position is its zero-based index
// within the column and is kept contiguous by the repository.
type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ColumnID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description *string
	Position    int `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
