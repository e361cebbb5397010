package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanny/internal/model"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create adds a new card to the database
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// GetByID retrieves a card by its ID
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// CountInColumn returns the number of cards in a column
func (r *CardRepository) CountInColumn(ctx context.Context, columnID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).Where("column_id = ?", columnID).Count(&count).Error
	return count, err
}

// Update saves the title and description of an existing card
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	result := r.db.WithContext(ctx).Model(card).
		Select("title", "description").
		Updates(map[string]any{"title": card.Title, "description": card.Description})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// Delete removes a card by its ID
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		if err := tx.Delete(&model.Card{}, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Model(&model.Card{}).
			Where("column_id = ? AND position > ?", card.ColumnID, card.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// Move updates the position and/or column of a card
func (r *CardRepository) Move(ctx context.Context, cardID uuid.UUID, columnID uuid.UUID, newPosition int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.Card{}).Where("column_id = ?", columnID).Count(&count).Error; err != nil {
			return err
		}

		oldColumnID := card.ColumnID
		oldPosition := card.Position

		// The card itself does not count as a slot when it stays in its column
		limit := int(count)
		if oldColumnID == columnID {
			limit--
		}
		newPosition = clamp(newPosition, 0, limit)

		if oldColumnID != columnID {
			// Close the gap in the old column
			if err := tx.Model(&model.Card{}).
				Where("column_id = ? AND position > ?", oldColumnID, oldPosition).
				Update("position", gorm.Expr("position - 1")).Error; err != nil {
				return err
			}

			// Make space in the new column
			if err := tx.Model(&model.Card{}).
				Where("column_id = ? AND position >= ?", columnID, newPosition).
				Update("position", gorm.Expr("position + 1")).Error; err != nil {
				return err
			}

			card.ColumnID = columnID
			card.Position = newPosition
		} else if oldPosition != newPosition {
			if oldPosition < newPosition {
				// Moving down: shift the cards in between up by one
				if err := tx.Model(&model.Card{}).
					Where("column_id = ? AND position > ? AND position <= ?", columnID, oldPosition, newPosition).
					Update("position", gorm.Expr("position - 1")).Error; err != nil {
					return err
				}
			} else {
				// Moving up: shift the cards in between down by one
				if err := tx.Model(&model.Card{}).
					Where("column_id = ? AND position >= ? AND position < ?", columnID, newPosition, oldPosition).
					Update("position", gorm.Expr("position + 1")).Error; err != nil {
					return err
				}
			}

			card.Position = newPosition
		} else {
			return nil
		}

		return tx.Model(&card).Updates(map[string]any{
			"column_id": card.ColumnID,
			"position":  card.Position,
		}).Error
	})
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
