package repository

import (
	"context"

	"github.com/google/uuid"

	"kanny/internal/model"
)

// UserStore persists accounts. Lookups return nil, nil when the user does
// not exist.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByFederatedID(ctx context.Context, subject string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// BoardStore persists boards. GetByID and GetTree return nil, nil when the
// board does not exist.
type BoardStore interface {
	// Create inserts the board together with any columns it carries.
	Create(ctx context.Context, board *model.Board) error
	GetOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error)
	CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	// GetTree loads the board with its columns and cards, both ordered by
	// position.
	GetTree(ctx context.Context, id uuid.UUID) (*model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	// Delete removes the board and everything under it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ColumnStore persists columns. GetByID returns nil, nil when the column
// does not exist.
type ColumnStore interface {
	Create(ctx context.Context, column *model.Column) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error)
	Update(ctx context.Context, column *model.Column) error
	// Delete removes the column and its cards and closes the gap in the
	// positions of the remaining columns.
	Delete(ctx context.Context, id uuid.UUID) error
	// NextPosition returns the position a column appended to the board
	// would take.
	NextPosition(ctx context.Context, boardID uuid.UUID) (int, error)
}

// CardStore persists cards. Unlike the other stores it reports missing
// cards with ErrCardNotFound.
type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	CountInColumn(ctx context.Context, columnID uuid.UUID) (int64, error)
	Update(ctx context.Context, card *model.Card) error
	// Delete removes the card and closes the gap it leaves in its column.
	Delete(ctx context.Context, id uuid.UUID) error
	// Move places the card at position within columnID. The position is
	// clamped to the valid range and every affected card is renumbered so
	// positions stay contiguous in both columns.
	Move(ctx context.Context, cardID, columnID uuid.UUID, position int) error
}

var (
	_ UserStore   = (*UserRepository)(nil)
	_ BoardStore  = (*BoardRepository)(nil)
	_ ColumnStore = (*ColumnRepository)(nil)
	_ CardStore   = (*CardRepository)(nil)
)
