// Package dnd turns a drag gesture over the board into a store mutation.
package dnd

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"kanny/internal/api"
	"kanny/internal/board"
)

// DeleteZoneID is the drop target that asks to delete the dragged card.
const DeleteZoneID = "delete-column"

// DeletePrompt is shown before a card dropped on the delete zone is removed.
const DeletePrompt = "Are you sure you want to delete this task?"

var (
	ErrDragActive      = errors.New("a drag is already in progress")
	ErrNotDragging     = errors.New("no drag in progress")
	ErrUnknownCard     = errors.New("card is not on the current board")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	ErrDeletePending   = errors.New("a delete is awaiting confirmation")
)

type Kind int

const (
	// None drops change nothing.
	None Kind = iota
	// Delete asks for confirmation before deleting the card.
	Delete
	// Append moves the card to the end of a column.
	Append
	// Insert moves the card to the index of the card it was dropped on.
	Insert
)

func (k Kind) String() string {
	switch k {
	case Delete:
		return "delete"
	case Append:
		return "append"
	case Insert:
		return "insert"
	default:
		return "none"
	}
}

// Intent is what a drop means for the board.
type Intent struct {
	Kind     Kind
	CardID   string
	ColumnID string
	Index    int
}

// Resolve classifies dropping cardID on overID. The delete zone wins over a
// column, a column over a card; anything else, including the card itself, is
// None.
func Resolve(b *api.Board, cardID, overID string) Intent {
	none := Intent{Kind: None, CardID: cardID}
	if ci, _ := board.Locate(b, cardID); ci < 0 {
		return none
	}

	if overID == DeleteZoneID {
		return Intent{Kind: Delete, CardID: cardID}
	}
	if ci := board.ColumnIndex(b, overID); ci >= 0 {
		return Intent{Kind: Append, CardID: cardID, ColumnID: overID, Index: len(b.Columns[ci].Cards)}
	}
	if overID != cardID {
		if ci, i := board.Locate(b, overID); ci >= 0 {
			return Intent{Kind: Insert, CardID: cardID, ColumnID: b.Columns[ci].ID, Index: i}
		}
	}
	return none
}

// Store is the part of the board store a drag needs.
type Store interface {
	Current() *api.Board
	MoveCard(ctx context.Context, cardID, columnID string, index int) error
	DeleteCard(ctx context.Context, cardID string) error
}

var _ Store = (*board.Store)(nil)

type State int

const (
	Idle State = iota
	Dragging
)

// Controller runs one drag gesture at a time.
type Controller struct {
	store  Store
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	active  api.Card
	pending *api.Card
}

func NewController(store Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{store: store, logger: logger}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active returns the card being dragged, as it was when the drag started.
func (c *Controller) Active() (api.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.state == Dragging
}

// PendingDelete returns the card awaiting delete confirmation.
func (c *Controller) PendingDelete() (api.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return api.Card{}, false
	}
	return *c.pending, true
}

// Start picks up cardID.
func (c *Controller) Start(cardID string) error {
	b := c.store.Current()

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.state == Dragging:
		return ErrDragActive
	case c.pending != nil:
		return ErrDeletePending
	}

	ci, i := board.Locate(b, cardID)
	if ci < 0 {
		return ErrUnknownCard
	}
	c.state = Dragging
	c.active = b.Columns[ci].Cards[i]
	return nil
}

// Cancel abandons the current gesture, if any.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Idle
	c.active = api.Card{}
}

// Drop ends the gesture over overID. A move is handed to the store and its
// error returned; a delete-zone drop only records the pending delete.
func (c *Controller) Drop(ctx context.Context, overID string) (Intent, error) {
	c.mu.Lock()
	if c.state != Dragging {
		c.mu.Unlock()
		return Intent{}, ErrNotDragging
	}
	card := c.active
	c.state = Idle
	c.active = api.Card{}

	intent := Resolve(c.store.Current(), card.ID, overID)
	if intent.Kind == Delete {
		c.pending = &card
	}
	c.mu.Unlock()

	c.logger.Debug("drop", "card", card.ID, "over", overID, "intent", intent.Kind.String())

	switch intent.Kind {
	case Append, Insert:
		return intent, c.store.MoveCard(ctx, intent.CardID, intent.ColumnID, intent.Index)
	}
	return intent, nil
}

// ConfirmDelete deletes the card dropped on the delete zone.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	if pending == nil {
		return ErrNoPendingDelete
	}
	return c.store.DeleteCard(ctx, pending.ID)
}

// CancelDelete keeps the card dropped on the delete zone.
func (c *Controller) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return ErrNoPendingDelete
	}
	c.pending = nil
	return nil
}
