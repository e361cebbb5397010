package board

import (
	"errors"
	"fmt"
	"slices"

	"kanny/internal/api"
)

// Locate returns the column index and card index of cardID in b, or -1, -1.
func Locate(b *api.Board, cardID string) (int, int) {
	if b == nil {
		return -1, -1
	}
	for ci, col := range b.Columns {
		for i, card := range col.Cards {
			if card.ID == cardID {
				return ci, i
			}
		}
	}
	return -1, -1
}

// ColumnIndex returns the index of columnID in b, or -1.
func ColumnIndex(b *api.Board, columnID string) int {
	if b == nil {
		return -1
	}
	return slices.IndexFunc(b.Columns, func(c api.Column) bool { return c.ID == columnID })
}

// Move reorders b in place: the card leaves its column, the remaining cards
// close the gap, and the card is inserted into the target column at index
// clamped to [0, len]. Within one column the insert is computed against the
// sequence with the card already removed. It returns the index actually used
// and false when the card or the target column is unknown.
func Move(b *api.Board, cardID, targetColumnID string, index int) (int, bool) {
	srcCol, srcIdx := Locate(b, cardID)
	dstCol := ColumnIndex(b, targetColumnID)
	if srcCol < 0 || dstCol < 0 {
		return 0, false
	}

	card := b.Columns[srcCol].Cards[srcIdx]
	b.Columns[srcCol].Cards = slices.Delete(b.Columns[srcCol].Cards, srcIdx, srcIdx+1)
	reindex(b.Columns[srcCol].Cards)

	target := b.Columns[dstCol].Cards
	index = clamp(index, 0, len(target))
	card.ColumnID = targetColumnID
	b.Columns[dstCol].Cards = slices.Insert(target, index, card)
	reindex(b.Columns[dstCol].Cards)
	return index, true
}

func reindex(cards []api.Card) {
	for i := range cards {
		cards[i].Position = i
	}
}

func reindexColumns(columns []api.Column) {
	for i := range columns {
		columns[i].Position = i
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Clone deep-copies a board so callers never share slices with the store.
func Clone(b *api.Board) *api.Board {
	if b == nil {
		return nil
	}
	out := *b
	out.Columns = make([]api.Column, len(b.Columns))
	for i, col := range b.Columns {
		out.Columns[i] = col
		out.Columns[i].Cards = make([]api.Card, len(col.Cards))
		for j, card := range col.Cards {
			if card.Description != nil {
				d := *card.Description
				card.Description = &d
			}
			out.Columns[i].Cards[j] = card
		}
	}
	return &out
}

// CheckInvariants reports every card that sits in a column other than the
// one it names, appears twice, or whose position differs from its index.
func CheckInvariants(b *api.Board) error {
	if b == nil {
		return nil
	}
	var errs []error
	seen := map[string]string{}
	for _, col := range b.Columns {
		for i, card := range col.Cards {
			if card.ColumnID != col.ID {
				errs = append(errs, fmt.Errorf("card %s listed in column %s but names column %s", card.ID, col.ID, card.ColumnID))
			}
			if card.Position != i {
				errs = append(errs, fmt.Errorf("card %s at index %d has position %d", card.ID, i, card.Position))
			}
			if other, dup := seen[card.ID]; dup {
				errs = append(errs, fmt.Errorf("card %s appears in columns %s and %s", card.ID, other, col.ID))
			}
			seen[card.ID] = col.ID
		}
	}
	return errors.Join(errs...)
}
