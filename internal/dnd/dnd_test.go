package dnd

import (
	"context"
	"errors"
	"testing"

	"kanny/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testBoard() *api.Board {
	return &api.Board{
		ID: "b1",
		Columns: []api.Column{
			{ID: "todo", Cards: []api.Card{
				{ID: "c0", Title: "c0", ColumnID: "todo", Position: 0},
				{ID: "c1", Title: "c1", ColumnID: "todo", Position: 1},
				{ID: "c2", Title: "c2", ColumnID: "todo", Position: 2},
				{ID: "c3", Title: "c3", ColumnID: "todo", Position: 3},
			}},
			{ID: "done", Cards: []api.Card{}},
		},
	}
}

type MockStore struct {
	mock.Mock
	board *api.Board
}

func (m *MockStore) Current() *api.Board {
	return m.board
}

func (m *MockStore) MoveCard(ctx context.Context, cardID, columnID string, index int) error {
	return m.Called(ctx, cardID, columnID, index).Error(0)
}

func (m *MockStore) DeleteCard(ctx context.Context, cardID string) error {
	return m.Called(ctx, cardID).Error(0)
}

func TestResolve(t *testing.T) {
	b := testBoard()
	tests := []struct {
		name string
		card string
		over string
		want Intent
	}{
		{"delete zone", "c1", DeleteZoneID, Intent{Kind: Delete, CardID: "c1"}},
		{"empty column appends", "c1", "done", Intent{Kind: Append, CardID: "c1", ColumnID: "done", Index: 0}},
		{"own column appends at length", "c0", "todo", Intent{Kind: Append, CardID: "c0", ColumnID: "todo", Index: 4}},
		{"card inserts at its index", "c2", "c0", Intent{Kind: Insert, CardID: "c2", ColumnID: "todo", Index: 0}},
		{"card lower down", "c0", "c3", Intent{Kind: Insert, CardID: "c0", ColumnID: "todo", Index: 3}},
		{"itself", "c2", "c2", Intent{Kind: None, CardID: "c2"}},
		{"outside", "c2", "", Intent{Kind: None, CardID: "c2"}},
		{"unknown target", "c2", "sidebar", Intent{Kind: None, CardID: "c2"}},
		{"unknown card", "ghost", "done", Intent{Kind: None, CardID: "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(b, tt.card, tt.over))
		})
	}
}

func TestResolve_NilBoard(t *testing.T) {
	assert.Equal(t, None, Resolve(nil, "c1", "done").Kind)
}

func TestController_DropOnColumnAppends(t *testing.T) {
	store := &MockStore{board: testBoard()}
	store.On("MoveCard", mock.Anything, "c0", "done", 0).Return(nil)
	c := NewController(store, nil)

	require.NoError(t, c.Start("c0"))
	active, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "c0", active.Title)

	intent, err := c.Drop(context.Background(), "done")

	require.NoError(t, err)
	assert.Equal(t, Append, intent.Kind)
	assert.Equal(t, Idle, c.State())
	store.AssertExpectations(t)
}

func TestController_DropOnCardInsertsBefore(t *testing.T) {
	store := &MockStore{board: testBoard()}
	store.On("MoveCard", mock.Anything, "c2", "todo", 0).Return(nil)
	c := NewController(store, nil)

	require.NoError(t, c.Start("c2"))
	_, err := c.Drop(context.Background(), "c0")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestController_MoveErrorReturnedAndGestureResolved(t *testing.T) {
	store := &MockStore{board: testBoard()}
	failure := errors.New("Something went wrong. Please try again.")
	store.On("MoveCard", mock.Anything, "c1", "done", 0).Return(failure)
	c := NewController(store, nil)

	require.NoError(t, c.Start("c1"))
	_, err := c.Drop(context.Background(), "done")

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, Idle, c.State())
	assert.NoError(t, c.Start("c1"))
}

func TestController_DeleteZoneDoesNotMutate(t *testing.T) {
	before := testBoard()
	store := &MockStore{board: testBoard()}
	c := NewController(store, nil)

	require.NoError(t, c.Start("c1"))
	intent, err := c.Drop(context.Background(), DeleteZoneID)

	require.NoError(t, err)
	assert.Equal(t, Delete, intent.Kind)
	assert.Equal(t, before, store.Current())
	store.AssertNotCalled(t, "MoveCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "DeleteCard", mock.Anything, mock.Anything)

	pending, ok := c.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, "c1", pending.ID)
}

func TestController_ConfirmDelete(t *testing.T) {
	store := &MockStore{board: testBoard()}
	store.On("DeleteCard", mock.Anything, "c1").Return(nil).Once()
	c := NewController(store, nil)
	require.NoError(t, c.Start("c1"))
	_, _ = c.Drop(context.Background(), DeleteZoneID)

	require.NoError(t, c.ConfirmDelete(context.Background()))

	_, ok := c.PendingDelete()
	assert.False(t, ok)
	assert.ErrorIs(t, c.ConfirmDelete(context.Background()), ErrNoPendingDelete)
	store.AssertExpectations(t)
}

func TestController_CancelDelete(t *testing.T) {
	store := &MockStore{board: testBoard()}
	c := NewController(store, nil)
	require.NoError(t, c.Start("c1"))
	_, _ = c.Drop(context.Background(), DeleteZoneID)

	require.NoError(t, c.CancelDelete())

	assert.ErrorIs(t, c.CancelDelete(), ErrNoPendingDelete)
	store.AssertNotCalled(t, "DeleteCard", mock.Anything, mock.Anything)
}

func TestController_OneGestureAtATime(t *testing.T) {
	c := NewController(&MockStore{board: testBoard()}, nil)

	require.NoError(t, c.Start("c0"))
	assert.ErrorIs(t, c.Start("c1"), ErrDragActive)

	c.Cancel()
	assert.Equal(t, Idle, c.State())
	_, ok := c.Active()
	assert.False(t, ok)
	_, err := c.Drop(context.Background(), "done")
	assert.ErrorIs(t, err, ErrNotDragging)
}

func TestController_StartBlockedWhileDeletePending(t *testing.T) {
	c := NewController(&MockStore{board: testBoard()}, nil)
	require.NoError(t, c.Start("c0"))
	_, _ = c.Drop(context.Background(), DeleteZoneID)

	assert.ErrorIs(t, c.Start("c1"), ErrDeletePending)
}

func TestController_StartUnknownCard(t *testing.T) {
	c := NewController(&MockStore{board: testBoard()}, nil)

	assert.ErrorIs(t, c.Start("ghost"), ErrUnknownCard)
	assert.Equal(t, Idle, c.State())
}

func TestController_DropOutsideIsNoop(t *testing.T) {
	store := &MockStore{board: testBoard()}
	c := NewController(store, nil)
	require.NoError(t, c.Start("c0"))

	intent, err := c.Drop(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, None, intent.Kind)
	store.AssertNotCalled(t, "MoveCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
