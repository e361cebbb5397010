package repository_test

import (
	"context"
	"testing"

	"kanny/internal/model"
	"kanny/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBoard(t *testing.T, mem *repository.Memory, columns map[string][]string, order ...string) (*model.Board, map[string]uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	board := &model.Board{Name: "Test Board", OwnerID: uuid.New()}
	for i, name := range order {
		board.Columns = append(board.Columns, model.Column{Name: name, Position: i})
	}
	require.NoError(t, mem.Boards.Create(ctx, board))

	ids := map[string]uuid.UUID{}
	for _, col := range board.Columns {
		ids[col.Name] = col.ID
		for i, title := range columns[col.Name] {
			card := &model.Card{ColumnID: col.ID, Title: title, Position: i}
			require.NoError(t, mem.Cards.Create(ctx, card))
			ids[title] = card.ID
		}
	}
	return board, ids
}

func titles(t *testing.T, mem *repository.Memory, boardID uuid.UUID) map[string][]string {
	t.Helper()
	tree, err := mem.Boards.GetTree(context.Background(), boardID)
	require.NoError(t, err)
	require.NotNil(t, tree)

	out := map[string][]string{}
	for _, col := range tree.Columns {
		out[col.Name] = []string{}
		for i, card := range col.Cards {
			assert.Equal(t, i, card.Position, "position of %s", card.Title)
			assert.Equal(t, col.ID, card.ColumnID, "column of %s", card.Title)
			out[col.Name] = append(out[col.Name], card.Title)
		}
	}
	return out
}

func TestMemory_MoveAcrossColumns(t *testing.T) {
	mem := repository.NewMemory()
	board, ids := seedBoard(t, mem, map[string][]string{"To Do": {"A", "B"}}, "To Do", "Done")

	err := mem.Cards.Move(context.Background(), ids["A"], ids["Done"], 0)

	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"To Do": {"B"}, "Done": {"A"}}, titles(t, mem, board.ID))
}

func TestMemory_MoveWithinColumn(t *testing.T) {
	mem := repository.NewMemory()
	board, ids := seedBoard(t, mem, map[string][]string{"To Do": {"A", "B", "C", "D"}}, "To Do")

	require.NoError(t, mem.Cards.Move(context.Background(), ids["C"], ids["To Do"], 0))
	assert.Equal(t, []string{"C", "A", "B", "D"}, titles(t, mem, board.ID)["To Do"])

	require.NoError(t, mem.Cards.Move(context.Background(), ids["C"], ids["To Do"], 2))
	assert.Equal(t, []string{"A", "B", "C", "D"}, titles(t, mem, board.ID)["To Do"])
}

func TestMemory_MoveClampsPosition(t *testing.T) {
	mem := repository.NewMemory()
	board, ids := seedBoard(t, mem, map[string][]string{"To Do": {"A", "B"}, "Done": {"X"}}, "To Do", "Done")

	require.NoError(t, mem.Cards.Move(context.Background(), ids["A"], ids["Done"], 42))
	assert.Equal(t, []string{"X", "A"}, titles(t, mem, board.ID)["Done"])

	require.NoError(t, mem.Cards.Move(context.Background(), ids["B"], ids["Done"], -3))
	assert.Equal(t, []string{"B", "X", "A"}, titles(t, mem, board.ID)["Done"])
}

func TestMemory_MoveUnknownCard(t *testing.T) {
	mem := repository.NewMemory()

	err := mem.Cards.Move(context.Background(), uuid.New(), uuid.New(), 0)

	assert.ErrorIs(t, err, repository.ErrCardNotFound)
}

func TestMemory_DeleteCardReindexes(t *testing.T) {
	mem := repository.NewMemory()
	board, ids := seedBoard(t, mem, map[string][]string{"To Do": {"A", "B", "C"}}, "To Do")

	require.NoError(t, mem.Cards.Delete(context.Background(), ids["A"]))

	assert.Equal(t, []string{"B", "C"}, titles(t, mem, board.ID)["To Do"])
}

func TestMemory_DeleteColumnReindexesColumns(t *testing.T) {
	mem := repository.NewMemory()
	ctx := context.Background()
	board, ids := seedBoard(t, mem, map[string][]string{"Doing": {"A"}}, "To Do", "Doing", "Done")

	require.NoError(t, mem.Columns.Delete(ctx, ids["Doing"]))

	tree, err := mem.Boards.GetTree(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, tree.Columns, 2)
	assert.Equal(t, "To Do", tree.Columns[0].Name)
	assert.Equal(t, "Done", tree.Columns[1].Name)
	assert.Equal(t, 1, tree.Columns[1].Position)

	_, err = mem.Cards.GetByID(ctx, ids["A"])
	assert.ErrorIs(t, err, repository.ErrCardNotFound)

	next, err := mem.Columns.NextPosition(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestMemory_DeleteBoardRemovesTree(t *testing.T) {
	mem := repository.NewMemory()
	ctx := context.Background()
	board, ids := seedBoard(t, mem, map[string][]string{"To Do": {"A"}}, "To Do")

	require.NoError(t, mem.Boards.Delete(ctx, board.ID))

	tree, err := mem.Boards.GetTree(ctx, board.ID)
	assert.NoError(t, err)
	assert.Nil(t, tree)
	column, err := mem.Columns.GetByID(ctx, ids["To Do"])
	assert.NoError(t, err)
	assert.Nil(t, column)
	assert.ErrorIs(t, mem.Boards.Delete(ctx, board.ID), repository.ErrBoardNotFound)
}

func TestMemory_UsersUniqueEmail(t *testing.T) {
	mem := repository.NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.Users.Create(ctx, &model.User{Email: "a@example.com", Name: "A"}))
	err := mem.Users.Create(ctx, &model.User{Email: "a@example.com", Name: "B"})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)

	user, err := mem.Users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "A", user.Name)

	missing, err := mem.Users.FindByFederatedID(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
