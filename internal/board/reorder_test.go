package board

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"kanny/internal/api"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds a board from column name -> card titles. Card IDs equal
// their titles.
func fixture(columns ...[]string) *api.Board {
	b := &api.Board{ID: "b1", Name: "Board", UserID: "u1"}
	for ci, titles := range columns {
		col := api.Column{ID: fmt.Sprintf("col%d", ci), Name: fmt.Sprintf("Column %d", ci), BoardID: "b1", Position: ci, Cards: []api.Card{}}
		for i, title := range titles {
			col.Cards = append(col.Cards, api.Card{ID: title, Title: title, ColumnID: col.ID, Position: i})
		}
		b.Columns = append(b.Columns, col)
	}
	return b
}

func ids(col api.Column) []string {
	out := []string{}
	for _, c := range col.Cards {
		out = append(out, c.ID)
	}
	return out
}

func TestMove_SameColumnToFront(t *testing.T) {
	b := fixture([]string{"c0", "c1", "c2", "c3"})

	used, ok := Move(b, "c2", "col0", 0)

	require.True(t, ok)
	assert.Equal(t, 0, used)
	assert.Equal(t, []string{"c2", "c0", "c1", "c3"}, ids(b.Columns[0]))
	for i, c := range b.Columns[0].Cards {
		assert.Equal(t, i, c.Position)
	}
}

func TestMove_SameColumnDownLandsAfterTarget(t *testing.T) {
	b := fixture([]string{"c0", "c1", "c2", "c3"})

	Move(b, "c0", "col0", 2)

	assert.Equal(t, []string{"c1", "c2", "c0", "c3"}, ids(b.Columns[0]))
}

func TestMove_AcrossColumns(t *testing.T) {
	b := fixture([]string{"A", "B"}, []string{})

	_, ok := Move(b, "A", "col1", 0)

	require.True(t, ok)
	assert.Equal(t, []string{"B"}, ids(b.Columns[0]))
	assert.Equal(t, 0, b.Columns[0].Cards[0].Position)
	assert.Equal(t, []string{"A"}, ids(b.Columns[1]))
	assert.Equal(t, "col1", b.Columns[1].Cards[0].ColumnID)
	assert.NoError(t, CheckInvariants(b))
}

func TestMove_ClampsIndex(t *testing.T) {
	b := fixture([]string{"a", "b"}, []string{"x"})

	used, _ := Move(b, "a", "col1", 42)
	assert.Equal(t, 1, used)
	assert.Equal(t, []string{"x", "a"}, ids(b.Columns[1]))

	used, _ = Move(b, "b", "col1", -3)
	assert.Equal(t, 0, used)
	assert.Equal(t, []string{"b", "x", "a"}, ids(b.Columns[1]))
}

func TestMove_UnknownCardOrColumn(t *testing.T) {
	b := fixture([]string{"a"})
	before := Clone(b)

	_, ok := Move(b, "ghost", "col0", 0)
	assert.False(t, ok)
	_, ok = Move(b, "a", "nowhere", 0)
	assert.False(t, ok)

	assert.Empty(t, cmp.Diff(before, b))
}

// Random create/delete/move sequences keep positions contiguous and every
// card in the column it names.
func TestMove_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := fixture([]string{}, []string{}, []string{})
	next := 0

	for step := 0; step < 500; step++ {
		switch op := rng.IntN(4); {
		case op == 0 || countCards(b) == 0:
			col := rng.IntN(len(b.Columns))
			id := fmt.Sprintf("k%d", next)
			next++
			b.Columns[col].Cards = append(b.Columns[col].Cards, api.Card{ID: id, ColumnID: b.Columns[col].ID})
			reindex(b.Columns[col].Cards)
		case op == 1:
			id := randomCard(rng, b)
			ci, i := Locate(b, id)
			b.Columns[ci].Cards = append(b.Columns[ci].Cards[:i], b.Columns[ci].Cards[i+1:]...)
			reindex(b.Columns[ci].Cards)
		default:
			id := randomCard(rng, b)
			col := b.Columns[rng.IntN(len(b.Columns))].ID
			_, ok := Move(b, id, col, rng.IntN(8)-2)
			require.True(t, ok)
		}
		require.NoError(t, CheckInvariants(b), "step %d", step)
	}
}

func countCards(b *api.Board) int {
	n := 0
	for _, col := range b.Columns {
		n += len(col.Cards)
	}
	return n
}

func randomCard(rng *rand.Rand, b *api.Board) string {
	n := rng.IntN(countCards(b))
	for _, col := range b.Columns {
		if n < len(col.Cards) {
			return col.Cards[n].ID
		}
		n -= len(col.Cards)
	}
	panic("unreachable")
}

func TestCheckInvariants_ReportsViolations(t *testing.T) {
	b := fixture([]string{"a", "b"}, []string{"c"})
	b.Columns[0].Cards[1].Position = 5
	b.Columns[1].Cards[0].ColumnID = "col0"
	b.Columns[1].Cards = append(b.Columns[1].Cards, api.Card{ID: "a", ColumnID: "col1", Position: 1})

	err := CheckInvariants(b)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "card b at index 1 has position 5")
	assert.Contains(t, err.Error(), "card c listed in column col1 but names column col0")
	assert.Contains(t, err.Error(), "card a appears in columns col0 and col1")
}

func TestClone_IsDeep(t *testing.T) {
	desc := "d"
	b := fixture([]string{"a"})
	b.Columns[0].Cards[0].Description = &desc

	c := Clone(b)
	c.Columns[0].Cards[0].Title = "changed"
	*c.Columns[0].Cards[0].Description = "changed"
	c.Columns[0].Cards = append(c.Columns[0].Cards, api.Card{ID: "z"})

	assert.Equal(t, "a", b.Columns[0].Cards[0].Title)
	assert.Equal(t, "d", *b.Columns[0].Cards[0].Description)
	assert.Len(t, b.Columns[0].Cards, 1)
	assert.Nil(t, Clone(nil))
}
