package dnd_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"kanny/internal/api"
	"kanny/internal/auth"
	"kanny/internal/board"
	"kanny/internal/credentials"
	"kanny/internal/dnd"
	"kanny/internal/repository"
	"kanny/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, titles ...string) (*board.Store, *dnd.Controller, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mem := repository.NewMemory()
	srv := httptest.NewServer(server.NewRouter(server.Deps{
		Users:    mem.Users,
		Boards:   mem.Boards,
		Columns:  mem.Columns,
		Cards:    mem.Cards,
		Issuer:   auth.NewIssuer("test-secret", time.Hour, 24*time.Hour),
		Verifier: auth.NewHMACVerifier("", ""),
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	client, err := api.New(srv.URL+"/api", &credentials.Memory{})
	require.NoError(t, err)
	res, err := client.Signup(ctx, "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)
	require.NoError(t, client.SetAccessToken(res.AccessToken))

	store := board.NewStore(client, nil)
	require.NoError(t, store.LoadCurrentBoard(ctx))
	todo := store.Current().Columns[0].ID
	byTitle := map[string]string{}
	for _, title := range titles {
		card, err := store.CreateCard(ctx, todo, title, "")
		require.NoError(t, err)
		byTitle[title] = card.ID
	}
	return store, dnd.NewController(store, nil), byTitle
}

func order(b *api.Board, col int) ([]string, []int) {
	var titles []string
	var positions []int
	for _, c := range b.Columns[col].Cards {
		titles = append(titles, c.Title)
		positions = append(positions, c.Position)
	}
	return titles, positions
}

func TestDropOnCard_SameColumnReorder(t *testing.T) {
	store, c, ids := setup(t, "old0", "old1", "moved", "old3")

	require.NoError(t, c.Start(ids["moved"]))
	intent, err := c.Drop(context.Background(), ids["old0"])
	require.NoError(t, err)
	assert.Equal(t, dnd.Insert, intent.Kind)

	titles, positions := order(store.Current(), 0)
	assert.Equal(t, []string{"moved", "old0", "old1", "old3"}, titles)
	assert.Equal(t, []int{0, 1, 2, 3}, positions)
}

func TestDropOnDeleteZone_ConfirmThenDeleted(t *testing.T) {
	store, c, ids := setup(t, "A", "B")
	before := store.Current()

	require.NoError(t, c.Start(ids["A"]))
	_, err := c.Drop(context.Background(), dnd.DeleteZoneID)
	require.NoError(t, err)
	assert.Equal(t, before, store.Current())

	require.NoError(t, c.ConfirmDelete(context.Background()))

	titles, positions := order(store.Current(), 0)
	assert.Equal(t, []string{"B"}, titles)
	assert.Equal(t, []int{0}, positions)
}
