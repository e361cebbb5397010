package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanny/internal/api"
	"kanny/internal/auth"
	"kanny/internal/cli"
	"kanny/internal/credentials"
	"kanny/internal/dnd"
	"kanny/internal/repository"
	"kanny/internal/server"
)

const idpSecret = "idp-secret"

// harness runs the CLI as separate invocations sharing one credentials
// file, against an in-memory backend.
type harness struct {
	t     *testing.T
	dir   string
	url   string
	creds string
	env   []string
	stdin string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mem := repository.NewMemory()
	srv := httptest.NewServer(server.NewRouter(server.Deps{
		Users:    mem.Users,
		Boards:   mem.Boards,
		Columns:  mem.Columns,
		Cards:    mem.Cards,
		Issuer:   auth.NewIssuer("test-secret", time.Hour, 24*time.Hour),
		Verifier: auth.NewHMACVerifier(idpSecret, ""),
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	h := &harness{
		t:     t,
		dir:   dir,
		url:   srv.URL + "/api",
		creds: filepath.Join(dir, "credentials.json"),
	}
	h.env = []string{
		"XDG_CONFIG_HOME=" + dir,
		"KANNY_API_URL=" + h.url,
		"KANNY_CREDENTIALS=" + h.creds,
	}
	return h
}

func (h *harness) run(args ...string) (string, string, int) {
	var out, errOut bytes.Buffer
	code := cli.Run(context.Background(), strings.NewReader(h.stdin), &out, &errOut, append([]string{"kanny"}, args...), h.env)
	return out.String(), errOut.String(), code
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	stdout, stderr, code := h.run(args...)
	require.Equal(h.t, 0, code, "kanny %v failed: %s", args, stderr)
	return strings.TrimSpace(stdout)
}

func (h *harness) mustFail(args ...string) string {
	h.t.Helper()
	stdout, stderr, code := h.run(args...)
	require.Equal(h.t, 1, code, "kanny %v should have failed, stdout: %s", args, stdout)
	return strings.TrimSpace(stderr)
}

func (h *harness) signup() {
	h.t.Helper()
	h.mustRun("signup", "--email", "ada@example.com", "--password", "secret1", "--name", "Ada")
}

// client reads the backend with the session the CLI stored.
func (h *harness) client() *api.Client {
	h.t.Helper()
	c, err := api.New(h.url, credentials.NewFile(h.creds))
	require.NoError(h.t, err)
	return c
}

func (h *harness) currentBoard() *api.Board {
	h.t.Helper()
	b, err := h.client().CurrentBoard(context.Background())
	require.NoError(h.t, err)
	return b
}

func titles(col api.Column) []string {
	out := []string{}
	for _, c := range col.Cards {
		out = append(out, c.Title)
	}
	return out
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	h := newHarness(t)
	stdout, _, code := h.run()
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Usage: kanny")
	assert.Contains(t, stdout, "drop <card-id> <target-id>")
	assert.Contains(t, stdout, "--api")
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newHarness(t)
	stderr := h.mustFail("frobnicate")
	assert.Contains(t, stderr, "error: unknown command: frobnicate")
}

func TestRun_CommandHelp(t *testing.T) {
	h := newHarness(t)
	stdout := h.mustRun("drop", "--help")
	assert.Contains(t, stdout, "Usage: kanny drop")
	assert.Contains(t, stdout, "--yes")
	assert.Contains(t, stdout, dnd.DeleteZoneID)
}

func TestRun_BadFlag(t *testing.T) {
	h := newHarness(t)
	stderr := h.mustFail("boards", "--bogus")
	assert.Contains(t, stderr, "error: unknown flag: --bogus")
}

func TestRun_InvalidLogLevel(t *testing.T) {
	h := newHarness(t)
	stderr := h.mustFail("--log-level", "loud", "whoami")
	assert.Contains(t, stderr, `invalid log level "loud"`)
}

func TestRun_SignupWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	stdout := h.mustRun("signup", "--email", "ada@example.com", "--password", "secret1", "--name", "Ada")
	assert.Equal(t, "Signed in as Ada <ada@example.com>", stdout)

	assert.Equal(t, "Ada <ada@example.com>", h.mustRun("whoami"))

	assert.Equal(t, "Signed out", h.mustRun("logout"))
	assert.Equal(t, "error: not signed in, run kanny login first", h.mustFail("whoami"))

	stdout = h.mustRun("login", "--email", "ada@example.com", "--password", "secret1")
	assert.Equal(t, "Signed in as Ada <ada@example.com>", stdout)
}

func TestRun_SignupDuplicate(t *testing.T) {
	h := newHarness(t)
	h.signup()
	h.mustRun("logout")

	stderr := h.mustFail("signup", "--email", "ada@example.com", "--password", "secret1", "--name", "Ada")
	assert.Equal(t, "error: An account with this email already exists. Please sign in instead.", stderr)
}

func TestRun_LoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.signup()

	stderr := h.mustFail("login", "--email", "ada@example.com", "--password", "nope")
	assert.Equal(t, "error: The email or password you entered is incorrect. Please try again.", stderr)
}

func TestRun_LoginNeedsCredentials(t *testing.T) {
	h := newHarness(t)
	stderr := h.mustFail("login", "--email", "ada@example.com")
	assert.Contains(t, stderr, "--id-token")
}

func TestRun_LoginWithIDToken(t *testing.T) {
	h := newHarness(t)
	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "google-7",
		"email": "grace@example.com",
		"name":  "Grace",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(idpSecret))
	require.NoError(t, err)

	stdout := h.mustRun("login", "--id-token", idToken)
	assert.Equal(t, "Signed in as Grace <grace@example.com>", stdout)

	stderr := h.mustFail("login", "--id-token", "not-a-token")
	assert.Equal(t, "error: Unable to sign in with Google. Please try again or use email and password.", stderr)
}

func TestRun_Unreachable(t *testing.T) {
	h := newHarness(t)
	stderr := h.mustFail("--api", "http://127.0.0.1:1/api", "login", "--email", "ada@example.com", "--password", "secret1")
	assert.Equal(t, "error: Unable to connect to the server. Please check your internet connection and try again.", stderr)
}

func TestRun_StaleAccessTokenIsRefreshed(t *testing.T) {
	h := newHarness(t)
	h.signup()

	store := credentials.NewFile(h.creds)
	creds, err := store.Load()
	require.NoError(t, err)
	require.NotEmpty(t, creds.RefreshToken, "refresh cookie is persisted")
	creds.AccessToken = "stale"
	require.NoError(t, store.Save(creds))

	assert.Equal(t, "Ada <ada@example.com>", h.mustRun("whoami"))

	creds, err = store.Load()
	require.NoError(t, err)
	assert.NotEqual(t, "stale", creds.AccessToken)
}

func TestRun_ConfigFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "kanny.yml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: "+h.url+"\ncredentials: "+h.creds+"\n"), 0o600))
	h.env = []string{"XDG_CONFIG_HOME=" + h.dir}

	h.mustRun("--config", path, "signup", "--email", "ada@example.com", "--password", "secret1", "--name", "Ada")
	assert.Equal(t, "Ada <ada@example.com>", h.mustRun("--config", path, "whoami"))

	stderr := h.mustFail("--config", filepath.Join(h.dir, "missing.yml"), "whoami")
	assert.Contains(t, stderr, "missing.yml")
}

func TestRun_Boards(t *testing.T) {
	h := newHarness(t)
	h.signup()

	id := h.mustRun("new-board", "Sprint 1")
	assert.NotEmpty(t, id)
	assert.Contains(t, h.mustRun("boards"), "Sprint 1")

	h.mustRun("rename-board", id, "Sprint 2")
	listing := h.mustRun("boards")
	assert.Contains(t, listing, "Sprint 2")
	assert.NotContains(t, listing, "Sprint 1")

	shown := h.mustRun("show", id)
	assert.Contains(t, shown, "Sprint 2")
	assert.Contains(t, shown, "To Do")
	assert.Contains(t, shown, "In Progress")
	assert.Contains(t, shown, "Done")

	h.mustRun("rm-board", id)
	assert.NotContains(t, h.mustRun("boards"), "Sprint 2")
	assert.Equal(t, "error: The board you're looking for could not be found.", h.mustFail("show", id))
}

func TestRun_ShowCurrentBoard(t *testing.T) {
	h := newHarness(t)
	h.signup()

	shown := h.mustRun("show")
	assert.Contains(t, shown, "My Board")
	assert.Contains(t, shown, "(empty)")
}

func TestRun_Columns(t *testing.T) {
	h := newHarness(t)
	h.signup()
	b := h.currentBoard()

	colID := h.mustRun("add-column", b.ID, "Review")
	b = h.currentBoard()
	require.Len(t, b.Columns, 4)
	assert.Equal(t, "Review", b.Columns[3].Name)
	assert.Equal(t, colID, b.Columns[3].ID)

	h.mustRun("rename-column", colID, "QA")
	assert.Equal(t, "QA", h.currentBoard().Columns[3].Name)

	h.mustRun("rm-column", b.Columns[1].ID)
	b = h.currentBoard()
	require.Len(t, b.Columns, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{b.Columns[0].Position, b.Columns[1].Position, b.Columns[2].Position})
}

func TestRun_Cards(t *testing.T) {
	h := newHarness(t)
	h.signup()
	todo := h.currentBoard().Columns[0].ID

	id := h.mustRun("add-card", todo, "  Write docs  ", "-d", "README first")
	card := h.currentBoard().Columns[0].Cards[0]
	assert.Equal(t, id, card.ID)
	assert.Equal(t, "Write docs", card.Title)
	require.NotNil(t, card.Description)
	assert.Equal(t, "README first", *card.Description)

	h.mustRun("edit-card", id, "Write more docs")
	card = h.currentBoard().Columns[0].Cards[0]
	assert.Equal(t, "Write more docs", card.Title)
	assert.Nil(t, card.Description, "empty description is sent as absent")

	assert.Equal(t, "error: Please fill in all required fields.", h.mustFail("add-card", todo, "   "))

	h.mustRun("rm-card", id)
	assert.Empty(t, h.currentBoard().Columns[0].Cards)
}

func TestRun_MoveWithinColumn(t *testing.T) {
	h := newHarness(t)
	h.signup()
	todo := h.currentBoard().Columns[0].ID
	var ids []string
	for _, title := range []string{"A", "B", "C", "D"} {
		ids = append(ids, h.mustRun("add-card", todo, title))
	}

	h.mustRun("mv", ids[3], todo, "0")

	b := h.currentBoard()
	assert.Equal(t, []string{"D", "A", "B", "C"}, titles(b.Columns[0]))
	for i, c := range b.Columns[0].Cards {
		assert.Equal(t, i, c.Position)
	}
}

func TestRun_MoveToDone(t *testing.T) {
	h := newHarness(t)
	h.signup()
	b := h.currentBoard()
	todo, done := b.Columns[0].ID, b.Columns[2].ID
	a := h.mustRun("add-card", todo, "A")
	h.mustRun("add-card", todo, "B")

	stdout := h.mustRun("mv", a, done, "7")
	assert.Contains(t, stdout, "Done")

	b = h.currentBoard()
	assert.Equal(t, []string{"B"}, titles(b.Columns[0]))
	assert.Equal(t, []string{"A"}, titles(b.Columns[2]))

	assert.Contains(t, h.mustFail("mv", a, done, "first"), "index must be a number")
}

func TestRun_DropOnCard(t *testing.T) {
	h := newHarness(t)
	h.signup()
	todo := h.currentBoard().Columns[0].ID
	a := h.mustRun("add-card", todo, "A")
	h.mustRun("add-card", todo, "B")
	c := h.mustRun("add-card", todo, "C")

	h.mustRun("drop", c, a)
	assert.Equal(t, []string{"C", "A", "B"}, titles(h.currentBoard().Columns[0]))

	assert.Equal(t, "Nothing to do", h.mustRun("drop", c, c))
	assert.Contains(t, h.mustFail("drop", "missing-card", a), "card is not on the current board")
}

func TestRun_DropOnColumn(t *testing.T) {
	h := newHarness(t)
	h.signup()
	b := h.currentBoard()
	a := h.mustRun("add-card", b.Columns[0].ID, "A")

	h.mustRun("drop", a, b.Columns[1].ID)

	b = h.currentBoard()
	assert.Empty(t, b.Columns[0].Cards)
	assert.Equal(t, []string{"A"}, titles(b.Columns[1]))
}

func TestRun_DropOnDeleteZone(t *testing.T) {
	h := newHarness(t)
	h.signup()
	todo := h.currentBoard().Columns[0].ID
	a := h.mustRun("add-card", todo, "A")

	h.stdin = "n\n"
	stdout := h.mustRun("drop", a, dnd.DeleteZoneID)
	assert.Contains(t, stdout, dnd.DeletePrompt)
	assert.Contains(t, stdout, "Kept")
	assert.Equal(t, []string{"A"}, titles(h.currentBoard().Columns[0]))

	h.stdin = "y\n"
	assert.Contains(t, h.mustRun("drop", a, dnd.DeleteZoneID), "Deleted")
	assert.Empty(t, h.currentBoard().Columns[0].Cards)

	b := h.mustRun("add-card", todo, "B")
	h.stdin = ""
	stdout = h.mustRun("drop", "--yes", b, dnd.DeleteZoneID)
	assert.NotContains(t, stdout, dnd.DeletePrompt)
	assert.Empty(t, h.currentBoard().Columns[0].Cards)
}

func TestRun_RequiresSession(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{
		{"boards"},
		{"show"},
		{"new-board", "x"},
		{"add-card", "col", "x"},
	} {
		assert.Equal(t, "error: not signed in, run kanny login first", h.mustFail(args...), "%v", args)
	}
}

func TestRun_ArgumentCounts(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "error: usage: kanny mv <card-id> <column-id> <index>", h.mustFail("mv", "a", "b"))
	assert.Equal(t, "error: usage: kanny rm-card <card-id>", h.mustFail("rm-card"))
}
