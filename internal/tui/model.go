// Package tui is the interactive board view: a Bubble Tea model over the
// board store and the drag controller.
package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"kanny/internal/api"
	"kanny/internal/board"
	"kanny/internal/dnd"
	"kanny/internal/errmsg"
)

// loadedMsg reports the end of a board load.
type loadedMsg struct{ err error }

// doneMsg reports the end of a mutation. The view is redrawn from the
// store either way; err only feeds the status line.
type doneMsg struct {
	err    error
	intent *dnd.Intent
}

// Model is the board view. The cursor column runs one past the last board
// column: that slot is the delete zone.
type Model struct {
	ctx     context.Context
	store   *board.Store
	drag    *dnd.Controller
	boardID string

	keys KeyMap
	help help.Model

	col int
	row int

	adding bool
	input  textinput.Model

	status string
	width  int
}

// New returns a view of boardID, or of the user's current board when
// boardID is empty.
func New(ctx context.Context, store *board.Store, drag *dnd.Controller, boardID string) Model {
	input := textinput.New()
	input.Placeholder = "Card title"
	input.Prompt = "New card: "
	input.CharLimit = 200
	input.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		ctx:     ctx,
		store:   store,
		drag:    drag,
		boardID: boardID,
		keys:    DefaultKeyMap,
		help:    help.New(),
		input:   input,
	}
}

// Init implements tea.Model by loading the board.
func (model Model) Init() tea.Cmd {
	return model.load()
}

func (model Model) load() tea.Cmd {
	ctx, store, id := model.ctx, model.store, model.boardID
	return func() tea.Msg {
		if id == "" {
			return loadedMsg{err: store.LoadCurrentBoard(ctx)}
		}
		return loadedMsg{err: store.LoadBoard(ctx, id)}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.help.Width = message.Width

	case loadedMsg:
		model.status = errmsg.Humanize(message.err)
		if b := model.store.Current(); b != nil {
			model.boardID = b.ID
		}
		model.clampCursor()

	case doneMsg:
		model.status = errmsg.Humanize(message.err)
		if message.intent != nil {
			model.follow(*message.intent)
		}
		model.clampCursor()

	case tea.KeyMsg:
		if model.adding {
			return model.handleInputKeys(message)
		}
		if _, ok := model.drag.PendingDelete(); ok {
			return model.handlePromptKeys(message)
		}
		return model.handleBoardKeys(message)
	}
	return model, nil
}

func (model Model) handleBoardKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Left):
		if model.col > 0 {
			model.col--
		}
		model.clampCursor()

	case key.Matches(message, model.keys.Right):
		model.col++
		model.clampCursor()

	case key.Matches(message, model.keys.Up):
		if model.row > 0 {
			model.row--
		}

	case key.Matches(message, model.keys.Down):
		model.row++
		model.clampCursor()

	case key.Matches(message, model.keys.Grab):
		if model.drag.State() == dnd.Dragging {
			return model, model.drop()
		}
		card, ok := model.cardUnderCursor()
		if !ok {
			return model, nil
		}
		if err := model.drag.Start(card.ID); err != nil {
			model.status = errmsg.Humanize(err)
			return model, nil
		}
		model.status = ""

	case key.Matches(message, model.keys.Cancel):
		// Also dismisses the status line.
		model.drag.Cancel()
		model.status = ""
		model.store.ClearErr()
		model.clampCursor()

	case key.Matches(message, model.keys.Add):
		if model.drag.State() == dnd.Dragging || model.onDeleteZone() {
			return model, nil
		}
		if _, ok := model.columnUnderCursor(); !ok {
			return model, nil
		}
		model.adding = true
		model.input.Reset()
		return model, model.input.Focus()

	case key.Matches(message, model.keys.Reload):
		return model, model.load()
	}
	return model, nil
}

func (model Model) handlePromptKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Confirm):
		ctx, drag := model.ctx, model.drag
		return model, func() tea.Msg {
			return doneMsg{err: drag.ConfirmDelete(ctx)}
		}

	case key.Matches(message, model.keys.Deny), key.Matches(message, model.keys.Cancel):
		_ = model.drag.CancelDelete()

	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit
	}
	return model, nil
}

func (model Model) handleInputKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyCtrlC:
		return model, tea.Quit

	case tea.KeyEsc:
		model.adding = false
		model.input.Blur()
		return model, nil

	case tea.KeyEnter:
		col, ok := model.columnUnderCursor()
		model.adding = false
		model.input.Blur()
		if !ok {
			return model, nil
		}
		title := model.input.Value()
		ctx, store := model.ctx, model.store
		return model, func() tea.Msg {
			_, err := store.CreateCard(ctx, col.ID, title, "")
			return doneMsg{err: err}
		}
	}

	var cmd tea.Cmd
	model.input, cmd = model.input.Update(message)
	return model, cmd
}

// drop ends the drag over the target under the cursor.
func (model Model) drop() tea.Cmd {
	over := model.target()
	ctx, drag := model.ctx, model.drag
	return func() tea.Msg {
		intent, err := drag.Drop(ctx, over)
		return doneMsg{err: err, intent: &intent}
	}
}

// target is the drop target under the cursor: the delete zone, the card
// at the cursor, or the column itself below its last card.
func (model Model) target() string {
	if model.onDeleteZone() {
		return dnd.DeleteZoneID
	}
	if card, ok := model.cardUnderCursor(); ok {
		return card.ID
	}
	if col, ok := model.columnUnderCursor(); ok {
		return col.ID
	}
	return ""
}

// follow puts the cursor on the card that was just moved.
func (model *Model) follow(intent dnd.Intent) {
	b := model.store.Current()
	if b == nil {
		return
	}
	switch intent.Kind {
	case dnd.Append, dnd.Insert:
		if ci, i := board.Locate(b, intent.CardID); ci >= 0 {
			model.col, model.row = ci, i
		}
	}
}

func (model *Model) clampCursor() {
	b := model.store.Current()
	if b == nil {
		model.col, model.row = 0, 0
		return
	}
	// One slot past the columns for the delete zone.
	model.col = min(max(model.col, 0), len(b.Columns))
	if model.col == len(b.Columns) {
		model.row = 0
		return
	}
	// While dragging, the slot below the last card stands for the column.
	last := len(b.Columns[model.col].Cards) - 1
	if model.drag.State() == dnd.Dragging {
		last++
	}
	model.row = min(max(model.row, 0), max(last, 0))
}

func (model Model) onDeleteZone() bool {
	b := model.store.Current()
	return b != nil && len(b.Columns) > 0 && model.col == len(b.Columns)
}

func (model Model) columnUnderCursor() (api.Column, bool) {
	b := model.store.Current()
	if b == nil || model.col < 0 || model.col >= len(b.Columns) {
		return api.Column{}, false
	}
	return b.Columns[model.col], true
}

func (model Model) cardUnderCursor() (api.Card, bool) {
	col, ok := model.columnUnderCursor()
	if !ok || model.row < 0 || model.row >= len(col.Cards) {
		return api.Card{}, false
	}
	return col.Cards[model.row], true
}

// Run shows the board until the user quits or ctx is done.
func Run(ctx context.Context, model Model, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}
