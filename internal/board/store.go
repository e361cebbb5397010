// Package board holds the client's copy of the current board and the list of
// board summaries, and reconciles local edits with the backend.
package board

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"kanny/internal/api"
	"kanny/internal/errmsg"
)

// ErrEmptyTitle rejects cards whose title is blank after trimming.
var ErrEmptyTitle = errors.New("card title is required")

// Backend is the part of the API client the store calls. *api.Client
// implements it.
type Backend interface {
	Boards(ctx context.Context) ([]api.BoardSummary, error)
	CreateBoard(ctx context.Context, name string) (*api.BoardSummary, error)
	Board(ctx context.Context, id string) (*api.Board, error)
	CurrentBoard(ctx context.Context) (*api.Board, error)
	UpdateBoard(ctx context.Context, id, name string) error
	DeleteBoard(ctx context.Context, id string) error

	CreateColumn(ctx context.Context, boardID, name string) (*api.Column, error)
	UpdateColumn(ctx context.Context, id, name string) error
	DeleteColumn(ctx context.Context, id string) error

	CreateCard(ctx context.Context, columnID, title string, description *string) (*api.Card, error)
	UpdateCard(ctx context.Context, id, title string, description *string) error
	DeleteCard(ctx context.Context, id string) error
	MoveCard(ctx context.Context, id, columnID string, position int) error
}

var _ Backend = (*api.Client)(nil)

// Store is the single owner of the in-memory board tree. Its lock is never
// held across a backend call; overlapping mutations are not serialized and
// the last reload wins.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu      sync.Mutex
	current *api.Board
	boards  []api.BoardSummary
	loading int
	err     string
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: backend, logger: logger}
}

// Current returns a deep copy of the current board, or nil.
func (s *Store) Current() *api.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Clone(s.current)
}

// SetCurrent replaces the current board with a copy of b.
func (s *Store) SetCurrent(b *api.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Clone(b)
}

func (s *Store) Boards() []api.BoardSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.boards)
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Err returns the humanized message of the last failure, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) ClearErr() {
	s.setErr("")
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

// fail records err as the store's error and returns it humanized.
func (s *Store) fail(err error, fallback string) error {
	wrapped := errmsg.WrapOr(err, fallback)
	s.logger.Debug(fallback, "error", err)
	s.setErr(wrapped.Error())
	return wrapped
}

func (s *Store) beginLoad() {
	s.mu.Lock()
	s.loading++
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) endLoad() {
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
}

// update runs fn on the current board under the lock, if there is one.
func (s *Store) update(fn func(b *api.Board)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		fn(s.current)
	}
}

func (s *Store) LoadBoards(ctx context.Context) error {
	s.beginLoad()
	defer s.endLoad()

	boards, err := s.backend.Boards(ctx)
	if err != nil {
		return s.fail(err, "Failed to load boards")
	}

	s.mu.Lock()
	s.boards = boards
	s.mu.Unlock()
	return nil
}

func (s *Store) LoadBoard(ctx context.Context, id string) error {
	return s.load(ctx, func(ctx context.Context) (*api.Board, error) {
		return s.backend.Board(ctx, id)
	})
}

// LoadCurrentBoard loads the user's default board.
func (s *Store) LoadCurrentBoard(ctx context.Context) error {
	return s.load(ctx, s.backend.CurrentBoard)
}

func (s *Store) load(ctx context.Context, fetch func(context.Context) (*api.Board, error)) error {
	s.beginLoad()
	defer s.endLoad()

	b, err := fetch(ctx)
	if err != nil {
		return s.fail(err, "Failed to load board")
	}
	if err := CheckInvariants(b); err != nil {
		s.logger.Warn("backend returned an inconsistent board", "board", b.ID, "error", err)
	}

	s.mu.Lock()
	s.current = b
	s.mu.Unlock()
	return nil
}

// CreateBoard creates a board and appends its summary. The summary is
// returned so the caller can open the new board.
func (s *Store) CreateBoard(ctx context.Context, name string) (*api.BoardSummary, error) {
	s.setErr("")
	summary, err := s.backend.CreateBoard(ctx, name)
	if err != nil {
		return nil, s.fail(err, "Failed to create board")
	}

	s.mu.Lock()
	s.boards = append(s.boards, *summary)
	s.mu.Unlock()

	out := *summary
	return &out, nil
}

// UpdateBoard renames a board in the summary list and, if it is current, in
// the board itself, then tells the backend. A failure puts the old names
// back.
func (s *Store) UpdateBoard(ctx context.Context, id, name string) error {
	s.mu.Lock()
	s.err = ""
	prevBoards := slices.Clone(s.boards)
	var prevName string
	renamedCurrent := s.current != nil && s.current.ID == id
	for i := range s.boards {
		if s.boards[i].ID == id {
			s.boards[i].Name = name
		}
	}
	if renamedCurrent {
		prevName = s.current.Name
		s.current.Name = name
	}
	s.mu.Unlock()

	if err := s.backend.UpdateBoard(ctx, id, name); err != nil {
		s.mu.Lock()
		s.boards = prevBoards
		if renamedCurrent && s.current != nil && s.current.ID == id {
			s.current.Name = prevName
		}
		s.mu.Unlock()
		return s.fail(err, "Failed to update board")
	}
	return nil
}

// DeleteBoard drops a board from the summary list, and clears the current
// board when it is the one deleted, then tells the backend. A failure
// restores both.
func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	s.mu.Lock()
	s.err = ""
	prevBoards := slices.Clone(s.boards)
	var prevCurrent *api.Board
	s.boards = slices.DeleteFunc(s.boards, func(b api.BoardSummary) bool { return b.ID == id })
	if s.current != nil && s.current.ID == id {
		prevCurrent = s.current
		s.current = nil
	}
	s.mu.Unlock()

	if err := s.backend.DeleteBoard(ctx, id); err != nil {
		s.mu.Lock()
		s.boards = prevBoards
		if prevCurrent != nil && s.current == nil {
			s.current = prevCurrent
		}
		s.mu.Unlock()
		return s.fail(err, "Failed to delete board")
	}
	return nil
}

func (s *Store) CreateColumn(ctx context.Context, boardID, name string) (*api.Column, error) {
	s.setErr("")
	col, err := s.backend.CreateColumn(ctx, boardID, name)
	if err != nil {
		return nil, s.fail(err, "Failed to create column")
	}

	s.update(func(b *api.Board) {
		if b.ID != boardID {
			return
		}
		added := *col
		added.Cards = []api.Card{}
		b.Columns = append(b.Columns, added)
		reindexColumns(b.Columns)
	})

	out := *col
	return &out, nil
}

func (s *Store) UpdateColumn(ctx context.Context, id, name string) error {
	s.setErr("")
	if err := s.backend.UpdateColumn(ctx, id, name); err != nil {
		return s.fail(err, "Failed to update column")
	}

	s.update(func(b *api.Board) {
		if i := ColumnIndex(b, id); i >= 0 {
			b.Columns[i].Name = name
		}
	})
	return nil
}

func (s *Store) DeleteColumn(ctx context.Context, id string) error {
	s.setErr("")
	if err := s.backend.DeleteColumn(ctx, id); err != nil {
		return s.fail(err, "Failed to delete column")
	}

	s.update(func(b *api.Board) {
		b.Columns = slices.DeleteFunc(b.Columns, func(c api.Column) bool { return c.ID == id })
		reindexColumns(b.Columns)
	})
	return nil
}

// cardFields trims the title and description; an empty description is sent
// as absent.
func cardFields(title, description string) (string, *string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil, ErrEmptyTitle
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return title, nil, nil
	}
	return title, &description, nil
}

// CreateCard appends a card to a column.
func (s *Store) CreateCard(ctx context.Context, columnID, title, description string) (*api.Card, error) {
	s.setErr("")
	title, desc, err := cardFields(title, description)
	if err != nil {
		return nil, s.fail(err, "Failed to create card")
	}

	card, err := s.backend.CreateCard(ctx, columnID, title, desc)
	if err != nil {
		return nil, s.fail(err, "Failed to create card")
	}

	s.update(func(b *api.Board) {
		if i := ColumnIndex(b, columnID); i >= 0 {
			b.Columns[i].Cards = append(b.Columns[i].Cards, *card)
			reindex(b.Columns[i].Cards)
		}
	})

	out := *card
	return &out, nil
}

func (s *Store) UpdateCard(ctx context.Context, id, title, description string) error {
	s.setErr("")
	title, desc, err := cardFields(title, description)
	if err != nil {
		return s.fail(err, "Failed to update card")
	}

	if err := s.backend.UpdateCard(ctx, id, title, desc); err != nil {
		return s.fail(err, "Failed to update card")
	}

	s.update(func(b *api.Board) {
		if ci, i := Locate(b, id); ci >= 0 {
			b.Columns[ci].Cards[i].Title = title
			b.Columns[ci].Cards[i].Description = desc
		}
	})
	return nil
}

func (s *Store) DeleteCard(ctx context.Context, id string) error {
	s.setErr("")
	if err := s.backend.DeleteCard(ctx, id); err != nil {
		return s.fail(err, "Failed to delete card")
	}

	s.update(func(b *api.Board) {
		if ci, i := Locate(b, id); ci >= 0 {
			b.Columns[ci].Cards = slices.Delete(b.Columns[ci].Cards, i, i+1)
			reindex(b.Columns[ci].Cards)
		}
	})
	return nil
}

// MoveCard reorders the current board locally, asks the backend to make the
// same move and then reloads the board whatever the answer. When the move
// was rejected and the reload fails as well, the board reverts to its
// arrangement before the move.
func (s *Store) MoveCard(ctx context.Context, cardID, columnID string, index int) error {
	index = max(index, 0)

	s.mu.Lock()
	s.err = ""
	var (
		boardID  string
		snapshot *api.Board
	)
	if s.current != nil {
		boardID = s.current.ID
		snapshot = Clone(s.current)
		if used, ok := Move(s.current, cardID, columnID, index); ok {
			index = used
		}
	}
	s.mu.Unlock()

	moveErr := s.backend.MoveCard(ctx, cardID, columnID, index)
	if snapshot == nil {
		if moveErr != nil {
			return s.fail(moveErr, "Failed to move card")
		}
		return nil
	}

	reloadErr := s.reload(ctx, boardID)
	switch {
	case moveErr != nil:
		if reloadErr != nil {
			s.logger.Warn("reload after failed move failed, restoring snapshot", "board", boardID, "error", reloadErr)
			s.mu.Lock()
			if s.current != nil && s.current.ID == boardID {
				s.current = snapshot
			}
			s.mu.Unlock()
		}
		return s.fail(moveErr, "Failed to move card")
	case reloadErr != nil:
		return s.fail(reloadErr, "Failed to load board")
	}
	return nil
}

// reload refetches boardID and installs it unless the user has moved on to
// another board meanwhile.
func (s *Store) reload(ctx context.Context, boardID string) error {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
	defer s.endLoad()

	b, err := s.backend.Board(ctx, boardID)
	if err != nil {
		return err
	}
	if err := CheckInvariants(b); err != nil {
		s.logger.Warn("backend returned an inconsistent board", "board", b.ID, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID == boardID {
		s.current = b
	}
	return nil
}
