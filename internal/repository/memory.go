package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"kanny/internal/model"
)

// Memory bundles in-process implementations of every store. It backs the
// server when STORAGE=memory and the end-to-end tests; nothing survives a
// restart.
type Memory struct {
	Users   UserStore
	Boards  BoardStore
	Columns ColumnStore
	Cards   CardStore
}

// NewMemory returns an empty in-memory data set.
func NewMemory() *Memory {
	s := &memoryState{
		users:   map[uuid.UUID]model.User{},
		boards:  map[uuid.UUID]model.Board{},
		columns: map[uuid.UUID]model.Column{},
		cards:   map[uuid.UUID]model.Card{},
	}
	return &Memory{
		Users:   memoryUsers{s},
		Boards:  memoryBoards{s},
		Columns: memoryColumns{s},
		Cards:   memoryCards{s},
	}
}

type memoryState struct {
	mu      sync.Mutex
	users   map[uuid.UUID]model.User
	boards  map[uuid.UUID]model.Board
	columns map[uuid.UUID]model.Column
	cards   map[uuid.UUID]model.Card
}

// columnsOf returns the board's columns ordered by position. Callers hold mu.
func (s *memoryState) columnsOf(boardID uuid.UUID) []model.Column {
	var out []model.Column
	for _, c := range s.columns {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b model.Column) int { return a.Position - b.Position })
	return out
}

// cardsOf returns the column's cards ordered by position. Callers hold mu.
func (s *memoryState) cardsOf(columnID uuid.UUID) []model.Card {
	var out []model.Card
	for _, c := range s.cards {
		if c.ColumnID == columnID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b model.Card) int { return a.Position - b.Position })
	return out
}

// storeCards writes cards back with positions equal to their index.
func (s *memoryState) storeCards(cards []model.Card) {
	for i := range cards {
		cards[i].Position = i
		s.cards[cards[i].ID] = cards[i]
	}
}

func (s *memoryState) storeColumns(columns []model.Column) {
	for i := range columns {
		columns[i].Position = i
		columns[i].Cards = nil
		s.columns[columns[i].ID] = columns[i]
	}
}

type memoryUsers struct{ *memoryState }

func (m memoryUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Email == email }), nil
}

func (m memoryUsers) FindByFederatedID(_ context.Context, subject string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.FederatedID != "" && u.FederatedID == subject }), nil
}

func (m memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.ID == id }), nil
}

func (m memoryUsers) find(match func(model.User) bool) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

type memoryBoards struct{ *memoryState }

func (m memoryBoards) Create(_ context.Context, board *model.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if board.ID == uuid.Nil {
		board.ID = uuid.New()
	}
	now := time.Now()
	board.CreatedAt, board.UpdatedAt = now, now
	for i := range board.Columns {
		col := &board.Columns[i]
		if col.ID == uuid.Nil {
			col.ID = uuid.New()
		}
		col.BoardID = board.ID
		stored := *col
		stored.Cards = nil
		m.columns[col.ID] = stored
	}
	stored := *board
	stored.Columns = nil
	m.boards[board.ID] = stored
	return nil
}

func (m memoryBoards) GetOwned(_ context.Context, ownerID uuid.UUID) ([]model.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Board
	for _, b := range m.boards {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b model.Board) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (m memoryBoards) CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	boards, err := m.GetOwned(ctx, ownerID)
	return int64(len(boards)), err
}

func (m memoryBoards) GetByID(_ context.Context, id uuid.UUID) (*model.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m memoryBoards) GetTree(_ context.Context, id uuid.UUID) (*model.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok {
		return nil, nil
	}
	b.Columns = m.columnsOf(id)
	for i := range b.Columns {
		b.Columns[i].Cards = m.cardsOf(b.Columns[i].ID)
	}
	return &b, nil
}

func (m memoryBoards) Update(_ context.Context, board *model.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[board.ID]
	if !ok {
		return ErrBoardNotFound
	}
	b.Name = board.Name
	b.UpdatedAt = time.Now()
	m.boards[b.ID] = b
	return nil
}

func (m memoryBoards) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[id]; !ok {
		return ErrBoardNotFound
	}
	for _, col := range m.columnsOf(id) {
		for _, card := range m.cardsOf(col.ID) {
			delete(m.cards, card.ID)
		}
		delete(m.columns, col.ID)
	}
	delete(m.boards, id)
	return nil
}

type memoryColumns struct{ *memoryState }

func (m memoryColumns) Create(_ context.Context, column *model.Column) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if column.ID == uuid.Nil {
		column.ID = uuid.New()
	}
	stored := *column
	stored.Cards = nil
	m.columns[column.ID] = stored
	return nil
}

func (m memoryColumns) GetByID(_ context.Context, id uuid.UUID) (*model.Column, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.columns[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m memoryColumns) Update(_ context.Context, column *model.Column) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.columns[column.ID]
	if !ok {
		return ErrColumnNotFound
	}
	c.Name = column.Name
	m.columns[c.ID] = c
	return nil
}

func (m memoryColumns) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.columns[id]
	if !ok {
		return ErrColumnNotFound
	}
	for _, card := range m.cardsOf(id) {
		delete(m.cards, card.ID)
	}
	delete(m.columns, id)
	m.storeColumns(m.columnsOf(col.BoardID))
	return nil
}

func (m memoryColumns) NextPosition(_ context.Context, boardID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.columnsOf(boardID)), nil
}

type memoryCards struct{ *memoryState }

func (m memoryCards) Create(_ context.Context, card *model.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	now := time.Now()
	card.CreatedAt, card.UpdatedAt = now, now
	m.cards[card.ID] = *card
	return nil
}

func (m memoryCards) GetByID(_ context.Context, id uuid.UUID) (*model.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return nil, ErrCardNotFound
	}
	return &c, nil
}

func (m memoryCards) CountInColumn(_ context.Context, columnID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.cardsOf(columnID))), nil
}

func (m memoryCards) Update(_ context.Context, card *model.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[card.ID]
	if !ok {
		return ErrCardNotFound
	}
	c.Title = card.Title
	c.Description = card.Description
	c.UpdatedAt = time.Now()
	m.cards[c.ID] = c
	return nil
}

func (m memoryCards) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return ErrCardNotFound
	}
	delete(m.cards, id)
	m.storeCards(m.cardsOf(card.ColumnID))
	return nil
}

func (m memoryCards) Move(_ context.Context, cardID, columnID uuid.UUID, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[cardID]
	if !ok {
		return ErrCardNotFound
	}

	source := slices.DeleteFunc(m.cardsOf(card.ColumnID), func(c model.Card) bool { return c.ID == cardID })
	m.storeCards(source)

	target := m.cardsOf(columnID)
	if columnID == card.ColumnID {
		target = source
	}
	position = clamp(position, 0, len(target))
	card.ColumnID = columnID
	card.UpdatedAt = time.Now()
	target = slices.Insert(target, position, card)
	m.storeCards(target)
	return nil
}
