package cli

import (
	"context"
	"errors"

	"kanny/internal/api"
)

func BoardsCmd(a *app) *Command {
	return &Command{
		Usage: "boards",
		Short: "List your boards",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			if err := a.store.LoadBoards(ctx); err != nil {
				return err
			}
			boards := a.store.Boards()
			if len(boards) == 0 {
				o.Println("No boards.")
				return nil
			}
			for _, b := range boards {
				o.Printf("%-36s  %s\n", b.ID, b.Name)
			}
			return nil
		},
	}
}

func NewBoardCmd(a *app) *Command {
	return &Command{
		Usage: "new-board <name>",
		Short: "Create a board, prints its ID",
		Long:  "Create a board with the default To Do, In Progress and Done columns. Prints the board ID.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 1, 1, "new-board <name>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			b, err := a.store.CreateBoard(ctx, args[0])
			if err != nil {
				return err
			}
			o.Println(b.ID)
			return nil
		},
	}
}

func RenameBoardCmd(a *app) *Command {
	return &Command{
		Usage: "rename-board <board-id> <name>",
		Short: "Rename a board",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 2, 2, "rename-board <board-id> <name>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			return a.store.UpdateBoard(ctx, args[0], args[1])
		},
	}
}

func RmBoardCmd(a *app) *Command {
	return &Command{
		Usage: "rm-board <board-id>",
		Short: "Delete a board with its columns and cards",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 1, 1, "rm-board <board-id>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			return a.store.DeleteBoard(ctx, args[0])
		},
	}
}

func ShowCmd(a *app) *Command {
	return &Command{
		Usage: "show [board-id]",
		Short: "Print a board with its columns and cards",
		Long:  "Print a board with its columns and cards. Without an ID the current board is shown, created on first use.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 0, 1, "show [board-id]"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			b, err := a.loadBoard(ctx, first(args))
			if err != nil {
				return err
			}
			printBoard(o, b)
			return nil
		},
	}
}

func AddColumnCmd(a *app) *Command {
	return &Command{
		Usage: "add-column <board-id> <name>",
		Short: "Append a column to a board, prints its ID",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 2, 2, "add-column <board-id> <name>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			col, err := a.store.CreateColumn(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			o.Println(col.ID)
			return nil
		},
	}
}

func RenameColumnCmd(a *app) *Command {
	return &Command{
		Usage: "rename-column <column-id> <name>",
		Short: "Rename a column",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 2, 2, "rename-column <column-id> <name>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			return a.store.UpdateColumn(ctx, args[0], args[1])
		},
	}
}

func RmColumnCmd(a *app) *Command {
	return &Command{
		Usage: "rm-column <column-id>",
		Short: "Delete a column and its cards",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 1, 1, "rm-column <column-id>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			return a.store.DeleteColumn(ctx, args[0])
		},
	}
}

// loadBoard loads id into the store, or the current board when id is empty.
func (a *app) loadBoard(ctx context.Context, id string) (*api.Board, error) {
	var err error
	if id == "" {
		err = a.store.LoadCurrentBoard(ctx)
	} else {
		err = a.store.LoadBoard(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	b := a.store.Current()
	if b == nil {
		return nil, errors.New("board not loaded")
	}
	return b, nil
}

func printBoard(o *IO, b *api.Board) {
	o.Printf("%s  (%s)\n", b.Name, b.ID)
	if len(b.Columns) == 0 {
		o.Println()
		o.Println("No columns found.")
		return
	}
	for _, col := range b.Columns {
		o.Println()
		o.Printf("%s  (%s)\n", col.Name, col.ID)
		if len(col.Cards) == 0 {
			o.Println("  (empty)")
		}
		for _, card := range col.Cards {
			o.Printf("  %d. %s  (%s)\n", card.Position, card.Title, card.ID)
			if card.Description != nil && *card.Description != "" {
				o.Printf("     %s\n", *card.Description)
			}
		}
	}
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
