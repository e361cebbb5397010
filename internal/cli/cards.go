package cli

import (
	"context"
	"fmt"
	"strconv"

	flag "github.com/spf13/pflag"

	"kanny/internal/dnd"
)

func AddCardCmd(a *app) *Command {
	fs := flag.NewFlagSet("add-card", flag.ContinueOnError)
	fs.StringP("description", "d", "", "Description text")

	return &Command{
		Flags: fs,
		Usage: "add-card <column-id> <title> [-d <text>]",
		Short: "Append a card to a column, prints its ID",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 2, 2, "add-card <column-id> <title>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			description, _ := fs.GetString("description")
			card, err := a.store.CreateCard(ctx, args[0], args[1], description)
			if err != nil {
				return err
			}
			o.Println(card.ID)
			return nil
		},
	}
}

func EditCardCmd(a *app) *Command {
	fs := flag.NewFlagSet("edit-card", flag.ContinueOnError)
	fs.StringP("description", "d", "", "Description text, empty to clear")

	return &Command{
		Flags: fs,
		Usage: "edit-card <card-id> <title> [-d <text>]",
		Short: "Replace a card's title and description",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 2, 2, "edit-card <card-id> <title>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			description, _ := fs.GetString("description")
			return a.store.UpdateCard(ctx, args[0], args[1], description)
		},
	}
}

func RmCardCmd(a *app) *Command {
	return &Command{
		Usage: "rm-card <card-id>",
		Short: "Delete a card",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 1, 1, "rm-card <card-id>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			return a.store.DeleteCard(ctx, args[0])
		},
	}
}

func MvCmd(a *app) *Command {
	fs := flag.NewFlagSet("mv", flag.ContinueOnError)
	fs.StringP("board", "b", "", "Board holding the card (default: current board)")

	return &Command{
		Flags: fs,
		Usage: "mv <card-id> <column-id> <index>",
		Short: "Move a card to index in a column",
		Long: `Move a card to a zero-based index in a column, which may be its own.
The index is clamped to the column. The board is printed after the move.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 3, 3, "mv <card-id> <column-id> <index>"); err != nil {
				return err
			}
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("index must be a number: %q", args[2])
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			boardID, _ := fs.GetString("board")
			if _, err := a.loadBoard(ctx, boardID); err != nil {
				return err
			}
			if err := a.store.MoveCard(ctx, args[0], args[1], index); err != nil {
				return err
			}
			printBoard(o, a.store.Current())
			return nil
		},
	}
}

func DropCmd(a *app) *Command {
	fs := flag.NewFlagSet("drop", flag.ContinueOnError)
	fs.StringP("board", "b", "", "Board holding the card (default: current board)")
	fs.BoolP("yes", "y", false, "Confirm a drop on the delete zone without asking")

	return &Command{
		Flags: fs,
		Usage: "drop <card-id> <target-id>",
		Short: "Drag a card onto a card, a column or the delete zone",
		Long: `Drag a card and drop it on a target, as the board view does.

Dropping on a column appends the card to it; dropping on another card takes
that card's place. The target "` + dnd.DeleteZoneID + `" deletes the card after confirmation.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 2, 2, "drop <card-id> <target-id>"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			boardID, _ := fs.GetString("board")
			if _, err := a.loadBoard(ctx, boardID); err != nil {
				return err
			}

			drag := dnd.NewController(a.store, a.logger)
			if err := drag.Start(args[0]); err != nil {
				return err
			}
			intent, err := drag.Drop(ctx, args[1])
			if err != nil {
				return err
			}

			switch intent.Kind {
			case dnd.None:
				o.Println("Nothing to do")
				return nil
			case dnd.Delete:
				return confirmDelete(ctx, o, fs, drag)
			}
			printBoard(o, a.store.Current())
			return nil
		},
	}
}

func confirmDelete(ctx context.Context, o *IO, fs *flag.FlagSet, drag *dnd.Controller) error {
	yes, _ := fs.GetBool("yes")
	if !yes && !o.Confirm(dnd.DeletePrompt) {
		o.Println("Kept")
		return drag.CancelDelete()
	}
	if err := drag.ConfirmDelete(ctx); err != nil {
		return err
	}
	o.Println("Deleted")
	return nil
}
