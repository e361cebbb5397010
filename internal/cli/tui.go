package cli

import (
	"context"

	"kanny/internal/dnd"
	"kanny/internal/tui"
)

func TUICmd(a *app) *Command {
	return &Command{
		Usage: "tui [board-id]",
		Short: "Open the interactive board view",
		Long: `Open the interactive board view on a board, or on the current board.

Move with h/j/k/l or the arrow keys, pick up and drop cards with space,
add a card with a, reload with r and quit with q.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := needArgs(args, 0, 1, "tui [board-id]"); err != nil {
				return err
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			drag := dnd.NewController(a.store, a.logger)
			return tui.Run(ctx, tui.New(ctx, a.store, drag, first(args)), a.in, a.out)
		},
	}
}
