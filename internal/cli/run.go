// Package cli implements the kanny command line: one-shot commands against
// the backend plus the interactive board view.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	flag "github.com/spf13/pflag"

	"kanny/internal/api"
	"kanny/internal/board"
	"kanny/internal/config"
	"kanny/internal/credentials"
	"kanny/internal/session"
)

var errNotSignedIn = errors.New("not signed in, run kanny login first")

// app is what commands share once the global flags and config are read.
type app struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger

	client  *api.Client
	session *session.Manager
	store   *board.Store
}

// requireSession restores the stored session, refreshing it once when the
// access token is stale.
func (a *app) requireSession(ctx context.Context) error {
	a.session.Init(ctx)
	if !a.session.IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}

func commands(a *app) []*Command {
	return []*Command{
		SignupCmd(a),
		LoginCmd(a),
		LogoutCmd(a),
		WhoamiCmd(a),
		BoardsCmd(a),
		NewBoardCmd(a),
		RenameBoardCmd(a),
		RmBoardCmd(a),
		ShowCmd(a),
		AddColumnCmd(a),
		RenameColumnCmd(a),
		RmColumnCmd(a),
		AddCardCmd(a),
		EditCardCmd(a),
		RmCardCmd(a),
		MvCmd(a),
		DropCmd(a),
		TUICmd(a),
	}
}

// Run is the main entry point. args include the program name; env is in
// os.Environ form. Returns the exit code.
func Run(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string, env []string) int {
	global := flag.NewFlagSet("kanny", flag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(&strings.Builder{})
	apiURL := global.String("api", "", "Backend API URL")
	credsPath := global.String("credentials", "", "Credentials file")
	configPath := global.StringP("config", "c", "", "Config file (YAML)")
	logLevel := global.String("log-level", "", "Log level: debug|info|warn|error")
	help := global.BoolP("help", "h", false, "Show help")

	a := &app{in: in, out: out}
	cmds := commands(a)

	if len(args) > 0 {
		args = args[1:]
	}
	if err := global.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, global, cmds)
		return 1
	}

	rest := global.Args()
	if *help || len(rest) == 0 {
		printUsage(out, global, cmds)
		return 0
	}

	var cmd *Command
	for _, c := range cmds {
		if c.Name() == rest[0] {
			cmd = c
		}
	}
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", rest[0])
		printUsage(errOut, global, cmds)
		return 1
	}

	cfg, err := config.LoadClient(env, *configPath)
	if err != nil {
		fprintln(errOut, "error:", err)
		return 1
	}
	if *apiURL != "" {
		cfg.APIURL = strings.TrimRight(*apiURL, "/")
	}
	if *credsPath != "" {
		cfg.Credentials = *credsPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := a.wire(cfg, errOut); err != nil {
		fprintln(errOut, "error:", err)
		return 1
	}

	return cmd.Run(ctx, NewIO(in, out, errOut), rest[1:])
}

func (a *app) wire(cfg config.Client, errOut io.Writer) error {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	client, err := api.New(cfg.APIURL, credentials.NewFile(cfg.Credentials),
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}
	a.client = client
	a.session = session.New(client, a.logger)
	a.store = board.NewStore(client, a.logger)
	a.logger.Debug("configured", "api", cfg.APIURL, "credentials", cfg.Credentials)
	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, global *flag.FlagSet, cmds []*Command) {
	fprintln(w, "kanny - kanban boards from the terminal")
	fprintln(w)
	fprintln(w, "Usage: kanny [global flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Commands:")
	for _, c := range cmds {
		fprintln(w, c.HelpLine())
	}
	fprintln(w)
	fprintln(w, "Global flags:")
	var buf strings.Builder
	global.SetOutput(&buf)
	global.PrintDefaults()
	global.SetOutput(&strings.Builder{})
	_, _ = io.WriteString(w, buf.String())
	fprintln(w)
	fprintln(w, "Run 'kanny <command> --help' for details.")
}

// needArgs checks the positional argument count against usage.
func needArgs(args []string, least, most int, usage string) error {
	if len(args) < least || (most >= 0 && len(args) > most) {
		return fmt.Errorf("usage: kanny %s", usage)
	}
	return nil
}
