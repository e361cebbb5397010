package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"
)

var errLoginArgs = errors.New("login needs --email and --password, or --id-token")

func SignupCmd(a *app) *Command {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.String("email", "", "Email address")
	fs.String("password", "", "Password")
	fs.String("name", "", "Display name")

	return &Command{
		Flags: fs,
		Usage: "signup --email <e> --password <p> --name <n>",
		Short: "Create an account and sign in",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			email, _ := fs.GetString("email")
			password, _ := fs.GetString("password")
			name, _ := fs.GetString("name")
			if err := a.session.Signup(ctx, email, password, name); err != nil {
				return err
			}
			printSignedIn(o, a)
			return nil
		},
	}
}

func LoginCmd(a *app) *Command {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.String("email", "", "Email address")
	fs.String("password", "", "Password")
	fs.String("id-token", "", "ID token from the identity provider")

	return &Command{
		Flags: fs,
		Usage: "login [--email <e> --password <p> | --id-token <t>]",
		Short: "Sign in",
		Long: `Sign in with email and password, or with an ID token issued by the
federated identity provider. The session is kept in the credentials file.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			email, _ := fs.GetString("email")
			password, _ := fs.GetString("password")
			idToken, _ := fs.GetString("id-token")

			var err error
			switch {
			case idToken != "":
				err = a.session.FederatedLogin(ctx, idToken)
			case email != "" && password != "":
				err = a.session.Login(ctx, email, password)
			default:
				return errLoginArgs
			}
			if err != nil {
				return err
			}
			printSignedIn(o, a)
			return nil
		},
	}
}

func LogoutCmd(a *app) *Command {
	return &Command{
		Usage: "logout",
		Short: "Sign out and forget the stored session",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			a.session.Logout(ctx)
			o.Println("Signed out")
			return nil
		},
	}
}

func WhoamiCmd(a *app) *Command {
	return &Command{
		Usage: "whoami",
		Short: "Show the signed-in user",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			u := a.session.User()
			o.Printf("%s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
}

func printSignedIn(o *IO, a *app) {
	if u := a.session.User(); u != nil {
		o.Printf("Signed in as %s <%s>\n", u.Name, u.Email)
	}
}
