// Package errmsg turns backend and transport errors into messages fit to
// show a user.
package errmsg

import "strings"

// Messages shared with callers that need to recognise them.
const (
	Unreachable = "Unable to connect to the server. Please check your internet connection and try again."
	Unexpected  = "An unexpected error occurred. Please try again or contact support if the problem persists."
)

type rule struct {
	match   func(string) bool
	message string
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func both(a, b func(string) bool) func(string) bool {
	return func(s string) bool { return a(s) && b(s) }
}

var federated = containsAny("Firebase", "Google")

// rules are tried in order; the first match wins.
var rules = []rule{
	{containsAny("Failed to fetch", "NetworkError", "connection refused", "no such host"), Unreachable},
	{containsAny("Cannot connect to server"), "Unable to connect to the server. Please make sure the service is running and try again."},

	{containsAny("Invalid email or password", "Invalid credentials"), "The email or password you entered is incorrect. Please try again."},
	{containsAny("User with this email already exists"), "An account with this email already exists. Please sign in instead."},
	{containsAny("Token expired", "expired"), "Your session has expired. Please sign in again."},
	{containsAny("Not authenticated", "Unauthorized"), "Please sign in to continue."},

	{both(federated, containsAny("popup", "cancelled")), "Sign in was cancelled. Please try again."},
	{both(federated, containsAny("network")), "Network error during sign in. Please check your connection and try again."},
	{federated, "Unable to sign in with Google. Please try again or use email and password."},

	{containsAny("Board not found"), "The board you're looking for could not be found."},
	{containsAny("Column not found"), "The column could not be found."},
	{containsAny("Card not found"), "The card could not be found."},
	{containsAny("Failed to load boards"), "Unable to load boards. Please refresh the page and try again."},
	{containsAny("Failed to load board"), "Unable to load your board. Please refresh the page and try again."},

	{containsAny("required", "missing"), "Please fill in all required fields."},
	{containsAny("invalid", "Invalid"), "The information you entered is invalid. Please check and try again."},

	{containsAny("500", "Internal server error"), "Something went wrong on our end. Please try again in a moment."},
	{containsAny("404", "not found"), "The requested resource could not be found."},
	{containsAny("403", "Forbidden"), "You don't have permission to perform this action."},

	{containsAny("failed", "error"), "Something went wrong. Please try again."},
}

// Message maps a raw error message onto a user-facing one. Unmatched
// messages pass through when they are short and carry no stack-trace
// markers.
func Message(raw string) string {
	for _, r := range rules {
		if r.match(raw) {
			return r.message
		}
	}
	if len(raw) < 100 && !strings.Contains(raw, "Error:") && !strings.Contains(raw, "at ") {
		return raw
	}
	return Unexpected
}

// Humanize returns Message(err.Error()), or "" for a nil error.
func Humanize(err error) string {
	if err == nil {
		return ""
	}
	return Message(err.Error())
}

// Error carries a humanized message while keeping the original error
// reachable through errors.Is and errors.As.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Wrap humanizes err. A nil err stays nil and an already wrapped error is
// returned unchanged.
func Wrap(err error) error {
	return WrapOr(err, "")
}

// WrapOr is Wrap with a fallback raw message for errors that carry none.
func WrapOr(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	raw := err.Error()
	if raw == "" {
		raw = fallback
	}
	return &Error{Message: Message(raw), Err: err}
}
