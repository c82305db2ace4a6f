// Package request turns the first line of an HTTP request into a validated
// psychro.TRH.
package request

import "strings"

// Route extracts the raw t and rh segments from a request line.
type Route interface {
	// Name identifies the route in logs and the journal.
	Name() string
	Extract(line string) (t string, rh string, err error)
}

// GenericRoute accepts /{t}/{rh} with any method.
type GenericRoute struct{}

// DewpointRoute accepts GET /dewpoint/{t}/{rh}.
type DewpointRoute struct{}

const (
	genericUsage  = "/{t}/{rh}"
	dewpointUsage = "/dewpoint/{t}/{rh}"
	dewpointGuard = "GET /dewpoint/"
)

func (GenericRoute) Name() string { return "mould" }

func (GenericRoute) Extract(line string) (string, string, error) {
	return segments(line, 1, genericUsage)
}

func (DewpointRoute) Name() string { return "dewpoint" }

func (DewpointRoute) Extract(line string) (string, string, error) {
	if !strings.HasPrefix(line, dewpointGuard) {
		return "", "", &Error{Kind: WrongRoute}
	}
	return segments(line, 2, dewpointUsage)
}

// segments splits the path token of line on "/" and returns the segments at
// index first and first+1. A line without a path token is reported as
// missing fields.
func segments(line string, first int, usage string) (string, string, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) < 2 {
		return "", "", &Error{Kind: MissingField, Usage: usage}
	}
	parts := strings.Split(tokens[1], "/")
	if len(parts) <= first+1 {
		return "", "", &Error{Kind: MissingField, Usage: usage}
	}
	return parts[first], parts[first+1], nil
}
