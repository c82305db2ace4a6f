package request

import (
	"fmt"

	"dewpoint-server/internal/psychro"
	"dewpoint-server/internal/utils"
)

// Kind classifies a request line that could not be turned into a TRH.
type Kind int

const (
	WrongRoute Kind = iota + 1
	MissingField
	InvalidNumber
	OutOfRange
)

func (k Kind) String() string {
	switch k {
	case WrongRoute:
		return "wrong_route"
	case MissingField:
		return "missing_field"
	case InvalidNumber:
		return "invalid_number"
	case OutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// Error is returned by Parse. Error() renders the client facing message.
type Error struct {
	Kind Kind
	// Field is set for InvalidNumber and OutOfRange.
	Field psychro.Field
	// Raw is the segment text as received, set for InvalidNumber.
	Raw string
	// Usage is the path pattern, set for MissingField.
	Usage string
	// Range is set for OutOfRange.
	Range *psychro.RangeError
}

func (e *Error) Error() string {
	switch e.Kind {
	case WrongRoute:
		return "Only GET to /dewpoint is allowed!"
	case MissingField:
		return "t or rh is missing! Request must be " + e.Usage
	case InvalidNumber:
		return fmt.Sprintf("Cannot convert %s to a float! Got '%s'!", e.Field, e.Raw)
	case OutOfRange:
		r := e.Range
		if r.Above {
			return fmt.Sprintf("%s is too high! Got '%s'! Max allowed %s is %s!",
				r.Field, utils.FormatFloat(r.Value), r.Field, utils.FormatFloat(r.Limit))
		}
		return fmt.Sprintf("%s is too low! Got '%s'! Min allowed %s is %s!",
			r.Field, utils.FormatFloat(r.Value), r.Field, utils.FormatFloat(r.Limit))
	default:
		return "invalid request"
	}
}
