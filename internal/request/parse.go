package request

import (
	"errors"
	"strconv"
	"strings"

	"dewpoint-server/internal/psychro"
)

// Parse extracts t and rh from line using route and validates them in
// order: t parses, rh parses, then the range checks of psychro.NewTRH.
// Every failure is a *Error.
func Parse(route Route, line string) (psychro.TRH, error) {
	rawT, rawRH, err := route.Extract(line)
	if err != nil {
		return psychro.TRH{}, err
	}

	t, ok := parseNumber(rawT)
	if !ok {
		return psychro.TRH{}, &Error{Kind: InvalidNumber, Field: psychro.FieldT, Raw: rawT}
	}
	rh, ok := parseNumber(rawRH)
	if !ok {
		return psychro.TRH{}, &Error{Kind: InvalidNumber, Field: psychro.FieldRH, Raw: rawRH}
	}

	trh, err := psychro.NewTRH(t, rh)
	if err != nil {
		var rerr *psychro.RangeError
		if errors.As(err, &rerr) {
			return psychro.TRH{}, &Error{Kind: OutOfRange, Field: rerr.Field, Range: rerr}
		}
		return psychro.TRH{}, err
	}
	return trh, nil
}

// parseNumber accepts decimal floats, including inf and nan spellings.
// Hex floats and digit separators are rejected. Magnitudes beyond float64
// saturate instead of failing.
func parseNumber(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Overflow saturates to ±inf and underflow to 0.
		if errors.Is(err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}
