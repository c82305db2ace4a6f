// Package psychro holds the psychrometric derivations served by the
// dewpoint endpoint: dew point via the Magnus-Tetens approximation and a
// table driven mould risk index.
package psychro

import "fmt"

const (
	MinTemperature = -40.0
	MaxTemperature = 80.0
	MinHumidity    = 0.0
	MaxHumidity    = 100.0
)

// TRH is a validated temperature (°C) and relative humidity (%) pair.
// The only way to obtain one is NewTRH, so every TRH is in range.
type TRH struct {
	t  float64
	rh float64
}

// Field names one half of a TRH.
type Field string

const (
	FieldT  Field = "t"
	FieldRH Field = "rh"
)

// RangeError reports the first bound a candidate pair violates.
type RangeError struct {
	Field Field
	Value float64
	Limit float64
	// Above is true when Value exceeds the upper bound.
	Above bool
}

func (e *RangeError) Error() string {
	if e.Above {
		return fmt.Sprintf("%s %v above max %v", e.Field, e.Value, e.Limit)
	}
	return fmt.Sprintf("%s %v below min %v", e.Field, e.Value, e.Limit)
}

// NewTRH range checks t then rh, upper bound before lower bound, and
// returns a *RangeError for the first violation. NaN passes every check.
func NewTRH(t, rh float64) (TRH, error) {
	switch {
	case t > MaxTemperature:
		return TRH{}, &RangeError{Field: FieldT, Value: t, Limit: MaxTemperature, Above: true}
	case t < MinTemperature:
		return TRH{}, &RangeError{Field: FieldT, Value: t, Limit: MinTemperature}
	case rh > MaxHumidity:
		return TRH{}, &RangeError{Field: FieldRH, Value: rh, Limit: MaxHumidity, Above: true}
	case rh < MinHumidity:
		return TRH{}, &RangeError{Field: FieldRH, Value: rh, Limit: MinHumidity}
	}
	return TRH{t: t, rh: rh}, nil
}

// T returns the temperature in degrees Celsius.
func (p TRH) T() float64 { return p.t }

// RH returns the relative humidity in percent.
func (p TRH) RH() float64 { return p.rh }
