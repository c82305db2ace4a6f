package psychro

import "math"

const (
	magnusB = 17.67
	magnusC = 243.5
)

// Dewpoint returns the dew point in °C. rh = 0 yields a non-finite result
// which is returned as is.
func Dewpoint(p TRH) float64 {
	gamma := math.Log(100/p.rh) + (magnusB*p.t)/(magnusC+p.t)
	return magnusC * gamma / (magnusB - gamma)
}
