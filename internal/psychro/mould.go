package psychro

import "math"

// mouldTable holds, per whole degree from 0 to 50 °C, the relative humidity
// thresholds for risk levels 0, 1 and 2. Column 0 is unused.
var mouldTable = [51][4]int{
	{0, 0, 0, 0},     // 0°
	{0, 97, 98, 100}, // 1°
	{0, 95, 97, 100}, // 2°
	{0, 93, 95, 100}, // 3°
	{0, 91, 93, 98},  // 4°
	{0, 88, 92, 97},  // 5°
	{0, 87, 91, 96},  // 6°
	{0, 86, 91, 95},  // 7°
	{0, 84, 90, 95},  // 8°
	{0, 83, 89, 94},  // 9°
	{0, 82, 88, 93},  // 10°
	{0, 81, 88, 93},  // 11°
	{0, 81, 88, 92},  // 12°
	{0, 80, 87, 92},  // 13°
	{0, 79, 87, 92},  // 14°
	{0, 79, 87, 91},  // 15°
	{0, 79, 86, 91},  // 16°
	{0, 79, 86, 91},  // 17°
	{0, 79, 86, 90},  // 18°
	{0, 79, 85, 90},  // 19°
	{0, 79, 85, 90},  // 20°
	{0, 79, 85, 90},  // 21°
	{0, 79, 85, 89},  // 22°
	{0, 79, 84, 89},  // 23°
	{0, 79, 84, 89},  // 24°
	{0, 79, 84, 89},  // 25°
	{0, 79, 84, 89},  // 26°
	{0, 79, 83, 88},  // 27°
	{0, 79, 83, 88},  // 28°
	{0, 79, 83, 88},  // 29°
	{0, 79, 83, 88},  // 30°
	{0, 79, 83, 88},  // 31°
	{0, 79, 83, 88},  // 32°
	{0, 79, 82, 88},  // 33°
	{0, 79, 82, 87},  // 34°
	{0, 79, 82, 87},  // 35°
	{0, 79, 82, 87},  // 36°
	{0, 79, 82, 87},  // 37°
	{0, 79, 82, 87},  // 38°
	{0, 79, 82, 87},  // 39°
	{0, 79, 82, 87},  // 40°
	{0, 79, 81, 87},  // 41°
	{0, 79, 81, 87},  // 42°
	{0, 79, 81, 87},  // 43°
	{0, 79, 81, 87},  // 44°
	{0, 79, 81, 86},  // 45°
	{0, 79, 81, 86},  // 46°
	{0, 79, 81, 86},  // 47°
	{0, 79, 80, 86},  // 48°
	{0, 79, 80, 86},  // 49°
	{0, 79, 80, 86},  // 50°
}

const MaxMouldIndex = 3

// MouldIndex returns the mould growth risk, 0 to 3, for p. Temperatures
// that round to 0 °C or below, or above 50 °C, always score 0.
func MouldIndex(p TRH) int {
	t := roundToInt(p.t)
	rh := roundToInt(p.rh)
	if t <= 0 || t > 50 {
		return 0
	}
	row := mouldTable[t]
	for col := 1; col < len(row); col++ {
		if rh <= row[col] {
			return col - 1
		}
	}
	return MaxMouldIndex
}

// roundToInt rounds half away from zero. NaN maps to 0 and out of range
// values saturate, so the result is always a usable table coordinate.
func roundToInt(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	switch {
	case r > math.MaxInt32:
		return math.MaxInt32
	case r < math.MinInt32:
		return math.MinInt32
	}
	return int(r)
}
