package types

import "time"

// Calculation records one handled request line and its outcome. The
// numeric fields are nil when the line was rejected.
type Calculation struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"timestamp"`
	Route       string    `json:"route"`
	RequestLine string    `json:"request_line"`
	Status      int       `json:"status"`
	Message     string    `json:"message,omitempty"`
	Temperature *float64  `json:"temperature_c,omitempty"`
	Humidity    *float64  `json:"humidity_pct,omitempty"`
	Dewpoint    *float64  `json:"dewpoint_c,omitempty"`
	MouldIndex  *int      `json:"mould_index,omitempty"`
}

// OK reports whether the request produced a dew point.
func (c Calculation) OK() bool {
	return c.Dewpoint != nil
}
