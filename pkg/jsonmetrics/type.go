package jsonmetrics

// metricRow mirrors one object in an extraction output file. Unknown
// fields are ignored; a missing or null value still counts as a reading
// with 0 kWh.
type metricRow struct {
	Timestamp string   `json:"timestamp"`
	ValueKwh  *float64 `json:"value_kwh"`
}
