package solardb

import "math"

// ProductionReading is one stored sample. Timestamps are Unix seconds,
// energy is stored as non-negative integer watt-hours.
type ProductionReading struct {
	Timestamp int64  `db:"timestamp"`
	WattHours uint32 `db:"watt_hours"`
}

// No negative values
func KwhToWh(kwh float64) uint32 {
	if kwh < 0 {
		return 0
	}
	return uint32(math.Round(kwh * 1000))
}

func WhToKwh(wh uint32) float64 {
	return float64(wh) / 1000
}
