package feed

import "encoding/json"

// ProductionSample is the subset of the interpreter's live reading the
// collector cares about. Unknown fields on the wire are ignored.
type ProductionSample struct {
	Timestamp               string  `json:"timestamp"`
	CurrentProductionKW     float64 `json:"current_production_kw"`
	TotalProductionDayKWH   float64 `json:"total_production_day_kwh"`
	TotalProductionNightKWH float64 `json:"total_production_night_kwh"`
}

// TotalProductionKWH is the meter's accumulated production standing
// across both tariffs.
func (s *ProductionSample) TotalProductionKWH() float64 {
	return s.TotalProductionDayKWH + s.TotalProductionNightKWH
}

func (s *ProductionSample) ToJsonBytes() []byte {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return data
}

func SampleFromJsonBytes(data []byte) *ProductionSample {
	var sample ProductionSample
	if err := json.Unmarshal(data, &sample); err != nil {
		return nil
	}
	return &sample
}
