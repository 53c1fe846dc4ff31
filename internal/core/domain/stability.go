package domain

type StabilityParams struct {
	DemandMW             float64
	NominalFrequencyHz   float64
	FrequencyGainHzPerMW float64
	FrequencyToleranceHz float64
	NominalVoltageV      float64
	VoltageGain          float64
	VoltageTolerance     float64
	WindBaseMW           float64
	WindAmplitudeMW      float64
	WindMaxMW            float64
	SolarAmplitudeMW     float64
	SunriseHour          int
	SunsetHour           int
}

// HourlySample is derived entirely from the hour and the fixed parameters.
type HourlySample struct {
	Hour        int     `json:"hour"`
	WindMW      float64 `json:"wind_mw"`
	SolarMW     float64 `json:"solar_mw"`
	TotalMW     float64 `json:"total_mw"`
	DemandMW    float64 `json:"demand_mw"`
	FrequencyHz float64 `json:"frequency_hz"`
	VoltageV    float64 `json:"voltage_v"`
	Stable      bool    `json:"stable"`
}

type StabilityReport struct {
	Samples        []HourlySample `json:"samples"`
	UnstableHours  []int          `json:"unstable_hours"`
	MinFrequencyHz float64        `json:"min_frequency_hz"`
	MaxFrequencyHz float64        `json:"max_frequency_hz"`
	Stable         bool           `json:"stable"`
}
