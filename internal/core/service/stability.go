package service

import (
	"math"

	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/core/port"
)

const HOURS_PER_DAY = 24

func DefaultStabilityParams() domain.StabilityParams {
	return domain.StabilityParams{
		DemandMW:             11.5,
		NominalFrequencyHz:   50.0,
		FrequencyGainHzPerMW: 0.2,
		FrequencyToleranceHz: 0.5,
		NominalVoltageV:      230.0,
		VoltageGain:          0.1,
		VoltageTolerance:     0.05,
		WindBaseMW:           5,
		WindAmplitudeMW:      5,
		WindMaxMW:            10,
		SolarAmplitudeMW:     3,
		SunriseHour:          6,
		SunsetHour:           18,
	}
}

// WindOutputMW follows a 24h sine around the base output, clamped to [0, WindMaxMW].
func WindOutputMW(p domain.StabilityParams, hour int) float64 {
	out := p.WindBaseMW + p.WindAmplitudeMW*math.Sin(float64(hour)*math.Pi/12)
	return math.Max(0, math.Min(p.WindMaxMW, out))
}

// SolarOutputMW is a half sine between sunrise and sunset, zero outside.
func SolarOutputMW(p domain.StabilityParams, hour int) float64 {
	if hour < p.SunriseHour || hour > p.SunsetHour || p.SunsetHour <= p.SunriseHour {
		return 0
	}
	daylight := float64(p.SunsetHour - p.SunriseHour)
	return p.SolarAmplitudeMW * math.Sin(float64(hour-p.SunriseHour)*math.Pi/daylight)
}

func GridFrequencyHz(p domain.StabilityParams, totalMW float64) float64 {
	return p.NominalFrequencyHz + (totalMW-p.DemandMW)*p.FrequencyGainHzPerMW
}

// GridVoltageV returns the nominal voltage when demand is zero.
func GridVoltageV(p domain.StabilityParams, totalMW float64) float64 {
	if p.DemandMW == 0 {
		return p.NominalVoltageV
	}
	return p.NominalVoltageV * (1 + ((totalMW-p.DemandMW)/p.DemandMW)*p.VoltageGain)
}

type DefaultStabilitySimulator struct {
	Params domain.StabilityParams
}

func (s *DefaultStabilitySimulator) Sample(hour int) domain.HourlySample {
	p := s.Params
	wind := WindOutputMW(p, hour)
	solar := SolarOutputMW(p, hour)
	total := wind + solar
	freq := GridFrequencyHz(p, total)
	voltage := GridVoltageV(p, total)

	freqOk := freq >= p.NominalFrequencyHz-p.FrequencyToleranceHz && freq <= p.NominalFrequencyHz+p.FrequencyToleranceHz
	voltageOk := voltage >= (1-p.VoltageTolerance)*p.NominalVoltageV && voltage <= (1+p.VoltageTolerance)*p.NominalVoltageV

	return domain.HourlySample{
		Hour:        hour,
		WindMW:      wind,
		SolarMW:     solar,
		TotalMW:     total,
		DemandMW:    p.DemandMW,
		FrequencyHz: freq,
		VoltageV:    voltage,
		Stable:      freqOk && voltageOk,
	}
}

func (s *DefaultStabilitySimulator) Simulate() domain.StabilityReport {
	report := domain.StabilityReport{
		Samples:        make([]domain.HourlySample, 0, HOURS_PER_DAY),
		UnstableHours:  []int{},
		MinFrequencyHz: math.Inf(1),
		MaxFrequencyHz: math.Inf(-1),
	}
	for h := 0; h < HOURS_PER_DAY; h++ {
		sample := s.Sample(h)
		report.Samples = append(report.Samples, sample)
		if !sample.Stable {
			report.UnstableHours = append(report.UnstableHours, h)
		}
		report.MinFrequencyHz = math.Min(report.MinFrequencyHz, sample.FrequencyHz)
		report.MaxFrequencyHz = math.Max(report.MaxFrequencyHz, sample.FrequencyHz)
	}
	report.Stable = len(report.UnstableHours) == 0
	return report
}

// ensure interface compliance
var _ port.StabilitySimulator = (*DefaultStabilitySimulator)(nil)
