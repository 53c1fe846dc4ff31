package domain

import (
	"fmt"
	"strings"
)

type DeviceKind string

const (
	DeviceWind  DeviceKind = "wind"
	DeviceSolar DeviceKind = "solar"
)

var AllDevices = []DeviceKind{DeviceWind, DeviceSolar}

func ParseDeviceKind(value string) (DeviceKind, bool) {
	switch DeviceKind(strings.ToLower(strings.TrimSpace(value))) {
	case DeviceWind:
		return DeviceWind, true
	case DeviceSolar:
		return DeviceSolar, true
	}
	return "", false
}

func (d DeviceKind) Label() string {
	switch d {
	case DeviceWind:
		return "Wind turbine"
	case DeviceSolar:
		return "Solar panel"
	}
	return string(d)
}

// DeviceReading is a single snapshot of a generation device.
type DeviceReading struct {
	Label          string  `json:"label"`
	TemperatureC   float64 `json:"temperature_c"`
	VoltageV       float64 `json:"voltage_v"`
	CurrentA       float64 `json:"current_a"`
	PowerMW        float64 `json:"power_mw"`
	NominalPowerMW float64 `json:"nominal_power_mw"`
}

// DefaultReading is the reading a device form starts from. Nominal power is set by the caller.
func DefaultReading(device DeviceKind) DeviceReading {
	switch device {
	case DeviceSolar:
		return DeviceReading{Label: device.Label(), TemperatureC: 50, VoltageV: 210, CurrentA: 9, PowerMW: 2.5}
	default:
		return DeviceReading{Label: device.Label(), TemperatureC: 60, VoltageV: 220, CurrentA: 12, PowerMW: 8}
	}
}

// ReadingLimits bounds manually entered readings. Lower bounds are always 0.
// Nominal power shares the power bound.
type ReadingLimits struct {
	MaxTemperatureC float64
	MaxVoltageV     float64
	MaxCurrentA     float64
	MaxPowerMW      float64
}

func LimitsFor(device DeviceKind) ReadingLimits {
	limits := ReadingLimits{MaxTemperatureC: 150, MaxVoltageV: 500, MaxCurrentA: 50, MaxPowerMW: 20}
	if device == DeviceSolar {
		limits.MaxPowerMW = 10
	}
	return limits
}

func (l ReadingLimits) Check(r DeviceReading) error {
	if err := inRange("temperature_c", r.TemperatureC, l.MaxTemperatureC); err != nil {
		return err
	}
	if err := inRange("voltage_v", r.VoltageV, l.MaxVoltageV); err != nil {
		return err
	}
	if err := inRange("current_a", r.CurrentA, l.MaxCurrentA); err != nil {
		return err
	}
	if err := inRange("power_mw", r.PowerMW, l.MaxPowerMW); err != nil {
		return err
	}
	return inRange("nominal_power_mw", r.NominalPowerMW, l.MaxPowerMW)
}

func inRange(field string, value, max float64) error {
	if value < 0 || value > max {
		return fmt.Errorf("%s must be within [0, %g], got %g", field, max, value)
	}
	return nil
}

type Verdict string

const (
	VerdictNormal    Verdict = "normal"
	VerdictFault     Verdict = "fault"
	VerdictWarning   Verdict = "warning"
	VerdictUndefined Verdict = "undefined"
)

type Check struct {
	Verdict Verdict `json:"verdict"`
	Message string  `json:"message"`
}

type DiagnosisThresholds struct {
	MaxTemperatureC      float64
	MinVoltageV          float64
	MaxCurrentA          float64
	MinEfficiencyPercent float64
}

// DiagnosisReport holds four independent checks. None of them depends on another.
type DiagnosisReport struct {
	Label             string  `json:"label"`
	Overheat          Check   `json:"overheat"`
	Undervoltage      Check   `json:"undervoltage"`
	Overcurrent       Check   `json:"overcurrent"`
	Yield             Check   `json:"yield"`
	EfficiencyPercent float64 `json:"efficiency_percent"`
}

func (r DiagnosisReport) HasFault() bool {
	return r.Overheat.Verdict == VerdictFault ||
		r.Undervoltage.Verdict == VerdictFault ||
		r.Overcurrent.Verdict == VerdictFault
}

func (r DiagnosisReport) HasWarning() bool {
	return r.Yield.Verdict == VerdictWarning
}
