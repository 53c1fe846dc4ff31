package events

import (
	. "github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/pkg/telemetry_modbus"
)

func TelemetryToUpdateEvents(device DeviceKind, t *telemetry_modbus.TelemetryBlock) []any {
	var events []any

	// Device Temperature
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: DeviceSensorId(device, SENSOR_SUFFIX_TEMPERATURE),
		},
		Value:    t.TemperatureC,
		Decimals: 1,
	})
	// Device Voltage
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: DeviceSensorId(device, SENSOR_SUFFIX_VOLTAGE),
		},
		Value:    t.VoltageV,
		Decimals: 1,
	})
	// Device Current
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: DeviceSensorId(device, SENSOR_SUFFIX_CURRENT),
		},
		Value:    t.CurrentA,
		Decimals: 2,
	})
	// Device Power
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: DeviceSensorId(device, SENSOR_SUFFIX_POWER),
		},
		Value:    t.PowerMW,
		Decimals: 3,
	})

	return events
}

func DiagnosisToUpdateEvents(device DeviceKind, report *DiagnosisReport) []any {
	var events []any

	if report.Yield.Verdict != VerdictUndefined {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: DeviceSensorId(device, SENSOR_SUFFIX_EFFICIENCY),
			},
			Value:    report.EfficiencyPercent,
			Decimals: 2,
		})
	}
	events = append(events, checkEvent(device, SENSOR_SUFFIX_OVERHEAT, report.Overheat, VerdictFault))
	events = append(events, checkEvent(device, SENSOR_SUFFIX_UNDERVOLTAGE, report.Undervoltage, VerdictFault))
	events = append(events, checkEvent(device, SENSOR_SUFFIX_OVERCURRENT, report.Overcurrent, VerdictFault))
	events = append(events, checkEvent(device, SENSOR_SUFFIX_LOW_PRODUCTION, report.Yield, VerdictWarning))

	return events
}

func checkEvent(device DeviceKind, suffix string, check Check, active Verdict) any {
	return BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: DeviceSensorId(device, suffix),
		},
		Value: check.Verdict == active,
	}
}

func MaintenanceToUpdateEvents(status *MaintenanceStatus) []any {
	var events []any
	for _, d := range status.Devices {
		// Operating Hours
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: DeviceSensorId(d.Device, SENSOR_SUFFIX_OPERATING_HOURS),
			},
			Value:    d.Hours,
			Decimals: 1,
		})
		// Needs Maintenance
		events = append(events, BinarySensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: DeviceSensorId(d.Device, SENSOR_SUFFIX_NEEDS_MAINTENANCE),
			},
			Value: d.NeedsMaintenance,
		})
	}
	return events
}

func StabilityToUpdateEvents(report *StabilityReport) []any {
	var events []any

	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_GRID_UNSTABLE_HOURS,
		},
		Value:    float64(len(report.UnstableHours)),
		Decimals: 0,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_GRID_MIN_FREQUENCY,
		},
		Value:    report.MinFrequencyHz,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_GRID_MAX_FREQUENCY,
		},
		Value:    report.MaxFrequencyHz,
		Decimals: 2,
	})
	events = append(events, BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_GRID_STABLE,
		},
		Value: report.Stable,
	})

	return events
}

// ControlToUpdateEvents maps a control state. action may be empty after a reset.
func ControlToUpdateEvents(state *ControlState, action ControlAction) []any {
	var events []any

	// Battery SoC
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BATTERY_SOC,
		},
		Value:    state.SOC,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_CONTROL_SOLAR_SUPPLY,
		},
		Value:    state.SolarSupplyW,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_CONTROL_WIND_SUPPLY,
		},
		Value:    state.WindSupplyW,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_CONTROL_DEMAND,
		},
		Value:    state.DemandW,
		Decimals: 2,
	})
	if action != "" {
		events = append(events, TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_CONTROL_ACTION,
			},
			Value: string(action),
		})
	}

	return events
}

func ControlAutorunSwitchUpdateEvent(enabled bool) any {
	return SwitchSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SWITCH_ID_CONTROL_AUTORUN,
		},
		Value: enabled,
	}
}
