package events

import (
	"testing"

	"github.com/berfenger/hybridplant/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byId(events []any) map[string]any {
	m := make(map[string]any)
	for _, e := range events {
		m[e.(domain.SensorUpdateEvent).SensorId()] = e
	}
	return m
}

func TestDiagnosisEvents(t *testing.T) {
	report := domain.DiagnosisReport{
		Overheat:          domain.Check{Verdict: domain.VerdictFault},
		Undervoltage:      domain.Check{Verdict: domain.VerdictNormal},
		Overcurrent:       domain.Check{Verdict: domain.VerdictNormal},
		Yield:             domain.Check{Verdict: domain.VerdictWarning},
		EfficiencyPercent: 75,
	}
	m := byId(DiagnosisToUpdateEvents(domain.DeviceSolar, &report))

	require.Len(t, m, 5)
	assert.True(t, m["solar_overheat"].(domain.BinarySensorUpdateEvent).Value)
	assert.False(t, m["solar_undervoltage"].(domain.BinarySensorUpdateEvent).Value)
	assert.True(t, m["solar_low_production"].(domain.BinarySensorUpdateEvent).Value)
	assert.Equal(t, 75.0, m["solar_efficiency"].(domain.FloatSensorUpdateEvent).Value)
}

func TestDiagnosisEventsWithoutEfficiency(t *testing.T) {
	report := domain.DiagnosisReport{Yield: domain.Check{Verdict: domain.VerdictUndefined}}
	m := byId(DiagnosisToUpdateEvents(domain.DeviceWind, &report))

	assert.NotContains(t, m, "wind_efficiency")
	assert.False(t, m["wind_low_production"].(domain.BinarySensorUpdateEvent).Value)
}

func TestMaintenanceEvents(t *testing.T) {
	status := domain.MaintenanceStatus{Devices: []domain.MaintenanceDeviceStatus{
		{Device: domain.DeviceWind, Hours: 1000, NeedsMaintenance: true},
		{Device: domain.DeviceSolar, Hours: 10},
	}}
	m := byId(MaintenanceToUpdateEvents(&status))

	require.Len(t, m, 4)
	assert.Equal(t, 1000.0, m["wind_operating_hours"].(domain.FloatSensorUpdateEvent).Value)
	assert.True(t, m["wind_needs_maintenance"].(domain.BinarySensorUpdateEvent).Value)
	assert.False(t, m["solar_needs_maintenance"].(domain.BinarySensorUpdateEvent).Value)
}

func TestControlEvents(t *testing.T) {
	state := domain.ControlState{SolarSupplyW: 200, WindSupplyW: 150, DemandW: 300, SOC: 50}

	m := byId(ControlToUpdateEvents(&state, ""))
	assert.Len(t, m, 4)
	assert.Equal(t, 50.0, m[domain.SENSOR_ID_BATTERY_SOC].(domain.FloatSensorUpdateEvent).Value)

	m = byId(ControlToUpdateEvents(&state, domain.ControlActionStored))
	assert.Equal(t, "stored", m[domain.SENSOR_ID_CONTROL_ACTION].(domain.TextSensorUpdateEvent).Value)
}
