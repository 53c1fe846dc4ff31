package domain

import "time"

type MaintenanceThresholds struct {
	WindHours  float64
	SolarHours float64
}

func (t MaintenanceThresholds) For(device DeviceKind) float64 {
	if device == DeviceSolar {
		return t.SolarHours
	}
	return t.WindHours
}

type MaintenanceEvent struct {
	Device       DeviceKind `json:"device"`
	At           time.Time  `json:"at"`
	HoursAtReset float64    `json:"hours_at_reset"`
}

// MaintenanceState is the in-memory operating hour block. It is never persisted.
type MaintenanceState struct {
	WindHours  float64            `json:"wind_hours"`
	SolarHours float64            `json:"solar_hours"`
	Log        []MaintenanceEvent `json:"log"`
}

func (s MaintenanceState) Hours(device DeviceKind) float64 {
	if device == DeviceSolar {
		return s.SolarHours
	}
	return s.WindHours
}

type MaintenanceDeviceStatus struct {
	Device           DeviceKind `json:"device"`
	Hours            float64    `json:"hours"`
	ThresholdHours   float64    `json:"threshold_hours"`
	RemainingHours   float64    `json:"remaining_hours"`
	NeedsMaintenance bool       `json:"needs_maintenance"`
}

type MaintenanceStatus struct {
	Devices []MaintenanceDeviceStatus `json:"devices"`
	Log     []MaintenanceEvent        `json:"log"`
}

func (s MaintenanceStatus) Device(device DeviceKind) (MaintenanceDeviceStatus, bool) {
	for _, d := range s.Devices {
		if d.Device == device {
			return d, true
		}
	}
	return MaintenanceDeviceStatus{}, false
}
