package service

import (
	"errors"
	"math"
	"time"

	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/core/port"

	"go.uber.org/zap"
)

const (
	WIND_MAINTENANCE_HOURS  = 1000.0
	SOLAR_MAINTENANCE_HOURS = 1500.0
)

var (
	ErrNegativeHours = errors.New("operating hours must be >= 0")
	ErrInvalidHours  = errors.New("operating hours must be a finite number")
	ErrUnknownDevice = errors.New("unknown device")
)

func DefaultMaintenanceThresholds() domain.MaintenanceThresholds {
	return domain.MaintenanceThresholds{
		WindHours:  WIND_MAINTENANCE_HOURS,
		SolarHours: SOLAR_MAINTENANCE_HOURS,
	}
}

type DefaultMaintenanceLogic struct {
	Thresholds domain.MaintenanceThresholds
	Logger     *zap.Logger
}

func (l *DefaultMaintenanceLogic) AddHours(state *domain.MaintenanceState, device domain.DeviceKind, hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return ErrInvalidHours
	}
	if hours < 0 {
		return ErrNegativeHours
	}
	counter, err := counterFor(state, device)
	if err != nil {
		return err
	}
	// the counter stays finite so the status can always be serialized
	total := *counter + hours
	if math.IsInf(total, 0) {
		return ErrInvalidHours
	}
	*counter = total
	return nil
}

func (l *DefaultMaintenanceLogic) NeedsMaintenance(state domain.MaintenanceState, device domain.DeviceKind) bool {
	return state.Hours(device) >= l.Thresholds.For(device)
}

// PerformMaintenance is allowed before the threshold is reached.
func (l *DefaultMaintenanceLogic) PerformMaintenance(state *domain.MaintenanceState, device domain.DeviceKind, at time.Time) error {
	counter, err := counterFor(state, device)
	if err != nil {
		return err
	}
	state.Log = append(state.Log, domain.MaintenanceEvent{
		Device:       device,
		At:           at,
		HoursAtReset: *counter,
	})
	l.logger().Info("maintenance performed", zap.String("device", string(device)), zap.Float64("hours", *counter))
	*counter = 0
	return nil
}

func (l *DefaultMaintenanceLogic) ResetAll(state *domain.MaintenanceState) {
	state.WindHours = 0
	state.SolarHours = 0
	state.Log = nil
	l.logger().Info("maintenance counters reset")
}

func (l *DefaultMaintenanceLogic) Status(state domain.MaintenanceState) domain.MaintenanceStatus {
	status := domain.MaintenanceStatus{
		Log: append([]domain.MaintenanceEvent(nil), state.Log...),
	}
	for _, device := range domain.AllDevices {
		hours := state.Hours(device)
		threshold := l.Thresholds.For(device)
		remaining := threshold - hours
		if remaining < 0 {
			remaining = 0
		}
		status.Devices = append(status.Devices, domain.MaintenanceDeviceStatus{
			Device:           device,
			Hours:            hours,
			ThresholdHours:   threshold,
			RemainingHours:   remaining,
			NeedsMaintenance: l.NeedsMaintenance(state, device),
		})
	}
	return status
}

func (l *DefaultMaintenanceLogic) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func counterFor(state *domain.MaintenanceState, device domain.DeviceKind) (*float64, error) {
	switch device {
	case domain.DeviceWind:
		return &state.WindHours, nil
	case domain.DeviceSolar:
		return &state.SolarHours, nil
	}
	return nil, ErrUnknownDevice
}

// ensure interface compliance
var _ port.MaintenanceLogic = (*DefaultMaintenanceLogic)(nil)
