package port

import (
	"time"

	"github.com/berfenger/hybridplant/internal/core/domain"
)

type DiagnosisLogic interface {
	Diagnose(reading domain.DeviceReading) domain.DiagnosisReport
}

type MaintenanceLogic interface {
	AddHours(state *domain.MaintenanceState, device domain.DeviceKind, hours float64) error
	NeedsMaintenance(state domain.MaintenanceState, device domain.DeviceKind) bool
	PerformMaintenance(state *domain.MaintenanceState, device domain.DeviceKind, at time.Time) error
	ResetAll(state *domain.MaintenanceState)
	Status(state domain.MaintenanceState) domain.MaintenanceStatus
}

type StabilitySimulator interface {
	Simulate() domain.StabilityReport
}

// RandomSource is satisfied by *math/rand/v2.Rand.
type RandomSource interface {
	Float64() float64
}

type ControlLoopLogic interface {
	Step(state domain.ControlState, random RandomSource) domain.ControlStepResult
	Reset() domain.ControlState
}
