package service

import (
	"fmt"
	"math"

	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/core/port"
)

const (
	TEMP_MAX_C             = 75.0
	VOLTAGE_MIN_V          = 200.0
	CURRENT_MAX_A          = 15.0
	EFFICIENCY_MIN_PERCENT = 80.0
)

func DefaultDiagnosisThresholds() domain.DiagnosisThresholds {
	return domain.DiagnosisThresholds{
		MaxTemperatureC:      TEMP_MAX_C,
		MinVoltageV:          VOLTAGE_MIN_V,
		MaxCurrentA:          CURRENT_MAX_A,
		MinEfficiencyPercent: EFFICIENCY_MIN_PERCENT,
	}
}

type DefaultDiagnosisLogic struct {
	Thresholds domain.DiagnosisThresholds
}

func (l *DefaultDiagnosisLogic) Diagnose(r domain.DeviceReading) domain.DiagnosisReport {
	th := l.Thresholds
	report := domain.DiagnosisReport{Label: r.Label}

	// all comparisons are strict: a reading exactly at the threshold is normal
	if r.TemperatureC > th.MaxTemperatureC {
		report.Overheat = fault(fmt.Sprintf("overheat detected (temperature: %.1f °C)", r.TemperatureC))
	} else {
		report.Overheat = normal("temperature normal")
	}

	if r.VoltageV < th.MinVoltageV {
		report.Undervoltage = fault(fmt.Sprintf("undervoltage (%.1f V)", r.VoltageV))
	} else {
		report.Undervoltage = normal("voltage normal")
	}

	if r.CurrentA > th.MaxCurrentA {
		report.Overcurrent = fault(fmt.Sprintf("current overload (%.1f A)", r.CurrentA))
	} else {
		report.Overcurrent = normal("current normal")
	}

	if r.NominalPowerMW <= 0 {
		report.Yield = undefined("nominal power not set, efficiency unavailable")
		return report
	}

	efficiency := r.PowerMW / r.NominalPowerMW * 100
	if math.IsInf(efficiency, 0) || math.IsNaN(efficiency) {
		report.Yield = undefined("nominal power too small, efficiency unavailable")
		return report
	}
	report.EfficiencyPercent = efficiency
	if efficiency < th.MinEfficiencyPercent {
		report.Yield = domain.Check{
			Verdict: domain.VerdictWarning,
			Message: fmt.Sprintf("low production: %.2f MW (%.2f%% of nominal)", r.PowerMW, efficiency),
		}
	} else {
		report.Yield = normal(fmt.Sprintf("normal production: %.2f MW (%.2f%%)", r.PowerMW, efficiency))
	}
	return report
}

func fault(msg string) domain.Check {
	return domain.Check{Verdict: domain.VerdictFault, Message: msg}
}

func normal(msg string) domain.Check {
	return domain.Check{Verdict: domain.VerdictNormal, Message: msg}
}

func undefined(msg string) domain.Check {
	return domain.Check{Verdict: domain.VerdictUndefined, Message: msg}
}

// ensure interface compliance
var _ port.DiagnosisLogic = (*DefaultDiagnosisLogic)(nil)
