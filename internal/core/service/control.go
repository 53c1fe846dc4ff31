package service

import (
	"fmt"
	"math"

	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/core/port"

	"go.uber.org/zap"
)

func DefaultControlParams() domain.ControlParams {
	return domain.ControlParams{
		SolarMeanW:        200,
		SolarSpreadW:      50,
		WindMeanW:         150,
		WindSpreadW:       25,
		DemandMeanW:       300,
		DemandSpreadW:     25,
		Gain:              0.005,
		ChargeCeilingSOC:  80,
		DischargeFloorSOC: 20,
		DefaultSOC:        50,
	}
}

type DefaultControlLogic struct {
	Params domain.ControlParams
	Logger *zap.Logger
}

// Step resamples supply and demand and moves the SOC proportionally to the imbalance.
func (l *DefaultControlLogic) Step(state domain.ControlState, random port.RandomSource) domain.ControlStepResult {
	p := l.Params

	next := state
	next.SolarSupplyW = uniform(random, p.SolarMeanW, p.SolarSpreadW)
	next.WindSupplyW = uniform(random, p.WindMeanW, p.WindSpreadW)
	next.DemandW = uniform(random, p.DemandMeanW, p.DemandSpreadW)
	next.SOC = clampSOC(next.SOC)

	total := next.SolarSupplyW + next.WindSupplyW
	result := domain.ControlStepResult{TotalW: total}

	switch {
	case total > next.DemandW:
		surplus := total - next.DemandW
		result.SurplusW = surplus
		if next.SOC < p.ChargeCeilingSOC {
			next.SOC = math.Min(100, next.SOC+surplus*p.Gain)
			result.Action = domain.ControlActionStored
			result.Message = fmt.Sprintf("surplus of %.2f W stored in battery", surplus)
		} else {
			result.Action = domain.ControlActionCurtailed
			result.Message = fmt.Sprintf("battery above %.0f%%, surplus of %.2f W curtailed", p.ChargeCeilingSOC, surplus)
		}
	case next.DemandW > total:
		deficit := next.DemandW - total
		result.DeficitW = deficit
		if next.SOC > p.DischargeFloorSOC {
			next.SOC = math.Max(0, next.SOC-deficit*p.Gain)
			result.Action = domain.ControlActionDischarged
			result.Message = fmt.Sprintf("deficit of %.2f W drawn from battery", deficit)
		} else {
			result.Action = domain.ControlActionDeficitUncovered
			result.Message = fmt.Sprintf("battery below %.0f%%, cannot cover deficit of %.2f W", p.DischargeFloorSOC, deficit)
		}
	default:
		result.Action = domain.ControlActionBalanced
		result.Message = "supply and demand balanced"
	}

	result.State = next
	l.logger().Info("control step",
		zap.String("action", string(result.Action)),
		zap.Float64("total", total),
		zap.Float64("demand", next.DemandW),
		zap.Float64("soc", next.SOC))
	return result
}

func (l *DefaultControlLogic) Reset() domain.ControlState {
	return domain.ControlState{
		SolarSupplyW: l.Params.SolarMeanW,
		WindSupplyW:  l.Params.WindMeanW,
		DemandW:      l.Params.DemandMeanW,
		SOC:          clampSOC(l.Params.DefaultSOC),
	}
}

func (l *DefaultControlLogic) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// uniform draws from [mean-spread, mean+spread).
func uniform(random port.RandomSource, mean, spread float64) float64 {
	return mean + spread*(2*random.Float64()-1)
}

func clampSOC(soc float64) float64 {
	return math.Max(0, math.Min(100, soc))
}

// ensure interface compliance
var _ port.ControlLoopLogic = (*DefaultControlLogic)(nil)
