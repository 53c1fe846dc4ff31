package service

import (
	"math/rand/v2"
	"testing"

	"github.com/berfenger/hybridplant/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sequenceSource replays the given values in order, cycling when exhausted.
type sequenceSource struct {
	values []float64
	idx    int
}

func (s *sequenceSource) Float64() float64 {
	v := s.values[s.idx%len(s.values)]
	s.idx++
	return v
}

func seq(values ...float64) *sequenceSource {
	return &sequenceSource{values: values}
}

var ctrl = &DefaultControlLogic{Params: DefaultControlParams(), Logger: zap.NewNop()}

func withSOC(soc float64) domain.ControlState {
	s := ctrl.Reset()
	s.SOC = soc
	return s
}

func TestControlReset(t *testing.T) {
	assert.Equal(t, domain.ControlState{SolarSupplyW: 200, WindSupplyW: 150, DemandW: 300, SOC: 50}, ctrl.Reset())
}

func TestControlStepStoresSurplus(t *testing.T) {
	require := require.New(t)

	// solar 250, wind 175, demand 325
	r := ctrl.Step(withSOC(50), seq(1))
	require.Equal(domain.ControlActionStored, r.Action)
	require.InDelta(425.0, r.TotalW, DELTA)
	require.InDelta(100.0, r.SurplusW, DELTA)
	require.InDelta(50.5, r.State.SOC, DELTA)
	require.InDelta(325.0, r.State.DemandW, DELTA)
}

func TestControlStepCurtailsAboveCeiling(t *testing.T) {
	r := ctrl.Step(withSOC(80), seq(1))
	assert.Equal(t, domain.ControlActionCurtailed, r.Action)
	assert.Equal(t, 80.0, r.State.SOC)
}

func TestControlStepDischarges(t *testing.T) {
	// solar 150, wind 125, demand 325
	r := ctrl.Step(withSOC(50), seq(0, 0, 1))
	assert.Equal(t, domain.ControlActionDischarged, r.Action)
	assert.InDelta(t, 50.0, r.DeficitW, DELTA)
	assert.InDelta(t, 49.75, r.State.SOC, DELTA)
}

func TestControlStepDeficitUncoveredAtFloor(t *testing.T) {
	r := ctrl.Step(withSOC(20), seq(0, 0, 1))
	assert.Equal(t, domain.ControlActionDeficitUncovered, r.Action)
	assert.Equal(t, 20.0, r.State.SOC)
}

func TestControlStepBalanced(t *testing.T) {
	// solar 150, wind 125, demand 275
	r := ctrl.Step(withSOC(50), seq(0))
	assert.Equal(t, domain.ControlActionBalanced, r.Action)
	assert.Equal(t, 50.0, r.State.SOC)
	assert.Zero(t, r.SurplusW)
	assert.Zero(t, r.DeficitW)
}

func TestControlStepClampsSOC(t *testing.T) {
	params := DefaultControlParams()
	params.Gain = 1
	logic := &DefaultControlLogic{Params: params}

	r := logic.Step(withSOC(79), seq(1))
	assert.Equal(t, 100.0, r.State.SOC)

	r = logic.Step(withSOC(21), seq(0, 0, 1))
	assert.Equal(t, 0.0, r.State.SOC)
}

func TestControlSOCStaysInRange(t *testing.T) {
	random := rand.New(rand.NewPCG(42, 42))
	state := ctrl.Reset()
	for i := 0; i < 10000; i++ {
		r := ctrl.Step(state, random)
		require.GreaterOrEqual(t, r.State.SOC, 0.0)
		require.LessOrEqual(t, r.State.SOC, 100.0)
		require.GreaterOrEqual(t, r.State.SolarSupplyW, 150.0)
		require.LessOrEqual(t, r.State.SolarSupplyW, 250.0)
		state = r.State
	}
}

func TestControlIsReproducibleWithSeed(t *testing.T) {
	run := func() domain.ControlState {
		random := rand.New(rand.NewPCG(7, 7))
		state := ctrl.Reset()
		for i := 0; i < 50; i++ {
			state = ctrl.Step(state, random).State
		}
		return state
	}
	assert.Equal(t, run(), run())
}
