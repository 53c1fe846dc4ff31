package domain

type ControlParams struct {
	SolarMeanW        float64
	SolarSpreadW      float64
	WindMeanW         float64
	WindSpreadW       float64
	DemandMeanW       float64
	DemandSpreadW     float64
	Gain              float64
	ChargeCeilingSOC  float64
	DischargeFloorSOC float64
	DefaultSOC        float64
}

// ControlState is the battery balancing block. SOC is kept within [0,100].
type ControlState struct {
	SolarSupplyW float64 `json:"solar_supply_w"`
	WindSupplyW  float64 `json:"wind_supply_w"`
	DemandW      float64 `json:"demand_w"`
	SOC          float64 `json:"soc"`
}

type ControlAction string

const (
	ControlActionStored           ControlAction = "stored"
	ControlActionCurtailed        ControlAction = "curtailed"
	ControlActionDischarged       ControlAction = "discharged"
	ControlActionDeficitUncovered ControlAction = "deficit_uncovered"
	ControlActionBalanced         ControlAction = "balanced"
)

type ControlStepResult struct {
	State    ControlState  `json:"state"`
	TotalW   float64       `json:"total_w"`
	SurplusW float64       `json:"surplus_w"`
	DeficitW float64       `json:"deficit_w"`
	Action   ControlAction `json:"action"`
	Message  string        `json:"message"`
}
