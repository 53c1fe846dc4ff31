package util

import (
	"github.com/berfenger/hybridplant/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Diagnosis: config.DiagnosisConfig{
			MaxTemperature:       75,
			MinVoltage:           200,
			MaxCurrent:           15,
			MinEfficiencyPercent: 80,
		},
		Devices: config.DevicesConfig{
			Wind:  config.DeviceConfig{NominalPowerMW: 10},
			Solar: config.DeviceConfig{NominalPowerMW: 3},
		},
		Maintenance: config.MaintenanceConfig{
			WindThresholdHours:  1000,
			SolarThresholdHours: 1500,
		},
		Stability: config.StabilityConfig{
			DemandMW:           11.5,
			NominalFrequency:   50,
			FrequencyGain:      0.2,
			FrequencyTolerance: 0.5,
			NominalVoltage:     230,
			VoltageGain:        0.1,
			VoltageTolerance:   0.05,
		},
		Control: config.ControlConfig{
			SolarMean:         200,
			SolarSpread:       50,
			WindMean:          150,
			WindSpread:        25,
			DemandMean:        300,
			DemandSpread:      25,
			Gain:              0.005,
			ChargeCeilingSOC:  80,
			DischargeFloorSOC: 20,
			DefaultSOC:        50,
			Seed:              42,
		},
		MQTT: config.MQTTConfig{
			Enable:           true,
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "hybridplant",
			HADiscoveryTopic: "homeassistant",
		},
		TelemetryModbus: config.TelemetryModbusConfig{
			Enable:             true,
			Host:               "-.-.-.-",
			Port:               502,
			WindUnitId:         1,
			SolarUnitId:        2,
			PollIntervalMillis: 5000,
		},
		Port: 8080,
	}
}
