package config

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel        zapcore.Level
	Diagnosis       DiagnosisConfig       `mapstructure:"diagnosis"`
	Devices         DevicesConfig         `mapstructure:"devices"`
	Maintenance     MaintenanceConfig     `mapstructure:"maintenance"`
	Stability       StabilityConfig       `mapstructure:"stability"`
	Control         ControlConfig         `mapstructure:"control"`
	MQTT            MQTTConfig            `mapstructure:"mqtt"`
	TelemetryModbus TelemetryModbusConfig `mapstructure:"telemetry_modbus"`
	Port            uint                  `mapstructure:"port"`
	HttpLog         bool                  `mapstructure:"http_log"`
}

type DiagnosisConfig struct {
	MaxTemperature       float64 `mapstructure:"max_temperature"`
	MinVoltage           float64 `mapstructure:"min_voltage"`
	MaxCurrent           float64 `mapstructure:"max_current"`
	MinEfficiencyPercent float64 `mapstructure:"min_efficiency_percent"`
}

type DeviceConfig struct {
	NominalPowerMW float64 `mapstructure:"nominal_power_mw"`
}

type DevicesConfig struct {
	Wind  DeviceConfig `mapstructure:"wind"`
	Solar DeviceConfig `mapstructure:"solar"`
}

type MaintenanceConfig struct {
	WindThresholdHours  float64 `mapstructure:"wind_threshold_hours"`
	SolarThresholdHours float64 `mapstructure:"solar_threshold_hours"`
}

type StabilityConfig struct {
	DemandMW           float64 `mapstructure:"demand_mw"`
	NominalFrequency   float64 `mapstructure:"nominal_frequency"`
	FrequencyGain      float64 `mapstructure:"frequency_gain"`
	FrequencyTolerance float64 `mapstructure:"frequency_tolerance"`
	NominalVoltage     float64 `mapstructure:"nominal_voltage"`
	VoltageGain        float64 `mapstructure:"voltage_gain"`
	VoltageTolerance   float64 `mapstructure:"voltage_tolerance"`
}

type ControlConfig struct {
	SolarMean             float64 `mapstructure:"solar_mean"`
	SolarSpread           float64 `mapstructure:"solar_spread"`
	WindMean              float64 `mapstructure:"wind_mean"`
	WindSpread            float64 `mapstructure:"wind_spread"`
	DemandMean            float64 `mapstructure:"demand_mean"`
	DemandSpread          float64 `mapstructure:"demand_spread"`
	Gain                  float64 `mapstructure:"gain"`
	ChargeCeilingSOC      float64 `mapstructure:"charge_ceiling_soc"`
	DischargeFloorSOC     float64 `mapstructure:"discharge_floor_soc"`
	DefaultSOC            float64 `mapstructure:"default_soc"`
	Seed                  uint64  `mapstructure:"seed"`
	AutorunIntervalMillis uint32  `mapstructure:"autorun_interval_millis"`
}

type MQTTConfig struct {
	Enable            bool
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

type TelemetryModbusConfig struct {
	Enable             bool
	Host               string
	Port               uint
	WindUnitId         uint   `mapstructure:"wind_unit_id"`
	SolarUnitId        uint   `mapstructure:"solar_unit_id"`
	PollIntervalMillis uint32 `mapstructure:"poll_interval_millis"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

// Validate checks bounds and normalizes MQTT topics in place.
func (cfg *Config) Validate() error {

	if cfg.MQTT.Enable {
		baseTopic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic)
		if err != nil {
			return errors.New("invalid base topic. can only contain letters, numbers and underscores")
		}
		cfg.MQTT.BaseTopic = baseTopic

		hadBaseTopic, err := CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
		if err != nil {
			return errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
		}
		cfg.MQTT.HADiscoveryTopic = hadBaseTopic
	}

	if cfg.Control.DischargeFloorSOC >= cfg.Control.ChargeCeilingSOC {
		return errors.New("config param control.discharge_floor_soc must be < control.charge_ceiling_soc")
	}
	if cfg.Control.ChargeCeilingSOC > 100 || cfg.Control.DischargeFloorSOC < 0 {
		return errors.New("config params control.charge_ceiling_soc and control.discharge_floor_soc must be within [0,100]")
	}
	if cfg.Control.SolarSpread < 0 || cfg.Control.WindSpread < 0 || cfg.Control.DemandSpread < 0 {
		return errors.New("config params control.*_spread must be >= 0")
	}
	if cfg.Control.AutorunIntervalMillis != 0 && cfg.Control.AutorunIntervalMillis < 500 {
		return errors.New("config param control.autorun_interval_millis should be 0 or >= 500")
	}
	if cfg.Stability.DemandMW <= 0 {
		return errors.New("config param stability.demand_mw should be > 0")
	}
	if cfg.Maintenance.WindThresholdHours <= 0 || cfg.Maintenance.SolarThresholdHours <= 0 {
		return errors.New("config params maintenance.*_threshold_hours should be > 0")
	}
	if cfg.TelemetryModbus.Enable && cfg.TelemetryModbus.PollIntervalMillis < 1000 {
		return errors.New("config param telemetry_modbus.poll_interval_millis should be >= 1000")
	}
	if cfg.TelemetryModbus.Enable && (!validUnitId(cfg.TelemetryModbus.WindUnitId) || !validUnitId(cfg.TelemetryModbus.SolarUnitId)) {
		return errors.New("config params telemetry_modbus.*_unit_id must be within [1,247]")
	}

	return nil
}

func validUnitId(id uint) bool {
	return id >= 1 && id <= 247
}
