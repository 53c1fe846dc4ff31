package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/berfenger/hybridplant/pkg/telemetry_modbus"
	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE          = "bridge"
	SENSOR_SUFFIX_TEMPERATURE       = "temperature"
	SENSOR_SUFFIX_VOLTAGE           = "voltage"
	SENSOR_SUFFIX_CURRENT           = "current"
	SENSOR_SUFFIX_POWER             = "power"
	SENSOR_SUFFIX_EFFICIENCY        = "efficiency"
	SENSOR_SUFFIX_OVERHEAT          = "overheat"
	SENSOR_SUFFIX_UNDERVOLTAGE      = "undervoltage"
	SENSOR_SUFFIX_OVERCURRENT       = "overcurrent"
	SENSOR_SUFFIX_LOW_PRODUCTION    = "low_production"
	SENSOR_SUFFIX_OPERATING_HOURS   = "operating_hours"
	SENSOR_SUFFIX_NEEDS_MAINTENANCE = "needs_maintenance"
	SENSOR_ID_GRID_UNSTABLE_HOURS   = "grid_unstable_hours"
	SENSOR_ID_GRID_MIN_FREQUENCY    = "grid_min_frequency"
	SENSOR_ID_GRID_MAX_FREQUENCY    = "grid_max_frequency"
	SENSOR_ID_GRID_STABLE           = "grid_stable"
	SENSOR_ID_BATTERY_SOC           = "battery_soc"
	SENSOR_ID_CONTROL_SOLAR_SUPPLY  = "control_solar_supply"
	SENSOR_ID_CONTROL_WIND_SUPPLY   = "control_wind_supply"
	SENSOR_ID_CONTROL_DEMAND        = "control_demand"
	SENSOR_ID_CONTROL_ACTION        = "control_action"
	SWITCH_ID_CONTROL_AUTORUN       = "control_autorun"
	BUTTON_ID_MAINTENANCE_WIND      = "maintenance_wind"
	BUTTON_ID_MAINTENANCE_SOLAR     = "maintenance_solar"
	BUTTON_ID_MAINTENANCE_RESET     = "maintenance_reset"
	BUTTON_ID_CONTROL_STEP          = "control_step"
	BUTTON_ID_CONTROL_RESET         = "control_reset"
	STATE_CLASS_MEASUREMENT         = "measurement"
	STATE_CLASS_TOTAL_INCREASING    = "total_increasing"
	DEVICE_CLASS_BATTERY            = "battery"
	DEVICE_CLASS_CURRENT            = "current"
	DEVICE_CLASS_DURATION           = "duration"
	DEVICE_CLASS_FREQUENCY          = "frequency"
	DEVICE_CLASS_POWER              = "power"
	DEVICE_CLASS_PROBLEM            = "problem"
	DEVICE_CLASS_TEMPERATURE        = "temperature"
	DEVICE_CLASS_VOLTAGE            = "voltage"
	DEVICE_CLASS_CONNECTIVITY       = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC         = "diagnostic"
	ENTITY_CLASS_CONFIG             = "config"
	SENSOR_TYPE_SENSOR              = "sensor"
	SENSOR_TYPE_BINARY              = "binary_sensor"
)

func DeviceSensorId(device DeviceKind, suffix string) string {
	return fmt.Sprintf("%s_%s", device, suffix)
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("hybridplant_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Hybridplant",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Hybridplant %s", md5HashShort(baseTopic)),
	}
}

// GenerationDevice describes a turbine or a panel. info is optional and only known
// when the telemetry feed is enabled.
func GenerationDevice(baseTopic string, device DeviceKind, info *telemetry_modbus.DeviceInfo) Device {
	dev := Device{
		Id:      fmt.Sprintf("hyp_%s_%s", device, md5HashShort(baseTopic)),
		Version: versioninfo.Short(),
		Model:   "Simulated",
		Name:    device.Label(),
	}
	if info != nil {
		dev.Id = fmt.Sprintf("hyp_%s_%s", device, md5HashShort(info.Serial))
		dev.Version = info.Version
		dev.Manufacturer = info.Manufacturer
		dev.Model = info.Model
		dev.Name = fmt.Sprintf("%s %s %s", device.Label(), info.Model, md5HashShort(info.Serial))
	}
	return dev
}

func BatteryDevice(baseTopic string) Device {
	return Device{
		Id:      fmt.Sprintf("hyp_battery_%s", md5HashShort(baseTopic)),
		Version: versioninfo.Short(),
		Model:   "Simulated storage",
		Name:    "Plant battery",
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	}}
}

// GenerationSensors lists the telemetry, diagnosis and maintenance entities of one device.
// Telemetry entities are only listed when a live feed exists.
func GenerationSensors(dev Device, device DeviceKind, telemetry bool) []GenericSensor {

	var sensors []GenericSensor

	add := func(suffix, sensorType, name, stateClass, deviceClass, unit string) {
		id := DeviceSensorId(device, suffix)
		sensors = append(sensors, GenericSensor{
			Device:            dev,
			Id:                id,
			SensorType:        sensorType,
			Name:              name,
			StateClass:        stateClass,
			DeviceClass:       deviceClass,
			UnitOfMeasurement: unit,
			UniqueId:          uniqueId(dev.Id, id),
		})
	}

	if telemetry {
		add(SENSOR_SUFFIX_TEMPERATURE, SENSOR_TYPE_SENSOR, "Temperature", STATE_CLASS_MEASUREMENT, DEVICE_CLASS_TEMPERATURE, "°C")
		add(SENSOR_SUFFIX_VOLTAGE, SENSOR_TYPE_SENSOR, "Voltage", STATE_CLASS_MEASUREMENT, DEVICE_CLASS_VOLTAGE, "V")
		add(SENSOR_SUFFIX_CURRENT, SENSOR_TYPE_SENSOR, "Current", STATE_CLASS_MEASUREMENT, DEVICE_CLASS_CURRENT, "A")
		add(SENSOR_SUFFIX_POWER, SENSOR_TYPE_SENSOR, "Power", STATE_CLASS_MEASUREMENT, DEVICE_CLASS_POWER, "MW")
		add(SENSOR_SUFFIX_EFFICIENCY, SENSOR_TYPE_SENSOR, "Efficiency", STATE_CLASS_MEASUREMENT, "", "%")
	}
	// diagnosis verdicts are also fed by the HTTP diagnosis endpoint
	add(SENSOR_SUFFIX_OVERHEAT, SENSOR_TYPE_BINARY, "Overheat", "", DEVICE_CLASS_PROBLEM, "")
	add(SENSOR_SUFFIX_UNDERVOLTAGE, SENSOR_TYPE_BINARY, "Undervoltage", "", DEVICE_CLASS_PROBLEM, "")
	add(SENSOR_SUFFIX_OVERCURRENT, SENSOR_TYPE_BINARY, "Overcurrent", "", DEVICE_CLASS_PROBLEM, "")
	add(SENSOR_SUFFIX_LOW_PRODUCTION, SENSOR_TYPE_BINARY, "Low production", "", DEVICE_CLASS_PROBLEM, "")
	add(SENSOR_SUFFIX_OPERATING_HOURS, SENSOR_TYPE_SENSOR, "Operating hours", STATE_CLASS_TOTAL_INCREASING, DEVICE_CLASS_DURATION, "h")
	add(SENSOR_SUFFIX_NEEDS_MAINTENANCE, SENSOR_TYPE_BINARY, "Needs maintenance", "", DEVICE_CLASS_PROBLEM, "")

	return sensors
}

func GridSensors(dev Device) []GenericSensor {

	var sensors []GenericSensor

	// Unstable hours over the simulated day
	sensors = append(sensors, GenericSensor{
		Device:            dev,
		Id:                SENSOR_ID_GRID_UNSTABLE_HOURS,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Grid unstable hours",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "h",
		UniqueId:          uniqueId(dev.Id, SENSOR_ID_GRID_UNSTABLE_HOURS),
		Icon:              "mdi:transmission-tower-off",
	})
	// Frequency envelope
	sensors = append(sensors, GenericSensor{
		Device:            dev,
		Id:                SENSOR_ID_GRID_MIN_FREQUENCY,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Grid minimum frequency",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_FREQUENCY,
		UnitOfMeasurement: "Hz",
		UniqueId:          uniqueId(dev.Id, SENSOR_ID_GRID_MIN_FREQUENCY),
	})
	sensors = append(sensors, GenericSensor{
		Device:            dev,
		Id:                SENSOR_ID_GRID_MAX_FREQUENCY,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Grid maximum frequency",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_FREQUENCY,
		UnitOfMeasurement: "Hz",
		UniqueId:          uniqueId(dev.Id, SENSOR_ID_GRID_MAX_FREQUENCY),
	})
	// Whole day stable
	sensors = append(sensors, GenericSensor{
		Device:     dev,
		Id:         SENSOR_ID_GRID_STABLE,
		SensorType: SENSOR_TYPE_BINARY,
		Name:       "Grid stable",
		UniqueId:   uniqueId(dev.Id, SENSOR_ID_GRID_STABLE),
	})

	return sensors
}

func BatterySensors(dev Device) []GenericSensor {

	var sensors []GenericSensor

	// Battery SoC
	sensors = append(sensors, GenericSensor{
		Device:            dev,
		Id:                SENSOR_ID_BATTERY_SOC,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Battery SoC",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_BATTERY,
		UnitOfMeasurement: "%",
		UniqueId:          uniqueId(dev.Id, SENSOR_ID_BATTERY_SOC),
	})
	for _, s := range []struct{ id, name string }{
		{SENSOR_ID_CONTROL_SOLAR_SUPPLY, "Solar supply"},
		{SENSOR_ID_CONTROL_WIND_SUPPLY, "Wind supply"},
		{SENSOR_ID_CONTROL_DEMAND, "Demand"},
	} {
		sensors = append(sensors, GenericSensor{
			Device:            dev,
			Id:                s.id,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              s.name,
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_POWER,
			UnitOfMeasurement: "W",
			UniqueId:          uniqueId(dev.Id, s.id),
		})
	}
	// Last control action
	sensors = append(sensors, GenericSensor{
		Device:     dev,
		Id:         SENSOR_ID_CONTROL_ACTION,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Control action",
		UniqueId:   uniqueId(dev.Id, SENSOR_ID_CONTROL_ACTION),
		Icon:       "mdi:scale-balance",
	})

	return sensors
}

func ControlSwitches(dev Device) []GenericSwitch {
	return []GenericSwitch{{
		Device:   dev,
		Id:       SWITCH_ID_CONTROL_AUTORUN,
		Name:     "Control autorun",
		UniqueId: uniqueId(dev.Id, SWITCH_ID_CONTROL_AUTORUN),
		Icon:     "mdi:autorenew",
	}}
}

func ControlButtons(dev Device) []GenericButton {
	return []GenericButton{
		{
			Device:   dev,
			Id:       BUTTON_ID_CONTROL_STEP,
			Name:     "Control step",
			UniqueId: uniqueId(dev.Id, BUTTON_ID_CONTROL_STEP),
			Icon:     "mdi:step-forward",
		},
		{
			Device:   dev,
			Id:       BUTTON_ID_CONTROL_RESET,
			Name:     "Control reset",
			UniqueId: uniqueId(dev.Id, BUTTON_ID_CONTROL_RESET),
			Icon:     "mdi:restore",
		},
	}
}

func MaintenanceButtons(windDev, solarDev Device) []GenericButton {
	return []GenericButton{
		{
			Device:   windDev,
			Id:       BUTTON_ID_MAINTENANCE_WIND,
			Name:     "Perform maintenance",
			UniqueId: uniqueId(windDev.Id, BUTTON_ID_MAINTENANCE_WIND),
			Icon:     "mdi:wrench",
		},
		{
			Device:   solarDev,
			Id:       BUTTON_ID_MAINTENANCE_SOLAR,
			Name:     "Perform maintenance",
			UniqueId: uniqueId(solarDev.Id, BUTTON_ID_MAINTENANCE_SOLAR),
			Icon:     "mdi:wrench",
		},
		{
			Device:   windDev,
			Id:       BUTTON_ID_MAINTENANCE_RESET,
			Name:     "Reset maintenance counters",
			UniqueId: uniqueId(windDev.Id, BUTTON_ID_MAINTENANCE_RESET),
			Icon:     "mdi:counter",
		},
	}
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
