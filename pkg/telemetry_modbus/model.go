package telemetry_modbus

// Register map of a generation device telemetry block (holding registers).
//
//	0..15   manufacturer (32 chars)
//	16..31  model (32 chars)
//	32..39  version (16 chars)
//	40..55  serial (32 chars)
//	100     temperature (int16)      101 temperature SF
//	102     voltage (uint16)         103 voltage SF
//	104     current (uint16)         105 current SF
//	106-107 active power W (uint32)  108 power SF
const (
	REG_MANUFACTURER  uint16 = 0
	REG_MODEL         uint16 = 16
	REG_VERSION       uint16 = 32
	REG_SERIAL        uint16 = 40
	REG_TELEMETRY     uint16 = 100
	TELEMETRY_REG_LEN uint16 = 9
)

type DeviceInfo struct {
	Manufacturer string
	Model        string
	Version      string
	Serial       string
}

type TelemetryBlock struct {
	// Device temperature in °C
	TemperatureC float64
	// Terminal voltage
	VoltageV float64
	// Output current
	CurrentA float64
	// Active power output in MW
	PowerMW float64
}

type TelemetryModbusReader interface {
	Open() error
	Close() error
	GetInfo() (*DeviceInfo, error)
	GetTelemetry() (*TelemetryBlock, error)
}
