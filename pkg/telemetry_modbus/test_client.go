package telemetry_modbus

import "errors"

func CreateTestWindModbusReader() (TelemetryModbusReader, error) {
	return &TestTelemetryModbusReader{
		Info: DeviceInfo{
			Manufacturer: "Hybridplant",
			Model:        "WT-10M",
			Version:      "2.4.1",
			Serial:       "WT10-0042",
		},
		Telemetry: TelemetryBlock{
			TemperatureC: 60,
			VoltageV:     220,
			CurrentA:     12,
			PowerMW:      8,
		},
	}, nil
}

func CreateTestSolarModbusReader() (TelemetryModbusReader, error) {
	return &TestTelemetryModbusReader{
		Info: DeviceInfo{
			Manufacturer: "Hybridplant",
			Model:        "PV-3M",
			Version:      "1.0.9",
			Serial:       "PV3-1187",
		},
		Telemetry: TelemetryBlock{
			TemperatureC: 50,
			VoltageV:     210,
			CurrentA:     9,
			PowerMW:      2.5,
		},
	}, nil
}

type TestTelemetryModbusReader struct {
	Info      DeviceInfo
	Telemetry TelemetryBlock
	Fail      bool
	opened    bool
}

func (reader *TestTelemetryModbusReader) Open() error {
	reader.opened = true
	return nil
}

func (reader *TestTelemetryModbusReader) Close() error {
	reader.opened = false
	return nil
}

func (reader *TestTelemetryModbusReader) GetInfo() (*DeviceInfo, error) {
	info := reader.Info
	return &info, nil
}

func (reader *TestTelemetryModbusReader) GetTelemetry() (*TelemetryBlock, error) {
	if reader.Fail {
		return nil, errors.New("modbus: test reader failure")
	}
	if !reader.opened {
		return nil, errors.New("modbus: reader not open")
	}
	block := reader.Telemetry
	return &block, nil
}

// ensure interface compliance
var _ TelemetryModbusReader = (*TestTelemetryModbusReader)(nil)
