package telemetry_modbus

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/simonvetter/modbus"
	"go.uber.org/zap"
)

type ModbusInstrument struct {
	RecordTime func(fnName string, readTime time.Duration)
}

type TelemetryIntSFModbusReader struct {
	client     *modbus.ModbusClient
	instrument []ModbusInstrument
}

func CreateTelemetryIntSFModbusReader(ip string, port uint, unitId uint8, timeout time.Duration,
	logger *zap.Logger, instrumentation *ModbusInstrument) (TelemetryModbusReader, error) {
	client, err := modbus.NewClient(&modbus.ClientConfiguration{
		URL:     fmt.Sprintf("tcp://%s:%d", ip, port),
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}

	// instrumentation
	inst := []ModbusInstrument{traceLoggerInstrumentation(logger.With(zap.Uint8("unit", unitId)))}
	if instrumentation != nil {
		inst = append(inst, *instrumentation)
	}

	err = client.SetUnitId(unitId)
	if err != nil {
		return nil, err
	}
	return &TelemetryIntSFModbusReader{
		client:     client,
		instrument: inst,
	}, nil
}

func (reader *TelemetryIntSFModbusReader) Open() error {
	return reader.client.Open()
}

func (reader *TelemetryIntSFModbusReader) Close() error {
	return reader.client.Close()
}

func (reader *TelemetryIntSFModbusReader) GetInfo() (*DeviceInfo, error) {
	manufacturer, err := reader.readString(REG_MANUFACTURER, 32)
	if err != nil {
		return nil, err
	}
	model, err := reader.readString(REG_MODEL, 32)
	if err != nil {
		return nil, err
	}
	version, err := reader.readString(REG_VERSION, 16)
	if err != nil {
		return nil, err
	}
	serial, err := reader.readString(REG_SERIAL, 32)
	if err != nil {
		return nil, err
	}
	return &DeviceInfo{
		Manufacturer: manufacturer,
		Model:        model,
		Version:      version,
		Serial:       serial,
	}, nil
}

func (reader *TelemetryIntSFModbusReader) GetTelemetry() (*TelemetryBlock, error) {
	regs, err := reader.readRegisters(REG_TELEMETRY, TELEMETRY_REG_LEN, modbus.HOLDING_REGISTER)
	if err != nil {
		return nil, err
	}
	return DecodeTelemetryBlock(regs)
}

// DecodeTelemetryBlock converts the raw telemetry registers, starting at REG_TELEMETRY.
func DecodeTelemetryBlock(regs []uint16) (*TelemetryBlock, error) {
	if len(regs) < int(TELEMETRY_REG_LEN) {
		return nil, errors.New("telemetry block too short")
	}
	powerW := uint32(regs[6])<<16 | uint32(regs[7])
	return &TelemetryBlock{
		TemperatureC: applySFint16(int16(regs[0]), regs[1]),
		VoltageV:     applySF(regs[2], regs[3]),
		CurrentA:     applySF(regs[4], regs[5]),
		PowerMW:      applySFuint32(powerW, regs[8]) / 1e6,
	}, nil
}

func (reader *TelemetryIntSFModbusReader) readString(address uint16, size uint16) (string, error) {
	defer RecordTimer("ReadRawBytes", reader.instrument)()
	bytes, err := reader.client.ReadRawBytes(address, size, modbus.HOLDING_REGISTER)
	if err != nil {
		return "", err
	}
	f := slices.Index(bytes, 0x00)
	if f >= 0 {
		return string(bytes[:f]), nil
	}
	return string(bytes), nil
}

func (reader *TelemetryIntSFModbusReader) readRegisters(addr uint16, quantity uint16, regType modbus.RegType) ([]uint16, error) {
	defer RecordTimer("ReadRegisters", reader.instrument)()
	return reader.client.ReadRegisters(addr, quantity, regType)
}

func applySF(number uint16, sf uint16) float64 {
	return float64(number) * math.Pow(10, float64(int16(sf)))
}

func applySFint16(number int16, sf uint16) float64 {
	return float64(number) * math.Pow(10, float64(int16(sf)))
}

func applySFuint32(number uint32, sf uint16) float64 {
	return float64(number) * math.Pow(10, float64(int16(sf)))
}

func traceLoggerInstrumentation(logger *zap.Logger) ModbusInstrument {
	return ModbusInstrument{
		RecordTime: func(fnName string, readTime time.Duration) {
			logger.Debug("modbus read", zap.String("fn", fnName), zap.Int64("millis", readTime.Milliseconds()))
		},
	}
}

func RecordTimer(name string, instrument []ModbusInstrument) func() {
	if instrument == nil {
		return func() {}
	}

	start := time.Now()
	return func() {
		duration := time.Since(start)
		for i := range instrument {
			instrument[i].RecordTime(name, duration)
		}
	}
}

// ensure interface compliance
var _ TelemetryModbusReader = (*TelemetryIntSFModbusReader)(nil)
