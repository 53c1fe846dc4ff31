package telemetry_modbus

import (
	"sync"
	"testing"
	"time"

	"github.com/simonvetter/modbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const TEST_SERVER_PORT = 5502

// deviceBank serves one register map per unit id.
type deviceBank struct {
	mu    sync.Mutex
	units map[uint8][]uint16
}

func (b *deviceBank) HandleCoils(req *modbus.CoilsRequest) ([]bool, error) {
	return nil, modbus.ErrIllegalFunction
}

func (b *deviceBank) HandleDiscreteInputs(req *modbus.DiscreteInputsRequest) ([]bool, error) {
	return nil, modbus.ErrIllegalFunction
}

func (b *deviceBank) HandleInputRegisters(req *modbus.InputRegistersRequest) ([]uint16, error) {
	return nil, modbus.ErrIllegalFunction
}

func (b *deviceBank) HandleHoldingRegisters(req *modbus.HoldingRegistersRequest) ([]uint16, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs, ok := b.units[req.UnitId]
	if !ok {
		return nil, modbus.ErrIllegalDataAddress
	}
	if req.IsWrite {
		return nil, modbus.ErrIllegalFunction
	}
	end := int(req.Addr) + int(req.Quantity)
	if end > len(regs) {
		return nil, modbus.ErrIllegalDataAddress
	}
	out := make([]uint16, req.Quantity)
	copy(out, regs[req.Addr:end])
	return out, nil
}

func putString(regs []uint16, addr uint16, value string) {
	b := []byte(value)
	for i := 0; i < len(b); i += 2 {
		hi := uint16(b[i]) << 8
		var lo uint16
		if i+1 < len(b) {
			lo = uint16(b[i+1])
		}
		regs[int(addr)+i/2] = hi | lo
	}
}

func windRegisters() []uint16 {
	regs := make([]uint16, 128)
	putString(regs, REG_MANUFACTURER, "Hybridplant")
	putString(regs, REG_MODEL, "WT-10M")
	putString(regs, REG_VERSION, "2.4.1")
	putString(regs, REG_SERIAL, "WT10-0042")
	copy(regs[REG_TELEMETRY:], []uint16{
		615, 0xFFFF,
		2213, 0xFFFF,
		1247, 0xFFFE,
		uint16(7650000 >> 16), uint16(7650000 & 0xFFFF), 0,
	})
	return regs
}

func startTestServer(t *testing.T) {
	server, err := modbus.NewServer(&modbus.ServerConfiguration{
		URL:        "tcp://localhost:5502",
		Timeout:    5 * time.Second,
		MaxClients: 4,
	}, &deviceBank{units: map[uint8][]uint16{1: windRegisters()}})
	require.NoError(t, err)
	require.NoError(t, server.Start())
	t.Cleanup(func() { server.Stop() })
}

func TestTelemetryReaderOverTCP(t *testing.T) {
	startTestServer(t)

	reader, err := CreateTelemetryIntSFModbusReader("localhost", TEST_SERVER_PORT, 1, 1*time.Second, zap.NewNop(), nil)
	require.NoError(t, err)
	require.NoError(t, reader.Open())
	defer reader.Close()

	info, err := reader.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, DeviceInfo{
		Manufacturer: "Hybridplant",
		Model:        "WT-10M",
		Version:      "2.4.1",
		Serial:       "WT10-0042",
	}, *info)

	block, err := reader.GetTelemetry()
	require.NoError(t, err)
	assert.InDelta(t, 61.5, block.TemperatureC, 1e-9)
	assert.InDelta(t, 221.3, block.VoltageV, 1e-9)
	assert.InDelta(t, 12.47, block.CurrentA, 1e-9)
	assert.InDelta(t, 7.65, block.PowerMW, 1e-9)
}

func TestTelemetryReaderUnknownUnit(t *testing.T) {
	startTestServer(t)

	var recorded []string
	inst := ModbusInstrument{RecordTime: func(fnName string, _ time.Duration) {
		recorded = append(recorded, fnName)
	}}
	reader, err := CreateTelemetryIntSFModbusReader("localhost", TEST_SERVER_PORT, 7, 1*time.Second, zap.NewNop(), &inst)
	require.NoError(t, err)
	require.NoError(t, reader.Open())
	defer reader.Close()

	_, err = reader.GetTelemetry()
	assert.Error(t, err)
	assert.Contains(t, recorded, "ReadRegisters")
}
