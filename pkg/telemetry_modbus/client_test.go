package telemetry_modbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTelemetryBlock(t *testing.T) {

	require := require.New(t)

	// 61.5 °C, 221.3 V, 12.47 A, 7 650 000 W
	regs := []uint16{
		615, 0xFFFF, // -1
		2213, 0xFFFF,
		1247, 0xFFFE, // -2
		uint16(7650000 >> 16), uint16(7650000 & 0xFFFF), 0,
	}
	block, err := DecodeTelemetryBlock(regs)
	require.NoError(err)

	require.InDelta(61.5, block.TemperatureC, 1e-9)
	require.InDelta(221.3, block.VoltageV, 1e-9)
	require.InDelta(12.47, block.CurrentA, 1e-9)
	require.InDelta(7.65, block.PowerMW, 1e-9)
}

func TestDecodeNegativeTemperature(t *testing.T) {

	regs := []uint16{uint16(0xFFFF - 99), 0xFFFF, 0, 0, 0, 0, 0, 0, 0}
	block, err := DecodeTelemetryBlock(regs)
	require.NoError(t, err)
	assert.InDelta(t, -10.0, block.TemperatureC, 1e-9)
}

func TestDecodeShortBlock(t *testing.T) {

	_, err := DecodeTelemetryBlock([]uint16{1, 2, 3})
	assert.Error(t, err)
}

func TestTestReaderRequiresOpen(t *testing.T) {

	reader, err := CreateTestWindModbusReader()
	require.NoError(t, err)

	_, err = reader.GetTelemetry()
	assert.Error(t, err, "closed reader must fail")

	require.NoError(t, reader.Open())
	block, err := reader.GetTelemetry()
	require.NoError(t, err)
	assert.EqualValues(t, 8, block.PowerMW)
}
