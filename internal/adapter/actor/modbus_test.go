package actor

import (
	"testing"
	"time"

	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/util/actorutil"
	"github.com/berfenger/hybridplant/pkg/telemetry_modbus"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func spawnModbusActor(t *testing.T, wind, solar telemetry_modbus.TelemetryModbusReader) (*actor.ActorSystem, *actor.PID) {
	logger := zap.Must(zap.NewDevelopment())
	as := actorutil.NewActorSystemWithZapLogger(logger)
	props := actor.PropsFromProducer(func() actor.Actor { return NewModbusActor(wind, solar, logger) })
	return as, as.Root.Spawn(props)
}

func TestGetDevicesInfoModbusActor(t *testing.T) {

	assert := assert.New(t)

	wind, err := telemetry_modbus.CreateTestWindModbusReader()
	require.NoError(t, err)
	solar, err := telemetry_modbus.CreateTestSolarModbusReader()
	require.NoError(t, err)

	as, pid := spawnModbusActor(t, wind, solar)
	context := as.Root

	result, err := context.RequestFuture(pid, domain.GetDevicesInfoRequest{}, 5*time.Second).Result()
	require.NoError(t, err)
	resp := result.(domain.GetDevicesInfoResponse)

	require.False(t, resp.HasResponseError())
	assert.Equal("Hybridplant", resp.Wind.Manufacturer, "wind manufacturer")
	assert.Equal("WT-10M", resp.Wind.Model, "wind model")
	assert.Equal("PV-3M", resp.Solar.Model, "solar model")
	assert.Equal("PV3-1187", resp.Solar.Serial, "solar serial")

	context.Stop(pid)

	as.Shutdown()
}

func TestGetDeviceReadingModbusActor(t *testing.T) {

	assert := assert.New(t)

	wind, err := telemetry_modbus.CreateTestWindModbusReader()
	require.NoError(t, err)
	solar, err := telemetry_modbus.CreateTestSolarModbusReader()
	require.NoError(t, err)

	as, pid := spawnModbusActor(t, wind, solar)
	context := as.Root

	result, err := context.RequestFuture(pid, domain.GetDeviceReadingRequest{Device: domain.DeviceSolar}, 5*time.Second).Result()
	require.NoError(t, err)
	resp := result.(domain.GetDeviceReadingResponse)

	require.False(t, resp.HasResponseError())
	assert.Equal(domain.DeviceSolar, resp.Device)
	assert.Equal(2.5, resp.Telemetry.PowerMW)
	assert.Equal(210.0, resp.Telemetry.VoltageV)

	context.Stop(pid)

	as.Shutdown()
}

func TestGetDeviceReadingErrors(t *testing.T) {

	failing := &telemetry_modbus.TestTelemetryModbusReader{Fail: true}
	as, pid := spawnModbusActor(t, failing, nil)
	context := as.Root

	result, err := context.RequestFuture(pid, domain.GetDeviceReadingRequest{Device: domain.DeviceWind}, 5*time.Second).Result()
	require.NoError(t, err)
	resp := result.(domain.GetDeviceReadingResponse)
	assert.True(t, resp.HasResponseError())
	assert.Equal(t, domain.DeviceWind, resp.Device)

	// solar has no reader configured
	result, err = context.RequestFuture(pid, domain.GetDeviceReadingRequest{Device: domain.DeviceSolar}, 5*time.Second).Result()
	require.NoError(t, err)
	resp = result.(domain.GetDeviceReadingResponse)
	assert.ErrorIs(t, resp.GetResponseError(), ErrDeviceNotConfigured)

	// the actor keeps serving after failures
	result, err = context.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.True(t, result.(domain.ActorHealthResponse).Healthy)

	context.Stop(pid)

	as.Shutdown()
}
