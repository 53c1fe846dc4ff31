package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/hybridplant/internal/config"
	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/util/actorutil"
	"github.com/berfenger/hybridplant/pkg/telemetry_modbus"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type HADiscoveryActor struct {
	config      *config.Config
	behavior    actor.Behavior
	stash       *actorutil.Stash
	modbusActor *actor.PID
	mqttActor   *actor.PID
	healthy     map[string]bool
	healthyRecv int

	logger *zap.Logger
}

// NewHADiscoveryActor publishes the discovery payloads once. modbusActor is nil when
// live telemetry is disabled.
func NewHADiscoveryActor(config *config.Config, modbusActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:      config,
		modbusActor: modbusActor,
		mqttActor:   mqttActor,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) dependencies() map[string]*actor.PID {
	deps := map[string]*actor.PID{domain.ACTOR_ID_MQTT: state.mqttActor}
	if state.modbusActor != nil {
		deps[domain.ACTOR_ID_MODBUS] = state.modbusActor
	}
	return deps
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check dependencies are healthy
		state.healthyRecv = 0
		state.healthy = make(map[string]bool)
		for id, pid := range state.dependencies() {
			actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
				return domain.ActorHealthResponse{
					Id:      id,
					Healthy: false,
				}
			})
		}
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		state.healthy[msg.Id] = msg.Healthy
		deps := state.dependencies()
		if state.healthyRecv < len(deps) {
			return
		}
		for id := range deps {
			if !state.healthy[id] {
				panic(errors.New("hadiscovery dependency not healthy: " + id))
			}
		}
		if state.modbusActor != nil {
			// Ask Modbus GetDevicesInfoRequest
			actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.modbusActor, domain.GetDevicesInfoRequest{}, 3*time.Second), func(err error) any {
				return domain.GetDevicesInfoResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				}
			})
		} else {
			ctx.Send(ctx.Self(), domain.GetDevicesInfoResponse{})
		}
		state.behavior.Become(state.WaitingInfoReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("hadiscovery@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {

}

func (state *HADiscoveryActor) WaitingInfoReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDevicesInfoResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@info GetDevicesInfoResponse", zap.Any("response", msg))

		ctx.Send(state.mqttActor, BuildDiscovery(state.config.MQTT.BaseTopic, msg.Wind, msg.Solar, state.modbusActor != nil))
		state.behavior.Become(state.Done)

	default:
		state.logger.Debug("hadiscovery@info default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// BuildDiscovery lists every entity of the bridge. Only the first entity of a device
// carries the full device description.
func BuildDiscovery(baseTopic string, windInfo, solarInfo *telemetry_modbus.DeviceInfo, telemetry bool) domain.PublishDiscoveryRequest {
	var sensors []domain.GenericSensor

	bridgeDevice := domain.BridgeDevice(baseTopic)
	sensors = append(sensors, domain.BridgeSensors(bridgeDevice)...)
	sensors = append(sensors, withIdDevice(domain.GridSensors(bridgeDevice), bridgeDevice, false)...)

	windDevice := domain.GenerationDevice(baseTopic, domain.DeviceWind, windInfo)
	windDevice.ViaDevice = bridgeDevice.Id
	sensors = append(sensors, withIdDevice(domain.GenerationSensors(windDevice, domain.DeviceWind, telemetry), windDevice, true)...)

	solarDevice := domain.GenerationDevice(baseTopic, domain.DeviceSolar, solarInfo)
	solarDevice.ViaDevice = bridgeDevice.Id
	sensors = append(sensors, withIdDevice(domain.GenerationSensors(solarDevice, domain.DeviceSolar, telemetry), solarDevice, true)...)

	batteryDevice := domain.BatteryDevice(baseTopic)
	batteryDevice.ViaDevice = bridgeDevice.Id
	sensors = append(sensors, withIdDevice(domain.BatterySensors(batteryDevice), batteryDevice, true)...)

	var buttons []domain.GenericButton
	buttons = append(buttons, domain.ControlButtons(domain.IdDevice(batteryDevice))...)
	buttons = append(buttons, domain.MaintenanceButtons(domain.IdDevice(windDevice), domain.IdDevice(solarDevice))...)

	return domain.PublishDiscoveryRequest{
		Sensors:  sensors,
		Switches: domain.ControlSwitches(domain.IdDevice(batteryDevice)),
		Buttons:  buttons,
	}
}

func withIdDevice(sensors []domain.GenericSensor, dev domain.Device, keepFirst bool) []domain.GenericSensor {
	for i := range sensors {
		if i > 0 || !keepFirst {
			sensors[i].Device = domain.IdDevice(dev)
		}
	}
	return sensors
}
