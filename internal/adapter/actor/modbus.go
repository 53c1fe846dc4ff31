package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/util/actorutil"
	"github.com/berfenger/hybridplant/pkg/telemetry_modbus"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const MODBUS_READ_TIMEOUT = 2 * time.Second

var ErrDeviceNotConfigured = errors.New("device has no telemetry reader")

type ModbusActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	wind     telemetry_modbus.TelemetryModbusReader
	solar    telemetry_modbus.TelemetryModbusReader
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

// NewModbusActor wraps one reader per generation device. Either reader may be nil.
func NewModbusActor(wind, solar telemetry_modbus.TelemetryModbusReader, logger *zap.Logger) *ModbusActor {
	act := &ModbusActor{
		wind:     wind,
		solar:    solar,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(domain.ACTOR_ID_MODBUS, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *ModbusActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *ModbusActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("modbus@starting started")
		for _, reader := range state.readers() {
			if err := reader.Open(); err != nil {
				panic(err)
			}
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.close()
	default:
		state.logger.Debug("modbus@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *ModbusActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("modbus@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MODBUS,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetDevicesInfoRequest:
		state.logger.Debug("modbus@default GetDevicesInfoRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getDevicesInfo),
			mapTaskResult[domain.GetDevicesInfoResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetDevicesInfoResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(MODBUS_READ_TIMEOUT).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingModbus)
	case domain.GetDeviceReadingRequest:
		state.logger.Debug("modbus@default GetDeviceReadingRequest", zap.String("device", string(msg.Device)))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		device := msg.Device

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.GetDeviceReadingResponse, error) {
			return state.getDeviceReading(device)
		}), mapTaskResult[domain.GetDeviceReadingResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetDeviceReadingResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Device: device,
				},
				replyTo: sender,
			}
		}).WithTimeout(MODBUS_READ_TIMEOUT).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingModbus)
	case *actor.Stopping:
		state.close()
	default:
		state.logger.Debug("modbus@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *ModbusActor) WaitingModbus(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("modbus@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.message)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.close()
	default:
		state.logger.Debug("modbus@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *ModbusActor) getDevicesInfo() (*domain.GetDevicesInfoResponse, error) {
	var wind, solar *telemetry_modbus.DeviceInfo
	var err error

	if a.wind != nil {
		wind, err = a.wind.GetInfo()
		if err != nil {
			a.logger.Error("modbus wind info", zap.Error(err))
			return nil, err
		}
	}
	if a.solar != nil {
		solar, err = a.solar.GetInfo()
		if err != nil {
			a.logger.Error("modbus solar info", zap.Error(err))
			return nil, err
		}
	}
	return &domain.GetDevicesInfoResponse{
		Wind:  wind,
		Solar: solar,
	}, nil
}

func (a *ModbusActor) getDeviceReading(device domain.DeviceKind) (*domain.GetDeviceReadingResponse, error) {
	reader := a.reader(device)
	if reader == nil {
		return nil, ErrDeviceNotConfigured
	}
	telemetry, err := reader.GetTelemetry()
	if err != nil {
		a.logger.Error("modbus telemetry", zap.String("device", string(device)), zap.Error(err))
		return nil, err
	}
	return &domain.GetDeviceReadingResponse{
		Device:    device,
		Telemetry: telemetry,
	}, nil
}

func (a *ModbusActor) reader(device domain.DeviceKind) telemetry_modbus.TelemetryModbusReader {
	switch device {
	case domain.DeviceWind:
		return a.wind
	case domain.DeviceSolar:
		return a.solar
	}
	return nil
}

func (a *ModbusActor) readers() []telemetry_modbus.TelemetryModbusReader {
	var readers []telemetry_modbus.TelemetryModbusReader
	if a.wind != nil {
		readers = append(readers, a.wind)
	}
	if a.solar != nil {
		readers = append(readers, a.solar)
	}
	return readers
}

func (a *ModbusActor) close() {
	for _, reader := range a.readers() {
		reader.Close()
	}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
