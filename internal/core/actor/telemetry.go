package actor

import (
	"fmt"
	"time"

	"github.com/berfenger/hybridplant/internal/config"
	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/core/events"
	. "github.com/berfenger/hybridplant/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const TELEMETRY_REQUEST_TIMEOUT = 3 * time.Second

// TelemetryActor polls the Modbus actor for live device readings and hands them
// to the plant actor for diagnosis.
type TelemetryActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	modbusActor *actor.PID
	plantActor  *actor.PID
	config      *config.Config
	eventStream *eventstream.EventStream
	pending     int
	lastReports map[domain.DeviceKind]domain.DiagnosisReport

	logger *zap.Logger
}

type telemetryTick struct {
}

func NewTelemetryActor(config *config.Config, modbusActor, plantActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *TelemetryActor {
	act := &TelemetryActor{
		config:      config,
		modbusActor: modbusActor,
		plantActor:  plantActor,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_TELEMETRY, logger),
		eventStream: eventStream,
		lastReports: make(map[domain.DeviceKind]domain.DiagnosisReport),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *TelemetryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *TelemetryActor) pollInterval() time.Duration {
	return time.Duration(state.config.TelemetryModbus.PollIntervalMillis) * time.Millisecond
}

func (state *TelemetryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("telemetry@starting started")

		if state.pollInterval() > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
			state.scheduler.RequestOnce(state.pollInterval(), ctx.Self(), telemetryTick{})
		}

		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.modbusActor, domain.GetDevicesInfoRequest{}, TELEMETRY_REQUEST_TIMEOUT), func(err error) any {
			return domain.GetDevicesInfoResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.Become(state.WaitingInfoReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("telemetry@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *TelemetryActor) WaitingInfoReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDevicesInfoResponse:
		if msg.HasResponseError() {
			state.logger.Error("telemetry@waitingInfo GetDevicesInfoResponse", zap.Error(msg.GetResponseError()))
		} else {
			if msg.Wind != nil {
				state.logger.Info("telemetry@waitingInfo wind device", zap.String("model", msg.Wind.Model), zap.String("serial", msg.Wind.Serial))
			}
			if msg.Solar != nil {
				state.logger.Info("telemetry@waitingInfo solar device", zap.String("model", msg.Solar.Model), zap.String("serial", msg.Solar.Serial))
			}
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("telemetry@waitingInfo stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *TelemetryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("telemetry@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_TELEMETRY,
			Healthy: true,
			State:   state.healthState(),
		})
	case telemetryTick:
		state.logger.Debug("telemetry@default tick")
		for _, device := range domain.AllDevices {
			PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.modbusActor, domain.GetDeviceReadingRequest{Device: device}, TELEMETRY_REQUEST_TIMEOUT), func(err error) any {
				return domain.GetDeviceReadingResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Device: device,
				}
			})
		}
		state.pending = len(domain.AllDevices)

		// schedule next tick
		state.scheduler.RequestOnce(state.pollInterval(), ctx.Self(), telemetryTick{})
		state.behavior.BecomeStacked(state.WaitingReadingsReceive)
	case domain.DiagnoseResponse:
		state.onDiagnosis(msg)
	default:
		state.logger.Debug("telemetry@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *TelemetryActor) WaitingReadingsReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDeviceReadingResponse:
		state.pending--
		if msg.HasResponseError() || msg.Telemetry == nil {
			state.logger.Error("telemetry@waiting GetDeviceReadingResponse error", zap.String("device", string(msg.Device)), zap.Error(msg.GetResponseError()))
		} else {
			state.logger.Debug("telemetry@waiting GetDeviceReadingResponse", zap.String("device", string(msg.Device)))
			for _, ev := range events.TelemetryToUpdateEvents(msg.Device, msg.Telemetry) {
				state.eventStream.Publish(ev)
			}
			ctx.Request(state.plantActor, domain.DiagnoseRequest{
				Device: msg.Device,
				Reading: domain.DeviceReading{
					Label:          msg.Device.Label(),
					TemperatureC:   msg.Telemetry.TemperatureC,
					VoltageV:       msg.Telemetry.VoltageV,
					CurrentA:       msg.Telemetry.CurrentA,
					PowerMW:        msg.Telemetry.PowerMW,
					NominalPowerMW: state.nominalPower(msg.Device),
				},
			})
		}
		if state.pending <= 0 {
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		}
	case domain.DiagnoseResponse:
		state.onDiagnosis(msg)
	default:
		state.logger.Debug("telemetry@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *TelemetryActor) onDiagnosis(msg domain.DiagnoseResponse) {
	state.lastReports[msg.Device] = msg.Report
	report := msg.Report
	for _, check := range []domain.Check{report.Overheat, report.Undervoltage, report.Overcurrent} {
		if check.Verdict == domain.VerdictFault {
			state.logger.Warn("telemetry fault", zap.String("device", string(msg.Device)), zap.String("message", check.Message))
		}
	}
	if report.HasWarning() {
		state.logger.Warn("telemetry warning", zap.String("device", string(msg.Device)), zap.String("message", report.Yield.Message))
	}
}

func (state *TelemetryActor) nominalPower(device domain.DeviceKind) float64 {
	if device == domain.DeviceSolar {
		return state.config.Devices.Solar.NominalPowerMW
	}
	return state.config.Devices.Wind.NominalPowerMW
}

func (state *TelemetryActor) healthState() string {
	for _, report := range state.lastReports {
		if report.HasFault() {
			return "fault"
		}
	}
	return "idle"
}
