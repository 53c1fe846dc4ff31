package actor

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/berfenger/hybridplant/internal/config"
	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/core/events"
	"github.com/berfenger/hybridplant/internal/core/port"
	"github.com/berfenger/hybridplant/internal/core/service"
	. "github.com/berfenger/hybridplant/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const (
	CONTROL_HISTORY_SIZE     = 100
	DEFAULT_AUTORUN_INTERVAL = 5 * time.Second
)

// PlantDeps are the pure logic units and sources the plant actor runs on.
type PlantDeps struct {
	Diagnosis   port.DiagnosisLogic
	Maintenance port.MaintenanceLogic
	Stability   port.StabilitySimulator
	Control     port.ControlLoopLogic
	Random      port.RandomSource
	Clock       func() time.Time
}

func PlantDepsFromConfig(cfg *config.Config, logger *zap.Logger) PlantDeps {

	stability := service.DefaultStabilityParams()
	stability.DemandMW = cfg.Stability.DemandMW
	stability.NominalFrequencyHz = cfg.Stability.NominalFrequency
	stability.FrequencyGainHzPerMW = cfg.Stability.FrequencyGain
	stability.FrequencyToleranceHz = cfg.Stability.FrequencyTolerance
	stability.NominalVoltageV = cfg.Stability.NominalVoltage
	stability.VoltageGain = cfg.Stability.VoltageGain
	stability.VoltageTolerance = cfg.Stability.VoltageTolerance

	seed := cfg.Control.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return PlantDeps{
		Diagnosis: &service.DefaultDiagnosisLogic{
			Thresholds: domain.DiagnosisThresholds{
				MaxTemperatureC:      cfg.Diagnosis.MaxTemperature,
				MinVoltageV:          cfg.Diagnosis.MinVoltage,
				MaxCurrentA:          cfg.Diagnosis.MaxCurrent,
				MinEfficiencyPercent: cfg.Diagnosis.MinEfficiencyPercent,
			},
		},
		Maintenance: &service.DefaultMaintenanceLogic{
			Thresholds: domain.MaintenanceThresholds{
				WindHours:  cfg.Maintenance.WindThresholdHours,
				SolarHours: cfg.Maintenance.SolarThresholdHours,
			},
			Logger: logger,
		},
		Stability: &service.DefaultStabilitySimulator{Params: stability},
		Control: &service.DefaultControlLogic{
			Params: domain.ControlParams{
				SolarMeanW:        cfg.Control.SolarMean,
				SolarSpreadW:      cfg.Control.SolarSpread,
				WindMeanW:         cfg.Control.WindMean,
				WindSpreadW:       cfg.Control.WindSpread,
				DemandMeanW:       cfg.Control.DemandMean,
				DemandSpreadW:     cfg.Control.DemandSpread,
				Gain:              cfg.Control.Gain,
				ChargeCeilingSOC:  cfg.Control.ChargeCeilingSOC,
				DischargeFloorSOC: cfg.Control.DischargeFloorSOC,
				DefaultSOC:        cfg.Control.DefaultSOC,
			},
			Logger: logger,
		},
		Random: rand.New(rand.NewPCG(seed, seed)),
		Clock:  time.Now,
	}
}

// PlantActor owns the maintenance counters and the control loop state.
// Every mutation happens while handling a single message.
type PlantActor struct {
	config    *config.Config
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	deps             PlantDeps
	maintenanceState domain.MaintenanceState
	controlState     domain.ControlState
	history          []domain.ControlStepResult
	autorunCancel    scheduler.CancelFunc

	eventStream *eventstream.EventStream
	logger      *zap.Logger
}

type controlTick struct {
}

func NewPlantActor(config *config.Config, deps PlantDeps, eventStream *eventstream.EventStream, logger *zap.Logger) *PlantActor {
	act := &PlantActor{
		config:      config,
		deps:        deps,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		eventStream: eventStream,
		logger:      ActorLogger(domain.ACTOR_ID_PLANT, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *PlantActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PlantActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("plant@starting started")

		state.scheduler = scheduler.NewTimerScheduler(ctx)
		state.maintenanceState = domain.MaintenanceState{}
		state.controlState = state.deps.Control.Reset()
		state.history = nil

		if state.config.Control.AutorunIntervalMillis > 0 {
			state.startAutorun(ctx)
		}

		state.publishAll()
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.stopAutorun()
	default:
		state.logger.Debug("plant@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PlantActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("plant@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_PLANT,
			Healthy: true,
			State:   state.stateName(),
		})

	// Diagnosis
	case domain.DiagnoseRequest:
		state.logger.Debug("plant@default DiagnoseRequest", zap.String("device", string(msg.Device)))
		reading := msg.Reading
		if reading.Label == "" {
			reading.Label = msg.Device.Label()
		}
		report := state.deps.Diagnosis.Diagnose(reading)
		state.publish(events.DiagnosisToUpdateEvents(msg.Device, &report))
		ForRequest(msg).Respond(ctx, domain.DiagnoseResponse{
			Device:  msg.Device,
			Reading: reading,
			Report:  report,
		})

	// Maintenance
	case domain.AddOperatingHoursRequest:
		state.logger.Debug("plant@default AddOperatingHoursRequest", zap.String("device", string(msg.Device)), zap.Float64("hours", msg.Hours))
		err := state.deps.Maintenance.AddHours(&state.maintenanceState, msg.Device, msg.Hours)
		state.respondMaintenance(ctx, msg, err)
	case domain.PerformMaintenanceRequest:
		state.logger.Debug("plant@default PerformMaintenanceRequest", zap.String("device", string(msg.Device)))
		err := state.deps.Maintenance.PerformMaintenance(&state.maintenanceState, msg.Device, state.deps.Clock())
		state.respondMaintenance(ctx, msg, err)
	case domain.ResetMaintenanceRequest:
		state.logger.Debug("plant@default ResetMaintenanceRequest")
		state.deps.Maintenance.ResetAll(&state.maintenanceState)
		state.respondMaintenance(ctx, msg, nil)
	case domain.GetMaintenanceStateRequest:
		state.logger.Debug("plant@default GetMaintenanceStateRequest")
		ForRequest(msg).Respond(ctx, domain.MaintenanceStateResponse{
			Status: state.deps.Maintenance.Status(state.maintenanceState),
		})

	// Stability
	case domain.RunStabilityRequest:
		state.logger.Debug("plant@default RunStabilityRequest")
		report := state.deps.Stability.Simulate()
		state.publish(events.StabilityToUpdateEvents(&report))
		ForRequest(msg).Respond(ctx, domain.RunStabilityResponse{
			Report: report,
		})

	// Control loop
	case domain.ControlStepRequest:
		state.logger.Debug("plant@default ControlStepRequest")
		result := state.step()
		ForRequest(msg).Respond(ctx, domain.ControlStepResponse{
			Result: result,
		})
	case controlTick:
		state.logger.Debug("plant@autorun tick")
		state.step()
	case domain.ControlResetRequest:
		state.logger.Debug("plant@default ControlResetRequest")
		state.controlState = state.deps.Control.Reset()
		state.publish(events.ControlToUpdateEvents(&state.controlState, ""))
		state.respondControl(ctx, msg)
	case domain.GetControlStateRequest:
		state.logger.Debug("plant@default GetControlStateRequest")
		state.respondControl(ctx, msg)
	case domain.SetControlAutorunRequest:
		state.logger.Debug("plant@default SetControlAutorunRequest", zap.Bool("enable", msg.Enable))
		if msg.Enable {
			state.startAutorun(ctx)
		} else {
			state.stopAutorun()
		}
		state.publish([]any{events.ControlAutorunSwitchUpdateEvent(state.autorunEnabled())})
		state.respondControl(ctx, msg)
	case domain.GetControlHistoryRequest:
		state.logger.Debug("plant@default GetControlHistoryRequest")
		ForRequest(msg).Respond(ctx, domain.ControlHistoryResponse{
			History: append([]domain.ControlStepResult(nil), state.history...),
		})

	case domain.PublishPlantStateRequest:
		state.logger.Debug("plant@default PublishPlantStateRequest")
		state.publishAll()
	case *actor.Stopping:
		state.stopAutorun()
	case *actor.Restarting:
		state.stopAutorun()
	default:
		state.logger.Debug("plant@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *PlantActor) step() domain.ControlStepResult {
	result := state.deps.Control.Step(state.controlState, state.deps.Random)
	state.controlState = result.State
	state.history = append(state.history, result)
	if len(state.history) > CONTROL_HISTORY_SIZE {
		state.history = state.history[len(state.history)-CONTROL_HISTORY_SIZE:]
	}
	state.publish(events.ControlToUpdateEvents(&state.controlState, result.Action))
	return result
}

func (state *PlantActor) startAutorun(ctx actor.Context) {
	if state.autorunCancel != nil {
		return
	}
	interval := time.Duration(state.config.Control.AutorunIntervalMillis) * time.Millisecond
	if interval <= 0 {
		interval = DEFAULT_AUTORUN_INTERVAL
	}
	state.logger.Info("plant@default autorun enabled", zap.Duration("interval", interval))
	state.autorunCancel = state.scheduler.SendRepeatedly(interval, interval, ctx.Self(), controlTick{})
}

func (state *PlantActor) stopAutorun() {
	if state.autorunCancel != nil {
		state.autorunCancel()
		state.autorunCancel = nil
		state.logger.Info("plant@default autorun disabled")
	}
}

func (state *PlantActor) autorunEnabled() bool {
	return state.autorunCancel != nil
}

func (state *PlantActor) stateName() string {
	if state.autorunEnabled() {
		return "autorun"
	}
	return "idle"
}

func (state *PlantActor) respondMaintenance(ctx actor.Context, req domain.ActorRequest, err error) {
	status := state.deps.Maintenance.Status(state.maintenanceState)
	if err == nil {
		state.publish(events.MaintenanceToUpdateEvents(&status))
	}
	ForRequest(req).Respond(ctx, domain.MaintenanceStateResponse{
		ActorResponseMixIn: domain.ActorResponseMixIn{
			ResponseError: err,
		},
		Status: status,
	})
}

func (state *PlantActor) respondControl(ctx actor.Context, req domain.ActorRequest) {
	ForRequest(req).Respond(ctx, domain.ControlStateResponse{
		State:   state.controlState,
		Autorun: state.autorunEnabled(),
	})
}

func (state *PlantActor) publishAll() {
	status := state.deps.Maintenance.Status(state.maintenanceState)
	state.publish(events.MaintenanceToUpdateEvents(&status))

	report := state.deps.Stability.Simulate()
	state.publish(events.StabilityToUpdateEvents(&report))

	var action domain.ControlAction
	if len(state.history) > 0 {
		action = state.history[len(state.history)-1].Action
	}
	state.publish(events.ControlToUpdateEvents(&state.controlState, action))
	state.publish([]any{events.ControlAutorunSwitchUpdateEvent(state.autorunEnabled())})
}

func (state *PlantActor) publish(evs []any) {
	if state.eventStream == nil {
		return
	}
	for _, ev := range evs {
		state.eventStream.Publish(ev)
	}
}
