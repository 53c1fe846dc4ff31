package actorutil

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/mqtt"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel:
		slogLevel = slog.LevelError
	case zap.PanicLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {

		// create a new logger
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

// ParsedMQTTCommandToCommand maps an MQTT switch or button command to a plant request.
func ParsedMQTTCommandToCommand(cmd mqtt.ParsedMQTTCommand) (domain.PlantRequest, error) {
	switch cmd.Command {
	case mqtt.COMMAND_SWITCH:
		if cmd.DeviceId == domain.SWITCH_ID_CONTROL_AUTORUN {
			return domain.SetControlAutorunRequest{
				Enable: cmd.Payload == mqtt.MQTT_PAYLOAD_ON,
			}, nil
		}
	case mqtt.COMMAND_BUTTON:
		switch cmd.DeviceId {
		case domain.BUTTON_ID_MAINTENANCE_WIND:
			return domain.PerformMaintenanceRequest{Device: domain.DeviceWind}, nil
		case domain.BUTTON_ID_MAINTENANCE_SOLAR:
			return domain.PerformMaintenanceRequest{Device: domain.DeviceSolar}, nil
		case domain.BUTTON_ID_MAINTENANCE_RESET:
			return domain.ResetMaintenanceRequest{}, nil
		case domain.BUTTON_ID_CONTROL_STEP:
			return domain.ControlStepRequest{}, nil
		case domain.BUTTON_ID_CONTROL_RESET:
			return domain.ControlResetRequest{}, nil
		}
	}
	return nil, fmt.Errorf("unknown %s command: %s", cmd.Command, cmd.DeviceId)
}
