package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	adactor "github.com/berfenger/hybridplant/internal/adapter/actor"
	"github.com/berfenger/hybridplant/internal/config"
	"github.com/berfenger/hybridplant/internal/core/actor"
	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/server"
	"github.com/berfenger/hybridplant/internal/util/actorutil"
	"github.com/berfenger/hybridplant/pkg/telemetry_modbus"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		return
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	defer logger.Sync()

	// init Modbus actor provider
	var modbusProv actor.ModbusActorProvider
	if cfg.TelemetryModbus.Enable {
		modbusProv, err = modbusActorProvider(cfg, logger)
		if err != nil {
			panic(err)
		}
	}

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, plantActorProvider(cfg, logger), modbusProv, mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	if err != nil {
		return
	}

	server := server.NewServer(*cfg, ctx, pid)
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
}

func initConfig() (*config.Config, error) {

	// alias PORT => HYBRIDPLANT_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("HYBRIDPLANT_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("hybridplant")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	// parse log level
	switch viper.GetString("log_level") {
	case "trace":
		cfg.LogLevel = zap.DebugLevel
	case "debug":
		cfg.LogLevel = zap.DebugLevel
	case "info":
		cfg.LogLevel = zap.InfoLevel
	case "error":
		cfg.LogLevel = zap.ErrorLevel
	case "warn":
		cfg.LogLevel = zap.WarnLevel
	case "fatal":
		cfg.LogLevel = zap.FatalLevel
	default:
		cfg.LogLevel = zap.InfoLevel
	}

	// check bounds and fix topics
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func plantActorProvider(cfg *config.Config, logger *zap.Logger) actor.PlantActorProvider {
	return func(es *eventstream.EventStream) *actor.PlantActor {
		return actor.NewPlantActor(cfg, actor.PlantDepsFromConfig(cfg, logger), es, logger)
	}
}

func modbusActorProvider(cfg *config.Config, logger *zap.Logger) (actor.ModbusActorProvider, error) {

	wind, err := telemetry_modbus.CreateTelemetryIntSFModbusReader(cfg.TelemetryModbus.Host,
		cfg.TelemetryModbus.Port, uint8(cfg.TelemetryModbus.WindUnitId), 1*time.Second, logger, nil)

	if err != nil {
		return nil, err
	}

	solar, err := telemetry_modbus.CreateTelemetryIntSFModbusReader(cfg.TelemetryModbus.Host,
		cfg.TelemetryModbus.Port, uint8(cfg.TelemetryModbus.SolarUnitId), 1*time.Second, logger, nil)

	if err != nil {
		return nil, err
	}

	return func() *adactor.ModbusActor {
		return adactor.NewModbusActor(wind, solar, logger)
	}, nil
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, logger)
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("port", 8080)
	viper.SetDefault("http_log", false)

	viper.SetDefault("diagnosis.max_temperature", 75.0)
	viper.SetDefault("diagnosis.min_voltage", 200.0)
	viper.SetDefault("diagnosis.max_current", 15.0)
	viper.SetDefault("diagnosis.min_efficiency_percent", 80.0)
	viper.SetDefault("devices.wind.nominal_power_mw", 10.0)
	viper.SetDefault("devices.solar.nominal_power_mw", 3.0)

	viper.SetDefault("maintenance.wind_threshold_hours", 1000.0)
	viper.SetDefault("maintenance.solar_threshold_hours", 1500.0)

	viper.SetDefault("stability.demand_mw", 11.5)
	viper.SetDefault("stability.nominal_frequency", 50.0)
	viper.SetDefault("stability.frequency_gain", 0.2)
	viper.SetDefault("stability.frequency_tolerance", 0.5)
	viper.SetDefault("stability.nominal_voltage", 230.0)
	viper.SetDefault("stability.voltage_gain", 0.1)
	viper.SetDefault("stability.voltage_tolerance", 0.05)

	viper.SetDefault("control.solar_mean", 200.0)
	viper.SetDefault("control.solar_spread", 50.0)
	viper.SetDefault("control.wind_mean", 150.0)
	viper.SetDefault("control.wind_spread", 25.0)
	viper.SetDefault("control.demand_mean", 300.0)
	viper.SetDefault("control.demand_spread", 25.0)
	viper.SetDefault("control.gain", 0.005)
	viper.SetDefault("control.charge_ceiling_soc", 80.0)
	viper.SetDefault("control.discharge_floor_soc", 20.0)
	viper.SetDefault("control.default_soc", 50.0)
	viper.SetDefault("control.seed", 0)
	viper.SetDefault("control.autorun_interval_millis", 0)

	viper.SetDefault("mqtt.enable", false)
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.base_topic", "hybridplant")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")

	viper.SetDefault("telemetry_modbus.enable", false)
	viper.SetDefault("telemetry_modbus.port", 502)
	viper.SetDefault("telemetry_modbus.wind_unit_id", 1)
	viper.SetDefault("telemetry_modbus.solar_unit_id", 2)
	viper.SetDefault("telemetry_modbus.poll_interval_millis", 5000)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
