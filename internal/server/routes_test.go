package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	adactor "github.com/berfenger/hybridplant/internal/adapter/actor"
	"github.com/berfenger/hybridplant/internal/config"
	coreactor "github.com/berfenger/hybridplant/internal/core/actor"
	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/util"
	"github.com/berfenger/hybridplant/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	cfg := util.LoadTestConfig()
	cfg.MQTT.Enable = false
	cfg.TelemetryModbus.Enable = false

	logger := zap.NewNop()
	as := actorutil.NewActorSystemWithZapLogger(logger)
	t.Cleanup(as.Shutdown)

	props := actor.PropsFromProducer(func() actor.Actor {
		return coreactor.NewMasterOfPuppetsActor(cfg, func(es *eventstream.EventStream) *coreactor.PlantActor {
			return coreactor.NewPlantActor(&cfg, coreactor.PlantDepsFromConfig(&cfg, logger), es, logger)
		}, nil, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := as.Root.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	require.NoError(t, err)

	s := &Server{
		config:         cfg,
		rootContext:    as.Root,
		masterActor:    pid,
		requestTimeout: REQUEST_TIMEOUT,
	}
	return s, s.RegisterRoutes()
}

func do(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthCheckHandler(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(h, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "health_check: OK", rec.Body.String())

	rec = do(h, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]any](t, rec), "version")
}

func TestDiagnosisHandlers(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(h, http.MethodGet, "/api/diagnosis/solar/defaults", "")
	require.Equal(t, http.StatusOK, rec.Code)
	defaults := decode[domain.DeviceReading](t, rec)
	assert.Equal(t, 50.0, defaults.TemperatureC)
	assert.Equal(t, 2.5, defaults.PowerMW)
	assert.Equal(t, 3.0, defaults.NominalPowerMW)

	rec = do(h, http.MethodPost, "/api/diagnosis/wind", `{"temperature_c": 80, "power_mw": 7.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[diagnosisView](t, rec)
	assert.True(t, view.Fault)
	assert.True(t, view.Warning)
	assert.Equal(t, domain.VerdictFault, view.Report.Overheat.Verdict)
	assert.Equal(t, domain.VerdictNormal, view.Report.Undervoltage.Verdict)
	assert.InDelta(t, 75.0, view.Report.EfficiencyPercent, 1e-9)
	assert.Equal(t, "low production: 7.50 MW (75.00% of nominal)", view.Report.Yield.Message)

	// defaults alone are healthy
	rec = do(h, http.MethodPost, "/api/diagnosis/wind", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[diagnosisView](t, rec)
	assert.False(t, view.Fault)
	assert.False(t, view.Warning)

	// zero nominal power leaves the yield undefined
	rec = do(h, http.MethodPost, "/api/diagnosis/solar", `{"nominal_power_mw": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[diagnosisView](t, rec)
	assert.Equal(t, domain.VerdictUndefined, view.Report.Yield.Verdict)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/diagnosis/wind", `{"nominal_power_mw": 25}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/diagnosis/wind", `{"nominal_power_mw": -1}`).Code)

	// a vanishing nominal power leaves the yield undefined instead of infinite
	rec = do(h, http.MethodPost, "/api/diagnosis/wind", `{"nominal_power_mw": 1e-320}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[diagnosisView](t, rec)
	assert.Equal(t, domain.VerdictUndefined, view.Report.Yield.Verdict)
	assert.Equal(t, 0.0, view.Report.EfficiencyPercent)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/diagnosis/hydro", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/diagnosis/hydro/defaults", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/diagnosis/wind", `{"temperature_c": 151}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/diagnosis/solar", `{"power_mw": 12}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/diagnosis/wind", `{"temperature_c": `).Code)
}

func TestMaintenanceHandlers(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(h, http.MethodPost, "/api/maintenance/wind/hours", `{"hours": 1000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[domain.MaintenanceStatus](t, rec)
	wind, ok := status.Device(domain.DeviceWind)
	require.True(t, ok)
	assert.True(t, wind.NeedsMaintenance)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/maintenance/wind/hours", `{"hours": -1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/maintenance/wind/hours", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/maintenance/hydro/hours", `{"hours": 1}`).Code)

	// the counter never overflows into a value the status cannot serialize
	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/maintenance/solar/hours", `{"hours": 1e308}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/maintenance/solar/hours", `{"hours": 1e308}`).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/maintenance", "").Code)

	rec = do(h, http.MethodPost, "/api/maintenance/wind/perform", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status = decode[domain.MaintenanceStatus](t, rec)
	wind, _ = status.Device(domain.DeviceWind)
	assert.Equal(t, 0.0, wind.Hours)
	require.Len(t, status.Log, 1)
	assert.Equal(t, domain.DeviceWind, status.Log[0].Device)

	rec = do(h, http.MethodPost, "/api/maintenance/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[domain.MaintenanceStatus](t, rec).Log)

	rec = do(h, http.MethodGet, "/api/maintenance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[domain.MaintenanceStatus](t, rec).Devices, 2)
}

func TestStabilityHandler(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(h, http.MethodGet, "/api/stability", "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[domain.StabilityReport](t, rec)
	assert.Len(t, report.Samples, 24)
	assert.Equal(t, 5.0, report.Samples[0].WindMW)
}

func TestControlHandlers(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(h, http.MethodGet, "/api/control/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	for i := 0; i < 5; i++ {
		rec = do(h, http.MethodPost, "/api/control/step", "")
		require.Equal(t, http.StatusOK, rec.Code)
		result := decode[domain.ControlStepResult](t, rec)
		assert.GreaterOrEqual(t, result.State.SOC, 0.0)
		assert.LessOrEqual(t, result.State.SOC, 100.0)
	}

	rec = do(h, http.MethodGet, "/api/control/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.ControlStepResult](t, rec), 5)

	rec = do(h, http.MethodPost, "/api/control/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[controlView](t, rec)
	assert.Equal(t, domain.ControlState{SolarSupplyW: 200, WindSupplyW: 150, DemandW: 300, SOC: 50}, view.State)

	rec = do(h, http.MethodPost, "/api/control/autorun", `{"enable": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[controlView](t, rec).Autorun)

	rec = do(h, http.MethodPost, "/api/control/autorun", `{"enable": false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[controlView](t, rec).Autorun)

	rec = do(h, http.MethodGet, "/api/control", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[controlView](t, rec).Autorun)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/control/autorun", `{}`).Code)
}

func TestUnavailablePlant(t *testing.T) {
	as := actor.NewActorSystem()
	t.Cleanup(as.Shutdown)

	// never answers
	silent, err := as.Root.SpawnNamed(actor.PropsFromFunc(func(ctx actor.Context) {}), "silent")
	require.NoError(t, err)

	s := &Server{
		config:         config.Config{},
		rootContext:    as.Root,
		masterActor:    silent,
		requestTimeout: 100 * time.Millisecond,
	}
	h := s.RegisterRoutes()

	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodPost, "/api/control/step", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/api/stability", "").Code)
}
