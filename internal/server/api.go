package server

import (
	"fmt"
	"net/http"

	"github.com/berfenger/hybridplant/internal/core/domain"

	"github.com/labstack/echo/v4"
)

type diagnosisBody struct {
	TemperatureC   *float64 `json:"temperature_c"`
	VoltageV       *float64 `json:"voltage_v"`
	CurrentA       *float64 `json:"current_a"`
	PowerMW        *float64 `json:"power_mw"`
	NominalPowerMW *float64 `json:"nominal_power_mw"`
}

type diagnosisView struct {
	Device  domain.DeviceKind      `json:"device"`
	Reading domain.DeviceReading   `json:"reading"`
	Report  domain.DiagnosisReport `json:"report"`
	Fault   bool                   `json:"fault"`
	Warning bool                   `json:"warning"`
}

type hoursBody struct {
	Hours *float64 `json:"hours"`
}

type autorunBody struct {
	Enable *bool `json:"enable"`
}

type controlView struct {
	State   domain.ControlState `json:"state"`
	Autorun bool                `json:"autorun"`
}

// ask sends a request to the plant through the master and maps failures to HTTP errors.
func ask[T domain.ActorResponse](s *Server, msg domain.PlantRequest) (T, error) {
	var zero T
	res, err := s.rootContext.RequestFuture(s.masterActor, msg, s.requestTimeout).Result()
	if err != nil {
		return zero, echo.NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("plant unavailable: %v", err))
	}
	resp, ok := res.(T)
	if !ok {
		return zero, echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("unexpected response %T", res))
	}
	if resp.HasResponseError() {
		return resp, echo.NewHTTPError(http.StatusBadRequest, resp.GetResponseError().Error())
	}
	return resp, nil
}

func deviceParam(c echo.Context) (domain.DeviceKind, error) {
	device, ok := domain.ParseDeviceKind(c.Param("device"))
	if !ok {
		return "", echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown device %q", c.Param("device")))
	}
	return device, nil
}

func (s *Server) nominalPower(device domain.DeviceKind) float64 {
	if device == domain.DeviceSolar {
		return s.config.Devices.Solar.NominalPowerMW
	}
	return s.config.Devices.Wind.NominalPowerMW
}

func (s *Server) defaultReading(device domain.DeviceKind) domain.DeviceReading {
	reading := domain.DefaultReading(device)
	reading.NominalPowerMW = s.nominalPower(device)
	return reading
}

// Diagnosis

func (s *Server) DiagnosisDefaultsHandler(c echo.Context) error {
	device, err := deviceParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.defaultReading(device))
}

func (s *Server) DiagnoseHandler(c echo.Context) error {
	device, err := deviceParam(c)
	if err != nil {
		return err
	}

	var body diagnosisBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	// missing fields keep the device defaults
	reading := s.defaultReading(device)
	setIfPresent(&reading.TemperatureC, body.TemperatureC)
	setIfPresent(&reading.VoltageV, body.VoltageV)
	setIfPresent(&reading.CurrentA, body.CurrentA)
	setIfPresent(&reading.PowerMW, body.PowerMW)
	setIfPresent(&reading.NominalPowerMW, body.NominalPowerMW)

	if err := domain.LimitsFor(device).Check(reading); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := ask[domain.DiagnoseResponse](s, domain.DiagnoseRequest{
		Device:  device,
		Reading: reading,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, diagnosisView{
		Device:  resp.Device,
		Reading: resp.Reading,
		Report:  resp.Report,
		Fault:   resp.Report.HasFault(),
		Warning: resp.Report.HasWarning(),
	})
}

func setIfPresent(dst *float64, value *float64) {
	if value != nil {
		*dst = *value
	}
}

// Maintenance

func (s *Server) MaintenanceStateHandler(c echo.Context) error {
	resp, err := ask[domain.MaintenanceStateResponse](s, domain.GetMaintenanceStateRequest{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp.Status)
}

func (s *Server) MaintenanceAddHoursHandler(c echo.Context) error {
	device, err := deviceParam(c)
	if err != nil {
		return err
	}
	var body hoursBody
	if err := c.Bind(&body); err != nil || body.Hours == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body, expected {\"hours\": <number>}")
	}
	resp, err := ask[domain.MaintenanceStateResponse](s, domain.AddOperatingHoursRequest{
		Device: device,
		Hours:  *body.Hours,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp.Status)
}

func (s *Server) MaintenancePerformHandler(c echo.Context) error {
	device, err := deviceParam(c)
	if err != nil {
		return err
	}
	resp, err := ask[domain.MaintenanceStateResponse](s, domain.PerformMaintenanceRequest{
		Device: device,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp.Status)
}

func (s *Server) MaintenanceResetHandler(c echo.Context) error {
	resp, err := ask[domain.MaintenanceStateResponse](s, domain.ResetMaintenanceRequest{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp.Status)
}

// Stability

func (s *Server) StabilityHandler(c echo.Context) error {
	resp, err := ask[domain.RunStabilityResponse](s, domain.RunStabilityRequest{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp.Report)
}

// Control loop

func (s *Server) ControlStateHandler(c echo.Context) error {
	resp, err := ask[domain.ControlStateResponse](s, domain.GetControlStateRequest{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, controlView{State: resp.State, Autorun: resp.Autorun})
}

func (s *Server) ControlHistoryHandler(c echo.Context) error {
	resp, err := ask[domain.ControlHistoryResponse](s, domain.GetControlHistoryRequest{})
	if err != nil {
		return err
	}
	history := resp.History
	if history == nil {
		history = []domain.ControlStepResult{}
	}
	return c.JSON(http.StatusOK, history)
}

func (s *Server) ControlStepHandler(c echo.Context) error {
	resp, err := ask[domain.ControlStepResponse](s, domain.ControlStepRequest{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp.Result)
}

func (s *Server) ControlResetHandler(c echo.Context) error {
	resp, err := ask[domain.ControlStateResponse](s, domain.ControlResetRequest{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, controlView{State: resp.State, Autorun: resp.Autorun})
}

func (s *Server) ControlAutorunHandler(c echo.Context) error {
	var body autorunBody
	if err := c.Bind(&body); err != nil || body.Enable == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body, expected {\"enable\": <bool>}")
	}
	resp, err := ask[domain.ControlStateResponse](s, domain.SetControlAutorunRequest{Enable: *body.Enable})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, controlView{State: resp.State, Autorun: resp.Autorun})
}
