package domain

import (
	"github.com/asynkron/protoactor-go/actor"
	"github.com/berfenger/hybridplant/pkg/telemetry_modbus"
)

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_PLANT        = "plant"
	ACTOR_ID_MODBUS       = "modbus"
	ACTOR_ID_TELEMETRY    = "telemetry"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type ActorRef actor.PID

type ActorRequestMixIn struct {
	ReplyToRef *ActorRef
}

type ActorRequest interface {
	ReplyTo() *ActorRef
}

func (r ActorRequestMixIn) ReplyTo() *ActorRef {
	return r.ReplyToRef
}

type ActorResponseMixIn struct {
	ResponseError error
}

func (r ActorResponseMixIn) GetResponseError() error {
	return r.ResponseError
}

func (r ActorResponseMixIn) HasResponseError() bool {
	return r.ResponseError != nil
}

type ActorResponse interface {
	GetResponseError() error
	HasResponseError() bool
}

// PlantRequest is any message owned by the plant actor. The master forwards them untouched.
type PlantRequest interface {
	ActorRequest
	plantRequest()
}

type PlantRequestMixIn struct {
	ActorRequestMixIn
}

func (PlantRequestMixIn) plantRequest() {}

// Diagnosis

type DiagnoseRequest struct {
	PlantRequestMixIn
	Device  DeviceKind
	Reading DeviceReading
}

type DiagnoseResponse struct {
	ActorResponseMixIn
	Device  DeviceKind
	Reading DeviceReading
	Report  DiagnosisReport
}

// Maintenance

type AddOperatingHoursRequest struct {
	PlantRequestMixIn
	Device DeviceKind
	Hours  float64
}

type PerformMaintenanceRequest struct {
	PlantRequestMixIn
	Device DeviceKind
}

type ResetMaintenanceRequest struct {
	PlantRequestMixIn
}

type GetMaintenanceStateRequest struct {
	PlantRequestMixIn
}

type MaintenanceStateResponse struct {
	ActorResponseMixIn
	Status MaintenanceStatus
}

// Stability

type RunStabilityRequest struct {
	PlantRequestMixIn
}

type RunStabilityResponse struct {
	ActorResponseMixIn
	Report StabilityReport
}

// Control loop

type ControlStepRequest struct {
	PlantRequestMixIn
}

type ControlStepResponse struct {
	ActorResponseMixIn
	Result ControlStepResult
}

type ControlResetRequest struct {
	PlantRequestMixIn
}

type GetControlStateRequest struct {
	PlantRequestMixIn
}

type SetControlAutorunRequest struct {
	PlantRequestMixIn
	Enable bool
}

type ControlStateResponse struct {
	ActorResponseMixIn
	State   ControlState
	Autorun bool
}

type GetControlHistoryRequest struct {
	PlantRequestMixIn
}

type ControlHistoryResponse struct {
	ActorResponseMixIn
	History []ControlStepResult
}

// PublishPlantStateRequest asks the plant to emit sensor events for its whole state.
type PublishPlantStateRequest struct {
	PlantRequestMixIn
}

// Telemetry

type GetDevicesInfoRequest struct {
	ActorRequestMixIn
}

type GetDevicesInfoResponse struct {
	ActorResponseMixIn
	Wind  *telemetry_modbus.DeviceInfo
	Solar *telemetry_modbus.DeviceInfo
}

type GetDeviceReadingRequest struct {
	ActorRequestMixIn
	Device DeviceKind
}

type GetDeviceReadingResponse struct {
	ActorResponseMixIn
	Device    DeviceKind
	Telemetry *telemetry_modbus.TelemetryBlock
}

// MQTT

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors  []GenericSensor
	Switches []GenericSwitch
	Buttons  []GenericButton
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

// Health

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}

// ensure interface compliance
var (
	_ PlantRequest = (*DiagnoseRequest)(nil)
	_ PlantRequest = (*ControlStepRequest)(nil)
	_ PlantRequest = (*SetControlAutorunRequest)(nil)
)
