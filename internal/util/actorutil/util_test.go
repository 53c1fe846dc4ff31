package actorutil

import (
	"testing"

	"github.com/berfenger/hybridplant/internal/core/domain"
	"github.com/berfenger/hybridplant/internal/mqtt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedMQTTCommandToCommand(t *testing.T) {
	cases := []struct {
		cmd      mqtt.ParsedMQTTCommand
		expected domain.PlantRequest
	}{
		{mqtt.ParsedMQTTCommand{Command: mqtt.COMMAND_SWITCH, DeviceId: domain.SWITCH_ID_CONTROL_AUTORUN, Payload: "on"}, domain.SetControlAutorunRequest{Enable: true}},
		{mqtt.ParsedMQTTCommand{Command: mqtt.COMMAND_SWITCH, DeviceId: domain.SWITCH_ID_CONTROL_AUTORUN, Payload: "off"}, domain.SetControlAutorunRequest{Enable: false}},
		{mqtt.ParsedMQTTCommand{Command: mqtt.COMMAND_BUTTON, DeviceId: domain.BUTTON_ID_MAINTENANCE_WIND}, domain.PerformMaintenanceRequest{Device: domain.DeviceWind}},
		{mqtt.ParsedMQTTCommand{Command: mqtt.COMMAND_BUTTON, DeviceId: domain.BUTTON_ID_MAINTENANCE_SOLAR}, domain.PerformMaintenanceRequest{Device: domain.DeviceSolar}},
		{mqtt.ParsedMQTTCommand{Command: mqtt.COMMAND_BUTTON, DeviceId: domain.BUTTON_ID_MAINTENANCE_RESET}, domain.ResetMaintenanceRequest{}},
		{mqtt.ParsedMQTTCommand{Command: mqtt.COMMAND_BUTTON, DeviceId: domain.BUTTON_ID_CONTROL_STEP}, domain.ControlStepRequest{}},
		{mqtt.ParsedMQTTCommand{Command: mqtt.COMMAND_BUTTON, DeviceId: domain.BUTTON_ID_CONTROL_RESET}, domain.ControlResetRequest{}},
	}
	for _, c := range cases {
		req, err := ParsedMQTTCommandToCommand(c.cmd)
		require.NoError(t, err)
		assert.Equal(t, c.expected, req)
	}
}

func TestParsedMQTTCommandToCommandUnknown(t *testing.T) {
	_, err := ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{Command: mqtt.COMMAND_BUTTON, DeviceId: "self_destruct"})
	assert.Error(t, err)

	_, err = ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{Command: mqtt.COMMAND_SWITCH, DeviceId: domain.BUTTON_ID_CONTROL_STEP})
	assert.Error(t, err)
}
