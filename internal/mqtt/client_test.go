package mqtt

import (
	"testing"

	"github.com/berfenger/hybridplant/internal/config"
	"github.com/berfenger/hybridplant/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMessage struct {
	topic   string
	payload string
}

func (m testMessage) Duplicate() bool   { return false }
func (m testMessage) Qos() byte         { return 1 }
func (m testMessage) Retained() bool    { return false }
func (m testMessage) Topic() string     { return m.topic }
func (m testMessage) MessageID() uint16 { return 0 }
func (m testMessage) Payload() []byte   { return []byte(m.payload) }
func (m testMessage) Ack()              {}

func testClient() *MQTTClient {
	cfg := config.Config{MQTT: config.MQTTConfig{BaseTopic: "plant", HADiscoveryTopic: "ha"}}
	return CreateMQTTClient(&cfg, OptsFromConfig(&cfg), nil, nil)
}

func TestSwitchCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/switch/my_device/command"
	r := switchCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(matches[0][1], "my_device", "device extract")
}

func TestSwitchCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/switch/my_device/state"
	r := switchCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(len(matches), 0, "no matches")
}

func TestButtonCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/button/control_step/press"
	r := buttonCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(matches[0][1], "control_step", "button_id extract")
}

func TestButtonCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/switch/control_step/command"
	r := buttonCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(len(matches), 0, "no matches")
}

func TestParseMQTTCommand(t *testing.T) {
	require := require.New(t)
	c := testClient()

	cmd, err := c.ParseMQTTCommand(testMessage{topic: "plant/switch/control_autorun/command", payload: "on"})
	require.NoError(err)
	require.Equal(ParsedMQTTCommand{DeviceId: domain.SWITCH_ID_CONTROL_AUTORUN, Command: COMMAND_SWITCH, Payload: "on"}, *cmd)

	cmd, err = c.ParseMQTTCommand(testMessage{topic: "plant/button/maintenance_wind/press", payload: "press"})
	require.NoError(err)
	require.Equal(COMMAND_BUTTON, cmd.Command)
	require.Equal(domain.BUTTON_ID_MAINTENANCE_WIND, cmd.DeviceId)

	_, err = c.ParseMQTTCommand(testMessage{topic: "plant/switch/control_autorun/command", payload: "maybe"})
	require.Error(err)

	// state topics are published by the bridge itself
	_, err = c.ParseMQTTCommand(testMessage{topic: "plant/sensor/battery_soc/state", payload: "50"})
	require.Error(err)
}

func TestHADiscoveryMessages(t *testing.T) {
	c := testClient()
	dev := domain.BatteryDevice("plant")

	sensors := domain.BatterySensors(dev)
	soc := GenericSensorToHADiscoveryMessage(c, sensors[0])
	assert.Equal(t, "plant/sensor/battery_soc/state", soc.StateTopic)
	assert.Equal(t, "plant/bridge/state", soc.AvTopic)
	assert.Equal(t, "%", soc.UnitOfMeasurement)
	assert.Equal(t, "ha/sensor/"+dev.Id+"/battery_soc/config", HADiscoverySensorTopic(c, sensors[0]))

	sw := GenericSwitchToHADiscoveryMessage(c, domain.ControlSwitches(dev)[0])
	assert.Equal(t, "plant/switch/control_autorun/command", sw.CommandTopic)
	assert.Equal(t, MQTT_PAYLOAD_ON, sw.PayloadOn)

	button := domain.ControlButtons(dev)[0]
	b := GenericButtonToHADiscoveryMessage(c, button)
	assert.Equal(t, "plant/button/control_step/press", b.CommandTopic)
	assert.Empty(t, b.StateTopic)
	assert.Equal(t, "ha/button/"+dev.Id+"/control_step/config", HADiscoveryButtonTopic(c, button))

	bin := domain.GenerationSensors(dev, domain.DeviceWind, false)[0]
	require.Equal(t, domain.SENSOR_TYPE_BINARY, bin.SensorType)
	binMsg := GenericSensorToHADiscoveryMessage(c, bin)
	assert.Equal(t, "plant/binary_sensor/wind_overheat/state", binMsg.StateTopic)
	assert.Equal(t, MQTT_PAYLOAD_ON, binMsg.PayloadOn)
}
