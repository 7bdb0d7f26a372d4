package util

import (
	"encoding/json"
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

type HAAvdvertisementAvailability struct {
	Topic               string `json:"topic"`                 // : "skill_relay/online"
	PayloadAvailable    string `json:"payload_available"`     // : "online"
	PayloadNotAvailable string `json:"payload_not_available"` // : "offline"
}

type HADeviceSpec struct {
	Name        string   `json:"name"` // : "arduino"
	Identifiers []string `json:"ids"`  // : ["skill_relay_arduino"]
}

// HAAdvertisement is a Home Assistant MQTT discovery config for a switch.
type HAAdvertisement struct { //nolint:govet // struct layout optimized for JSON field order
	HAAvdvertisementAvailability []HAAvdvertisementAvailability `json:"availability"`
	Device                       HADeviceSpec                   `json:"device"`
	UniqueID                     string                         `json:"uniq_id"`       // "skill_relay_switch-arduino"
	Name                         string                         `json:"name"`          // : "arduino"
	CommandTopic                 string                         `json:"command_topic"` // : "arduino/control"
	StateTopic                   string                         `json:"state_topic"`   // : "arduino/state"
	ValueTemplate                string                         `json:"value_template"`
	PayloadOn                    string                         `json:"payload_on"` // : "0"
	PayloadOff                   string                         `json:"payload_off"`
	StateOn                      string                         `json:"state_on"` // : "on"
	StateOff                     string                         `json:"state_off"`
	Platform                     string                         `json:"platform"` // "switch"
	Qos                          int                            `json:"qos"`
}

func (ha HAAdvertisement) ToJson() string {
	data, err := json.Marshal(ha)
	if err != nil {
		Logger.Error().Msgf("Error marshalling HAAdvertisement: %v", err)
		return ""
	}
	return string(data)
}

// HAStateTemplate reads every state report shape the relay accepts:
// {"state":"on"}, a JSON string "on", or bare on.
const HAStateTemplate = "{% if value_json is mapping %}{{ value_json.state }}" +
	"{% elif value_json is string %}{{ value_json }}" +
	"{% else %}{{ value | trim }}{% endif %}"

// ConstructHAAdvertisement describes the relayed device. payloadOn and
// payloadOff are what gets written to commandTopic.
func ConstructHAAdvertisement(name, commandTopic, stateTopic, payloadOn, payloadOff string) HAAdvertisement {
	return HAAdvertisement{
		Name:          name,
		CommandTopic:  commandTopic,
		StateTopic:    stateTopic,
		ValueTemplate: HAStateTemplate,
		PayloadOn:     payloadOn,
		PayloadOff:    payloadOff,
		StateOn:       "on",
		StateOff:      "off",
		HAAvdvertisementAvailability: []HAAvdvertisementAvailability{
			{
				Topic:               Config.GetString("availability_topic"),
				PayloadAvailable:    "online",
				PayloadNotAvailable: "offline",
			},
		},
		Qos:      0,
		UniqueID: "skill_relay_switch-" + name,
		Platform: "switch",
		Device: HADeviceSpec{
			Name:        name,
			Identifiers: []string{"skill_relay_" + name},
		},
	}
}

func AdvertiseHA(ha HAAdvertisement, client MQTT.Client) {
	if ha.CommandTopic == "" {
		Logger.Warn().Msgf("not advertising %s: no command topic", ha.Name)
		return
	}
	topic := "homeassistant/switch/" + ha.Name + "/config"
	if token := client.Publish(topic, 0, false, ha.ToJson()); token.Wait() && token.Error() != nil {
		Logger.Error().Msgf("Error Publishing: %v", fmt.Errorf("%v", token.Error()))
	}
}
