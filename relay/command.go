package relay

import (
	"context"
	"strconv"
	"strings"

	"github.com/elijahnyp/skill_relay/state"
)

// QoS of every control message: at most once.
const QoS byte = 0

// Publisher delivers one message to the broker and returns once it is acknowledged.
type Publisher interface {
	Publish(ctx context.Context, topic string, qos byte, payload []byte) error
}

// ControlCommand asks the device to switch to Target.
type ControlCommand struct {
	Target state.DeviceState
	Topic  string
}

// ParseTarget matches a spoken slot value against on/off, ignoring case.
func ParseTarget(slot string) (state.DeviceState, bool) {
	switch strings.ToLower(strings.TrimSpace(slot)) {
	case "on":
		return state.On, true
	case "off":
		return state.Off, true
	}
	return "", false
}

// Payload is the integer written to the control topic: 0 for on, 1 for off.
func (c ControlCommand) Payload() []byte {
	v := 1
	if c.Target == state.On {
		v = 0
	}
	return []byte(strconv.Itoa(v))
}
