package relay

import (
	"context"

	"github.com/elijahnyp/skill_relay/skill"
	"github.com/elijahnyp/skill_relay/util"
)

const (
	IntentLED    = "ledIntent"
	IntentState  = "stateIntent"
	IntentHelp   = "AMAZON.HelpIntent"
	IntentStop   = "AMAZON.StopIntent"
	IntentCancel = "AMAZON.CancelIntent"

	// SlotState carries the spoken target of IntentLED.
	SlotState = "STATE"
)

const (
	SpeechWelcome         = "Welcome to Alexa Skills Kit, you can use this skill to interact with your Wicked Feather"
	SpeechWelcomeReprompt = "You can say ... Turn the LED on, or ask for the state of the switch"
	SpeechHelp            = "You can ask me to turn the LED on or off, or for the state of the switch."
	SpeechBadTarget       = "Haha! It has to be ON or OFF"
	SpeechUnreachable     = "Sorry, I could not reach the device"
	SpeechGoodbye         = "Goodbye"
	speechTurning         = "Turning the LED "
	speechCurrently       = "the switch is currently "
)

func (r *Relay) handleLED(ctx context.Context, intent *skill.Intent, _ *skill.Session, resp *skill.Response) error {
	r.metrics.intent(IntentLED)
	slot := intent.SlotValue(SlotState)
	util.Logger.Info().Msgf("requested state: %q", slot)

	target, ok := ParseTarget(slot)
	if !ok {
		resp.Tell(SpeechBadTarget)
		return nil
	}

	cmd := ControlCommand{Target: target, Topic: r.topic}
	err := r.publisher.Publish(ctx, cmd.Topic, QoS, cmd.Payload())
	r.metrics.publish(err)
	if err != nil {
		util.Logger.Error().Msgf("MQTT error publishing to %s: %v", cmd.Topic, err)
		resp.Tell(SpeechUnreachable)
		return nil
	}
	util.Logger.Debug().Msgf("published %s to %s", cmd.Payload(), cmd.Topic)
	resp.Tell(speechTurning + slot)
	return nil
}

func (r *Relay) handleState(_ context.Context, _ *skill.Intent, _ *skill.Session, resp *skill.Response) error {
	r.metrics.intent(IntentState)
	resp.Tell(speechCurrently + r.store.Get().String())
	return nil
}

func (r *Relay) handleHelp(_ context.Context, _ *skill.Intent, _ *skill.Session, resp *skill.Response) error {
	r.metrics.intent(IntentHelp)
	resp.Ask(SpeechHelp, SpeechHelp)
	return nil
}

func (r *Relay) handleStop(_ context.Context, intent *skill.Intent, _ *skill.Session, resp *skill.Response) error {
	r.metrics.intent(intent.Name)
	resp.Tell(SpeechGoodbye)
	return nil
}
