// Package relay connects voice requests and device state reports to a single
// device: voice requests become control messages, state reports are kept for
// the next voice query.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elijahnyp/skill_relay/skill"
	"github.com/elijahnyp/skill_relay/state"
	"github.com/elijahnyp/skill_relay/util"
)

var ErrMalformedEvent = errors.New("malformed event")

type EventKind int

const (
	StateReport EventKind = iota
	VoiceRequest
)

func (k EventKind) String() string {
	switch k {
	case StateReport:
		return "state_report"
	case VoiceRequest:
		return "voice_request"
	}
	return "unknown"
}

// Report is the body the device sends when its switch changes.
type Report struct {
	State state.DeviceState
}

type Config struct {
	SkillID      string
	ControlTopic string
}

type Relay struct {
	store     state.Store
	publisher Publisher
	metrics   *Metrics
	topic     string
	skill     *skill.Skill
	intents   map[string]skill.IntentHandler
}

func New(cfg Config, store state.Store, publisher Publisher, metrics *Metrics) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		topic:     cfg.ControlTopic,
	}
	r.intents = map[string]skill.IntentHandler{
		IntentLED:    r.handleLED,
		IntentState:  r.handleState,
		IntentHelp:   r.handleHelp,
		IntentStop:   r.handleStop,
		IntentCancel: r.handleStop,
	}
	r.skill = skill.New(cfg.SkillID, r)
	return r
}

// Classify tells the two event shapes apart by the Alexa version marker.
// An absent, null or empty version means the event came from the device.
func Classify(event []byte) (EventKind, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(event, &fields); err != nil || fields == nil {
		return 0, fmt.Errorf("%w: not a json object", ErrMalformedEvent)
	}
	version, ok := fields["version"]
	if !ok {
		return StateReport, nil
	}
	version = bytes.TrimSpace(version)
	if bytes.Equal(version, []byte("null")) || bytes.Equal(version, []byte(`""`)) {
		return StateReport, nil
	}
	return VoiceRequest, nil
}

// ParseReport reads a state report. It never fails: anything without a usable
// state string reports Unknown. Payloads that aren't JSON objects are taken as
// the bare state text, which is how switches publishing straight to MQTT send it.
func ParseReport(payload []byte) Report {
	var body struct {
		State any `json:"state"`
	}
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return reportOf(s)
		}
		return reportOf(string(trimmed))
	}
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return Report{State: state.Unknown}
	}
	s, _ := body.State.(string)
	return reportOf(s)
}

func reportOf(s string) Report {
	if s == "" {
		return Report{State: state.Unknown}
	}
	return Report{State: state.DeviceState(s)}
}

// Handle is the single entry point for both event shapes. State reports
// produce no response.
func (r *Relay) Handle(ctx context.Context, event []byte) (*skill.ResponseEnvelope, error) {
	kind, err := Classify(event)
	if err != nil {
		return nil, err
	}
	util.Logger.Debug().Msgf("received %v event", kind)

	if kind == StateReport {
		util.Logger.Info().Msgf("IoT event received: %s", event)
		r.HandleStateReport(ParseReport(event))
		return nil, nil
	}

	var env skill.RequestEnvelope
	if err := json.Unmarshal(event, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return r.HandleVoiceRequest(ctx, &env)
}

// HandleStateReport stores the reported state as is.
func (r *Relay) HandleStateReport(report Report) {
	if !report.State.Known() {
		util.Logger.Warn().Msgf("device reported unexpected state %q, storing it anyway", report.State)
	}
	r.store.Set(report.State)
	r.metrics.stateReport()
	util.Logger.Info().Msgf("switch state is now %v", report.State)
}

func (r *Relay) HandleVoiceRequest(ctx context.Context, env *skill.RequestEnvelope) (*skill.ResponseEnvelope, error) {
	return r.skill.Execute(ctx, env)
}

// State returns the last reported device state.
func (r *Relay) State() state.DeviceState {
	return r.store.Get()
}

func (r *Relay) OnSessionStarted(_ context.Context, req *skill.Request, session *skill.Session) {
	util.Logger.Info().Msgf("onSessionStarted requestId: %s, sessionId: %s", req.RequestID, session.ID())
}

func (r *Relay) OnLaunch(_ context.Context, req *skill.Request, session *skill.Session, resp *skill.Response) error {
	util.Logger.Info().Msgf("onLaunch requestId: %s, sessionId: %s", req.RequestID, session.ID())
	r.metrics.intent(skill.LaunchRequest)
	resp.Ask(SpeechWelcome, SpeechWelcomeReprompt)
	return nil
}

func (r *Relay) OnSessionEnded(_ context.Context, req *skill.Request, session *skill.Session) {
	util.Logger.Info().Msgf("onSessionEnded requestId: %s, sessionId: %s, reason: %s", req.RequestID, session.ID(), req.Reason)
}

func (r *Relay) IntentHandlers() map[string]skill.IntentHandler {
	return r.intents
}
