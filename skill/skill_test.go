package skill

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandlers struct {
	started  int
	ended    int
	launches int
	intents  map[string]IntentHandler
}

func (s *stubHandlers) OnSessionStarted(context.Context, *Request, *Session) { s.started++ }
func (s *stubHandlers) OnSessionEnded(context.Context, *Request, *Session)   { s.ended++ }

func (s *stubHandlers) OnLaunch(_ context.Context, _ *Request, _ *Session, resp *Response) error {
	s.launches++
	resp.Ask("hello", "say something")
	return nil
}

func (s *stubHandlers) IntentHandlers() map[string]IntentHandler { return s.intents }

func envelope(appID, reqType string, intent *Intent) *RequestEnvelope {
	return &RequestEnvelope{
		Version: "1.0",
		Session: &Session{
			New:         true,
			SessionID:   "session-1",
			Application: Application{ApplicationID: appID},
			Attributes:  map[string]any{"turn": float64(1)},
		},
		Request: Request{Type: reqType, RequestID: "req-1", Intent: intent},
	}
}

func TestResponseTell(t *testing.T) {
	resp := newResponse(nil)
	resp.Tell("done")

	require.True(t, resp.Sent())
	env := resp.Envelope()
	assert.Equal(t, ResponseVersion, env.Version)
	assert.Equal(t, "PlainText", env.Response.OutputSpeech.Type)
	assert.Equal(t, "done", env.Response.OutputSpeech.Text)
	assert.Nil(t, env.Response.Reprompt)
	assert.True(t, env.Response.ShouldEndSession)
}

func TestResponseAsk(t *testing.T) {
	resp := newResponse(nil)
	resp.Ask("question", "again")

	env := resp.Envelope()
	require.NotNil(t, env)
	assert.Equal(t, "question", env.Response.OutputSpeech.Text)
	require.NotNil(t, env.Response.Reprompt)
	assert.Equal(t, "again", env.Response.Reprompt.OutputSpeech.Text)
	assert.False(t, env.Response.ShouldEndSession)
}

func TestResponseCards(t *testing.T) {
	resp := newResponse(nil)
	resp.TellWithCard("done", "LED", "turned on")
	require.NotNil(t, resp.Envelope().Response.Card)
	assert.Equal(t, "Simple", resp.Envelope().Response.Card.Type)
	assert.Equal(t, "LED", resp.Envelope().Response.Card.Title)
	assert.True(t, resp.Envelope().Response.ShouldEndSession)

	resp = newResponse(nil)
	resp.AskWithCard("question", "again", "LED", "what now")
	assert.Equal(t, "what now", resp.Envelope().Response.Card.Content)
	assert.False(t, resp.Envelope().Response.ShouldEndSession)
}

func TestResponseOnlyFirstTerminalCounts(t *testing.T) {
	resp := newResponse(nil)
	resp.Tell("first")
	resp.Ask("second", "second")

	assert.Equal(t, "first", resp.Envelope().Response.OutputSpeech.Text)
	assert.True(t, resp.Envelope().Response.ShouldEndSession)
}

func TestResponseEchoesSessionAttributes(t *testing.T) {
	session := &Session{Attributes: map[string]any{"turn": float64(1)}}
	resp := newResponse(session)
	resp.SetAttribute("last", "on")
	resp.Tell("ok")

	assert.Equal(t, map[string]any{"turn": float64(1), "last": "on"}, resp.Envelope().SessionAttributes)
	assert.Equal(t, map[string]any{"turn": float64(1)}, session.Attributes, "request attributes must not change")
}

func TestResponseJSONShape(t *testing.T) {
	resp := newResponse(nil)
	resp.Tell("Turning the LED on")

	data, err := json.Marshal(resp.Envelope())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": "1.0",
		"response": {
			"outputSpeech": {"type": "PlainText", "text": "Turning the LED on"},
			"shouldEndSession": true
		}
	}`, string(data))
}

func TestExecuteLaunch(t *testing.T) {
	h := &stubHandlers{}
	s := New("amzn1.ask.skill.test", h)

	env, err := s.Execute(context.Background(), envelope("amzn1.ask.skill.test", LaunchRequest, nil))

	require.NoError(t, err)
	assert.Equal(t, 1, h.started)
	assert.Equal(t, 1, h.launches)
	assert.False(t, env.Response.ShouldEndSession)
}

func TestExecuteRejectsOtherApplication(t *testing.T) {
	h := &stubHandlers{}
	s := New("amzn1.ask.skill.test", h)

	_, err := s.Execute(context.Background(), envelope("amzn1.ask.skill.other", LaunchRequest, nil))

	assert.ErrorIs(t, err, ErrInvalidApplicationID)
	assert.Zero(t, h.launches)
}

func TestExecuteWithoutConfiguredIDAcceptsAll(t *testing.T) {
	s := New("", &stubHandlers{})

	_, err := s.Execute(context.Background(), envelope("amzn1.ask.skill.anything", LaunchRequest, nil))

	assert.NoError(t, err)
}

func TestExecuteApplicationIDFromContext(t *testing.T) {
	env := envelope("", LaunchRequest, nil)
	env.Session = nil
	env.Context = &Context{}
	env.Context.System.Application.ApplicationID = "amzn1.ask.skill.test"

	_, err := New("amzn1.ask.skill.test", &stubHandlers{}).Execute(context.Background(), env)

	assert.NoError(t, err)
}

func TestExecuteDispatchesIntent(t *testing.T) {
	var got string
	h := &stubHandlers{intents: map[string]IntentHandler{
		"ledIntent": func(_ context.Context, intent *Intent, _ *Session, resp *Response) error {
			got = intent.SlotValue("STATE")
			resp.Tell("ok")
			return nil
		},
	}}
	intent := &Intent{Name: "ledIntent", Slots: map[string]Slot{"STATE": {Name: "STATE", Value: " on "}}}

	env, err := New("", h).Execute(context.Background(), envelope("", IntentRequest, intent))

	require.NoError(t, err)
	assert.Equal(t, "on", got)
	assert.Equal(t, "ok", env.Response.OutputSpeech.Text)
}

func TestExecuteUnknownIntent(t *testing.T) {
	h := &stubHandlers{intents: map[string]IntentHandler{}}

	_, err := New("", h).Execute(context.Background(), envelope("", IntentRequest, &Intent{Name: "danceIntent"}))

	assert.ErrorIs(t, err, ErrUnknownIntent)
	assert.Contains(t, err.Error(), "danceIntent")
}

func TestExecuteIntentRequestWithoutIntent(t *testing.T) {
	_, err := New("", &stubHandlers{}).Execute(context.Background(), envelope("", IntentRequest, nil))

	assert.ErrorIs(t, err, ErrUnknownIntent)
}

func TestExecuteHandlerWithoutResponse(t *testing.T) {
	h := &stubHandlers{intents: map[string]IntentHandler{
		"silentIntent": func(context.Context, *Intent, *Session, *Response) error { return nil },
	}}

	_, err := New("", h).Execute(context.Background(), envelope("", IntentRequest, &Intent{Name: "silentIntent"}))

	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestExecuteSessionEnded(t *testing.T) {
	h := &stubHandlers{}
	env := envelope("", SessionEndedRequest, nil)
	env.Session.New = false

	resp, err := New("", h).Execute(context.Background(), env)

	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 1, h.ended)
	assert.Zero(t, h.started)
}

func TestExecuteUnsupportedRequest(t *testing.T) {
	_, err := New("", &stubHandlers{}).Execute(context.Background(), envelope("", "AudioPlayer.PlaybackStarted", nil))

	assert.ErrorIs(t, err, ErrUnsupportedRequest)
}

func TestSlotValueMissing(t *testing.T) {
	var nilIntent *Intent
	assert.Equal(t, "", nilIntent.SlotValue("STATE"))
	assert.Equal(t, "", (&Intent{Name: "ledIntent"}).SlotValue("STATE"))
}

func TestSessionID(t *testing.T) {
	var nilSession *Session
	assert.Equal(t, "", nilSession.ID())
	assert.Equal(t, "session-1", (&Session{SessionID: "session-1"}).ID())
}
