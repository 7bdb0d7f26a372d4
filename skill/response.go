package skill

import (
	"maps"

	"github.com/elijahnyp/skill_relay/util"
)

const ResponseVersion = "1.0"

// ResponseEnvelope is what gets returned to the Alexa service.
type ResponseEnvelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes,omitempty"`
	Response          ResponseBody   `json:"response"`
}

type ResponseBody struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Response collects the single answer for one request. Exactly one of the
// terminal methods (Tell*, Ask*) takes effect; later calls are dropped.
type Response struct {
	attributes map[string]any
	envelope   *ResponseEnvelope
}

func newResponse(session *Session) *Response {
	r := &Response{}
	if session != nil {
		r.attributes = maps.Clone(session.Attributes)
	}
	return r
}

func plainText(text string) *OutputSpeech {
	return &OutputSpeech{Type: "PlainText", Text: text}
}

func (r *Response) finish(body ResponseBody) {
	if r.envelope != nil {
		util.Logger.Warn().Msgf("response already sent, dropping %q", body.OutputSpeech.Text)
		return
	}
	r.envelope = &ResponseEnvelope{
		Version:           ResponseVersion,
		SessionAttributes: r.attributes,
		Response:          body,
	}
}

// Tell speaks and ends the session.
func (r *Response) Tell(speech string) {
	r.finish(ResponseBody{OutputSpeech: plainText(speech), ShouldEndSession: true})
}

func (r *Response) TellWithCard(speech, title, content string) {
	r.finish(ResponseBody{
		OutputSpeech:     plainText(speech),
		Card:             &Card{Type: "Simple", Title: title, Content: content},
		ShouldEndSession: true,
	})
}

// Ask speaks and keeps the session open, waiting for the user.
func (r *Response) Ask(speech, reprompt string) {
	r.finish(ResponseBody{
		OutputSpeech: plainText(speech),
		Reprompt:     &Reprompt{OutputSpeech: *plainText(reprompt)},
	})
}

func (r *Response) AskWithCard(speech, reprompt, title, content string) {
	r.finish(ResponseBody{
		OutputSpeech: plainText(speech),
		Reprompt:     &Reprompt{OutputSpeech: *plainText(reprompt)},
		Card:         &Card{Type: "Simple", Title: title, Content: content},
	})
}

// SetAttribute stores a value that comes back on the next turn of the session.
func (r *Response) SetAttribute(key string, value any) {
	if r.attributes == nil {
		r.attributes = make(map[string]any)
	}
	r.attributes[key] = value
}

// Sent reports whether a terminal method was called.
func (r *Response) Sent() bool {
	return r.envelope != nil
}

// Envelope returns the finished response, or nil if nothing was sent.
func (r *Response) Envelope() *ResponseEnvelope {
	return r.envelope
}
