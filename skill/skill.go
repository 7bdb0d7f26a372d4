// Package skill adapts Alexa custom skill requests to a set of callbacks.
package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/elijahnyp/skill_relay/util"
)

var (
	ErrInvalidApplicationID = errors.New("invalid applicationId")
	ErrUnknownIntent        = errors.New("unsupported intent")
	ErrUnsupportedRequest   = errors.New("unsupported request type")
	ErrNoResponse           = errors.New("handler finished without a response")
)

// IntentHandler answers one named intent through resp.
type IntentHandler func(ctx context.Context, intent *Intent, session *Session, resp *Response) error

// Handlers is implemented by anything that wants to act as a skill.
type Handlers interface {
	OnSessionStarted(ctx context.Context, req *Request, session *Session)
	OnLaunch(ctx context.Context, req *Request, session *Session, resp *Response) error
	OnSessionEnded(ctx context.Context, req *Request, session *Session)
	IntentHandlers() map[string]IntentHandler
}

type Skill struct {
	appID    string
	handlers Handlers
}

// New returns a skill answering for appID. An empty appID accepts any caller.
func New(appID string, handlers Handlers) *Skill {
	return &Skill{appID: appID, handlers: handlers}
}

// Execute runs one request through the handlers. A nil envelope with a nil
// error means the request needs no answer (session end).
func (s *Skill) Execute(ctx context.Context, env *RequestEnvelope) (*ResponseEnvelope, error) {
	if s.appID != "" && env.ApplicationID() != s.appID {
		util.Logger.Error().Msgf("request for application %q rejected", env.ApplicationID())
		return nil, fmt.Errorf("%w: %s", ErrInvalidApplicationID, env.ApplicationID())
	}

	req := &env.Request
	if env.Session != nil && env.Session.New {
		s.handlers.OnSessionStarted(ctx, req, env.Session)
	}

	resp := newResponse(env.Session)
	switch req.Type {
	case LaunchRequest:
		if err := s.handlers.OnLaunch(ctx, req, env.Session, resp); err != nil {
			return nil, err
		}
	case IntentRequest:
		if err := s.dispatch(ctx, req, env.Session, resp); err != nil {
			return nil, err
		}
	case SessionEndedRequest:
		s.handlers.OnSessionEnded(ctx, req, env.Session)
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRequest, req.Type)
	}

	if !resp.Sent() {
		return nil, fmt.Errorf("%s: %w", req.Type, ErrNoResponse)
	}
	return resp.Envelope(), nil
}

func (s *Skill) dispatch(ctx context.Context, req *Request, session *Session, resp *Response) error {
	if req.Intent == nil {
		return fmt.Errorf("%w: request %s carries no intent", ErrUnknownIntent, req.RequestID)
	}
	handler, ok := s.handlers.IntentHandlers()[req.Intent.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIntent, req.Intent.Name)
	}
	return handler(ctx, req.Intent, session, resp)
}
