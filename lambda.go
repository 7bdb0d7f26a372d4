package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/elijahnyp/skill_relay/relay"
	"github.com/elijahnyp/skill_relay/skill"
	"github.com/elijahnyp/skill_relay/state"
	. "github.com/elijahnyp/skill_relay/util"
)

type lambdaHandler struct {
	relay *relay.Relay
}

// Invoke handles both the device's state reports and Alexa requests. State
// reports return a null result.
func (h lambdaHandler) Invoke(ctx context.Context, event json.RawMessage) (*skill.ResponseEnvelope, error) {
	logger := Logger.With().Logger()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = Logger.With().Str("request_id", lc.AwsRequestID).Logger()
	}
	logger.Debug().Msg("=====START=====")

	resp, err := h.relay.Handle(ctx, event)
	if err != nil {
		logger.Error().Msgf("invocation failed: %v", err)
		return nil, err
	}
	return resp, nil
}

func runLambda(store state.Store, metrics *relay.Metrics) error {
	publisher, err := newPublisher(context.Background())
	if err != nil {
		return err
	}
	h := lambdaHandler{relay: newRelay(store, publisher, metrics)}
	Logger.Info().Msg("cold start complete")
	lambda.Start(h.Invoke)
	return nil
}
