package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/elijahnyp/skill_relay/relay"
	"github.com/elijahnyp/skill_relay/skill"
	. "github.com/elijahnyp/skill_relay/util"
)

const maxEventBytes = 1 << 20

func registerHandlers(monitor *MonitorServer, r *relay.Relay) {
	monitor.AddMethodHandler(http.MethodPost, "/skill", SkillHandler(r))
	monitor.AddMethodHandler(http.MethodGet, "/state", StateHandler(r))
	monitor.AddHandler("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok")) //nolint:errcheck // client gone
	})
}

// SkillHandler accepts the same events the Lambda does, as a POST body.
func SkillHandler(r *relay.Relay) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxEventBytes))
		if err != nil {
			http.Error(w, "unable to read body", http.StatusBadRequest)
			return
		}

		resp, err := r.Handle(req.Context(), body)
		if err != nil {
			Logger.Warn().Msgf("skill request failed: %v", err)
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		if resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			Logger.Error().Msgf("Error writing skill response: %v", err)
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, relay.ErrMalformedEvent),
		errors.Is(err, skill.ErrUnknownIntent),
		errors.Is(err, skill.ErrUnsupportedRequest):
		return http.StatusBadRequest
	case errors.Is(err, skill.ErrInvalidApplicationID):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func StateHandler(r *relay.Relay) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"state": r.State().String()}); err != nil {
			Logger.Error().Msgf("Error writing state: %v", err)
		}
	}
}
