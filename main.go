package main

import (
	"context"
	"fmt"
	"os"

	"github.com/elijahnyp/skill_relay/relay"
	"github.com/elijahnyp/skill_relay/state"
	. "github.com/elijahnyp/skill_relay/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	LogInit("info", os.Getenv("LOG_FORMAT"))
	SetupConfig()
	RegisterNewConfigListener(func() { LogInit(Config.GetString("log_level"), Config.GetString("log_format")) })
	OnNewConfig()

	mode := "lambda"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	} else if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		mode = "serve"
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := relay.NewMetrics(registry)
	store := state.NewMemoryStore()

	var err error
	switch mode {
	case "lambda":
		err = runLambda(store, metrics)
	case "serve":
		err = runServe(store, metrics, registry)
	default:
		err = fmt.Errorf("unknown mode %q, expected lambda or serve", mode)
	}
	if err != nil {
		Logger.Fatal().Msgf("%v", err)
	}
}

// newPublisher connects the configured transport. For mqtt the subscriptions
// and connect hooks have to be registered before this is called.
func newPublisher(ctx context.Context) (relay.Publisher, error) {
	switch transport := Config.GetString("transport"); transport {
	case TransportIoTData:
		return NewIoTDataPublisher(ctx)
	case TransportMQTT:
		MqttInit()
		return MQTTPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}

func newRelay(store state.Store, publisher relay.Publisher, metrics *relay.Metrics) *relay.Relay {
	return relay.New(relay.Config{
		SkillID:      Config.GetString("skill_id"),
		ControlTopic: Config.GetString("control_topic"),
	}, store, publisher, metrics)
}
