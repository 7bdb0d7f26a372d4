package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/elijahnyp/skill_relay/relay"
	"github.com/elijahnyp/skill_relay/state"
	. "github.com/elijahnyp/skill_relay/util"
	"github.com/prometheus/client_golang/prometheus"
)

// runServe answers skill requests over HTTP and, on the mqtt transport,
// listens for the device's state reports itself.
func runServe(store state.Store, metrics *relay.Metrics, registry *prometheus.Registry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// set once the publisher exists; the subscription has to be registered
	// before the first connect
	var current atomic.Pointer[relay.Relay]
	if Config.GetString("transport") == TransportMQTT {
		RegisterMQTTSubscription(Config.GetString("state_topic"), stateReportHandler(&current))
		if Config.GetBool("ha_discovery") {
			RegisterMQTTConnectHook("haadvertise", advertiseDevice)
		}
	}

	publisher, err := newPublisher(ctx)
	if err != nil {
		return err
	}
	r := newRelay(store, publisher, metrics)
	current.Store(r)

	monitor := NewMonitorServer()
	registerHandlers(monitor, r)
	monitor.AddMetrics(registry)
	if err := monitor.Start(); err != nil {
		return err
	}
	RegisterNewConfigListener(func() { monitor.Restart() })
	Logger.Info().Msgf("ready on :%d", Config.GetInt("details_port"))

	<-ctx.Done()
	Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := monitor.Shutdown(shutdownCtx); err != nil {
		Logger.Error().Msgf("Error shutting down monitor server: %v", err)
	}
	if Client != nil && Client.IsConnected() {
		Client.Disconnect(250)
	}
	return nil
}

// stateReportHandler feeds state-topic messages to whichever relay current
// holds. Messages that arrive before one is set are dropped.
func stateReportHandler(current *atomic.Pointer[relay.Relay]) MQTT.MessageHandler {
	return func(client MQTT.Client, message MQTT.Message) {
		r := current.Load()
		if r == nil {
			Logger.Warn().Msgf("state report on %s before startup finished, dropped", message.Topic())
			return
		}
		r.HandleStateReport(relay.ParseReport(message.Payload()))
	}
}

func advertiseDevice(client MQTT.Client) {
	AdvertiseHA(deviceAdvertisement(), client)
}

func deviceAdvertisement() HAAdvertisement {
	on := relay.ControlCommand{Target: state.On}.Payload()
	off := relay.ControlCommand{Target: state.Off}.Payload()
	return ConstructHAAdvertisement(
		Config.GetString("thing_name"),
		Config.GetString("control_topic"),
		Config.GetString("state_topic"),
		string(on),
		string(off),
	)
}
