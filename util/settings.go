package util

import (
	"crypto/rand"
	"fmt"
	"reflect"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const ENV_PREFIX = ""

const (
	TransportIoTData = "iotdata"
	TransportMQTT    = "mqtt"
)

var Config = viper.New()

var config_listeners []func()

func RegisterNewConfigListener(new_listener func()) {
	for _, listener := range config_listeners {
		if reflect.ValueOf(new_listener).Pointer() == reflect.ValueOf(listener).Pointer() {
			Logger.Warn().Msg("config listener already registered")
			return
		}
	}
	config_listeners = append(config_listeners, new_listener)
}

func OnNewConfig() {
	for _, listener := range config_listeners {
		listener()
	}
}

func GetRandString(n int) string {
	// using crypto/rand for better security
	const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		randBytes := make([]byte, 1)
		if _, err := rand.Read(randBytes); err != nil {
			// fallback to a simple approach if crypto/rand fails
			b[i] = letterBytes[i%len(letterBytes)]
		} else {
			b[i] = letterBytes[int(randBytes[0])%len(letterBytes)]
		}
	}
	return string(b)
}

func SetupConfig() {
	Config.SetEnvPrefix(ENV_PREFIX)
	// set defaults
	Config.SetDefault("Skill_id", "")
	Config.SetDefault("Transport", TransportIoTData)
	Config.SetDefault("Iot_endpoint", "")
	Config.SetDefault("Iot_region", "us-east-1")
	Config.SetDefault("Thing_name", "arduino")
	Config.SetDefault("Control_topic", "arduino/control")
	Config.SetDefault("State_topic", "arduino/state")
	Config.SetDefault("Availability_topic", "skill_relay/online")
	Config.SetDefault("Broker_URI", "tcp://mqtt")
	Config.SetDefault("Cleansess", false)
	Config.SetDefault("Id_base", "skill_relay")
	Config.SetDefault("Username", "")
	Config.SetDefault("Password", "")
	Config.SetDefault("Tls_ca", "")
	Config.SetDefault("Tls_cert", "")
	Config.SetDefault("Tls_key", "")
	Config.SetDefault("Log_level", "info")
	Config.SetDefault("Log_format", "console")
	Config.SetDefault("Details_port", 8080)
	Config.SetDefault("Ha_discovery", true)

	// config file
	Config.SetConfigName("skill_relay")
	Config.AddConfigPath("/")
	Config.AddConfigPath("./")
	Config.AddConfigPath("./config")
	Config.AddConfigPath("/etc")
	Config.AddConfigPath("/skill_relay")
	Config.AddConfigPath("/skill_relay/config")

	err := Config.ReadInConfig()
	if err != nil {
		// a Lambda is normally configured from its environment alone
		Logger.Debug().Msgf("unable to read config file: %v", fmt.Errorf("%v", err))
	}

	// environment variables
	Config.AutomaticEnv()

	// watch for changes
	if Config.ConfigFileUsed() != "" {
		Config.WatchConfig()
		Config.OnConfigChange(func(e fsnotify.Event) {
			Logger.Info().Msgf("Config file changed: %v", e.Name)
			Logger.Debug().Msgf("Config Additional Info: %v", e.String())
			OnNewConfig()
		})
	}
}
