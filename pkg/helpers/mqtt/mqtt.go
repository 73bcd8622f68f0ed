// SPDX-License-Identifier: MPL-2.0

// Package mqtt declares the options of an MQTT client connection and builds
// the client with github.com/eclipse/paho.mqtt.golang.
package mqtt

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/argparseutils/argparseutils/pkg/options"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/pflag"
)

// Group is the option group name used for shard registration.
const Group = "mqtt"

// Transports accepted by the mqtt-transport option.
const (
	TransportTCP        = "tcp"
	TransportWebsockets = "websockets"
)

// Config is the resolved configuration of one MQTT connection.
type Config struct {
	Host         string
	Port         int
	SSL          bool
	ClientID     string
	KeepAlive    time.Duration
	Username     string
	Password     string
	Transport    string
	CleanSession bool
	WSPath       string
}

// AddFlags declares the mqtt-* options of shard on fs. clientID is the
// author default of mqtt-client-id.
func AddFlags(reg *options.Registry, fs *pflag.FlagSet, clientID, shard string, overrides options.Overrides) ([]*options.Flag, error) {
	var defaultClientID any
	if clientID != "" {
		defaultClientID = clientID
	}

	d := reg.Declare(fs, Group, shard, overrides)
	d.Add(options.Option{Name: "mqtt-host", Default: "localhost",
		Help: "The MQTT server hostname to connect to"})
	d.Add(options.Option{Name: "mqtt-port", Type: options.TypeInt, Default: 1883,
		Help: "The MQTT Server port to connect to"})
	d.Add(options.Option{Name: "mqtt-ssl", Type: options.TypeBool, Default: false,
		Help: "Use SSL when connecting to the MQTT server"})
	d.Add(options.Option{Name: "mqtt-client-id", Default: defaultClientID,
		Help: "The MQTT Client Id to use on the connection"})
	d.Add(options.Option{Name: "mqtt-keepalive", Type: options.TypeInt, Default: 60,
		Help: "The MQTT connection keepalive (seconds)"})
	d.Add(options.Option{Name: "mqtt-username",
		Help: "The MQTT Username to connect with"})
	d.Add(options.Option{Name: "mqtt-password",
		Help: "The MQTT Password to connect with"})
	d.Add(options.Option{Name: "mqtt-transport", Default: TransportTCP, Choices: []string{TransportTCP, TransportWebsockets},
		Help: "The MQTT Transport to use with the connection"})
	d.Add(options.Option{Name: "mqtt-clean-session", Type: options.TypeBool, Default: true,
		Help: "If false, subscriptions and queued messages are retained when the client disconnects"})
	d.Add(options.Option{Name: "mqtt-ws-path", Default: "/mqtt/",
		Help: "The MQTT Websocket path"})
	return d.Flags(), d.Err()
}

// FromFlags reads the configuration of shard from a parsed flag set.
func FromFlags(reg *options.Registry, fs *pflag.FlagSet, shard string) (Config, error) {
	if err := reg.Shards.Validate(Group, shard); err != nil {
		return Config{}, err
	}
	r := options.NewReader(fs, shard)
	cfg := Config{
		Host:         r.String("mqtt-host"),
		Port:         r.Int("mqtt-port"),
		SSL:          r.Bool("mqtt-ssl"),
		ClientID:     r.String("mqtt-client-id"),
		KeepAlive:    time.Duration(r.Int("mqtt-keepalive")) * time.Second,
		Username:     r.String("mqtt-username"),
		Password:     r.String("mqtt-password"),
		Transport:    r.String("mqtt-transport"),
		CleanSession: r.Bool("mqtt-clean-session"),
		WSPath:       r.String("mqtt-ws-path"),
	}
	if err := r.Err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BrokerURL returns the broker address in the form paho expects.
func (cfg Config) BrokerURL() string {
	u := url.URL{Host: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))}
	switch {
	case cfg.Transport == TransportWebsockets && cfg.SSL:
		u.Scheme, u.Path = "wss", cfg.WSPath
	case cfg.Transport == TransportWebsockets:
		u.Scheme, u.Path = "ws", cfg.WSPath
	case cfg.SSL:
		u.Scheme = "ssl"
	default:
		u.Scheme = "tcp"
	}
	return u.String()
}

// ClientOptions maps cfg onto paho client options.
func (cfg Config) ClientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL()).
		SetClientID(cfg.ClientID).
		SetCleanSession(cfg.CleanSession).
		SetKeepAlive(cfg.KeepAlive)
	if cfg.SSL {
		opts.SetTLSConfig(&tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		})
	}
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	return opts
}

// NewClient builds an unconnected client for cfg.
func NewClient(cfg Config) mqtt.Client {
	return mqtt.NewClient(cfg.ClientOptions())
}

// Connect connects client and waits for the broker to acknowledge or ctx to
// be done.
func Connect(ctx context.Context, client mqtt.Client) error {
	token := client.Connect()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to mqtt broker: %w", err)
	}
	return nil
}
