// SPDX-License-Identifier: MPL-2.0

package mqtt

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/argparseutils/argparseutils/internal/testutil"
	"github.com/argparseutils/argparseutils/pkg/options"
)

func TestAddFlags(t *testing.T) {
	t.Parallel()

	reg := testutil.NewRegistry(t, map[string]string{
		"TELEMETRY_MQTT_HOST":          "broker.local",
		"TELEMETRY_MQTT_CLEAN_SESSION": "false",
	})
	fs := testutil.NewFlagSet("mqtt")
	if _, err := AddFlags(reg, fs, "gateway-1", "telemetry", options.Overrides{"mqtt_keepalive": 30}); err != nil {
		t.Fatalf("AddFlags() unexpected error: %v", err)
	}
	testutil.MustParse(t, fs, "--telemetry-mqtt-username", "alice", "--telemetry-mqtt-ssl")

	cfg, err := FromFlags(reg, fs, "telemetry")
	if err != nil {
		t.Fatalf("FromFlags() unexpected error: %v", err)
	}
	want := Config{
		Host:         "broker.local",
		Port:         1883,
		SSL:          true,
		ClientID:     "gateway-1",
		KeepAlive:    30 * time.Second,
		Username:     "alice",
		Transport:    TransportTCP,
		CleanSession: false,
		WSPath:       "/mqtt/",
	}
	if cfg != want {
		t.Errorf("FromFlags() = %+v, want %+v", cfg, want)
	}
}

func TestAddFlags_ClientIDWithoutDefault(t *testing.T) {
	t.Parallel()

	reg := testutil.NewRegistry(t, nil)
	fs := testutil.NewFlagSet("mqtt")
	flags, err := AddFlags(reg, fs, "", "", nil)
	if err != nil {
		t.Fatalf("AddFlags() unexpected error: %v", err)
	}
	for _, f := range flags {
		if f.Name == "mqtt-client-id" && f.HasDefault() {
			t.Errorf("mqtt-client-id default = %v, want none", f.Default)
		}
	}
}

func TestConfig_BrokerURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"tcp", Config{Host: "localhost", Port: 1883, Transport: TransportTCP}, "tcp://localhost:1883"},
		{"ssl", Config{Host: "broker", Port: 8883, Transport: TransportTCP, SSL: true}, "ssl://broker:8883"},
		{"ws", Config{Host: "broker", Port: 80, Transport: TransportWebsockets, WSPath: "/mqtt/"}, "ws://broker:80/mqtt/"},
		{"wss", Config{Host: "broker", Port: 443, Transport: TransportWebsockets, SSL: true, WSPath: "/ws"}, "wss://broker:443/ws"},
		{"ipv6", Config{Host: "::1", Port: 1883, Transport: TransportTCP}, "tcp://[::1]:1883"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.BrokerURL(); got != tt.want {
				t.Errorf("BrokerURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_ClientOptions(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Host: "broker", Port: 8883, SSL: true, ClientID: "c1", KeepAlive: 45 * time.Second,
		Username: "u", Password: "p", Transport: TransportTCP, CleanSession: true,
	}
	opts := cfg.ClientOptions()

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://broker:8883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "c1" || !opts.CleanSession || opts.KeepAlive != 45 {
		t.Errorf("ClientID/CleanSession/KeepAlive = %q/%v/%d", opts.ClientID, opts.CleanSession, opts.KeepAlive)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Errorf("credentials = %q/%q", opts.Username, opts.Password)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.ServerName != "broker" {
		t.Errorf("TLSConfig = %+v, want ServerName broker", opts.TLSConfig)
	}

	plain := Config{Host: "h", Port: 1, Transport: TransportTCP}.ClientOptions()
	if plain.Username != "" {
		t.Errorf("Username = %q, want empty", plain.Username)
	}
}

func TestConnect_ContextDeadline(t *testing.T) {
	t.Parallel()

	// A listener that accepts but never answers CONNECT.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer testutil.DeferClose(t, ln)()

	done := make(chan struct{})
	defer close(done)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		<-done
		_ = conn.Close()
	}()

	addr := ln.Addr().(*net.TCPAddr)
	client := NewClient(Config{Host: "127.0.0.1", Port: addr.Port, Transport: TransportTCP, ClientID: "test", KeepAlive: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := Connect(ctx, client); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Connect() = %v, want context.DeadlineExceeded", err)
	}
}

func TestConnect_Refused(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	testutil.MustClose(t, ln)

	client := NewClient(Config{Host: "127.0.0.1", Port: port, Transport: TransportTCP, ClientID: "test", KeepAlive: time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := Connect(ctx, client); err == nil {
		t.Error("Connect() to a closed port succeeded")
	}
}
