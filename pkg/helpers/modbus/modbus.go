// SPDX-License-Identifier: MPL-2.0

// Package modbus declares the options of a Modbus RTU serial client and
// builds it with github.com/simonvetter/modbus.
package modbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/argparseutils/argparseutils/pkg/helpers/serialport"
	"github.com/argparseutils/argparseutils/pkg/options"

	"github.com/simonvetter/modbus"
	"github.com/spf13/pflag"
)

// Group is the option group name used for shard registration.
const Group = "modbus"

// Framers accepted by the modbus-framer option. Only RTU can be built.
const (
	FramerRTU   = "rtu"
	FramerASCII = "ascii"

	maxUnitID = 247
)

var (
	// ErrUnsupportedFramer is returned for framers the client library lacks.
	ErrUnsupportedFramer = errors.New("unsupported modbus framer")
	// ErrUnsupportedSetting is returned for settings the client library cannot apply.
	ErrUnsupportedSetting = errors.New("unsupported modbus setting")
	// ErrInvalidUnitID is returned for unit ids outside 0-247, or 0 without broadcast.
	ErrInvalidUnitID = errors.New("invalid modbus unit id")

	parities = map[string]uint{
		"None": modbus.PARITY_NONE,
		"Even": modbus.PARITY_EVEN,
		"Odd":  modbus.PARITY_ODD,
	}
)

// Config is the resolved configuration of a Modbus serial client.
type Config struct {
	Port              string
	Framer            string
	BaudRate          int
	ByteSize          int
	Parity            string
	StopBits          int
	Timeout           time.Duration
	HandleLocalEcho   bool
	BroadcastEnable   bool
	UnitID            int
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	Retries           int
}

// AddFlags declares the modbus-* options of shard on fs.
func AddFlags(reg *options.Registry, fs *pflag.FlagSet, shard string, overrides options.Overrides) ([]*options.Flag, error) {
	var defaultPort any
	if p := serialport.DefaultPort(); p != "" {
		defaultPort = p
	}

	d := reg.Declare(fs, Group, shard, overrides)
	d.Add(options.Option{Name: "modbus-port", Default: defaultPort, Required: defaultPort == nil,
		Help: "The Serial port to connect to"})
	d.Add(options.Option{Name: "modbus-framer", Default: FramerRTU, Choices: []string{FramerRTU, FramerASCII},
		Help: "The modbus framer to use"})
	d.Add(options.Option{Name: "modbus-baudrate", Type: options.TypeInt, Default: 9600,
		Help: "The Serial port baudrate to use"})
	d.Add(options.Option{Name: "modbus-bytesize", Type: options.TypeInt, Default: 8, Choices: []string{"5", "6", "7", "8"},
		Help: "The number of bits for each byte"})
	d.Add(options.Option{Name: "modbus-parity", Default: "None", Choices: []string{"None", "Even", "Odd"},
		Help: "The parity algorithm to use"})
	d.Add(options.Option{Name: "modbus-stopbits", Type: options.TypeInt, Default: 1, Choices: []string{"1", "2"},
		Help: "The number of stop bits to use"})
	d.Add(options.Option{Name: "modbus-timeout", Type: options.TypeFloat, Default: 10,
		Help: "The read timeout to use (seconds)"})
	d.Add(options.Option{Name: "modbus-handle-local-echo", Type: options.TypeBool, Default: false,
		Help: "Discard local echo from dongle"})
	d.Add(options.Option{Name: "modbus-broadcast-enable", Type: options.TypeBool, Default: false,
		Help: "Treat modbus address 0 as a broadcast address"})
	d.Add(options.Option{Name: "modbus-unit-id", Type: options.TypeInt, Default: 1,
		Help: "The unit id to address"})
	d.Add(options.Option{Name: "modbus-reconnect-delay", Type: options.TypeFloat, Default: 0.1,
		Help: "Minimum delay in seconds.milliseconds before reconnection"})
	d.Add(options.Option{Name: "modbus-max-reconnect-delay", Type: options.TypeFloat, Default: 300,
		Help: "Maximum delay in seconds.milliseconds before reconnection"})
	d.Add(options.Option{Name: "modbus-retries", Type: options.TypeInt, Default: 3,
		Help: "Maximum number of connection retries"})
	return d.Flags(), d.Err()
}

// FromFlags reads the configuration of shard from a parsed flag set.
func FromFlags(reg *options.Registry, fs *pflag.FlagSet, shard string) (Config, error) {
	if err := reg.Shards.Validate(Group, shard); err != nil {
		return Config{}, err
	}
	r := options.NewReader(fs, shard)
	cfg := Config{
		Port:              r.String("modbus-port"),
		Framer:            r.String("modbus-framer"),
		BaudRate:          r.Int("modbus-baudrate"),
		ByteSize:          r.Int("modbus-bytesize"),
		Parity:            r.String("modbus-parity"),
		StopBits:          r.Int("modbus-stopbits"),
		Timeout:           r.Seconds("modbus-timeout"),
		HandleLocalEcho:   r.Bool("modbus-handle-local-echo"),
		BroadcastEnable:   r.Bool("modbus-broadcast-enable"),
		UnitID:            r.Int("modbus-unit-id"),
		ReconnectDelay:    r.Seconds("modbus-reconnect-delay"),
		MaxReconnectDelay: r.Seconds("modbus-max-reconnect-delay"),
		Retries:           r.Int("modbus-retries"),
	}
	if err := r.Err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the client cannot be built with.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.Framer != FramerRTU {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnsupportedFramer, cfg.Framer))
	}
	if _, ok := parities[cfg.Parity]; !ok {
		errs = append(errs, fmt.Errorf("%w: parity %q", ErrUnsupportedSetting, cfg.Parity))
	}
	if cfg.HandleLocalEcho {
		errs = append(errs, fmt.Errorf("%w: local echo handling", ErrUnsupportedSetting))
	}
	switch {
	case cfg.UnitID < 0 || cfg.UnitID > maxUnitID:
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidUnitID, cfg.UnitID))
	case cfg.UnitID == 0 && !cfg.BroadcastEnable:
		errs = append(errs, fmt.Errorf("%w: 0 requires --modbus-broadcast-enable", ErrInvalidUnitID))
	}
	return errors.Join(errs...)
}

// ClientConfiguration maps cfg onto the client library configuration.
func (cfg Config) ClientConfiguration() (*modbus.ClientConfiguration, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &modbus.ClientConfiguration{
		URL:      "rtu://" + cfg.Port,
		Speed:    uint(cfg.BaudRate),
		DataBits: uint(cfg.ByteSize),
		Parity:   parities[cfg.Parity],
		StopBits: uint(cfg.StopBits),
		Timeout:  cfg.Timeout,
	}, nil
}

// NewClient builds a client addressing cfg.UnitID. The port is not opened.
func NewClient(cfg Config) (*modbus.ModbusClient, error) {
	conf, err := cfg.ClientConfiguration()
	if err != nil {
		return nil, err
	}
	client, err := modbus.NewClient(conf)
	if err != nil {
		return nil, fmt.Errorf("create modbus client: %w", err)
	}
	if err := client.SetUnitId(uint8(cfg.UnitID)); err != nil {
		return nil, fmt.Errorf("set modbus unit id: %w", err)
	}
	return client, nil
}

// Open builds a client and opens its port, retrying up to cfg.Retries times
// with a delay that doubles from ReconnectDelay up to MaxReconnectDelay.
func Open(ctx context.Context, cfg Config) (*modbus.ModbusClient, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if err := retry(ctx, cfg, client.Open); err != nil {
		return nil, err
	}
	return client, nil
}

func retry(ctx context.Context, cfg Config, open func() error) error {
	delay := cfg.ReconnectDelay
	for attempt := 0; ; attempt++ {
		err := open()
		if err == nil {
			return nil
		}
		if attempt >= cfg.Retries {
			return fmt.Errorf("open modbus port %s after %d attempts: %w", cfg.Port, attempt+1, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, cfg.MaxReconnectDelay)
	}
}
