// SPDX-License-Identifier: MPL-2.0

// Package serialport declares the options of a raw serial port and opens it
// with go.bug.st/serial.
package serialport

import (
	"errors"
	"fmt"
	"time"

	"github.com/argparseutils/argparseutils/pkg/options"
	"github.com/argparseutils/argparseutils/pkg/platform"

	"github.com/spf13/pflag"
	"go.bug.st/serial"
)

// Group is the option group name used for shard registration.
const Group = "serialport"

var (
	// ErrUnsupportedSetting is returned by Open for settings the serial
	// backend cannot apply.
	ErrUnsupportedSetting = errors.New("unsupported serial setting")

	// ListPorts enumerates the serial ports of the host. The first port it
	// returns becomes the default of the port option.
	ListPorts = serial.GetPortsList

	parities = map[string]serial.Parity{
		"None":  serial.NoParity,
		"Even":  serial.EvenParity,
		"Odd":   serial.OddParity,
		"Mark":  serial.MarkParity,
		"Space": serial.SpaceParity,
	}

	stopBits = map[string]serial.StopBits{
		"1":   serial.OneStopBit,
		"1.5": serial.OnePointFiveStopBits,
		"2":   serial.TwoStopBits,
	}
)

// Config is the resolved configuration of one serial port.
type Config struct {
	Port     string
	BaudRate int
	ByteSize int
	Parity   string
	StopBits string
	// Timeout is the read timeout, serial.NoTimeout when not configured.
	Timeout          time.Duration
	XonXoff          bool
	RtsCts           bool
	DsrDtr           bool
	WriteTimeout     time.Duration
	InterByteTimeout time.Duration
	Exclusive        bool
}

// DefaultPort returns the first serial port of the host, or "" when none
// could be listed.
func DefaultPort() string {
	ports, err := ListPorts()
	if err != nil || len(ports) == 0 {
		return ""
	}
	return ports[0]
}

// AddFlags declares the serial port options of shard on fs. The port is
// required when no serial port could be found and nothing else provides one.
func AddFlags(reg *options.Registry, fs *pflag.FlagSet, shard string, overrides options.Overrides) ([]*options.Flag, error) {
	var defaultPort any
	if p := DefaultPort(); p != "" {
		defaultPort = p
	}

	d := reg.Declare(fs, Group, shard, overrides)
	d.Add(options.Option{Name: "port", Default: defaultPort, Required: defaultPort == nil,
		Help: "The Serial port to connect to"})
	d.Add(options.Option{Name: "baudrate", Type: options.TypeInt, Default: 9600,
		Help: "The Serial port baudrate to use"})
	d.Add(options.Option{Name: "bytesize", Type: options.TypeInt, Default: 8, Choices: []string{"5", "6", "7", "8"},
		Help: "The number of bits for each byte"})
	d.Add(options.Option{Name: "parity", Default: "None", Choices: []string{"None", "Even", "Odd", "Mark", "Space"},
		Help: "The parity algorithm to use"})
	d.Add(options.Option{Name: "stopbits", Default: "1", Choices: []string{"1", "1.5", "2"},
		Help: "The number of stop bits to use"})
	d.Add(options.Option{Name: "timeout", Type: options.TypeFloat,
		Help: "The read timeout to use (seconds)"})
	d.Add(options.Option{Name: "xonxoff", Type: options.TypeBool, Default: false,
		Help: "Use software flow control"})
	d.Add(options.Option{Name: "rtscts", Type: options.TypeBool, Default: false,
		Help: "Use RTS/CTS hardware flow control"})
	d.Add(options.Option{Name: "dsrdtr", Type: options.TypeBool, Default: false,
		Help: "Use DSR/DTR hardware flow control"})
	d.Add(options.Option{Name: "write-timeout", Type: options.TypeFloat,
		Help: "The write timeout to use (seconds)"})
	d.Add(options.Option{Name: "inter-byte-timeout", Type: options.TypeFloat,
		Help: "The inter byte timeout to use. Disabled by default"})
	if !platform.IsWindows() {
		d.Add(options.Option{Name: "exclusive", Type: options.TypeBool, Default: true,
			Help: "Open the serial port in exclusive mode"})
	}
	return d.Flags(), d.Err()
}

// FromFlags reads the configuration of shard from a parsed flag set.
func FromFlags(reg *options.Registry, fs *pflag.FlagSet, shard string) (Config, error) {
	if err := reg.Shards.Validate(Group, shard); err != nil {
		return Config{}, err
	}
	r := options.NewReader(fs, shard)
	cfg := Config{
		Port:             r.String("port"),
		BaudRate:         r.Int("baudrate"),
		ByteSize:         r.Int("bytesize"),
		Parity:           r.String("parity"),
		StopBits:         r.String("stopbits"),
		Timeout:          serial.NoTimeout,
		XonXoff:          r.Bool("xonxoff"),
		RtsCts:           r.Bool("rtscts"),
		DsrDtr:           r.Bool("dsrdtr"),
		WriteTimeout:     r.Seconds("write-timeout"),
		InterByteTimeout: r.Seconds("inter-byte-timeout"),
	}
	if r.IsSet("timeout") {
		cfg.Timeout = r.Seconds("timeout")
	}
	if !platform.IsWindows() {
		cfg.Exclusive = r.Bool("exclusive")
	}
	if err := r.Err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Mode returns the line settings of cfg.
func (cfg Config) Mode() (*serial.Mode, error) {
	parity, ok := parities[cfg.Parity]
	if !ok {
		return nil, fmt.Errorf("%w: parity %q", ErrUnsupportedSetting, cfg.Parity)
	}
	stop, ok := stopBits[cfg.StopBits]
	if !ok {
		return nil, fmt.Errorf("%w: stop bits %q", ErrUnsupportedSetting, cfg.StopBits)
	}
	return &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.ByteSize,
		Parity:   parity,
		StopBits: stop,
	}, nil
}

// Validate reports settings that Open cannot apply.
func (cfg Config) Validate() error {
	var errs []error
	if _, err := cfg.Mode(); err != nil {
		errs = append(errs, err)
	}
	unsupported := []struct {
		name string
		on   bool
	}{
		{"xonxoff", cfg.XonXoff},
		{"rtscts", cfg.RtsCts},
		{"dsrdtr", cfg.DsrDtr},
		{"write-timeout", cfg.WriteTimeout > 0},
		{"inter-byte-timeout", cfg.InterByteTimeout > 0},
		{"non-exclusive access", !platform.IsWindows() && !cfg.Exclusive},
	}
	for _, u := range unsupported {
		if u.on {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnsupportedSetting, u.name))
		}
	}
	return errors.Join(errs...)
}

// Open opens the port described by cfg.
func Open(cfg Config) (serial.Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	if cfg.Timeout != serial.NoTimeout {
		if err := port.SetReadTimeout(cfg.Timeout); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Port, err)
		}
	}
	return port, nil
}
