// SPDX-License-Identifier: MPL-2.0

package socket

import (
	"context"
	"errors"
	"net"
	"slices"
	"testing"

	"github.com/argparseutils/argparseutils/internal/testutil"
	"github.com/argparseutils/argparseutils/pkg/types"
)

func TestFromFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		want    Config
		wantErr error
	}{
		{"defaults", nil, nil, Config{Address: "0.0.0.0", Port: 8080}, nil},
		{"env", map[string]string{"HTTP_PORT": "9090", "HTTP_ADDRESS": "127.0.0.1"}, nil, Config{Address: "127.0.0.1", Port: 9090}, nil},
		{"flags beat env", map[string]string{"HTTP_PORT": "9090"}, []string{"--http-port", "80"}, Config{Address: "0.0.0.0", Port: 80}, nil},
		{"out of range", nil, []string{"--http-port", "70000"}, Config{}, types.ErrInvalidPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg := testutil.NewRegistry(t, tt.env)
			fs := testutil.NewFlagSet("socket")
			if _, err := AddFlags(reg, fs, DefaultShard, nil); err != nil {
				t.Fatalf("AddFlags() unexpected error: %v", err)
			}
			testutil.MustParse(t, fs, tt.args...)

			got, err := FromFlags(reg, fs, DefaultShard)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FromFlags() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromFlags() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FromFlags() = %+v, want %+v", got, tt.want)
			}
			if !slices.Equal(reg.Env.Known(), []string{"HTTP_ADDRESS", "HTTP_PORT"}) {
				t.Errorf("Known() = %v", reg.Env.Known())
			}
		})
	}
}

func TestConfig_Addr(t *testing.T) {
	t.Parallel()

	if got := (Config{Address: "0.0.0.0", Port: 8080}).Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", got)
	}
	if got := (Config{Address: "::1", Port: 443}).Addr(); got != "[::1]:443" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestListen(t *testing.T) {
	t.Parallel()

	ln, err := Listen(context.Background(), Config{Address: "127.0.0.1", Port: 0})
	if err != nil {
		t.Fatalf("Listen() unexpected error: %v", err)
	}
	defer testutil.DeferClose(t, ln)()

	if _, ok := ln.Addr().(*net.TCPAddr); !ok {
		t.Errorf("Addr() = %T, want *net.TCPAddr", ln.Addr())
	}
}
