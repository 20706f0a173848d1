package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/Veraticus/desk-notify/pkg/config"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		broker     string
		wantBroker string
		wantPort   int
		wantErr    bool
		applyErr   bool
	}{
		{
			name:       "IP with default port",
			args:       []string{"192.168.1.10"},
			wantBroker: "192.168.1.10",
			wantPort:   1883,
		},
		{
			name:       "custom port",
			args:       []string{"-p", "1884", "mqtt.local"},
			wantBroker: "mqtt.local",
			wantPort:   1884,
		},
		{
			name:       "broker from config",
			args:       []string{"--port=8883"},
			broker:     "10.0.0.2",
			wantBroker: "10.0.0.2",
			wantPort:   8883,
		},
		{
			name:     "no broker anywhere",
			args:     []string{},
			applyErr: true,
		},
		{
			name:     "port out of range",
			args:     []string{"-p", "99999", "mqtt.local"},
			applyErr: true,
		},
		{
			name:    "two brokers",
			args:    []string{"a", "b"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, &bytes.Buffer{})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			cfg := config.DefaultConfig()
			cfg.Frigate.Broker = tt.broker
			err = opts.apply(cfg)
			if tt.applyErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Frigate.Broker != tt.wantBroker || cfg.Frigate.Port != tt.wantPort {
				t.Errorf("expected %s:%d but got %s:%d", tt.wantBroker, tt.wantPort, cfg.Frigate.Broker, cfg.Frigate.Port)
			}
		})
	}
}

func TestManagerOptions(t *testing.T) {
	cfg := config.DefaultConfig().Frigate
	if got := len(managerOptions(cfg)); got != 1 {
		t.Errorf("expected a rate limiter option but got %d", got)
	}

	cfg.Burst, cfg.Refill = 0, time.Second
	if got := len(managerOptions(cfg)); got != 0 {
		t.Errorf("expected no options when disabled but got %d", got)
	}
}
