package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.App.Port != ":8080" {
		t.Errorf("Default port = %q", cfg.App.Port)
	}
	if cfg.Market.TickInterval != 2*time.Second {
		t.Errorf("Default tick interval = %v", cfg.Market.TickInterval)
	}
	if cfg.Market.SweepInterval != 30*time.Second {
		t.Errorf("Default sweep interval = %v", cfg.Market.SweepInterval)
	}
	if cfg.Redis.Enabled || cfg.Kafka.Enabled {
		t.Error("Sinks should be disabled by default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9999")
	t.Setenv("MARKET_TICK_INTERVAL", "250ms")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.App.Port != ":9999" {
		t.Errorf("Port override ignored: %q", cfg.App.Port)
	}
	if cfg.Market.TickInterval != 250*time.Millisecond {
		t.Errorf("Tick interval override ignored: %v", cfg.Market.TickInterval)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "redis:6380" {
		t.Errorf("Redis overrides ignored: %+v", cfg.Redis)
	}
}

func TestLoadConfig_RejectsBadIntervals(t *testing.T) {
	t.Setenv("MARKET_TICK_INTERVAL", "0s")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for zero tick interval")
	}
}
