package config

import "go.uber.org/zap"

// NewLogger builds a zap logger for the configured environment:
// human-readable output locally, JSON in production.
func NewLogger(cfg AppConfig) (*zap.Logger, error) {
	if cfg.Env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
