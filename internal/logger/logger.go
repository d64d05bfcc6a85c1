package logger

import (
	"go.uber.org/zap"
)

// New builds a zap logger for the given environment: JSON in production,
// console encoding everywhere else.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	return cfg.Build()
}

// NewNamed builds a logger tagged with the service name.
func NewNamed(env, service string) (*zap.Logger, error) {
	l, err := New(env)
	if err != nil {
		return nil, err
	}
	return l.Named(service), nil
}
