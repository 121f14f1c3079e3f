package logger

import "go.uber.org/zap"

// New returns a zap logger configured for the given environment.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
