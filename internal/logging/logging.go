// Package logging sets up the zap logger used across the booking core.
package logging

import "go.uber.org/zap"

// New builds a production or development zap logger depending on env.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
