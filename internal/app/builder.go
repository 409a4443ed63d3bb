package app

import (
	"context"
	"errors"

	"go.trai.ch/rig/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
	Tracer    ports.Tracer
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Close flushes telemetry and ends the tracer.
func (c *Components) Close(ctx context.Context) error {
	var errs []error
	if c.Telemetry != nil {
		errs = append(errs, c.Telemetry.Close())
	}
	if s, ok := c.Tracer.(shutdowner); ok {
		errs = append(errs, s.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
