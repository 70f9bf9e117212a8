// Package telemetry installs the OpenTelemetry meter provider used by the
// executor's game metrics.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Config holds metrics export configuration
type Config struct {
	Enabled     bool
	ServiceName string
	Interval    time.Duration
	Writer      io.Writer // defaults to stderr
}

// Provider owns the meter provider. A disabled provider hands out no-op
// meters and shuts down without doing anything.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	config        Config
}

// New creates a provider. When metrics are enabled the provider exports to
// the configured writer every interval and once more on Shutdown.
func New(cfg Config) (*Provider, error) {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p, nil
	}

	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "arena-sim"
	}

	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(cfg.Writer),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(cfg.Interval),
		)),
	)
	p.config = cfg
	return p, nil
}

// Install makes the provider the global meter provider
func (p *Provider) Install() {
	if p.meterProvider != nil {
		otel.SetMeterProvider(p.meterProvider)
	}
}

// Meter returns a named meter, or a no-op meter when metrics are disabled
func (p *Provider) Meter(name string) metric.Meter {
	if p.meterProvider == nil {
		return noop.NewMeterProvider().Meter(name)
	}
	return p.meterProvider.Meter(name)
}

// Shutdown exports any pending metrics and stops the provider
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("metric shutdown failed: %w", err)
	}
	return nil
}
