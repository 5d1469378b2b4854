package server

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/letapeapp/race-engine-go/log"
)

// Telemetry bundles the configured meter provider for shutdown.
type Telemetry struct {
	provider *sdkmetric.MeterProvider
}

// SetupTelemetry installs a global meter provider that periodically
// dumps the engine's gauges (live races, broadcast listeners) to stderr.
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(30*time.Second))),
	)
	otel.SetMeterProvider(provider)
	return &Telemetry{provider: provider}, nil
}

func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.provider.Shutdown(ctx); err != nil {
		log.Warn("telemetry shutdown", log.ErrorField(err))
	}
}
