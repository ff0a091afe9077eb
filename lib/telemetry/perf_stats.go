package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type perfGauges struct {
	cpu        metric.Float64Gauge
	memory     metric.Int64Gauge
	goroutines metric.Int64Gauge
}

func newPerfGauges() perfGauges {
	meter := otel.Meter("catalogscrape.perf_stats")
	cpuGauge, _ := meter.Float64Gauge("cpu_usage", metric.WithUnit("%"))
	memoryGauge, _ := meter.Int64Gauge("allocated_mb", metric.WithUnit("MB"))
	goroutineGauge, _ := meter.Int64Gauge("goroutine_count")
	return perfGauges{
		cpu:        cpuGauge,
		memory:     memoryGauge,
		goroutines: goroutineGauge,
	}
}

func (g perfGauges) record(ctx context.Context, sample time.Duration) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	usage, err := cpu.PercentWithContext(ctx, sample, false)
	if err == nil && len(usage) > 0 {
		g.cpu.Record(ctx, usage[0])
	} else if err != nil {
		slog.DebugContext(ctx, "failed to read cpu usage", "err", err)
	}

	g.memory.Record(ctx, int64(memStats.Alloc/1_000_000))
	g.goroutines.Record(ctx, int64(runtime.NumGoroutine()))
}

// InstrumentPerfStats records process gauges every `interval` until ctx
// is done.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	gauges := newPerfGauges()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				gauges.record(ctx, time.Second)
			case <-ctx.Done():
				return
			}
		}
	}()
}
