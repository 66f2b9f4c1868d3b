package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var (
	systemCPUPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_cpu_usage_percent",
		Help: "Host CPU usage",
	})
	systemMemPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_memory_usage_percent",
		Help: "Host memory usage",
	})
	goroutineCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "process_goroutines",
		Help: "Number of goroutines",
	})
)

// StartSystemMonitor samples host stats on the given interval until ctx is
// cancelled.
func StartSystemMonitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				collect()
			}
		}
	}()
}

func collect() {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		systemCPUPercent.Set(percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		systemMemPercent.Set(vm.UsedPercent)
	}
	goroutineCount.Set(float64(runtime.NumGoroutine()))
}
