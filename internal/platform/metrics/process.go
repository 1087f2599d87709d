package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
)

// processCollector samples the engine process on every scrape.
type processCollector struct {
	proc *process.Process

	rss     *prometheus.Desc
	cpu     *prometheus.Desc
	threads *prometheus.Desc
}

func newProcessCollector() *processCollector {
	// NewProcess only fails for a pid that does not exist; ours does.
	proc, _ := process.NewProcess(int32(os.Getpid()))
	return &processCollector{
		proc:    proc,
		rss:     prometheus.NewDesc(namespace+"_process_resident_memory_bytes", "Resident set size of the engine process.", nil, nil),
		cpu:     prometheus.NewDesc(namespace+"_process_cpu_percent", "CPU usage of the engine process since start.", nil, nil),
		threads: prometheus.NewDesc(namespace+"_process_threads", "OS threads used by the engine process.", nil, nil),
	}
}

func (p *processCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.rss
	ch <- p.cpu
	ch <- p.threads
}

// Collect skips any reading the platform does not support.
func (p *processCollector) Collect(ch chan<- prometheus.Metric) {
	if p.proc == nil {
		return
	}
	if mem, err := p.proc.MemoryInfo(); err == nil {
		ch <- prometheus.MustNewConstMetric(p.rss, prometheus.GaugeValue, float64(mem.RSS))
	}
	if pct, err := p.proc.CPUPercent(); err == nil {
		ch <- prometheus.MustNewConstMetric(p.cpu, prometheus.GaugeValue, pct)
	}
	if n, err := p.proc.NumThreads(); err == nil {
		ch <- prometheus.MustNewConstMetric(p.threads, prometheus.GaugeValue, float64(n))
	}
}
