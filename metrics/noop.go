package metrics

import "context"

// noopMeter 指标禁用时的空实现
type noopMeter struct{}

// NewNoop 创建一个不记录任何指标的 Meter
func NewNoop() Meter {
	return &noopMeter{}
}

func (m *noopMeter) Counter(name string, desc string, opts ...MetricOption) (Counter, error) {
	return &noopCounter{}, nil
}

func (m *noopMeter) Gauge(name string, desc string, opts ...MetricOption) (Gauge, error) {
	return &noopGauge{}, nil
}

func (m *noopMeter) Histogram(name string, desc string, opts ...MetricOption) (Histogram, error) {
	return &noopHistogram{}, nil
}

func (m *noopMeter) Shutdown(ctx context.Context) error { return nil }

type noopCounter struct{}

func (c *noopCounter) Inc(ctx context.Context, labels ...Label)              {}
func (c *noopCounter) Add(ctx context.Context, val float64, labels ...Label) {}

type noopGauge struct{}

func (g *noopGauge) Set(ctx context.Context, val float64, labels ...Label) {}
func (g *noopGauge) Inc(ctx context.Context, labels ...Label)              {}
func (g *noopGauge) Dec(ctx context.Context, labels ...Label)              {}

type noopHistogram struct{}

func (h *noopHistogram) Record(ctx context.Context, val float64, labels ...Label) {}
