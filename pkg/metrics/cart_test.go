package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCartMetrics(reg)

	metrics.IncMutation("add")
	metrics.IncMutation("add")
	metrics.IncMutation("remove")
	metrics.IncSupplierConflict()
	metrics.IncPersistFailure()
	metrics.ObserveCheckout(120 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "add"); err != nil {
		t.Fatalf("fetch add mutations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected add=2, got %f", got)
	}

	if got, err := fetchPlainCounter(mfs, "cart_supplier_conflicts_total"); err != nil {
		t.Fatalf("fetch conflicts: %v", err)
	} else if got != 1 {
		t.Fatalf("expected conflicts=1, got %f", got)
	}

	if got, err := fetchPlainCounter(mfs, "cart_persist_failures_total"); err != nil {
		t.Fatalf("fetch persist failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected persist failures=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "checkout_duration_seconds")
	if mf == nil {
		t.Fatal("checkout histogram not registered")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum <= 0 {
		t.Fatalf("expected checkout sum > 0, got %f", sum)
	}
}

func TestCartMetricsNilSafe(t *testing.T) {
	var metrics *CartMetrics
	metrics.IncMutation("add")
	metrics.IncSupplierConflict()
	metrics.IncPersistFailure()
	metrics.ObserveCheckout(time.Second)

	unregistered := NewCartMetrics(nil)
	unregistered.IncMutation("add")
	unregistered.IncSupplierConflict()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchPlainCounter(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	if len(mf.GetMetric()) == 0 {
		return 0, fmt.Errorf("metric %q has no samples", name)
	}
	return mf.GetMetric()[0].GetCounter().GetValue(), nil
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
