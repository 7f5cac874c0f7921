package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMembershipMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMembershipMetrics(reg)
	team := "computer-science"
	metrics.IncApproved(team)
	metrics.IncSuspended(team)
	metrics.IncIssued(team)
	metrics.IncIssued(team)
	metrics.IncAccepted(team)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	cases := []struct {
		name string
		want float64
	}{
		{"memberships_approved_total", 1},
		{"memberships_suspended_total", 1},
		{"invitations_issued_total", 2},
		{"invitations_accepted_total", 1},
	}
	for _, tc := range cases {
		got, err := fetchCounterValue(mfs, tc.name, "team", team)
		if err != nil {
			t.Fatalf("fetch %s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("expected %s=%v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestMembershipMetricsNilSafe(t *testing.T) {
	var metrics *MembershipMetrics
	metrics.IncApproved("x")

	metrics = NewMembershipMetrics(nil)
	metrics.IncIssued("")
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
