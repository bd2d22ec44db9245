package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	m := &dto.Metric{}
	if err := cv.WithLabelValues(labels...).Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestRecordAPIRequest(t *testing.T) {
	before := getCounterValue(APIRequestsTotal, "restaurant", "401")
	RecordAPIRequest("restaurant", 401, 20*time.Millisecond)
	if got := getCounterValue(APIRequestsTotal, "restaurant", "401"); got != before+1 {
		t.Fatalf("expected counter %v, got %v", before+1, got)
	}

	beforeErr := getCounterValue(APIRequestsTotal, "admin", "error")
	RecordAPIRequest("admin", 0, time.Millisecond)
	if got := getCounterValue(APIRequestsTotal, "admin", "error"); got != beforeErr+1 {
		t.Fatalf("expected transport failure counted as error, got %v", got)
	}
}

func TestRegistryGathers(t *testing.T) {
	SessionTeardownsTotal.WithLabelValues("admin").Inc()
	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	found := false
	for _, family := range families {
		if family.GetName() == "darenow_session_teardowns_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected teardown metric to be registered")
	}
}
