package backend

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// requestDurationMetric is labelled with status "error" when no response
// was received.
var requestDurationMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "backend_request_duration_seconds",
	Help: "Время выполнения запросов к бэкенду",
}, []string{"operation", "status"})

func observeRequest(result Result, elapsed time.Duration) {
	status := "error"
	if result.Status != 0 {
		status = strconv.Itoa(result.Status)
	}
	requestDurationMetric.WithLabelValues(result.Operation, status).Observe(elapsed.Seconds())
}
