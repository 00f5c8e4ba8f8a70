package load

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	usersCountMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "runner_users_running",
		Help: "Текущее количество работающих пользователей",
	}, []string{"test_name", "scenario_name"})

	successTransactionCountMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "runner_transaction_success_duration_seconds",
		Help:    "Время выполнения успешных задач",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"test_name", "scenario_name", "task_name"})

	failedTransactionCountMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "runner_transaction_failed_count_total",
		Help: "Число неуспешных задач",
	}, []string{"test_name", "scenario_name", "task_name"})
)

// observeTask records one task execution. Failures caused by the test being
// stopped are not counted.
func observeTask(testName string, scenario string, task string, ok bool, stopped bool, elapsed time.Duration) {
	switch {
	case ok:
		successTransactionCountMetric.WithLabelValues(testName, scenario, task).Observe(elapsed.Seconds())
	case !stopped:
		failedTransactionCountMetric.WithLabelValues(testName, scenario, task).Inc()
	}
}
