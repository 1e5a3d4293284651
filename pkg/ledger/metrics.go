package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OperationCount counts ledger mutations by operation and result.
var OperationCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "How many ledger mutations were run, partitioned by operation and result.",
	},
	[]string{"operation", "result"},
)

func observe(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}

	OperationCount.WithLabelValues(operation, result).Inc()
}
