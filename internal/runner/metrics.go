package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pairsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backtest",
		Name:      "pairs_processed_total",
		Help:      "Completed (symbol, strategy) backtests.",
	}, []string{"strategy"})

	pairsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backtest",
		Name:      "pairs_failed_total",
		Help:      "Backtests aborted by per-pair errors.",
	}, []string{"strategy"})
)
