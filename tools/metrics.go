package tools

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toolExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripkit_tool_executions_total",
		Help: "Tool calls executed, by tool name and outcome.",
	}, []string{"tool", "status"})

	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tripkit_tool_duration_seconds",
		Help:    "Wall-clock duration of tool executions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)
