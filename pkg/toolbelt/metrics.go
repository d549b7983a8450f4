package toolbelt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	executedCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gantry_tool_commands_total",
		Help: "The total number of executed tool commands",
	}, []string{"tool", "outcome"})

	blockedCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gantry_tool_commands_blocked_total",
		Help: "The total number of commands held back by the safety checks",
	}, []string{"tool", "reason"})
)
