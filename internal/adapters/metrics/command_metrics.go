package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Command outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeInfeasible = "infeasible"
	OutcomeError      = "error"
)

// CommandMetricsCollector records planner command and query executions
type CommandMetricsCollector struct {
	commandDuration *prometheus.HistogramVec
	commandsTotal   *prometheus.CounterVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_duration_seconds",
				Help:      "Planner command execution duration distribution",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"command", "outcome"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Planner commands executed by type and outcome",
			},
			[]string{"command", "outcome"},
		),
	}
}

// Register registers all command metrics with reg
func (c *CommandMetricsCollector) Register(reg prometheus.Registerer) error {
	return registerAll(reg, c.commandDuration, c.commandsTotal)
}

// RecordCommandExecution records one command execution
func (c *CommandMetricsCollector) RecordCommandExecution(commandName string, duration float64, outcome string) {
	c.commandDuration.WithLabelValues(commandName, outcome).Observe(duration)
	c.commandsTotal.WithLabelValues(commandName, outcome).Inc()
}
