package telemetry

import (
	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/sirupsen/logrus"
)

const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Emitter writes the structured records the provisioned log sinks route to
// BigQuery. The log_type values match the default sink filters in pkg/vars,
// so a stock variables file picks these records up without edits.
type Emitter struct {
	logger *logrus.Logger
}

func NewEmitter(logger *logrus.Logger) *Emitter {
	return &Emitter{
		logger: logger,
	}
}

// Run is the per-invocation telemetry record. It doubles as the blob of
// the stored agentRun event, the usage reporter parses it back.
type Run struct {
	InvocationID string         `json:"invocationId"`
	SessionID    string         `json:"sessionId"`
	Model        string         `json:"model"`
	Steps        int            `json:"steps"`
	ToolCalls    map[string]int `json:"toolCalls,omitempty"`
	Blocked      int            `json:"blocked"`
	LatencyMs    int64          `json:"latencyMs"`
	Status       string         `json:"status"`
}

func (e *Emitter) EmitRun(run Run) {
	e.logger.WithFields(logrus.Fields{
		"log_type":      vars.TelemetryLogType,
		"invocation_id": run.InvocationID,
		"session_id":    run.SessionID,
		"model":         run.Model,
		"steps":         run.Steps,
		"tool_calls":    run.ToolCalls,
		"blocked":       run.Blocked,
		"latency_ms":    run.LatencyMs,
		"status":        run.Status,
	}).Info("agent run")
}

func (e *Emitter) EmitFeedback(feedback model.Feedback) {
	e.logger.WithFields(logrus.Fields{
		"log_type":      vars.FeedbackLogType,
		"invocation_id": feedback.InvocationID,
		"session_id":    feedback.SessionID,
		"score":         feedback.Score,
		"text":          feedback.Text,
	}).Info("feedback")
}
