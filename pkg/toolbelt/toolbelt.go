package toolbelt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Allowed command categories per tool. The second component of every
// command is checked against these before anything executes.
var (
	allowedGcloudCommands = []string{
		"compute", "storage", "run", "functions", "config", "projects",
		"auth", "iam", "services", "container", "ai", "ml",
	}

	allowedGsutilCommands = []string{
		"ls", "cp", "mv", "rm", "cat", "stat", "acl", "cors", "web",
		"iam", "kms", "label", "logging", "notification", "versioning",
	}

	allowedBqCommands = []string{
		"query", "ls", "mk", "rm", "cp", "extract", "load", "update",
		"show", "head", "insert", "wait", "cancel",
	}

	allowedKubectlCommands = []string{
		"get", "describe", "logs", "exec", "apply", "create", "delete",
		"scale", "rollout", "expose", "set", "explain", "config",
	}
)

// Words that hold back execution until the user confirms.
var destructiveCommands = []string{"delete", "remove", "reset", "unset", "clear", "rm", "drop"}

var validTools = []string{"gcloud", "gsutil", "bq", "kubectl"}

// Runner executes one shell command line. The default runner shells out,
// tests swap in a scripted one.
type Runner interface {
	Run(ctx context.Context, command string) (stdout string, stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, command string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	return stdout.String(), stderr.String(), err
}

type Config struct {
	Runner         Runner
	CommandTimeout time.Duration
	MaxHelpBytes   int
}

// Toolbelt is the set of cloud command line tools the model can call.
// Every command goes through the category allowlist and the destructive
// word scan before it reaches a shell.
type Toolbelt struct {
	runner       Runner
	timeout      time.Duration
	maxHelpBytes int
}

func New(config Config) *Toolbelt {
	runner := config.Runner
	if runner == nil {
		runner = execRunner{}
	}
	timeout := config.CommandTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	maxHelpBytes := config.MaxHelpBytes
	if maxHelpBytes == 0 {
		maxHelpBytes = 2000
	}

	return &Toolbelt{
		runner:       runner,
		timeout:      timeout,
		maxHelpBytes: maxHelpBytes,
	}
}

func (t *Toolbelt) RunGcloudCommand(ctx context.Context, command string) string {
	return t.runToolCommand(ctx, "gcloud", allowedGcloudCommands, "command category", command)
}

func (t *Toolbelt) RunGsutilCommand(ctx context.Context, command string) string {
	return t.runToolCommand(ctx, "gsutil", allowedGsutilCommands, "command", command)
}

func (t *Toolbelt) RunBqCommand(ctx context.Context, command string) string {
	return t.runToolCommand(ctx, "bq", allowedBqCommands, "command", command)
}

func (t *Toolbelt) RunKubectlCommand(ctx context.Context, command string) string {
	return t.runToolCommand(ctx, "kubectl", allowedKubectlCommands, "command", command)
}

// runToolCommand validates and executes one command. Tool results are
// always strings handed back to the model, never Go errors: the model is
// expected to read them and react.
func (t *Toolbelt) runToolCommand(ctx context.Context, tool string, allowed []string, categoryNoun string, command string) string {
	trimmed := strings.TrimSpace(command)
	if !strings.HasPrefix(trimmed, tool+" ") {
		return fmt.Sprintf("Error: Only %s commands are supported. Command must start with '%s'.", tool, tool)
	}

	components := strings.Fields(trimmed)
	if len(components) < 2 {
		return fmt.Sprintf("Error: Invalid %s command format.", tool)
	}

	commandCategory := components[1]
	if !contains(allowed, commandCategory) {
		blockedCommands.WithLabelValues(tool, "category").Inc()
		return fmt.Sprintf("Error: The %s %s '%s' is not allowed for security reasons.", tool, categoryNoun, commandCategory)
	}

	// a destructive word anywhere in the command holds it back,
	// not just in the category position
	for _, destructiveCmd := range destructiveCommands {
		if contains(components, destructiveCmd) {
			blockedCommands.WithLabelValues(tool, "destructive").Inc()
			return fmt.Sprintf("Warning: The command contains '%s' which could be destructive. Please confirm if you want to proceed with this operation.", destructiveCmd)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	stdout, stderr, err := t.runner.Run(ctx, trimmed)
	if err != nil {
		executedCommands.WithLabelValues(tool, "error").Inc()
		if stderr != "" {
			return fmt.Sprintf("Error executing command: %s", stderr)
		}
		return fmt.Sprintf("Error executing command: %s", err)
	}

	executedCommands.WithLabelValues(tool, "ok").Inc()
	if stdout == "" {
		return "Command executed successfully (no output)"
	}
	return stdout
}

// Blocked tells whether a tool result is a refusal: either a category
// outside the allowlist or a destructive command awaiting confirmation.
func Blocked(result string) bool {
	return NeedsConfirmation(result) ||
		(strings.HasPrefix(result, "Error: The ") && strings.HasSuffix(result, "is not allowed for security reasons."))
}

func NeedsConfirmation(result string) bool {
	return strings.HasPrefix(result, "Warning: The command contains")
}

func contains(haystack []string, needle string) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}
