package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/gantry-io/gantry/pkg/gemini"
	"github.com/gantry-io/gantry/pkg/toolbelt"
	"google.golang.org/genai"
)

// Generator is the model behind the agent. gemini.Client implements it,
// tests script it.
type Generator interface {
	Generate(ctx context.Context, system string, history []*genai.Content, tools []*genai.FunctionDeclaration) (*gemini.Result, error)
	GenerateStream(ctx context.Context, system string, history []*genai.Content, tools []*genai.FunctionDeclaration, onDelta func(text string)) (*gemini.Result, error)
}

// Agent turns a user request into a plan and executes the plan step by
// step, calling cloud tools through the toolbelt as the model asks for
// them.
type Agent struct {
	generator Generator
	toolbelt  *toolbelt.Toolbelt
	maxSteps  int
	extra     string
}

// Outcome is what a finished run leaves behind: the plan (when one was
// made), the closing model text and the full conversation history
// including tool turns.
type Outcome struct {
	Plan    []string
	Text    string
	History []*genai.Content
}

func New(generator Generator, tb *toolbelt.Toolbelt, maxSteps int) *Agent {
	if maxSteps <= 0 {
		maxSteps = 8
	}
	return &Agent{
		generator: generator,
		toolbelt:  tb,
		maxSteps:  maxSteps,
	}
}

// WithInstructions appends operator provided guidance to every system
// prompt, so deployments can steer the agent without a rebuild.
func (a *Agent) WithInstructions(text string) *Agent {
	a.extra = strings.TrimSpace(text)
	return a
}

func (a *Agent) system(base string) string {
	if a.extra == "" {
		return base
	}
	return base + "\n\n" + a.extra
}

// Run handles a fresh request: plan first, then execute every step. The
// emit callback observes the run as it happens and may be nil.
func (a *Agent) Run(ctx context.Context, history []*genai.Content, emit func(Event)) (*Outcome, error) {
	if emit == nil {
		emit = func(Event) {}
	}

	latest := latestUserText(history)
	if latest == "" {
		return nil, fmt.Errorf("no user message to plan for")
	}

	planResult, err := a.generator.Generate(ctx, a.system(plannerSystemPrompt), []*genai.Content{gemini.UserText(latest)}, nil)
	if err != nil {
		err = fmt.Errorf("cannot create plan: %s", err)
		emit(Event{Type: EventError, Text: err.Error()})
		return nil, err
	}

	steps := ParsePlanSteps(planResult.Text())
	if len(steps) == 0 {
		return nil, fmt.Errorf("the planner returned an empty plan")
	}

	summary := planSummary(steps)
	emit(Event{Type: EventPlan, Steps: steps, Text: summary})
	history = append(history, gemini.ModelText(summary))

	var lastText string
	for i, step := range steps {
		banner := fmt.Sprintf("Step %d/%d: %s", i+1, len(steps), step)
		emit(Event{Type: EventStep, Step: i + 1, TotalSteps: len(steps), Text: banner})

		history = append(history, gemini.UserText(fmt.Sprintf("Please execute this step: %s", step)))
		lastText, err = a.executeLoop(ctx, executorSystemPrompt, &history, emit)
		if err != nil {
			emit(Event{Type: EventError, Text: err.Error()})
			return nil, err
		}
	}

	done := "✅ All steps have been completed successfully!"
	emit(Event{Type: EventDone, Text: done})
	history = append(history, gemini.ModelText(done))

	return &Outcome{Plan: steps, Text: lastText, History: history}, nil
}

// Continue handles a follow up turn on a session that already ran its
// plan: no planner, just the assistant with its tools.
func (a *Agent) Continue(ctx context.Context, history []*genai.Content, emit func(Event)) (*Outcome, error) {
	if emit == nil {
		emit = func(Event) {}
	}

	text, err := a.executeLoop(ctx, assistantSystemPrompt, &history, emit)
	if err != nil {
		emit(Event{Type: EventError, Text: err.Error()})
		return nil, err
	}

	emit(Event{Type: EventDone, Text: text})
	return &Outcome{Text: text, History: history}, nil
}

// executeLoop runs model calls until the model stops asking for tools.
// Every tool result goes back into the history so the model sees it,
// including refusals: the model is the one that asks the user to
// confirm a destructive command.
func (a *Agent) executeLoop(ctx context.Context, system string, history *[]*genai.Content, emit func(Event)) (string, error) {
	for i := 0; i < a.maxSteps; i++ {
		result, err := a.generator.GenerateStream(ctx, a.system(system), *history, toolbelt.Declarations(), func(text string) {
			emit(Event{Type: EventDelta, Text: text})
		})
		if err != nil {
			return "", err
		}

		*history = append(*history, gemini.ModelTurn(result))

		calls := result.FunctionCalls()
		if len(calls) == 0 {
			return result.Text(), nil
		}

		for _, call := range calls {
			command, _ := call.Args["command"].(string)
			emit(Event{Type: EventToolCall, Tool: call.Name, Command: command})

			output, _ := a.toolbelt.Dispatch(ctx, call.Name, call.Args)
			if toolbelt.Blocked(output) {
				emit(Event{Type: EventBlocked, Tool: call.Name, Command: command, Result: output})
			} else {
				emit(Event{Type: EventToolResult, Tool: call.Name, Result: output})
			}

			*history = append(*history, gemini.ToolResult(call.Name, output))
		}
	}

	return "", fmt.Errorf("the model kept calling tools after %d turns", a.maxSteps)
}

func latestUserText(history []*genai.Content) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != string(genai.RoleUser) {
			continue
		}
		for _, part := range history[i].Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}
