package agent

import (
	"fmt"
	"regexp"
	"strings"
)

var stepPattern = regexp.MustCompile(`(?m)^\s*\d+\.\s*`)

// ParsePlanSteps extracts the numbered steps from a planner response.
// Falls back to non-empty lines so a plan in an unexpected shape still
// yields something executable.
func ParsePlanSteps(planText string) []string {
	var steps []string

	matches := stepPattern.FindAllStringIndex(planText, -1)
	for i, match := range matches {
		end := len(planText)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		step := strings.TrimSpace(planText[match[1]:end])
		if step != "" {
			steps = append(steps, step)
		}
	}

	if len(steps) == 0 {
		for _, line := range strings.Split(planText, "\n") {
			if line := strings.TrimSpace(line); line != "" {
				steps = append(steps, line)
			}
		}
	}

	return steps
}

func planSummary(steps []string) string {
	summary := "I'll help you with this request. Here's my plan:\n\n"
	for i, step := range steps {
		summary += fmt.Sprintf("%d. %s\n", i+1, step)
	}
	summary += "\nI'll start working on this step by step."
	return summary
}
