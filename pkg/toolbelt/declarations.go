package toolbelt

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Declarations returns the function declarations the model is bound to.
func Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        "run_gcloud_command",
			Description: "Run a Google Cloud (gcloud) command.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"command": {
						Type:        genai.TypeString,
						Description: `The gcloud command to run, e.g., "gcloud compute instances list"`,
					},
				},
				Required: []string{"command"},
			},
		},
		{
			Name:        "run_gsutil_command",
			Description: "Run a Google Cloud Storage (gsutil) command.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"command": {
						Type:        genai.TypeString,
						Description: `The gsutil command to run, e.g., "gsutil ls gs://my-bucket"`,
					},
				},
				Required: []string{"command"},
			},
		},
		{
			Name:        "run_bq_command",
			Description: "Run a BigQuery (bq) command.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"command": {
						Type:        genai.TypeString,
						Description: `The bq command to run, e.g., "bq query --use_legacy_sql=false 'SELECT * FROM dataset.table LIMIT 10'"`,
					},
				},
				Required: []string{"command"},
			},
		},
		{
			Name:        "run_kubectl_command",
			Description: "Run a Kubernetes (kubectl) command.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"command": {
						Type:        genai.TypeString,
						Description: `The kubectl command to run, e.g., "kubectl get pods"`,
					},
				},
				Required: []string{"command"},
			},
		},
		{
			Name:        "get_tool_help",
			Description: "Get help for any supported GCP tool.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"tool": {
						Type:        genai.TypeString,
						Description: `The tool to get help for ("gcloud", "gsutil", "bq", or "kubectl")`,
					},
					"topic": {
						Type:        genai.TypeString,
						Description: "The specific topic or command to get help for",
					},
				},
				Required: []string{"tool"},
			},
		},
		{
			Name:        "list_available_commands",
			Description: "List the available categories of commands for a specific tool or all tools.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"tool": {
						Type:        genai.TypeString,
						Description: `The tool to list commands for ("gcloud", "gsutil", "bq", "kubectl"), or empty for all tools`,
					},
				},
			},
		},
	}
}

// Dispatch routes a model function call to the named tool. The second
// return value reports whether the name was known.
func (t *Toolbelt) Dispatch(ctx context.Context, name string, args map[string]any) (string, bool) {
	command, _ := args["command"].(string)

	switch name {
	case "run_gcloud_command":
		return t.RunGcloudCommand(ctx, command), true
	case "run_gsutil_command":
		return t.RunGsutilCommand(ctx, command), true
	case "run_bq_command":
		return t.RunBqCommand(ctx, command), true
	case "run_kubectl_command":
		return t.RunKubectlCommand(ctx, command), true
	case "get_tool_help":
		tool, _ := args["tool"].(string)
		topic, _ := args["topic"].(string)
		return t.HelpForTool(ctx, tool, topic), true
	case "list_available_commands":
		tool, _ := args["tool"].(string)
		return ListAvailableCommands(tool), true
	}

	return fmt.Sprintf("Error: Unknown tool '%s'.", name), false
}
