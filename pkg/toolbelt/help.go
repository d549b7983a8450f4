package toolbelt

import (
	"context"
	"fmt"
	"strings"
)

// HelpForTool runs "<tool> <topic> --help" and returns the output,
// truncated so a verbose help page does not flood the model context.
func (t *Toolbelt) HelpForTool(ctx context.Context, tool string, topic string) string {
	if !contains(validTools, tool) {
		return fmt.Sprintf("Error: Invalid tool '%s'. Valid tools are: %s", tool, strings.Join(validTools, ", "))
	}

	command := fmt.Sprintf("%s %s --help", tool, topic)

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	stdout, stderr, err := t.runner.Run(ctx, command)
	if err != nil {
		if stderr != "" {
			return fmt.Sprintf("Error getting help: %s", stderr)
		}
		return fmt.Sprintf("Error getting help: %s", err)
	}

	output := stdout
	if len(output) > t.maxHelpBytes {
		output = output[:t.maxHelpBytes] + "...\n(Output truncated for brevity)"
	}
	return output
}

type example struct {
	category string
	command  string
}

type toolCatalog struct {
	name     string
	commands []string
	examples []example
}

// Iteration order is presentation order, so the catalogs are slices.
var catalogs = []toolCatalog{
	{
		name:     "gcloud",
		commands: allowedGcloudCommands,
		examples: []example{
			{"compute", "gcloud compute instances list"},
			{"storage", "gcloud storage ls"},
			{"run", "gcloud run services list"},
			{"functions", "gcloud functions list"},
			{"config", "gcloud config list"},
			{"projects", "gcloud projects list"},
			{"auth", "gcloud auth list"},
			{"iam", "gcloud iam roles list"},
			{"services", "gcloud services list"},
			{"container", "gcloud container clusters list"},
			{"ai", "gcloud ai models list"},
		},
	},
	{
		name:     "gsutil",
		commands: allowedGsutilCommands,
		examples: []example{
			{"ls", "gsutil ls gs://my-bucket"},
			{"cp", "gsutil cp file.txt gs://my-bucket/"},
			{"mv", "gsutil mv gs://my-bucket/file.txt gs://my-bucket/folder/"},
			{"rm", "gsutil rm gs://my-bucket/file.txt"},
			{"acl", "gsutil acl get gs://my-bucket/file.txt"},
			{"iam", "gsutil iam get gs://my-bucket"},
		},
	},
	{
		name:     "bq",
		commands: allowedBqCommands,
		examples: []example{
			{"query", "bq query --use_legacy_sql=false 'SELECT * FROM dataset.table LIMIT 10'"},
			{"ls", "bq ls"},
			{"mk", "bq mk new_dataset"},
			{"rm", "bq rm dataset.table"},
			{"show", "bq show dataset.table"},
			{"head", "bq head dataset.table"},
		},
	},
	{
		name:     "kubectl",
		commands: allowedKubectlCommands,
		examples: []example{
			{"get", "kubectl get pods"},
			{"describe", "kubectl describe pod my-pod"},
			{"logs", "kubectl logs my-pod"},
			{"apply", "kubectl apply -f deployment.yaml"},
			{"create", "kubectl create deployment my-app --image=my-image:tag"},
			{"delete", "kubectl delete pod my-pod"},
		},
	},
}

func catalogFor(tool string) *toolCatalog {
	for i := range catalogs {
		if catalogs[i].name == tool {
			return &catalogs[i]
		}
	}
	return nil
}

func (c *toolCatalog) exampleFor(category string) string {
	for _, e := range c.examples {
		if e.category == category {
			return e.command
		}
	}
	return ""
}

// ListAvailableCommands renders the allowed command categories with
// examples, for one tool or for all of them.
func ListAvailableCommands(tool string) string {
	if tool != "" && catalogFor(tool) == nil {
		return fmt.Sprintf("Error: Invalid tool '%s'. Valid tools are: %s", tool, strings.Join(validTools, ", "))
	}

	var result strings.Builder

	if tool != "" {
		catalog := catalogFor(tool)
		result.WriteString(fmt.Sprintf("Available %s commands:\n\n", tool))
		for _, category := range catalog.commands {
			result.WriteString("- " + category)
			if example := catalog.exampleFor(category); example != "" {
				result.WriteString(fmt.Sprintf(" (Example: %s)", example))
			}
			result.WriteString("\n")
		}
	} else {
		result.WriteString("Available GCP tools and example commands:\n\n")
		for _, catalog := range catalogs {
			result.WriteString("## " + strings.ToUpper(catalog.name) + "\n")
			examples := catalog.examples
			if len(examples) > 3 {
				examples = examples[:3]
			}
			for _, e := range examples {
				result.WriteString(fmt.Sprintf("- %s: %s\n", e.category, e.command))
			}
			result.WriteString("\n")
		}
	}

	result.WriteString("\nTo get help on any tool or command, use the get_tool_help tool.")
	return result.String()
}
