package vars

// Variable describes one declared deployment variable: the Go rendition of a
// `variable` block in the provisioning repo's variables.tf.
type Variable struct {
	Name        string
	Type        string
	Description string
	Default     interface{}
	Required    bool
	Sensitive   bool
}

// Catalog returns the declared variables in canonical order. Parsing,
// validation and rendering all follow this order.
func Catalog() []Variable {
	return []Variable{
		{
			Name:        "prod_project_id",
			Type:        "string",
			Description: "GCP project id of the production environment",
			Required:    true,
		},
		{
			Name:        "staging_project_id",
			Type:        "string",
			Description: "GCP project id of the staging environment",
			Required:    true,
		},
		{
			Name:        "cicd_runner_project_id",
			Type:        "string",
			Description: "GCP project id hosting the CI/CD runner",
			Required:    true,
		},
		{
			Name:        "host_connection_name",
			Type:        "string",
			Description: "Name of the host connection linking the build pipeline to GitHub",
			Default:     "gantry-github-connection",
		},
		{
			Name:        "repository_name",
			Type:        "string",
			Description: "GitHub repository name",
			Required:    true,
		},
		{
			Name:        "repository_owner",
			Type:        "string",
			Description: "GitHub repository owner (user or organization)",
			Required:    true,
		},
		{
			Name:        "github_app_installation_id",
			Type:        "string",
			Description: "Installation id of the GitHub app on the repository",
			Required:    true,
		},
		{
			Name:        "github_pat_secret_id",
			Type:        "string",
			Description: "Secret Manager secret id holding the GitHub PAT",
			Default:     "github-pat",
			Sensitive:   true,
		},
		{
			Name:        "connection_exists",
			Type:        "bool",
			Description: "Reuse an already provisioned host connection instead of creating one",
			Default:     false,
		},
		{
			Name:        "region",
			Type:        "string",
			Description: "Region the console service deploys to",
			Default:     "europe-west8",
		},
		{
			Name:        "cloud_run_app_sa_name",
			Type:        "string",
			Description: "Service account name the console runs as",
			Default:     "gantry-console-app",
		},
		{
			Name:        "telemetry_bigquery_dataset_id",
			Type:        "string",
			Description: "BigQuery dataset receiving exported telemetry records",
			Default:     "gantry_telemetry",
		},
		{
			Name:        "telemetry_sink_name",
			Type:        "string",
			Description: "Log sink routing telemetry records to BigQuery",
			Default:     "gantry-telemetry-sink",
		},
		{
			Name:        "telemetry_logs_filter",
			Type:        "string",
			Description: "Log filter selecting the telemetry records the console emits",
			Default:     DefaultTelemetryLogsFilter,
		},
		{
			Name:        "feedback_bigquery_dataset_id",
			Type:        "string",
			Description: "BigQuery dataset receiving exported feedback records",
			Default:     "gantry_feedback",
		},
		{
			Name:        "feedback_sink_name",
			Type:        "string",
			Description: "Log sink routing feedback records to BigQuery",
			Default:     "gantry-feedback-sink",
		},
		{
			Name:        "feedback_logs_filter",
			Type:        "string",
			Description: "Log filter selecting the feedback records the console emits",
			Default:     DefaultFeedbackLogsFilter,
		},
		{
			Name:        "cicd_runner_sa_name",
			Type:        "string",
			Description: "Service account name the CI/CD runner acts as",
			Default:     "gantry-cicd-runner",
		},
		{
			Name:        "suffix_bucket_name_load_test_results",
			Type:        "string",
			Description: "Bucket name suffix for load test results, prefixed with the runner project id",
			Default:     "load-test-results",
		},
	}
}

// Declared reports whether name is a catalog variable.
func Declared(name string) bool {
	for _, decl := range Catalog() {
		if decl.Name == name {
			return true
		}
	}
	return false
}
