package vars

import (
	"fmt"
)

// Environment names the variable set provisions.
const (
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Log record discriminators. The console tags every telemetry and feedback
// record with one of these, and the default sink filters select on them.
// The two sides must agree or the sinks export nothing.
const (
	TelemetryLogType = "agent_telemetry"
	FeedbackLogType  = "feedback"
)

var (
	DefaultTelemetryLogsFilter = fmt.Sprintf("jsonPayload.log_type=%q", TelemetryLogType)
	DefaultFeedbackLogsFilter  = fmt.Sprintf("jsonPayload.log_type=%q", FeedbackLogType)
)

// VarSet is the typed model of the deployment variables file: the flat set of
// project identifiers, connection identifiers and resource names the
// provisioning pipeline reads at apply time.
type VarSet struct {
	ProdProjectID           string `yaml:"prod_project_id" json:"prod_project_id"`
	StagingProjectID        string `yaml:"staging_project_id" json:"staging_project_id"`
	CICDRunnerProjectID     string `yaml:"cicd_runner_project_id" json:"cicd_runner_project_id"`
	HostConnectionName      string `yaml:"host_connection_name" json:"host_connection_name"`
	RepositoryName          string `yaml:"repository_name" json:"repository_name"`
	RepositoryOwner         string `yaml:"repository_owner" json:"repository_owner"`
	GithubAppInstallationID string `yaml:"github_app_installation_id" json:"github_app_installation_id"`
	GithubPatSecretID       string `yaml:"github_pat_secret_id" json:"github_pat_secret_id"`
	ConnectionExists        bool   `yaml:"connection_exists" json:"connection_exists"`
	Region                  string `yaml:"region" json:"region"`
	CloudRunAppSAName       string `yaml:"cloud_run_app_sa_name" json:"cloud_run_app_sa_name"`
	TelemetryDatasetID      string `yaml:"telemetry_bigquery_dataset_id" json:"telemetry_bigquery_dataset_id"`
	TelemetrySinkName       string `yaml:"telemetry_sink_name" json:"telemetry_sink_name"`
	TelemetryLogsFilter     string `yaml:"telemetry_logs_filter" json:"telemetry_logs_filter"`
	FeedbackDatasetID       string `yaml:"feedback_bigquery_dataset_id" json:"feedback_bigquery_dataset_id"`
	FeedbackSinkName        string `yaml:"feedback_sink_name" json:"feedback_sink_name"`
	FeedbackLogsFilter      string `yaml:"feedback_logs_filter" json:"feedback_logs_filter"`
	CICDRunnerSAName        string `yaml:"cicd_runner_sa_name" json:"cicd_runner_sa_name"`
	LoadTestBucketSuffix    string `yaml:"suffix_bucket_name_load_test_results" json:"suffix_bucket_name_load_test_results"`
}

// Default returns a VarSet with the catalog defaults filled in. Fields without
// a default stay empty and must come from the operator.
func Default() *VarSet {
	v := &VarSet{}
	for _, decl := range Catalog() {
		if decl.Default == nil {
			continue
		}
		switch d := decl.Default.(type) {
		case string:
			*v.stringFields()[decl.Name] = d
		case bool:
			v.ConnectionExists = d
		}
	}
	return v
}

// stringFields maps wire names to their struct fields. connection_exists is
// the only non-string variable and is handled separately.
func (v *VarSet) stringFields() map[string]*string {
	return map[string]*string{
		"prod_project_id":                      &v.ProdProjectID,
		"staging_project_id":                   &v.StagingProjectID,
		"cicd_runner_project_id":               &v.CICDRunnerProjectID,
		"host_connection_name":                 &v.HostConnectionName,
		"repository_name":                      &v.RepositoryName,
		"repository_owner":                     &v.RepositoryOwner,
		"github_app_installation_id":           &v.GithubAppInstallationID,
		"github_pat_secret_id":                 &v.GithubPatSecretID,
		"region":                               &v.Region,
		"cloud_run_app_sa_name":                &v.CloudRunAppSAName,
		"telemetry_bigquery_dataset_id":        &v.TelemetryDatasetID,
		"telemetry_sink_name":                  &v.TelemetrySinkName,
		"telemetry_logs_filter":                &v.TelemetryLogsFilter,
		"feedback_bigquery_dataset_id":         &v.FeedbackDatasetID,
		"feedback_sink_name":                   &v.FeedbackSinkName,
		"feedback_logs_filter":                 &v.FeedbackLogsFilter,
		"cicd_runner_sa_name":                  &v.CICDRunnerSAName,
		"suffix_bucket_name_load_test_results": &v.LoadTestBucketSuffix,
	}
}

// Value returns the current value of a declared variable by wire name.
func (v *VarSet) Value(name string) (interface{}, bool) {
	if name == "connection_exists" {
		return v.ConnectionExists, true
	}
	if ptr, ok := v.stringFields()[name]; ok {
		return *ptr, true
	}
	return nil, false
}

// ProjectFor resolves the app project id of an environment.
func (v *VarSet) ProjectFor(env string) (string, error) {
	switch env {
	case EnvStaging:
		return v.StagingProjectID, nil
	case EnvProd:
		return v.ProdProjectID, nil
	}
	return "", fmt.Errorf("unknown environment %q", env)
}

// LoadTestResultsBucket is the full bucket name the load-test pipeline writes
// to: the runner project id joined with the configured suffix.
func (v *VarSet) LoadTestResultsBucket() string {
	return fmt.Sprintf("%s-%s", v.CICDRunnerProjectID, v.LoadTestBucketSuffix)
}

// AppServiceAccountEmail returns the runtime service account of the app in
// the given environment.
func (v *VarSet) AppServiceAccountEmail(env string) (string, error) {
	project, err := v.ProjectFor(env)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s@%s.iam.gserviceaccount.com", v.CloudRunAppSAName, project), nil
}

// RunnerServiceAccountEmail returns the CI runner service account.
func (v *VarSet) RunnerServiceAccountEmail() string {
	return fmt.Sprintf("%s@%s.iam.gserviceaccount.com", v.CICDRunnerSAName, v.CICDRunnerProjectID)
}

// Redacted returns a copy with sensitive values masked, for exposing the
// loaded variable set on the ops API.
func (v *VarSet) Redacted() *VarSet {
	copied := *v
	for _, decl := range Catalog() {
		if !decl.Sensitive {
			continue
		}
		if ptr, ok := copied.stringFields()[decl.Name]; ok && *ptr != "" {
			*ptr = "***"
		}
	}
	return &copied
}
