package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func complete() *VarSet {
	v := Default()
	v.ProdProjectID = "acme-console-prod"
	v.StagingProjectID = "acme-console-staging"
	v.CICDRunnerProjectID = "acme-console-cicd"
	v.RepositoryName = "cloud-console"
	v.RepositoryOwner = "acme"
	v.GithubAppInstallationID = "12345678"
	return v
}

func reasons(violations []Violation, name string) []string {
	var found []string
	for _, v := range violations {
		if v.Name == name {
			found = append(found, v.Reason)
		}
	}
	return found
}

func Test_Validate_completeSetPasses(t *testing.T) {
	assert.Len(t, complete().Validate(), 0)
}

func Test_Validate_requiredFields(t *testing.T) {
	violations := Default().Validate()

	assert.NotEmpty(t, reasons(violations, "prod_project_id"))
	assert.NotEmpty(t, reasons(violations, "staging_project_id"))
	assert.NotEmpty(t, reasons(violations, "cicd_runner_project_id"))
	assert.NotEmpty(t, reasons(violations, "repository_name"))
	assert.NotEmpty(t, reasons(violations, "repository_owner"))
	assert.NotEmpty(t, reasons(violations, "github_app_installation_id"))

	// defaulted fields do not fire the emptiness check
	assert.Empty(t, reasons(violations, "region"))
	assert.Empty(t, reasons(violations, "telemetry_logs_filter"))
}

func Test_Validate_projectIDFormat(t *testing.T) {
	v := complete()
	v.ProdProjectID = "Acme_Prod"
	assert.NotEmpty(t, reasons(v.Validate(), "prod_project_id"))

	v = complete()
	v.ProdProjectID = "abc" // too short
	assert.NotEmpty(t, reasons(v.Validate(), "prod_project_id"))
}

func Test_Validate_stagingMustDifferFromProd(t *testing.T) {
	v := complete()
	v.StagingProjectID = v.ProdProjectID

	found := reasons(v.Validate(), "staging_project_id")
	assert.Len(t, found, 1)
	assert.Contains(t, found[0], "separate projects")
}

func Test_Validate_installationIDIsNumeric(t *testing.T) {
	v := complete()
	v.GithubAppInstallationID = "not-a-number"
	assert.NotEmpty(t, reasons(v.Validate(), "github_app_installation_id"))
}

func Test_Validate_regionFormat(t *testing.T) {
	v := complete()
	v.Region = "EuropeWest8"
	assert.NotEmpty(t, reasons(v.Validate(), "region"))

	for _, region := range []string{"europe-west8", "us-central1", "asia-southeast1"} {
		v.Region = region
		assert.Empty(t, reasons(v.Validate(), "region"), region)
	}
}

func Test_Validate_serviceAccountNames(t *testing.T) {
	v := complete()
	v.CloudRunAppSAName = "sa" // below the 6 character minimum
	assert.NotEmpty(t, reasons(v.Validate(), "cloud_run_app_sa_name"))

	v = complete()
	v.CICDRunnerSAName = "Runner-SA"
	assert.NotEmpty(t, reasons(v.Validate(), "cicd_runner_sa_name"))
}

func Test_Validate_datasetAndSinkNames(t *testing.T) {
	v := complete()
	v.TelemetryDatasetID = "has-dashes"
	assert.NotEmpty(t, reasons(v.Validate(), "telemetry_bigquery_dataset_id"))

	v = complete()
	v.FeedbackSinkName = "no spaces allowed"
	assert.NotEmpty(t, reasons(v.Validate(), "feedback_sink_name"))
}

func Test_Validate_filtersReferenceLogTypes(t *testing.T) {
	v := complete()
	v.TelemetryLogsFilter = `jsonPayload.log_type="something_else"`

	found := reasons(v.Validate(), "telemetry_logs_filter")
	assert.Len(t, found, 1)
	assert.Contains(t, found[0], TelemetryLogType)

	// a richer filter that still selects the log_type is fine
	v.TelemetryLogsFilter = `resource.type="cloud_run_revision" AND jsonPayload.log_type="agent_telemetry"`
	assert.Empty(t, reasons(v.Validate(), "telemetry_logs_filter"))

	v = complete()
	v.FeedbackLogsFilter = "severity>=ERROR"
	assert.NotEmpty(t, reasons(v.Validate(), "feedback_logs_filter"))
}

func Test_Validate_bucketNameLength(t *testing.T) {
	v := complete()
	v.LoadTestBucketSuffix = "a-very-long-suffix-that-pushes-the-joined-name-over-the-limit"
	assert.NotEmpty(t, reasons(v.Validate(), "suffix_bucket_name_load_test_results"))
}
