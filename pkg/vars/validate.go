package vars

import (
	"fmt"
	"regexp"
	"strings"
)

// Violation is one failed validity check on a variable.
type Violation struct {
	Name   string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Name, v.Reason)
}

// Platform naming rules. The provisioning pipeline fails late and cryptically
// on malformed identifiers, these catch them before apply time.
var (
	projectIDRe   = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)
	serviceAcctRe = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)
	// RE2 caps a single repeat count at 1000, so 1..1024 is split across two
	// counted classes; the accepted strings are identical.
	datasetIDRe    = regexp.MustCompile(`^[a-zA-Z0-9_]{1,512}[a-zA-Z0-9_]{0,512}$`)
	sinkNameRe     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]{0,99}$`)
	regionRe       = regexp.MustCompile(`^[a-z]+-[a-z]+\d+$`)
	secretIDRe     = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,255}$`)
	bucketSuffixRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9._-]*[a-z0-9])?$`)
	numericRe      = regexp.MustCompile(`^\d+$`)
)

// Validate runs every validity check and collects the violations instead of
// stopping at the first. An empty result means the set is safe to provision.
func (v *VarSet) Validate() []Violation {
	var violations []Violation
	add := func(name, format string, args ...interface{}) {
		violations = append(violations, Violation{Name: name, Reason: fmt.Sprintf(format, args...)})
	}

	fields := v.stringFields()
	empty := map[string]bool{}
	for _, decl := range Catalog() {
		if decl.Type == "bool" {
			continue
		}
		if *fields[decl.Name] == "" {
			empty[decl.Name] = true
			add(decl.Name, "must not be empty")
		}
	}

	checkFormat := func(name string, re *regexp.Regexp, what string) {
		if empty[name] {
			return
		}
		if !re.MatchString(*fields[name]) {
			add(name, "%q is not a valid %s", *fields[name], what)
		}
	}

	checkFormat("prod_project_id", projectIDRe, "project id")
	checkFormat("staging_project_id", projectIDRe, "project id")
	checkFormat("cicd_runner_project_id", projectIDRe, "project id")
	checkFormat("github_app_installation_id", numericRe, "installation id, expected digits only")
	checkFormat("github_pat_secret_id", secretIDRe, "secret id")
	checkFormat("region", regionRe, "region")
	checkFormat("cloud_run_app_sa_name", serviceAcctRe, "service account name")
	checkFormat("cicd_runner_sa_name", serviceAcctRe, "service account name")
	checkFormat("telemetry_bigquery_dataset_id", datasetIDRe, "dataset id")
	checkFormat("feedback_bigquery_dataset_id", datasetIDRe, "dataset id")
	checkFormat("telemetry_sink_name", sinkNameRe, "sink name")
	checkFormat("feedback_sink_name", sinkNameRe, "sink name")
	checkFormat("suffix_bucket_name_load_test_results", bucketSuffixRe, "bucket name suffix")

	if !empty["staging_project_id"] && v.StagingProjectID == v.ProdProjectID {
		add("staging_project_id", "staging and prod must be separate projects")
	}

	if !empty["suffix_bucket_name_load_test_results"] && !empty["cicd_runner_project_id"] {
		if bucket := v.LoadTestResultsBucket(); len(bucket) > 63 {
			add("suffix_bucket_name_load_test_results", "bucket name %q exceeds 63 characters", bucket)
		}
	}

	// A filter that doesn't select the log_type the console emits routes
	// nothing into its dataset.
	if !empty["telemetry_logs_filter"] && !strings.Contains(v.TelemetryLogsFilter, TelemetryLogType) {
		add("telemetry_logs_filter", "filter does not reference log_type %q", TelemetryLogType)
	}
	if !empty["feedback_logs_filter"] && !strings.Contains(v.FeedbackLogsFilter, FeedbackLogType) {
		add("feedback_logs_filter", "filter does not reference log_type %q", FeedbackLogType)
	}

	return violations
}
