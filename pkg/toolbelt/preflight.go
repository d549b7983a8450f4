package toolbelt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blang/semver/v4"
)

// PreflightReport is the state of the tools the console depends on,
// checked at boot and on demand.
type PreflightReport struct {
	Tools         map[string]bool   `json:"tools"`
	SDKVersion    string            `json:"sdkVersion,omitempty"`
	MinSDKVersion string            `json:"minSdkVersion,omitempty"`
	UpToDate      bool              `json:"upToDate"`
	Components    map[string]string `json:"components,omitempty"`
	Error         string            `json:"error,omitempty"`
	Healthy       bool              `json:"healthy"`
}

// Preflight checks that every tool is on the PATH and that the installed
// Cloud SDK is not older than minSDKVersion (empty skips the version
// check). The report is advisory, the console serves requests either way.
func (t *Toolbelt) Preflight(ctx context.Context, minSDKVersion string) *PreflightReport {
	report := &PreflightReport{
		Tools:         map[string]bool{},
		MinSDKVersion: minSDKVersion,
		UpToDate:      true,
	}

	healthy := true
	for _, tool := range validTools {
		_, _, err := t.runner.Run(ctx, "command -v "+tool)
		report.Tools[tool] = err == nil
		if err != nil {
			healthy = false
		}
	}

	stdout, stderr, err := t.runner.Run(ctx, "gcloud version --format=json")
	if err != nil {
		if stderr != "" {
			report.Error = stderr
		} else {
			report.Error = err.Error()
		}
		report.Healthy = false
		return report
	}

	var components map[string]string
	err = json.Unmarshal([]byte(stdout), &components)
	if err != nil {
		report.Error = fmt.Sprintf("cannot parse gcloud version output: %s", err)
		report.Healthy = false
		return report
	}

	report.Components = components
	report.SDKVersion = components["Google Cloud SDK"]

	if minSDKVersion != "" && report.SDKVersion != "" {
		min, minErr := semver.Make(minSDKVersion)
		current, curErr := semver.Make(report.SDKVersion)
		if minErr == nil && curErr == nil && current.LT(min) {
			report.UpToDate = false
			healthy = false
		}
	}

	report.Healthy = healthy
	return report
}
