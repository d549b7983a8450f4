package recipe

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// consoleCLIs are the tools the console shells out to at runtime. An
// image missing any of them boots fine and then fails on the first
// command, so the lint catches it at build time instead.
var consoleCLIs = []string{"gcloud", "gsutil", "bq", "kubectl"}

// Lint runs the structural checks on a recipe: the image must expose the
// port Cloud Run routes to, the entry command must reference a cmd package
// that exists under moduleRoot, and every tool the console executes must
// be installed by the recipe.
func (r *Recipe) Lint(moduleRoot string) []string {
	findings := []string{}

	if r.Name == "" {
		findings = append(findings, "name must not be empty")
	}
	if r.BuilderImage == "" {
		findings = append(findings, "builder image must not be empty")
	}
	if r.RuntimeImage == "" {
		findings = append(findings, "runtime image must not be empty")
	}
	if len(r.Packages) == 0 {
		findings = append(findings, "no OS packages installed, the runtime needs at least ca-certificates")
	}

	if r.Port != ConsolePort {
		findings = append(findings, fmt.Sprintf("the service listens on port %d, the recipe exposes %d", ConsolePort, r.Port))
	}

	if len(r.Entrypoint) == 0 {
		findings = append(findings, "entrypoint must not be empty")
	} else {
		binary := path.Base(r.Entrypoint[0])
		cmdPath := filepath.Join(moduleRoot, "cmd", binary)
		if info, err := os.Stat(cmdPath); err != nil || !info.IsDir() {
			findings = append(findings, fmt.Sprintf("entry command %q does not reference an existing cmd/%s package", r.Entrypoint[0], binary))
		}
	}

	for _, cli := range consoleCLIs {
		if !r.InstallsCLI(cli) {
			findings = append(findings, fmt.Sprintf("the console shells out to %s but the recipe does not install it", cli))
		}
	}

	return findings
}
