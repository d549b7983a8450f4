package provision

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/gantry-io/gantry/pkg/recipe"
	"github.com/gantry-io/gantry/pkg/vars"
)

// The deployment bundle is what the external provisioning pipeline
// consumes: the variable set it applies, the env file of the Cloud Run
// service and the container build recipe.
const (
	TfvarsFile     = "env.tfvars"
	ConsoleEnvFile = "console.env"
	DockerfileFile = "Dockerfile"
)

const consoleEnvTemplate = `# Environment of the {{ .env }} console service.
MODEL_PROJECT={{ .project }}
MODEL_LOCATION={{ .region }}
VARS_PATH=/etc/gantry/env.tfvars
`

var bundleTemplates = map[string]string{
	ConsoleEnvFile: consoleEnvTemplate,
}

// Generate renders the bundle files for one environment from a variable
// set. env.tfvars is written in canonical order so regenerating with the
// same inputs yields byte identical output.
func Generate(v *vars.VarSet, env string) (map[string]string, error) {
	project, err := v.ProjectFor(env)
	if err != nil {
		return nil, err
	}

	values := map[string]interface{}{
		"env":     env,
		"project": project,
		"region":  v.Region,
	}

	generatedFiles, err := generate(bundleTemplates, values)
	if err != nil {
		return nil, err
	}

	var tfvars bytes.Buffer
	err = v.WriteTfvars(&tfvars)
	if err != nil {
		return nil, err
	}
	generatedFiles[TfvarsFile] = tfvars.String()

	dockerfile, err := recipe.Default().RenderString()
	if err != nil {
		return nil, err
	}
	generatedFiles[DockerfileFile] = dockerfile

	return generatedFiles, nil
}

func generate(
	templates map[string]string,
	values map[string]interface{},
) (map[string]string, error) {
	generatedFiles := map[string]string{}

	for path, fileContent := range templates {
		templates, err := template.New(path).Funcs(sprig.TxtFuncMap()).Parse(fileContent)
		if err != nil {
			return nil, err
		}

		var templated bytes.Buffer
		err = templates.Execute(&templated, values)
		if err != nil {
			return nil, fmt.Errorf("cannot render %s: %s", path, err)
		}

		// filter empty and white space only files
		if len(strings.TrimSpace(templated.String())) != 0 {
			generatedFiles[path] = templated.String()
		}
	}

	return generatedFiles, nil
}
