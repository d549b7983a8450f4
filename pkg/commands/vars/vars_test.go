package vars

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gantry-io/gantry/pkg/commands"
	"github.com/gantry-io/gantry/pkg/provision"
	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/stretchr/testify/assert"
)

const valid = `
prod_project_id            = "acme-console-prod"
staging_project_id         = "acme-console-staging"
cicd_runner_project_id     = "acme-console-cicd"
repository_name            = "cloud-console"
repository_owner           = "acme"
github_app_installation_id = "12345678"
github_pat_secret_id       = "github-pat"
`

const invalidProjectID = `
prod_project_id            = "ACME PROD"
staging_project_id         = "acme-console-staging"
cicd_runner_project_id     = "acme-console-cicd"
repository_name            = "cloud-console"
repository_owner           = "acme"
github_app_installation_id = "12345678"
github_pat_secret_id       = "github-pat"
`

func TestLint(t *testing.T) {
	varsFile, err := os.CreateTemp("", "vars-test*.tfvars")
	if err != nil {
		t.Fatal(err)
	}

	args := strings.Split("vars lint", " ")
	args = append(args, "-f", varsFile.Name())

	t.Run("Should pass a valid variables file", func(t *testing.T) {
		os.WriteFile(varsFile.Name(), []byte(valid), commands.File_RW_RW_R)
		defer os.Remove(varsFile.Name())
		err = commands.Run(&lintCmd, args)
		assert.NoError(t, err)
	})

	t.Run("Should fail on a malformed project id", func(t *testing.T) {
		os.WriteFile(varsFile.Name(), []byte(invalidProjectID), commands.File_RW_RW_R)
		defer os.Remove(varsFile.Name())
		err = commands.Run(&lintCmd, args)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "problems found")
	})
}

func TestInit(t *testing.T) {
	dir, err := os.MkdirTemp("", "vars-init-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "gantry.vars.yaml")
	args := strings.Split("vars init", " ")
	args = append(args, "-f", path)

	err = commands.Run(&initCmd, args)
	assert.NoError(t, err)

	written, err := vars.LoadYAML(path)
	assert.NoError(t, err)
	assert.Equal(t, "europe-west8", written.Region)

	// a second run must not clobber the file
	err = commands.Run(&initCmd, args)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	tfvarsPath := filepath.Join(dir, "env.tfvars")
	args = strings.Split("vars init", " ")
	args = append(args, "-f", tfvarsPath, "--tfvars")
	err = commands.Run(&initCmd, args)
	assert.NoError(t, err)

	_, err = vars.LoadTfvars(tfvarsPath)
	assert.NoError(t, err)
}

func TestRender(t *testing.T) {
	dir, err := os.MkdirTemp("", "vars-render-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	varsFile := filepath.Join(dir, "env.tfvars")
	os.WriteFile(varsFile, []byte(valid), commands.File_RW_RW_R)
	target := filepath.Join(dir, "bundle")

	args := strings.Split("vars render", " ")
	args = append(args, "-f", varsFile, "--env", "prod", "--target", target)

	err = commands.Run(&renderCmd, args)
	assert.NoError(t, err)

	for _, file := range []string{provision.TfvarsFile, provision.ConsoleEnvFile, provision.DockerfileFile} {
		_, err = os.Stat(filepath.Join(target, file))
		assert.NoError(t, err, file)
	}

	envFile, err := os.ReadFile(filepath.Join(target, provision.ConsoleEnvFile))
	assert.NoError(t, err)
	assert.Contains(t, string(envFile), "MODEL_PROJECT=acme-console-prod")

	// rendering an unknown environment must fail
	args = strings.Split("vars render", " ")
	args = append(args, "-f", varsFile, "--env", "qa", "--target", target)
	err = commands.Run(&renderCmd, args)
	assert.Error(t, err)
}
