package provision

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
)

func testVars() *vars.VarSet {
	v := vars.Default()
	v.ProdProjectID = "acme-console-prod"
	v.StagingProjectID = "acme-console-staging"
	v.CICDRunnerProjectID = "acme-console-cicd"
	v.RepositoryName = "cloud-console"
	v.RepositoryOwner = "acme"
	v.GithubAppInstallationID = "12345678"
	return v
}

func Test_Generate(t *testing.T) {
	files, err := Generate(testVars(), vars.EnvProd)
	assert.Nil(t, err)
	assert.Len(t, files, 3)

	assert.Contains(t, files[TfvarsFile], `prod_project_id = "acme-console-prod"`)
	assert.Contains(t, files[ConsoleEnvFile], "MODEL_PROJECT=acme-console-prod")
	assert.Contains(t, files[ConsoleEnvFile], "MODEL_LOCATION=europe-west8")
	assert.Contains(t, files[DockerfileFile], "EXPOSE 8080")
}

func Test_Generate_perEnvironment(t *testing.T) {
	files, err := Generate(testVars(), vars.EnvStaging)
	assert.Nil(t, err)
	assert.Contains(t, files[ConsoleEnvFile], "MODEL_PROJECT=acme-console-staging")
}

func Test_Generate_unknownEnvironment(t *testing.T) {
	_, err := Generate(testVars(), "qa")
	assert.NotNil(t, err)
}

func Test_WriteBundle(t *testing.T) {
	targetPath := t.TempDir()

	err := WriteBundle(testVars(), vars.EnvProd, targetPath)
	assert.Nil(t, err)

	for _, file := range []string{TfvarsFile, ConsoleEnvFile, DockerfileFile} {
		_, err := os.Stat(filepath.Join(targetPath, file))
		assert.Nil(t, err)

		// the generation baseline is kept for the next merge
		_, err = os.Stat(filepath.Join(targetPath, gantryDir, file))
		assert.Nil(t, err)
	}
}

func Test_WriteBundle_preservesCustomChanges(t *testing.T) {
	targetPath := t.TempDir()
	v := testVars()

	err := WriteBundle(v, vars.EnvProd, targetPath)
	assert.Nil(t, err)

	// a manual edit on top of the generated env file
	envPath := filepath.Join(targetPath, ConsoleEnvFile)
	content, err := ioutil.ReadFile(envPath)
	assert.Nil(t, err)
	custom := string(content) + "DEBUG=true\n"
	err = ioutil.WriteFile(envPath, []byte(custom), 0664)
	assert.Nil(t, err)

	v.Region = "us-central1"
	err = WriteBundle(v, vars.EnvProd, targetPath)
	assert.Nil(t, err)

	merged, err := ioutil.ReadFile(envPath)
	assert.Nil(t, err)
	assert.Contains(t, string(merged), "MODEL_LOCATION=us-central1")
	assert.Contains(t, string(merged), "DEBUG=true")
	assert.NotContains(t, string(merged), "<<<<<<<")
}

func Test_WriteBundle_regenerationIsStable(t *testing.T) {
	targetPath := t.TempDir()
	v := testVars()

	err := WriteBundle(v, vars.EnvProd, targetPath)
	assert.Nil(t, err)
	first, err := ioutil.ReadFile(filepath.Join(targetPath, TfvarsFile))
	assert.Nil(t, err)

	err = WriteBundle(v, vars.EnvProd, targetPath)
	assert.Nil(t, err)
	second, err := ioutil.ReadFile(filepath.Join(targetPath, TfvarsFile))
	assert.Nil(t, err)

	assert.Equal(t, string(first), string(second))
}

func Test_CommitBundle(t *testing.T) {
	targetPath := t.TempDir()
	repo, err := git.PlainInit(targetPath, false)
	assert.Nil(t, err)

	err = WriteBundle(testVars(), vars.EnvProd, targetPath)
	assert.Nil(t, err)

	sha, err := CommitBundle(targetPath)
	assert.Nil(t, err)
	assert.NotEqual(t, "", sha)

	head, err := repo.Head()
	assert.Nil(t, err)
	lastCommit, err := repo.CommitObject(head.Hash())
	assert.Nil(t, err)
	assert.Equal(t, "Updating deployment bundle", lastCommit.Message)

	// nothing changed, nothing to commit
	sha, err = CommitBundle(targetPath)
	assert.Nil(t, err)
	assert.Equal(t, "", sha)
}

func Test_CommitBundle_notARepository(t *testing.T) {
	_, err := CommitBundle(t.TempDir())
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "is not a git repository")
}
