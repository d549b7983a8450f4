package recipe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gantry-io/gantry/pkg/commands"
	"github.com/gantry-io/gantry/pkg/recipe"
	"github.com/stretchr/testify/assert"
)

const wrongPort = `
name: console
builderImage: golang:1.24-bookworm
runtimeImage: debian:bookworm-slim
packages:
  - ca-certificates
cloudSDK: true
sdkComponents:
  - kubectl
port: 9000
entrypoint:
  - /usr/local/bin/console
`

func TestGenerate(t *testing.T) {
	dir, err := os.MkdirTemp("", "recipe-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	output := filepath.Join(dir, "Dockerfile")
	args := strings.Split("recipe generate", " ")
	args = append(args, "-o", output)

	err = commands.Run(&generateCmd, args)
	assert.NoError(t, err)

	written, err := os.ReadFile(output)
	assert.NoError(t, err)

	rendered, err := recipe.Default().RenderString()
	assert.NoError(t, err)
	assert.Equal(t, rendered, string(written))
	assert.Contains(t, string(written), "EXPOSE 8080")
}

func TestLint(t *testing.T) {
	// a module root that has the cmd/console package
	moduleRoot, err := os.MkdirTemp("", "recipe-lint-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(moduleRoot)
	err = os.MkdirAll(filepath.Join(moduleRoot, "cmd", "console"), 0775)
	assert.NoError(t, err)

	t.Run("Should pass the built-in recipe", func(t *testing.T) {
		args := strings.Split("recipe lint", " ")
		args = append(args, "--module-root", moduleRoot)
		err = commands.Run(&lintCmd, args)
		assert.NoError(t, err)
	})

	t.Run("Should fail on a wrong port", func(t *testing.T) {
		recipeFile := filepath.Join(moduleRoot, "recipe.yaml")
		os.WriteFile(recipeFile, []byte(wrongPort), commands.File_RW_RW_R)

		args := strings.Split("recipe lint", " ")
		args = append(args, "-c", recipeFile, "--module-root", moduleRoot)
		err = commands.Run(&lintCmd, args)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "problems found")
	})
}
