package recipe

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// ConsolePort is the port Cloud Run routes traffic to. The console binary
// and the build recipe must agree on it.
const ConsolePort = 8080

// Recipe describes the container image build for the console: a builder
// stage, a runtime stage with OS packages and the Cloud SDK, and a start
// command. The build is strictly linear, there is no branching.
type Recipe struct {
	Name          string   `yaml:"name"`
	BuilderImage  string   `yaml:"builderImage"`
	RuntimeImage  string   `yaml:"runtimeImage"`
	Packages      []string `yaml:"packages"`
	CloudSDK      bool     `yaml:"cloudSDK"`
	SDKComponents []string `yaml:"sdkComponents"`
	Env           []EnvVar `yaml:"env,omitempty"`
	Port          int      `yaml:"port"`
	Entrypoint    []string `yaml:"entrypoint"`
}

type EnvVar struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Default returns the recipe the shipped Dockerfile is rendered from.
// The runtime stage installs the Cloud SDK and kubectl since the console
// shells out to gcloud, gsutil, bq and kubectl at runtime.
func Default() *Recipe {
	return &Recipe{
		Name:         "console",
		BuilderImage: "golang:1.24-bookworm",
		RuntimeImage: "debian:bookworm-slim",
		Packages: []string{
			"ca-certificates",
			"curl",
			"gnupg",
		},
		CloudSDK: true,
		SDKComponents: []string{
			"google-cloud-cli-gke-gcloud-auth-plugin",
			"kubectl",
		},
		Env: []EnvVar{
			{Name: "USE_GKE_GCLOUD_AUTH_PLUGIN", Value: "True"},
		},
		Port:       ConsolePort,
		Entrypoint: []string{"/usr/local/bin/console"},
	}
}

func LoadFile(path string) (*Recipe, error) {
	body, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %s", err)
	}

	return Parse(body)
}

func Parse(body []byte) (*Recipe, error) {
	var r Recipe
	err := yaml.Unmarshal(body, &r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse recipe: %s", err)
	}

	return &r, nil
}

// InstallsCLI tells whether the rendered image will carry the named
// command line tool. gcloud, gsutil and bq ship with the Cloud SDK
// package, kubectl is a separate component.
func (r *Recipe) InstallsCLI(name string) bool {
	switch name {
	case "gcloud", "gsutil", "bq":
		return r.CloudSDK || contains(r.Packages, "google-cloud-cli")
	case "kubectl":
		return contains(r.SDKComponents, "kubectl") || contains(r.Packages, "kubectl")
	}

	return contains(r.Packages, name)
}

func contains(haystack []string, needle string) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}
