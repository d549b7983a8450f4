package connection

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/stretchr/testify/assert"
)

func Test_ParseRepo(t *testing.T) {
	cases := []struct {
		raw   string
		owner string
		name  string
	}{
		{"acme/cloud-console", "acme", "cloud-console"},
		{"https://github.com/acme/cloud-console", "acme", "cloud-console"},
		{"https://github.com/acme/cloud-console.git", "acme", "cloud-console"},
		{"git@github.com:acme/cloud-console.git", "acme", "cloud-console"},
	}

	for _, c := range cases {
		owner, name, err := ParseRepo(c.raw)
		assert.Nil(t, err, c.raw)
		assert.Equal(t, c.owner, owner)
		assert.Equal(t, c.name, name)
	}
}

func Test_ParseRepo_invalid(t *testing.T) {
	for _, raw := range []string{"acme", "acme/", "/cloud-console", "https://github.com/acme"} {
		_, _, err := ParseRepo(raw)
		assert.NotNil(t, err, raw)
	}
}

func testVars() *vars.VarSet {
	v := vars.Default()
	v.ProdProjectID = "acme-console-prod"
	v.StagingProjectID = "acme-console-staging"
	v.CICDRunnerProjectID = "acme-console-cicd"
	v.RepositoryName = "cloud-console"
	v.RepositoryOwner = "acme"
	v.GithubAppInstallationID = "12345678"
	v.ConnectionExists = true
	return v
}

func fakeGithub(t *testing.T, installationID int64, installed bool) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/cloud-console", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"name": "cloud-console",
			"full_name": "acme/cloud-console",
			"default_branch": "main",
			"private": true,
			"html_url": "https://github.com/acme/cloud-console"
		}`)
	})
	mux.HandleFunc("/repos/acme/cloud-console/installation", func(w http.ResponseWriter, r *http.Request) {
		if !installed {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Not Found"}`)
			return
		}
		fmt.Fprintf(w, `{"id": %d}`, installationID)
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"repository": {"defaultBranchRef": {
			"name": "main",
			"target": {
				"oid": "25a913a5e052d3f5b9c4880377542f3ed8389d2b",
				"message": "Tighten command validation\n\nLonger body",
				"url": "https://github.com/acme/cloud-console/commit/25a913a",
				"author": {"user": {"login": "acme-dev"}},
				"statusCheckRollup": {"state": "SUCCESS"}
			}
		}}}}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func Test_Verify(t *testing.T) {
	server := fakeGithub(t, 12345678, true)
	verifier := &GithubVerifier{apiBase: server.URL}

	report, err := verifier.Verify(context.Background(), testVars(), "token")
	assert.Nil(t, err)

	assert.True(t, report.Healthy())
	assert.Equal(t, "main", report.DefaultBranch)
	assert.Equal(t, int64(12345678), report.Installation)
	assert.Equal(t, "25a913a5e052d3f5b9c4880377542f3ed8389d2b", report.LatestCommit.SHA)
	assert.Equal(t, "Tighten command validation", report.LatestCommit.Message)
	assert.Equal(t, "acme-dev", report.LatestCommit.Author)
	assert.Equal(t, "SUCCESS", report.LatestCommit.Rollup)
}

func Test_Verify_installationMismatch(t *testing.T) {
	server := fakeGithub(t, 999, true)
	verifier := &GithubVerifier{apiBase: server.URL}

	report, err := verifier.Verify(context.Background(), testVars(), "token")
	assert.Nil(t, err)

	assert.False(t, report.Healthy())
	assert.Contains(t, report.Warnings[0], "installation id mismatch")
	assert.Contains(t, report.Warnings[0], "999")
}

func Test_Verify_missingInstallation(t *testing.T) {
	server := fakeGithub(t, 0, false)

	v := testVars()
	verifier := &GithubVerifier{apiBase: server.URL}

	report, err := verifier.Verify(context.Background(), v, "token")
	assert.Nil(t, err)
	assert.False(t, report.Healthy())
	assert.Contains(t, report.Warnings[0], "no app installation found")

	// the connection is declared to not exist yet, a missing
	// installation is expected then
	v.ConnectionExists = false
	report, err = verifier.Verify(context.Background(), v, "token")
	assert.Nil(t, err)
	assert.True(t, report.Healthy())
	assert.Contains(t, report.Notes[0], "created at apply time")
}

func Test_Verify_unreachableRepo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/cloud-console", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	verifier := &GithubVerifier{apiBase: server.URL}
	_, err := verifier.Verify(context.Background(), testVars(), "token")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "cannot reach repository acme/cloud-console")
}
