package connection

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/google/go-github/v37/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// GithubVerifier checks the host connection variables against the live
// Github state with a personal access token.
type GithubVerifier struct {
	// apiBase reroutes REST and GraphQL calls, used in tests.
	apiBase string
}

func NewGithubVerifier() *GithubVerifier {
	return &GithubVerifier{}
}

// Verify checks that the repository named by the variable set is
// reachable with the token, that the app installation on it matches
// github_app_installation_id and fetches the default branch tip with its
// status check rollup. Mismatches are collected as report warnings, only
// an unreachable repository is an error.
func (c *GithubVerifier) Verify(ctx context.Context, v *vars.VarSet, token string) (*Report, error) {
	owner := v.RepositoryOwner
	name := v.RepositoryName

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)
	if c.apiBase != "" {
		base, err := url.Parse(c.apiBase + "/")
		if err != nil {
			return nil, err
		}
		client.BaseURL = base
	}

	repo, _, err := client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("cannot reach repository %s/%s: %s", owner, name, err)
	}

	report := &Report{
		Owner:         owner,
		Name:          name,
		RepoURL:       repo.GetHTMLURL(),
		DefaultBranch: repo.GetDefaultBranch(),
		Private:       repo.GetPrivate(),
	}

	c.checkInstallation(ctx, client, v, report)

	commit, err := c.fetchDefaultBranchTip(ctx, tc, owner, name)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("cannot fetch latest commit: %s", err))
	} else {
		report.LatestCommit = commit
	}

	return report, nil
}

func (c *GithubVerifier) checkInstallation(ctx context.Context, client *github.Client, v *vars.VarSet, report *Report) {
	installation, _, err := client.Apps.FindRepositoryInstallation(ctx, v.RepositoryOwner, v.RepositoryName)
	if err != nil {
		if v.ConnectionExists {
			report.Warnings = append(report.Warnings, fmt.Sprintf("no app installation found on %s/%s: %s", v.RepositoryOwner, v.RepositoryName, err))
		} else {
			// connection_exists=false means apply time creates it
			report.Notes = append(report.Notes, "no app installation yet, it will be created at apply time")
		}
		return
	}

	report.Installation = installation.GetID()

	expected, err := strconv.ParseInt(v.GithubAppInstallationID, 0, 64)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("cannot parse installation id: %s", err))
		return
	}

	if installation.GetID() != expected {
		report.Warnings = append(report.Warnings, fmt.Sprintf("installation id mismatch: the repository carries %d, the variables say %d", installation.GetID(), expected))
	}
}

type defaultBranchQuery struct {
	Repository struct {
		DefaultBranchRef struct {
			Name   string
			Target struct {
				Commit struct {
					OID     string
					Message string
					URL     string
					Author  struct {
						User struct {
							Login string
						}
					}
					StatusCheckRollup struct {
						State string
					}
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

func (c *GithubVerifier) fetchDefaultBranchTip(ctx context.Context, httpClient *http.Client, owner string, name string) (*Commit, error) {
	var graphQLClient *githubv4.Client
	if c.apiBase != "" {
		graphQLClient = githubv4.NewEnterpriseClient(c.apiBase+"/graphql", httpClient)
	} else {
		graphQLClient = githubv4.NewClient(httpClient)
	}

	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}

	var query defaultBranchQuery
	err := graphQLClient.Query(ctx, &query, variables)
	if err != nil {
		return nil, err
	}

	tip := query.Repository.DefaultBranchRef.Target.Commit
	if tip.OID == "" {
		return nil, fmt.Errorf("the default branch has no commits")
	}

	return &Commit{
		SHA:     tip.OID,
		Message: strings.Split(tip.Message, "\n")[0],
		Author:  tip.Author.User.Login,
		URL:     tip.URL,
		Rollup:  tip.StatusCheckRollup.State,
	}, nil
}
