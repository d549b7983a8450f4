package connection

import (
	"fmt"
	"strings"

	giturl "github.com/whilp/git-urls"
)

// ParseRepo extracts owner and name from an "owner/name" pair or from
// any git url form (https, ssh, scp-like).
func ParseRepo(raw string) (string, string, error) {
	if !strings.Contains(raw, ":") && strings.Count(raw, "/") == 1 {
		parts := strings.Split(raw, "/")
		if parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("cannot parse repository %q", raw)
		}
		return parts[0], parts[1], nil
	}

	parsed, err := giturl.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("cannot parse repository url: %s", err)
	}

	path := strings.TrimPrefix(parsed.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse repository %q", raw)
	}

	return parts[0], parts[1], nil
}

// Report is the outcome of verifying the host connection variables
// against what the source control provider actually has.
type Report struct {
	Owner         string   `json:"owner"`
	Name          string   `json:"name"`
	RepoURL       string   `json:"repoUrl"`
	DefaultBranch string   `json:"defaultBranch"`
	Private       bool     `json:"private"`
	Installation  int64    `json:"installation,omitempty"`
	LatestCommit  *Commit  `json:"latestCommit,omitempty"`
	Notes         []string `json:"notes,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Commit is the tip of the default branch with its status check rollup,
// so operators can see whether the pipeline ran on it.
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	URL     string `json:"url"`
	Rollup  string `json:"rollup,omitempty"`
}

func (r *Report) Healthy() bool {
	return len(r.Warnings) == 0
}
